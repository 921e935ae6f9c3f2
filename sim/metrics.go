package sim

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "vav_"

const (
	skipReasonCommanded = "commanded"
	skipReasonError     = "error"

	writeResultOK       = "ok"
	writeResultRejected = "rejected"
	writeResultNotFound = "not_found"
)

// Metrics instruments one engine instance. All collectors are registered
// on the registerer passed to NewMetrics, so tests can use private
// registries and multiple engines never collide.
type Metrics struct {
	ticksTotal       prometheus.Counter
	tickDuration     prometheus.Histogram
	pointUpdates     *prometheus.CounterVec
	updatesSkipped   *prometheus.CounterVec
	externalWrites   *prometheus.CounterVec
	pointsRegistered *prometheus.GaugeVec
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "ticks_total",
			Help: "Total completed simulation ticks",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "tick_duration_seconds",
			Help:    "Wall-clock duration of one tick",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
		pointUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "point_updates_total",
			Help: "Simulator-driven point updates by object kind",
		}, []string{"kind"}),
		updatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "updates_skipped_total",
			Help: "Point updates withheld, by reason",
		}, []string{"reason"}),
		externalWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "external_writes_total",
			Help: "External priority-array writes by result",
		}, []string{"result"}),
		pointsRegistered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricPrefix + "points_registered",
			Help: "Registered points by object kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.ticksTotal,
		m.tickDuration,
		m.pointUpdates,
		m.updatesSkipped,
		m.externalWrites,
		m.pointsRegistered,
	)
	return m
}

// ObserveTick records one completed tick and its duration.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// ObservePointUpdate counts one simulator-driven update.
func (m *Metrics) ObservePointUpdate(kind PointKind) {
	m.pointUpdates.WithLabelValues(kind.String()).Inc()
}

// ObserveSkip counts one withheld update.
func (m *Metrics) ObserveSkip(reason string) {
	m.updatesSkipped.WithLabelValues(reason).Inc()
}

// ObserveExternalWrite counts one external write attempt by result.
func (m *Metrics) ObserveExternalWrite(result string) {
	m.externalWrites.WithLabelValues(result).Inc()
}

// SetPointsRegistered records the registry population for one kind.
func (m *Metrics) SetPointsRegistered(kind PointKind, n int) {
	m.pointsRegistered.WithLabelValues(kind.String()).Set(float64(n))
}
