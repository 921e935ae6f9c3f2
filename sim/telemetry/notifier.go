package telemetry

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim"
)

type pointKey struct {
	kind     sim.PointKind
	instance uint32
}

// Notifier implements sim.TickObserver: after each tick it scans the
// registry's effective values and publishes one event per point whose
// value changed since the last scan. Publish failures are logged and
// never interrupt the simulation.
type Notifier struct {
	registry *sim.Registry
	pub      Publisher
	last     map[pointKey]float64
}

func NewNotifier(registry *sim.Registry, pub Publisher) *Notifier {
	return &Notifier{
		registry: registry,
		pub:      pub,
		last:     make(map[pointKey]float64),
	}
}

// ObserveTick publishes change-of-value events for the completed tick.
func (n *Notifier) ObserveTick(tick uint64) {
	now := time.Now()
	for _, kind := range sim.AllKinds() {
		for _, s := range n.registry.ListPoints(kind) {
			key := pointKey{s.Kind, s.Instance}
			prev, seen := n.last[key]
			if seen && prev == s.Value {
				continue
			}
			n.last[key] = s.Value

			ev := ValueEvent{
				Object:    s.Kind.String(),
				Instance:  s.Instance,
				Name:      s.Name,
				Value:     s.Value,
				Tick:      tick,
				Timestamp: now,
			}
			if err := n.pub.Publish(ev); err != nil {
				logrus.Warnf("cov publish %s %d: %v", s.Kind, s.Instance, err)
			}
		}
	}
}
