package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// TickObserver is notified after every completed tick. The telemetry
// bridge implements it to deliver change-of-value notifications.
type TickObserver interface {
	ObserveTick(tick uint64)
}

type pointKey struct {
	Kind     PointKind
	Instance uint32
}

// Engine advances every registered point by one logical tick of
// StepInterval seconds. It owns the environment model and all mutable
// simulation state, so independent engines can coexist in one process.
//
// Ticks never overlap: Run drives Tick from a single goroutine and a slow
// tick simply defers the next one. External priority writes are concurrent
// with tick execution and serialize on each point's own lock.
type Engine struct {
	registry *Registry
	cfg      Config
	prng     *PartitionedRNG
	rng      *rand.Rand
	env      *Environment
	rules    map[PointKind]updateRule

	metrics  *Metrics
	observer TickObserver
	profile  *VAVProfile
	managed  map[pointKey]struct{}

	tickCount uint64
}

// NewEngine builds an engine over a populated registry. The key seeds all
// randomness; equal keys reproduce equal runs.
func NewEngine(registry *Registry, cfg Config, key SimulationKey) *Engine {
	prng := NewPartitionedRNG(key)
	e := &Engine{
		registry: registry,
		cfg:      cfg,
		prng:     prng,
		rng:      prng.ForSubsystem(SubsystemPoints),
		env:      NewEnvironment(cfg, prng.ForSubsystem(SubsystemEnvironment)),
		managed:  make(map[pointKey]struct{}),
	}
	e.rules = map[PointKind]updateRule{
		AnalogInput:      e.updateAnalogInput,
		AnalogOutput:     e.updateAnalogCommandable,
		AnalogValue:      e.updateAnalogCommandable,
		BinaryInput:      e.updateBinary,
		BinaryOutput:     e.updateBinary,
		BinaryValue:      e.updateBinary,
		MultistateInput:  e.updateMultistate,
		MultistateOutput: e.updateMultistate,
		MultistateValue:  e.updateMultistate,
	}
	return e
}

// Environment exposes the engine-owned environment model.
func (e *Engine) Environment() *Environment { return e.env }

// SubsystemRNG hands out a deterministic RNG stream tied to this engine's
// simulation key, for collaborators like the VAV profile.
func (e *Engine) SubsystemRNG(name string) *rand.Rand {
	return e.prng.ForSubsystem(name)
}

// Registry exposes the engine's point registry.
func (e *Engine) Registry() *Registry { return e.registry }

// TickCount reports completed ticks.
func (e *Engine) TickCount() uint64 { return e.tickCount }

// SetMetrics attaches instrumentation. Optional; nil disables.
func (e *Engine) SetMetrics(m *Metrics) {
	e.metrics = m
	e.registry.SetMetrics(m)
	if m != nil {
		for _, kind := range AllKinds() {
			m.SetPointsRegistered(kind, len(e.registry.AllOf(kind)))
		}
	}
}

// SetObserver attaches a per-tick observer. Optional.
func (e *Engine) SetObserver(o TickObserver) {
	e.observer = o
}

// AttachProfile binds a closed-loop VAV profile. Points managed by the
// profile are exempt from the generic per-kind rules; the profile drives
// them itself after each generic pass, still through the slot-16
// permission path.
func (e *Engine) AttachProfile(p *VAVProfile) {
	e.profile = p
	for _, pt := range p.Managed() {
		e.managed[pointKey{pt.Kind(), pt.Instance()}] = struct{}{}
	}
}

// Tick runs one full simulation step: the environment advances exactly
// once, then every eligible point is updated through its kind's rule. A
// failure updating one point is logged and skipped; it never stops the
// rest of the registry from ticking.
func (e *Engine) Tick() {
	start := time.Now()
	e.env.Advance(e.cfg.StepInterval)

	for _, p := range e.registry.Points() {
		if _, ok := e.managed[pointKey{p.Kind(), p.Instance()}]; ok {
			continue
		}
		rule := e.rules[p.Kind()]
		driven, err := rule(p, start)
		if err != nil {
			logrus.Warnf("[tick %07d] update %s %d failed: %v", e.tickCount, p.Kind(), p.Instance(), err)
			if e.metrics != nil {
				e.metrics.ObserveSkip(skipReasonError)
			}
			continue
		}
		if e.metrics != nil {
			if driven {
				e.metrics.ObservePointUpdate(p.Kind())
			} else {
				e.metrics.ObserveSkip(skipReasonCommanded)
			}
		}
	}

	if e.profile != nil {
		e.profile.Step(e.env, e.cfg, start)
	}

	e.tickCount++
	logrus.Debugf("[tick %07d] outdoor=%.2f humidity=%.1f", e.tickCount,
		e.env.OutdoorTemperature(), e.env.OutdoorHumidity())
	if e.metrics != nil {
		e.metrics.ObserveTick(time.Since(start))
	}
	if e.observer != nil {
		e.observer.ObserveTick(e.tickCount)
	}
}

// Run drives ticks on a fixed cadence until the context is cancelled. The
// in-flight tick always completes before Run returns, so no point is left
// in a torn cross-field state. If a tick overruns the interval the next
// tick is deferred, never run concurrently.
func (e *Engine) Run(ctx context.Context) {
	interval := time.Duration(e.cfg.StepInterval * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.Infof("engine started: %d points, step=%v, priorityAware=%v",
		e.registry.Len(), interval, e.cfg.PriorityAwareSimulation)

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("[tick %07d] engine stopped", e.tickCount)
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}
