package sim

import (
	"fmt"
	"math"
	"time"
)

// Update rules, one per point kind, selected through the engine's dispatch
// table. Each rule computes the next value from the current effective value
// and lands it through Point.simulate, which enforces the priority drive
// permission and picks the destination (present value for Inputs, slot 16
// for commandable kinds).

// Coupling of indoor temperature targets to the outdoor cycle: space
// temperatures drift toward comfort shifted a fraction of the way to the
// outdoor temperature.
const (
	comfortTemperature = 22.0
	outdoorCoupling    = 0.15
)

type updateRule func(p *Point, now time.Time) (driven bool, err error)

// uniform returns a draw from [-span, +span).
func (e *Engine) uniform(span float64) float64 {
	return (e.rng.Float64()*2 - 1) * span
}

// updateAnalogInput jitters the value by a fraction of the unit's nominal
// scale, then applies the unit-specific shape: temperature points drift
// toward an outdoor-coupled target, humidity points track the environment
// walk, flow points pick up multiplicative noise.
func (e *Engine) updateAnalogInput(p *Point, now time.Time) (bool, error) {
	_, driven := p.simulate(e.cfg.PriorityAwareSimulation, now, func(cur float64) float64 {
		next := cur + e.uniform(e.cfg.AIVariationRange*p.Unit().NominalScale())
		switch p.Unit() {
		case UnitTemperature:
			target := comfortTemperature + (e.env.OutdoorTemperature()-comfortTemperature)*outdoorCoupling
			next += (target - next) * e.cfg.TemperatureDriftRate
		case UnitHumidity:
			next += (e.env.OutdoorHumidity() - next) * e.cfg.TemperatureDriftRate
		case UnitFlow:
			next *= 1 + e.uniform(e.cfg.FlowVariationFactor)
			if next < 0 {
				next = 0
			}
		}
		return next
	})
	return driven, nil
}

// updateAnalogCommandable drifts an eligible output/value by a fraction of
// its current magnitude, written to slot 16.
func (e *Engine) updateAnalogCommandable(p *Point, now time.Time) (bool, error) {
	_, driven := p.simulate(e.cfg.PriorityAwareSimulation, now, func(cur float64) float64 {
		scale := math.Abs(cur)
		if scale == 0 {
			scale = p.Unit().NominalScale()
		}
		return cur + e.uniform(e.cfg.AOPriority16Variation*scale)
	})
	return driven, nil
}

// updateBinary performs one independent Bernoulli trial per tick: with
// probability BinaryFlipProbability the state inverts, otherwise it is
// rewritten unchanged. Shared by Input, Output and Value kinds.
func (e *Engine) updateBinary(p *Point, now time.Time) (bool, error) {
	_, driven := p.simulate(e.cfg.PriorityAwareSimulation, now, func(cur float64) float64 {
		if e.rng.Float64() < e.cfg.BinaryFlipProbability {
			if cur == 0 {
				return 1
			}
			return 0
		}
		if cur != 0 {
			return 1
		}
		return 0
	})
	return driven, nil
}

// updateMultistate holds the state until a per-point deadline drawn around
// MultistateChangeInterval expires, then advances cyclically
// (state % N + 1). Out-of-range states are clamped back into
// [1, state count], never propagated. Shared by Input, Output and Value
// kinds.
func (e *Engine) updateMultistate(p *Point, now time.Time) (bool, error) {
	n := float64(p.StateCount())
	if n < 1 {
		return false, fmt.Errorf("%s %d has no states", p.Kind(), p.Instance())
	}
	elapsed := e.env.Elapsed()
	_, driven := p.simulate(e.cfg.PriorityAwareSimulation, now, func(cur float64) float64 {
		state := math.Round(cur)
		if state < 1 {
			state = 1
		}
		if state > n {
			state = n
		}
		if p.nextTransition == 0 {
			p.nextTransition = elapsed + e.transitionInterval()
			return state
		}
		if elapsed >= p.nextTransition {
			state = math.Mod(state, n) + 1
			p.nextTransition = elapsed + e.transitionInterval()
		}
		return state
	})
	return driven, nil
}

// transitionInterval draws one multistate hold duration: uniform in
// [0.5, 1.5] times the configured mean.
func (e *Engine) transitionInterval() float64 {
	return e.cfg.MultistateChangeInterval * (0.5 + e.rng.Float64())
}
