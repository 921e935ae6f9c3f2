package sim

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Definition is one point-definition record, as produced by the loader
// collaborator before the engine starts.
type Definition struct {
	Kind         PointKind
	Instance     uint32
	Name         string
	Description  string
	Unit         Unit
	InitialValue float64
	StateText    []string
}

// Point is one simulated BACnet-style object.
//
// Values are float64 across all kinds: binary points hold 0 or 1,
// multistate points hold a whole number in [1, state count]. Identity
// fields are immutable after construction; the priority array and the
// simulator-owned present value are guarded by a per-point mutex so an
// engine tick never observes a torn external write.
type Point struct {
	kind        PointKind
	instance    uint32
	name        string
	description string
	unit        Unit
	stateText   []string

	mu                sync.Mutex
	priority          [prioritySlots]*float64 // commandable kinds only; index 0 = slot 1
	relinquishDefault float64
	present           float64 // tracked position; the effective value for Input kinds and the drive baseline for the rest
	lastUpdate        time.Time
	nextTransition    float64 // multistate: elapsed-seconds deadline, 0 = not yet drawn
}

// NewPoint validates a definition and constructs the point. Malformed
// definitions fail here, before registration, never during simulation.
func NewPoint(def Definition) (*Point, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	}
	if math.IsNaN(def.InitialValue) || math.IsInf(def.InitialValue, 0) {
		return nil, fmt.Errorf("%w: %s %q has non-finite initial value", ErrInvalidDefinition, def.Kind, def.Name)
	}

	initial := def.InitialValue
	var states []string
	switch {
	case def.Kind.IsMultistate():
		if len(def.StateText) == 0 {
			return nil, fmt.Errorf("%w: multistate %q has no states", ErrInvalidDefinition, def.Name)
		}
		states = append(states, def.StateText...)
		// Forgiving seed handling: building exports routinely carry 0 or a
		// stale index in the PresentValue column.
		initial = math.Round(initial)
		if initial < 1 {
			initial = 1
		}
		if initial > float64(len(states)) {
			initial = float64(len(states))
		}
	case def.Kind.IsBinary():
		if initial != 0 {
			initial = 1
		}
	}

	desc := def.Description
	if desc == "" {
		desc = def.Name
	}

	p := &Point{
		kind:              def.Kind,
		instance:          def.Instance,
		name:              def.Name,
		description:       desc,
		unit:              def.Unit,
		stateText:         states,
		relinquishDefault: initial,
		present:           initial,
	}
	return p, nil
}

func (p *Point) Kind() PointKind     { return p.kind }
func (p *Point) Instance() uint32    { return p.instance }
func (p *Point) Name() string        { return p.name }
func (p *Point) Description() string { return p.description }
func (p *Point) Unit() Unit          { return p.unit }

// StateCount returns the number of multistate states (0 for other kinds).
func (p *Point) StateCount() int { return len(p.stateText) }

// StateText returns a copy of the 1-indexed state name list.
func (p *Point) StateText() []string {
	out := make([]string, len(p.stateText))
	copy(out, p.stateText)
	return out
}

// RelinquishDefault is the value used when all 16 priority slots are empty.
func (p *Point) RelinquishDefault() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.relinquishDefault
}

// LastUpdate is the wall-clock time of the last simulator-driven mutation.
func (p *Point) LastUpdate() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUpdate
}

// EffectiveValue is the externally visible value: the present value for
// Input kinds, otherwise the priority resolution of §resolveLocked.
func (p *Point) EffectiveValue() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolveLocked()
}

// WritePriority stores a value in priority slot 1..16. This is the entry
// point for external protocol writes; the engine itself only ever writes
// slot 16 through simulate.
func (p *Point) WritePriority(slot int, value float64) error {
	if slot < 1 || slot > prioritySlots {
		return fmt.Errorf("%w: slot %d", ErrInvalidPriority, slot)
	}
	if p.kind.IsInput() {
		return fmt.Errorf("%w: %s %d", ErrReadOnly, p.kind, p.instance)
	}
	if err := p.checkValue(value); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	v := value
	p.priority[slot-1] = &v
	return nil
}

// ClearPriority releases priority slot 1..16 (relinquish).
func (p *Point) ClearPriority(slot int) error {
	if slot < 1 || slot > prioritySlots {
		return fmt.Errorf("%w: slot %d", ErrInvalidPriority, slot)
	}
	if p.kind.IsInput() {
		return fmt.Errorf("%w: %s %d", ErrReadOnly, p.kind, p.instance)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.priority[slot-1] = nil
	return nil
}

// SlotValue probes a single priority slot without resolving. The second
// return is false when the slot is empty or the point has no priority array.
func (p *Point) SlotValue(slot int) (float64, bool) {
	if slot < 1 || slot > prioritySlots || p.kind.IsInput() {
		return 0, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if v := p.priority[slot-1]; v != nil {
		return *v, true
	}
	return 0, false
}

// checkValue enforces the kind's value domain for external writes.
func (p *Point) checkValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: non-finite value for %s", ErrTypeMismatch, p.kind)
	}
	switch {
	case p.kind.IsBinary():
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: binary value must be 0 or 1, got %v", ErrTypeMismatch, v)
		}
	case p.kind.IsMultistate():
		if v != math.Trunc(v) || v < 1 || v > float64(len(p.stateText)) {
			return fmt.Errorf("%w: multistate value %v outside [1, %d]", ErrTypeMismatch, v, len(p.stateText))
		}
	}
	return nil
}

// simulate applies one engine update atomically. It re-evaluates drive
// permission under the point's lock, computes the new value from the
// point's tracked position, and lands the result in the present value
// (Input kinds) or slot 16 (commandable kinds). The permission check and
// the write happen under one lock acquisition so a concurrent external
// write can never interleave between them.
//
// While a higher-priority command is active the point is not driven, but
// its tracked position follows the commanded value: a relinquished
// actuator resumes simulation from where the command left it, not from
// the relinquish default.
func (p *Point) simulate(priorityAware bool, now time.Time, fn func(current float64) float64) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drivePermittedLocked(priorityAware) {
		p.present = p.resolveLocked()
		return 0, false
	}
	v := fn(p.present)
	if !p.kind.IsInput() {
		p.priority[prioritySlots-1] = &v
	}
	p.present = v
	p.lastUpdate = now
	return v, true
}
