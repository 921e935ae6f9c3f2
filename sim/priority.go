package sim

// prioritySlots is the fixed BACnet command priority array size.
// Slot 1 is the highest priority, slot 16 the lowest; the simulator's
// automatic drive always lands in slot 16.
const prioritySlots = 16

// resolveLocked computes the effective value. For Input kinds that is the
// simulator-owned present value. For commandable kinds the lowest-numbered
// non-empty slot wins; with all 16 slots empty the relinquish default
// applies. The array is scanned fresh on every call, never cached.
//
// Callers must hold p.mu.
func (p *Point) resolveLocked() float64 {
	if p.kind.IsInput() {
		return p.present
	}
	for _, v := range p.priority {
		if v != nil {
			return *v
		}
	}
	return p.relinquishDefault
}

// drivePermittedLocked decides whether the engine may drive this point on
// the current tick. Input kinds are always simulator-driven. Commandable
// kinds may only be driven while slots 1..15 are all empty, so that
// automatic control (slot 16) never shadows a live external command and
// resumes the instant the command is relinquished. Legacy mode
// (priorityAware=false) bypasses the check and drives unconditionally.
//
// Callers must hold p.mu.
func (p *Point) drivePermittedLocked(priorityAware bool) bool {
	if p.kind.IsInput() {
		return true
	}
	if !priorityAware {
		return true
	}
	for slot := 0; slot < prioritySlots-1; slot++ {
		if p.priority[slot] != nil {
			return false
		}
	}
	return true
}

// DrivePermitted reports whether the engine would be allowed to drive the
// point right now under priority-aware rules. Exposed for enumeration and
// diagnostics; the engine itself re-checks under the lock inside simulate.
func (p *Point) DrivePermitted(priorityAware bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drivePermittedLocked(priorityAware)
}
