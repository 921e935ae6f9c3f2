package telemetry

import (
	"errors"
	"sync"
)

// FakePublisher records events in memory for tests.
type FakePublisher struct {
	mu     sync.Mutex
	events []ValueEvent

	// FailPublish makes every Publish call return an error.
	FailPublish bool
	closed      bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (p *FakePublisher) Publish(ev ValueEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailPublish {
		return errors.New("fake publish failure")
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *FakePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Events returns a copy of everything published so far.
func (p *FakePublisher) Events() []ValueEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ValueEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Closed reports whether Close was called.
func (p *FakePublisher) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
