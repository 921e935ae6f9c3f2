package sim

import (
	"fmt"
	"sync"
)

// Summary is a read-only snapshot of one point, used for enumeration and
// discovery by the protocol-stack collaborator.
type Summary struct {
	Kind        PointKind
	Instance    uint32
	Name        string
	Description string
	Unit        Unit
	StateCount  int
	Value       float64
}

// Registry owns the set of points for one device. Instances are unique
// within each kind's namespace. Points are registered once at startup and
// live for the process lifetime; there is no removal.
//
// The registry also carries the external read/write surface consumed by
// the protocol stack: GetEffectiveValue, WritePriority, ClearPriority and
// ListPoints.
type Registry struct {
	mu      sync.RWMutex
	points  map[PointKind]map[uint32]*Point
	order   map[PointKind][]*Point
	metrics *Metrics
}

func NewRegistry() *Registry {
	return &Registry{
		points: make(map[PointKind]map[uint32]*Point),
		order:  make(map[PointKind][]*Point),
	}
}

// SetMetrics attaches instrumentation for external writes. Optional.
func (r *Registry) SetMetrics(m *Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// Register adds a point, failing with ErrDuplicateInstance when the
// (kind, instance) pair is already present.
func (r *Registry) Register(p *Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byInstance, ok := r.points[p.Kind()]
	if !ok {
		byInstance = make(map[uint32]*Point)
		r.points[p.Kind()] = byInstance
	}
	if _, exists := byInstance[p.Instance()]; exists {
		return fmt.Errorf("%w: %s %d", ErrDuplicateInstance, p.Kind(), p.Instance())
	}
	byInstance[p.Instance()] = p
	r.order[p.Kind()] = append(r.order[p.Kind()], p)
	return nil
}

// Find returns the point for (kind, instance) or ErrNotFound.
func (r *Registry) Find(kind PointKind, instance uint32) (*Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.points[kind][instance]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, instance)
}

// FindNamed returns the first point of the kind with the given object name.
func (r *Registry) FindNamed(kind PointKind, name string) (*Point, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.order[kind] {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// AllOf returns the points of one kind in registration order. The returned
// slice is a copy; iterating it never observes concurrent registration.
func (r *Registry) AllOf(kind PointKind) []*Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Point, len(r.order[kind]))
	copy(out, r.order[kind])
	return out
}

// Points returns every registered point, kinds in declaration order and
// registration order within a kind.
func (r *Registry) Points() []*Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Point
	for _, kind := range AllKinds() {
		out = append(out, r.order[kind]...)
	}
	return out
}

// Len reports the total number of registered points.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, points := range r.order {
		n += len(points)
	}
	return n
}

// GetEffectiveValue is the read path for property reads and COV delivery.
func (r *Registry) GetEffectiveValue(kind PointKind, instance uint32) (float64, error) {
	p, err := r.Find(kind, instance)
	if err != nil {
		return 0, err
	}
	return p.EffectiveValue(), nil
}

// WritePriority applies an external command to priority slot 1..16.
func (r *Registry) WritePriority(kind PointKind, instance uint32, slot int, value float64) error {
	p, err := r.Find(kind, instance)
	if err != nil {
		r.observeWrite(writeResultNotFound)
		return err
	}
	if err := p.WritePriority(slot, value); err != nil {
		r.observeWrite(writeResultRejected)
		return err
	}
	r.observeWrite(writeResultOK)
	return nil
}

// ClearPriority releases priority slot 1..16 on a commandable point.
func (r *Registry) ClearPriority(kind PointKind, instance uint32, slot int) error {
	p, err := r.Find(kind, instance)
	if err != nil {
		r.observeWrite(writeResultNotFound)
		return err
	}
	if err := p.ClearPriority(slot); err != nil {
		r.observeWrite(writeResultRejected)
		return err
	}
	r.observeWrite(writeResultOK)
	return nil
}

// ListPoints enumerates one kind as summaries, in registration order.
func (r *Registry) ListPoints(kind PointKind) []Summary {
	points := r.AllOf(kind)
	out := make([]Summary, 0, len(points))
	for _, p := range points {
		out = append(out, Summary{
			Kind:        p.Kind(),
			Instance:    p.Instance(),
			Name:        p.Name(),
			Description: p.Description(),
			Unit:        p.Unit(),
			StateCount:  p.StateCount(),
			Value:       p.EffectiveValue(),
		})
	}
	return out
}

func (r *Registry) observeWrite(result string) {
	r.mu.RLock()
	m := r.metrics
	r.mu.RUnlock()
	if m != nil {
		m.ObserveExternalWrite(result)
	}
}
