package main

// Registry holds every live entity in insertion order and keeps per-kind
// counts current. Tick dispatch, level depletion checks, and state snapshots
// all read from here.
type Registry struct {
	list    []Entity
	index   map[Entity]int
	counts  map[Kind]int
	scratch []Entity
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		index:  make(map[Entity]int),
		counts: make(map[Kind]int),
	}
}

// Add appends an entity and paints it once. Re-adding is a no-op; reports
// whether the entity was new.
func (r *Registry) Add(e Entity) bool {
	if e == nil {
		return false
	}
	if _, ok := r.index[e]; ok {
		return false
	}
	r.index[e] = len(r.list)
	r.list = append(r.list, e)
	r.counts[e.Kind()]++
	e.Draw()
	return true
}

// Remove drops an entity, releasing its cells and bus subscriptions.
// Reports whether it was present.
func (r *Registry) Remove(e Entity) bool {
	i, ok := r.index[e]
	if !ok {
		return false
	}
	delete(r.index, e)
	r.list = append(r.list[:i], r.list[i+1:]...)
	for j := i; j < len(r.list); j++ {
		r.index[r.list[j]] = j
	}
	r.counts[e.Kind()]--
	e.Clear(true)
	return true
}

// Has reports whether an entity is registered
func (r *Registry) Has(e Entity) bool {
	_, ok := r.index[e]
	return ok
}

// Len reports how many entities are registered
func (r *Registry) Len() int { return len(r.list) }

// Count reports how many entities of a kind are registered
func (r *Registry) Count(k Kind) int { return r.counts[k] }

// EdibleCount sums the remaining edible entities
func (r *Registry) EdibleCount() int {
	n := 0
	for _, k := range EdibleKinds {
		n += r.counts[k]
	}
	return n
}

// Entities returns the live list in insertion order. Callers must not
// mutate it.
func (r *Registry) Entities() []Entity { return r.list }

// Tick runs one master tick: every entity whose speed stride divides the
// tick counter moves, and animated movers are repainted. Iterates a snapshot
// so handlers may remove entities mid-pass. The first entity error stops the
// pass.
func (r *Registry) Tick(n int64) error {
	r.scratch = append(r.scratch[:0], r.list...)
	for _, e := range r.scratch {
		if !r.Has(e) {
			continue
		}
		if n%int64(Stride(e.Speed())) != 0 {
			continue
		}
		if err := e.Tick(); err != nil {
			return err
		}
		if e.Animated() && r.Has(e) {
			e.Draw()
		}
	}
	return nil
}

// Reset removes everything, newest first so trailing entities release their
// cells before the ones placed under them
func (r *Registry) Reset() {
	for i := len(r.list) - 1; i >= 0; i-- {
		r.list[i].Clear(true)
	}
	r.list = r.list[:0]
	r.index = make(map[Entity]int)
	r.counts = make(map[Kind]int)
}
