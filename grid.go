package main

import "fmt"

// Grid tracks which entity owns which cell. It is the only subscriber to
// alloc/dealloc and the only writer of the ownership map; every claim and
// release flows through the bus.
type Grid struct {
	bus   *Bus
	cells map[Cell]Entity
}

// NewGrid creates an empty grid and subscribes it to the allocation topics
func NewGrid(bus *Bus) *Grid {
	g := &Grid{bus: bus, cells: make(map[Cell]Entity)}
	bus.Register(TopicAlloc, g, g.onAlloc)
	bus.Register(TopicDealloc, g, g.onDealloc)
	return g
}

// onAlloc grants the cell to the requesting entity, or reports a collision
// with the current owner. Self-owned cells collide too: a snake crossing its
// own body is a collision between the entity and itself.
func (g *Grid) onAlloc(sender, data any) (bool, error) {
	req, ok := data.(AllocRequest)
	if !ok {
		return true, nil
	}
	ent, ok := sender.(Entity)
	if !ok {
		return true, nil
	}
	if owner, taken := g.cells[req.Cell]; taken {
		return true, g.bus.Trigger(TopicCollide, g, Collision{
			Initiator: ent,
			Receiver:  owner,
			Cell:      req.Cell,
		})
	}
	g.cells[req.Cell] = ent
	return true, g.bus.TriggerTarget(TopicAllocRecv, g, AllocGrant{Cell: req.Cell}, ent)
}

// onDealloc releases the cell, but only for its current owner
func (g *Grid) onDealloc(sender, data any) (bool, error) {
	req, ok := data.(DeallocRequest)
	if !ok {
		return true, nil
	}
	ent, ok := sender.(Entity)
	if !ok {
		return true, nil
	}
	if owner, taken := g.cells[req.Cell]; taken && owner == ent {
		delete(g.cells, req.Cell)
	}
	return true, nil
}

// Reissue re-runs the grant path for a collision initiator after the
// receiver's cell was released. A cell the initiator already holds is left
// alone; a cell still held by a third party errors, meaning the collision
// was never resolved.
func (g *Grid) Reissue(to Entity, c Cell) error {
	if owner, taken := g.cells[c]; taken {
		if owner == to {
			return nil
		}
		return fmt.Errorf("grid: cell (%d,%d) still owned by %s after collision", c.X, c.Y, owner.ID())
	}
	g.cells[c] = to
	return g.bus.TriggerTarget(TopicAllocRecv, g, AllocGrant{Cell: c}, to)
}

// Owner reports the entity holding a cell, if any
func (g *Grid) Owner(c Cell) (Entity, bool) {
	ent, ok := g.cells[c]
	return ent, ok
}

// Used reports how many cells are currently owned
func (g *Grid) Used() int { return len(g.cells) }

// Reset drops all ownership records. Level teardown clears entities first;
// this catches anything they left behind.
func (g *Grid) Reset() {
	g.cells = make(map[Cell]Entity)
}
