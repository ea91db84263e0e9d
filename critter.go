package main

import "fmt"

// Roaming rhythm: ticks between spontaneous heading changes, drawn uniformly
const (
	TurnIntervalMin = 25
	TurnIntervalMax = 100
)

// Critter is a roaming single-cell edible: prey or predator. Both wander the
// board, bounce off whatever blocks them, and are worth points when the
// player catches them from either side of the collision.
type Critter struct {
	body
	frozen bool
	turnIn int // ticks until the next spontaneous turn
}

// NewCritter spawns a prey or predator at the configured cell
func NewCritter(w *World, kind Kind, opt EntityOptions) (*Critter, error) {
	if kind != KindPrey && kind != KindPredator {
		return nil, fmt.Errorf("critter: kind %s cannot roam", kind)
	}
	opt.Animated = true
	cr := &Critter{
		body:   newBody(w, kind, opt),
		turnIn: TurnIntervalMin + w.rng.Intn(TurnIntervalMax-TurnIntervalMin+1),
	}
	if err := cr.bind(cr, opt, cr.onCollide, cr.onAllocRecv); err != nil {
		return nil, err
	}
	if opt.At != nil && len(cr.cells) == 0 {
		cr.Clear(true)
		return nil, fmt.Errorf("critter: spawn cell (%d,%d) occupied", opt.At.X, opt.At.Y)
	}
	return cr, nil
}

// Frozen reports whether movement is suspended
func (cr *Critter) Frozen() bool { return cr.frozen }

// SetFrozen suspends or resumes movement
func (cr *Critter) SetFrozen(v bool) { cr.frozen = v }

// Tick advances one cell in the current heading, wrapping at the edges.
// Every so often the critter turns on its own.
func (cr *Critter) Tick() error {
	if cr.frozen || len(cr.cells) == 0 {
		return nil
	}
	cr.turnIn--
	if cr.turnIn <= 0 {
		cr.SetHeading(HeadingRandom)
		cr.turnIn = TurnIntervalMin + cr.world.rng.Intn(TurnIntervalMax-TurnIntervalMin+1)
	}
	next := cr.world.Bounds.Wrap(cr.heading.Step(cr.Head()))
	return cr.allocBlock(next)
}

// onAllocRecv moves the critter: the old cell is released and the grant
// becomes the only occupied cell
func (cr *Critter) onAllocRecv(sender, data any) (bool, error) {
	grant, ok := data.(AllocGrant)
	if !ok {
		return true, nil
	}
	for len(cr.cells) > 0 {
		cr.dealloc(cr.cells[0])
		cr.cells = cr.cells[1:]
	}
	cr.cells = append(cr.cells, grant.Cell)
	return true, nil
}

// onCollide covers both roles: meeting the player from either side means
// being eaten, anything else blocking the way forces a turn
func (cr *Critter) onCollide(sender, data any) (bool, error) {
	col, ok := data.(Collision)
	if !ok {
		return true, nil
	}
	if col.Receiver == cr.self && col.Initiator != nil && col.Initiator.Kind() == KindPlayer {
		return true, cr.world.Bus.Trigger(TopicEat, cr.self, Consumed{Entity: cr.self, Cell: col.Cell})
	}
	if col.Initiator != cr.self {
		return true, nil
	}
	if col.Receiver != nil && col.Receiver.Kind() == KindPlayer {
		return true, cr.world.Bus.Trigger(TopicEat, cr.self, Consumed{Entity: cr.self, Cell: col.Cell})
	}
	cr.turn()
	return true, nil
}

// turn picks an escape heading after a blocked move: half the time the
// reverse, otherwise one of the two perpendiculars
func (cr *Critter) turn() {
	if cr.world.rng.Intn(2) == 0 {
		cr.heading = cr.heading.Reverse()
		return
	}
	left, right := cr.heading.Perpendiculars()
	if cr.world.rng.Intn(2) == 0 {
		cr.heading = left
	} else {
		cr.heading = right
	}
}
