package main

import "fmt"

// Player body defaults
const (
	DefaultPlayerLength = 3
	PlayerHeadFill      = FillStyle("#7fe8b8") // head drawn lighter than the body
)

// PlayerOptions configures the snake at level start
type PlayerOptions struct {
	At       Cell // head position
	Heading  Heading
	Length   int // 0 = DefaultPlayerLength
	Speed    int // 0 = DefaultSpeed
	Fill     FillStyle
	HeadFill FillStyle
}

// Player is the snake: a bounded trail of cells advancing head-first, with
// buffered turn input and toroidal wrapping at the board edges.
type Player struct {
	body
	headFill FillStyle
	length   int
	pending  []Heading
}

// NewPlayer builds the snake and claims its initial body, tail first so the
// newest cell is the head. Fails if the start area is not free.
func NewPlayer(w *World, opt PlayerOptions) (*Player, error) {
	if opt.Length <= 0 {
		opt.Length = DefaultPlayerLength
	}
	headFill := opt.HeadFill
	if headFill == "" {
		headFill = PlayerHeadFill
	}
	p := &Player{
		body:     newBody(w, KindPlayer, EntityOptions{Fill: opt.Fill, Animated: true, Speed: opt.Speed}),
		headFill: headFill,
		length:   opt.Length,
	}
	if opt.Heading.Valid() {
		p.heading = opt.Heading
	}
	if err := p.bind(p, EntityOptions{}, p.onCollide, p.onAllocRecv); err != nil {
		return nil, err
	}
	trail := make([]Cell, opt.Length)
	c := opt.At
	for i := opt.Length - 1; i >= 0; i-- {
		trail[i] = w.Bounds.Wrap(c)
		c = p.heading.Reverse().Step(c)
	}
	for _, tc := range trail {
		if err := p.allocBlock(tc); err != nil {
			return nil, err
		}
	}
	if len(p.cells) != opt.Length {
		p.Clear(true)
		return nil, fmt.Errorf("player: start area at (%d,%d) occupied", opt.At.X, opt.At.Y)
	}
	return p, nil
}

// QueueHeading buffers a turn for upcoming ticks. Rejected: invalid values,
// the reverse of the currently applied heading, a repeat of the last queued
// turn, and a repeat of the current heading when nothing is queued. Reports
// whether the turn was accepted.
func (p *Player) QueueHeading(h Heading) bool {
	if !h.Valid() || h == p.heading.Reverse() {
		return false
	}
	if n := len(p.pending); n > 0 {
		if p.pending[n-1] == h {
			return false
		}
	} else if h == p.heading {
		return false
	}
	p.pending = append(p.pending, h)
	return true
}

// PendingTurns reports how many buffered turns are waiting
func (p *Player) PendingTurns() int { return len(p.pending) }

// Length reports the target body length
func (p *Player) Length() int { return p.length }

// Grow extends the target length; the tail stops evicting until the body
// catches up
func (p *Player) Grow(n int) {
	if n > 0 {
		p.length += n
	}
}

// Shrink trims the target length and immediately evicts the surplus tail.
// The snake never shrinks below a single cell.
func (p *Player) Shrink(n int) {
	if n <= 0 {
		return
	}
	p.length -= n
	if p.length < 1 {
		p.length = 1
	}
	for len(p.cells) > p.length {
		p.dealloc(p.cells[0])
		p.cells = p.cells[1:]
	}
}

// Tick applies at most one buffered turn, then claims the next head cell.
// Turns that became a reversal or a no-op while waiting are discarded.
func (p *Player) Tick() error {
	for len(p.pending) > 0 {
		h := p.pending[0]
		p.pending = p.pending[1:]
		if h != p.heading.Reverse() && h != p.heading {
			p.heading = h
			break
		}
	}
	next := p.world.Bounds.Wrap(p.heading.Step(p.Head()))
	return p.allocBlock(next)
}

// onAllocRecv advances the body: the grant becomes the head and the tail is
// evicted once the trail exceeds the target length
func (p *Player) onAllocRecv(sender, data any) (bool, error) {
	grant, ok := data.(AllocGrant)
	if !ok {
		return true, nil
	}
	p.cells = append(p.cells, grant.Cell)
	for len(p.cells) > p.length {
		p.dealloc(p.cells[0])
		p.cells = p.cells[1:]
	}
	return true, nil
}

// onCollide reports death when the player runs into something inedible,
// including its own body. Edible receivers announce being eaten themselves.
func (p *Player) onCollide(sender, data any) (bool, error) {
	col, ok := data.(Collision)
	if !ok || col.Initiator != p.self {
		return true, nil
	}
	if col.Receiver != nil {
		switch col.Receiver.Kind() {
		case KindGrain, KindPrey, KindPredator, KindBonus, KindHazard:
			return true, nil
		}
	}
	return true, p.world.Bus.Trigger(TopicDie, p, Death{Cause: col.Receiver, Cell: col.Cell})
}

// Draw repaints the whole trail, head last in its own style
func (p *Player) Draw() {
	for i, c := range p.cells {
		if i == len(p.cells)-1 {
			p.world.Surface.Fill(c, p.headFill)
		} else {
			p.world.Surface.Fill(c, p.fill)
		}
	}
}
