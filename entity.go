package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Speed levels entities can move at
const (
	SpeedMin     = 1
	SpeedMax     = 9
	SpeedRandom  = -1 // SetSpeed sentinel: draw uniformly within the range
	DefaultSpeed = 3
)

// Board size limits in cells
const (
	MinBoardDim = 8
	MaxBoardDim = 128
)

// ErrNoSurface is returned when a game is constructed without a render handle
var ErrNoSurface = errors.New("no render surface")

// World bundles the per-session services entities are constructed against.
// One World per game; nothing here is process-global.
type World struct {
	Bus     *Bus
	Surface Surface
	Bounds  Bounds
	rng     *rand.Rand
}

// NewWorld validates and assembles the shared entity environment
func NewWorld(bus *Bus, surface Surface, bounds Bounds, rng *rand.Rand) (*World, error) {
	if bus == nil {
		return nil, errors.New("world: nil bus")
	}
	if surface == nil {
		return nil, ErrNoSurface
	}
	if bounds.W < MinBoardDim || bounds.H < MinBoardDim ||
		bounds.W > MaxBoardDim || bounds.H > MaxBoardDim {
		return nil, fmt.Errorf("world: bounds %dx%d outside [%d, %d]", bounds.W, bounds.H, MinBoardDim, MaxBoardDim)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &World{Bus: bus, Surface: surface, Bounds: bounds, rng: rng}, nil
}

// randCell returns a uniformly random cell within the bounds
func (w *World) randCell() Cell {
	return Cell{X: w.rng.Intn(w.Bounds.W), Y: w.rng.Intn(w.Bounds.H)}
}

// Entity is anything that can own grid cells and take part in collisions
type Entity interface {
	ID() string
	Kind() Kind
	Cells() []Cell
	Head() Cell
	Fill() FillStyle
	Heading() Heading
	SetHeading(h Heading)
	Speed() int
	SetSpeed(n int)
	Animated() bool
	Tick() error
	Draw()
	Clear(unregister bool)
}

// EntityOptions configures entity construction
type EntityOptions struct {
	Fill     FillStyle // empty = species default
	Block    int       // render block size hint, presentation only
	At       *Cell     // initial cell to request, nil = none
	Animated bool      // redraw every eligible tick
	Speed    int       // 0 = DefaultSpeed
}

// body is the record shared by every entity variant. Concrete constructors
// call bind to subscribe their own collide/alloc-recv handlers; embedding
// alone would always dispatch the base versions.
type body struct {
	self     Entity
	id       string
	kind     Kind
	world    *World
	fill     FillStyle
	block    int
	cells    []Cell
	heading  Heading
	speed    int
	animated bool
}

func newBody(w *World, kind Kind, opt EntityOptions) body {
	fill := opt.Fill
	if fill == "" {
		fill = GetSpecies(kind).Fill
	}
	speed := opt.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	b := body{
		id:       GenerateID(4),
		kind:     kind,
		world:    w,
		fill:     fill,
		block:    opt.Block,
		cells:    make([]Cell, 0, 4),
		heading:  Heading(w.rng.Intn(4)),
		animated: opt.Animated,
	}
	b.SetSpeed(speed)
	return b
}

// bind wires the concrete entity's handlers onto the bus and requests the
// initial cell, if one was configured. Must run once, at the end of the
// concrete constructor.
func (b *body) bind(self Entity, opt EntityOptions, onCollide, onAllocRecv EventHandler) error {
	b.self = self
	b.world.Bus.Register(TopicCollide, self, onCollide)
	b.world.Bus.Register(TopicAllocRecv, self, onAllocRecv)
	if opt.At != nil {
		return b.allocBlock(*opt.At)
	}
	return nil
}

// allocBlock requests ownership of a cell through the bus
func (b *body) allocBlock(c Cell) error {
	return b.world.Bus.Trigger(TopicAlloc, b.self, AllocRequest{Cell: c})
}

// dealloc releases a cell through the bus and erases it
func (b *body) dealloc(c Cell) {
	b.world.Bus.Trigger(TopicDealloc, b.self, DeallocRequest{Cell: c})
	b.world.Surface.Wipe(c)
}

// onAllocRecv appends the granted cell to the occupied history. Variants
// with bounded history (a moving body) override this.
func (b *body) onAllocRecv(sender, data any) (bool, error) {
	grant, ok := data.(AllocGrant)
	if !ok {
		return true, nil
	}
	b.cells = append(b.cells, grant.Cell)
	return true, nil
}

// onCollide emits eat when this entity is the receiver of a collision the
// player caused
func (b *body) onCollide(sender, data any) (bool, error) {
	col, ok := data.(Collision)
	if !ok || col.Receiver != b.self {
		return true, nil
	}
	if col.Initiator != nil && col.Initiator.Kind() == KindPlayer {
		return true, b.world.Bus.Trigger(TopicEat, b.self, Consumed{Entity: b.self, Cell: col.Cell})
	}
	return true, nil
}

func (b *body) ID() string      { return b.id }
func (b *body) Kind() Kind      { return b.kind }
func (b *body) Cells() []Cell   { return b.cells }
func (b *body) Fill() FillStyle { return b.fill }
func (b *body) Animated() bool  { return b.animated }

// Head returns the newest occupied cell
func (b *body) Head() Cell {
	if len(b.cells) == 0 {
		return Cell{}
	}
	return b.cells[len(b.cells)-1]
}

func (b *body) Heading() Heading { return b.heading }

// SetHeading assigns a cardinal heading. HeadingRandom picks uniformly among
// the three headings other than the current one, never repeating it.
func (b *body) SetHeading(h Heading) {
	if h == HeadingRandom {
		b.heading = (b.heading + Heading(1+b.world.rng.Intn(3))) % 4
		return
	}
	if h.Valid() {
		b.heading = h
	}
}

func (b *body) Speed() int { return b.speed }

// SetSpeed clamps to [SpeedMin, SpeedMax]; SpeedRandom draws uniformly
func (b *body) SetSpeed(n int) {
	if n == SpeedRandom {
		b.speed = SpeedMin + b.world.rng.Intn(SpeedMax-SpeedMin+1)
		return
	}
	b.speed = ClampInt(n, SpeedMin, SpeedMax)
}

// Tick is a no-op for static entities
func (b *body) Tick() error { return nil }

// Draw fills every owned cell
func (b *body) Draw() {
	for _, c := range b.cells {
		b.world.Surface.Fill(c, b.fill)
	}
}

// Clear releases every owned cell back to the grid and, unless told
// otherwise, unsubscribes from the bus
func (b *body) Clear(unregister bool) {
	for _, c := range b.cells {
		b.dealloc(c)
	}
	b.cells = b.cells[:0]
	if unregister {
		b.world.Bus.Unregister(TopicCollide, b.self)
		b.world.Bus.Unregister(TopicAllocRecv, b.self)
	}
}
