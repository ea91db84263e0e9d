package main

import (
	"errors"
	"fmt"
)

// Obstacle pattern names accepted by NewObstacle and level configs
const (
	PatternWallH = "wall-h" // horizontal wall, span cells wide
	PatternWallV = "wall-v" // vertical wall, span cells tall
	PatternCross = "cross"  // four arms of span cells around a center
	PatternBlock = "block"  // filled span-by-span square
)

// DefaultObstacleSpan is used when a pattern is configured without a span
const DefaultObstacleSpan = 3

var (
	// ErrBadPattern reports an obstacle pattern name nobody knows
	ErrBadPattern = errors.New("unknown obstacle pattern")
	// ErrObstacleOrder reports an obstacle claim landing on owned ground;
	// obstacles are placed first, before anything moves
	ErrObstacleOrder = errors.New("obstacle placed on occupied ground")
)

// ObstacleOptions configures a static obstacle
type ObstacleOptions struct {
	Pattern string
	At      Cell // pattern anchor
	Span    int  // 0 = DefaultObstacleSpan
	Fill    FillStyle
}

// Obstacle is a static inedible entity occupying a fixed set of cells laid
// out by a named pattern. It never ticks; it erodes only through DropCell.
type Obstacle struct {
	body
	pattern string
}

// NewObstacle expands the pattern and claims every cell of it. All ground
// must be free; a collision during construction aborts with ErrObstacleOrder.
func NewObstacle(w *World, opt ObstacleOptions) (*Obstacle, error) {
	cells, err := expandPattern(opt.Pattern, opt.At, opt.Span, w.Bounds)
	if err != nil {
		return nil, err
	}
	o := &Obstacle{
		body:    newBody(w, KindObstacle, EntityOptions{Fill: opt.Fill, Block: 1}),
		pattern: opt.Pattern,
	}
	if err := o.bind(o, EntityOptions{}, o.onCollide, o.onAllocRecv); err != nil {
		return nil, err
	}
	for _, c := range cells {
		if err := o.allocBlock(c); err != nil {
			o.Clear(true)
			return nil, err
		}
	}
	return o, nil
}

// Pattern reports the pattern name this obstacle was built from
func (o *Obstacle) Pattern() string { return o.pattern }

// Empty reports whether every cell has eroded away
func (o *Obstacle) Empty() bool { return len(o.cells) == 0 }

// DropCell releases a single cell, eroding the obstacle. Reports whether the
// cell belonged to it.
func (o *Obstacle) DropCell(c Cell) bool {
	for i, oc := range o.cells {
		if oc == c {
			o.dealloc(oc)
			o.cells = append(o.cells[:i], o.cells[i+1:]...)
			return true
		}
	}
	return false
}

// onCollide turns a blocked construction claim into an ordering error.
// Collisions where a mover hits the obstacle are the mover's to resolve.
func (o *Obstacle) onCollide(sender, data any) (bool, error) {
	col, ok := data.(Collision)
	if !ok || col.Initiator != o.self {
		return true, nil
	}
	return false, fmt.Errorf("%w: pattern %q at (%d,%d)", ErrObstacleOrder, o.pattern, col.Cell.X, col.Cell.Y)
}

// expandPattern lays out a named pattern anchored at a cell, wrapped into the
// board and deduplicated so small boards cannot make an obstacle collide with
// itself
func expandPattern(name string, at Cell, span int, b Bounds) ([]Cell, error) {
	if span <= 0 {
		span = DefaultObstacleSpan
	}
	var raw []Cell
	switch name {
	case PatternWallH:
		for i := 0; i < span; i++ {
			raw = append(raw, Cell{X: at.X + i, Y: at.Y})
		}
	case PatternWallV:
		for i := 0; i < span; i++ {
			raw = append(raw, Cell{X: at.X, Y: at.Y + i})
		}
	case PatternCross:
		raw = append(raw, at)
		for i := 1; i <= span; i++ {
			raw = append(raw,
				Cell{X: at.X + i, Y: at.Y},
				Cell{X: at.X - i, Y: at.Y},
				Cell{X: at.X, Y: at.Y + i},
				Cell{X: at.X, Y: at.Y - i},
			)
		}
	case PatternBlock:
		for dy := 0; dy < span; dy++ {
			for dx := 0; dx < span; dx++ {
				raw = append(raw, Cell{X: at.X + dx, Y: at.Y + dy})
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, name)
	}
	seen := make(map[Cell]bool, len(raw))
	cells := raw[:0]
	for _, c := range raw {
		c = b.Wrap(c)
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	return cells, nil
}
