package main

import "fmt"

// Cell is one grid-aligned unit of the play area
type Cell struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Bounds is the play area size in cells
type Bounds struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Contains reports whether c lies inside the bounds
func (b Bounds) Contains(c Cell) bool {
	return c.X >= 0 && c.X < b.W && c.Y >= 0 && c.Y < b.H
}

// Wrap maps c onto the torus: leaving one edge re-enters at the opposite edge
func (b Bounds) Wrap(c Cell) Cell {
	c.X = ((c.X % b.W) + b.W) % b.W
	c.Y = ((c.Y % b.H) + b.H) % b.H
	return c
}

// Heading is one of the 4 cardinal directions
type Heading int

const (
	HeadingUp    Heading = 0
	HeadingRight Heading = 1
	HeadingDown  Heading = 2
	HeadingLeft  Heading = 3

	// HeadingRandom is a sentinel for SetHeading: pick uniformly among
	// the three headings other than the current one
	HeadingRandom Heading = -1
)

var headingNames = [4]string{"up", "right", "down", "left"}

func (h Heading) String() string {
	if h < 0 || int(h) >= len(headingNames) {
		return fmt.Sprintf("heading(%d)", int(h))
	}
	return headingNames[h]
}

// Valid reports whether h is one of the 4 cardinals
func (h Heading) Valid() bool {
	return h >= HeadingUp && h <= HeadingLeft
}

// Reverse returns the opposite heading
func (h Heading) Reverse() Heading {
	return (h + 2) % 4
}

// Perpendiculars returns the two headings at right angles to h
func (h Heading) Perpendiculars() (Heading, Heading) {
	return (h + 1) % 4, (h + 3) % 4
}

// Step returns the cell one unit from c along h (no wrapping)
func (h Heading) Step(c Cell) Cell {
	switch h {
	case HeadingUp:
		c.Y--
	case HeadingRight:
		c.X++
	case HeadingDown:
		c.Y++
	case HeadingLeft:
		c.X--
	}
	return c
}

// ParseHeading maps a direction name to a Heading
func ParseHeading(s string) (Heading, bool) {
	for i, name := range headingNames {
		if s == name {
			return Heading(i), true
		}
	}
	return 0, false
}
