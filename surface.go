package main

import "sync"

// FillStyle is an opaque presentation token; the web client treats it as a
// color. The engine never interprets it.
type FillStyle string

// Surface is the render handle entities draw through. Implementations decide
// what a filled cell looks like; the engine only reports cell-level changes.
type Surface interface {
	Fill(c Cell, style FillStyle)
	Wipe(c Cell)
}

// CellOp is one drawing operation, compact-tagged for frame broadcasts
type CellOp struct {
	X     int       `json:"x" msgpack:"x"`
	Y     int       `json:"y" msgpack:"y"`
	Style FillStyle `json:"s,omitempty" msgpack:"s,omitempty"`
	Wipe  bool      `json:"e,omitempty" msgpack:"e,omitempty"`
}

// FrameBuffer is a Surface that accumulates drawing ops for broadcast.
// The game tick goroutine writes it while the session's broadcast loop
// drains it, hence the lock.
type FrameBuffer struct {
	mu  sync.Mutex
	ops []CellOp
}

// NewFrameBuffer creates an empty FrameBuffer
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{ops: make([]CellOp, 0, 64)}
}

// Fill records a cell fill
func (f *FrameBuffer) Fill(c Cell, style FillStyle) {
	f.mu.Lock()
	f.ops = append(f.ops, CellOp{X: c.X, Y: c.Y, Style: style})
	f.mu.Unlock()
}

// Wipe records a cell erase
func (f *FrameBuffer) Wipe(c Cell) {
	f.mu.Lock()
	f.ops = append(f.ops, CellOp{X: c.X, Y: c.Y, Wipe: true})
	f.mu.Unlock()
}

// Flush returns the accumulated ops and resets the buffer
func (f *FrameBuffer) Flush() []CellOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ops) == 0 {
		return nil
	}
	out := f.ops
	f.ops = make([]CellOp, 0, 64)
	return out
}

// Pending returns the number of buffered ops
func (f *FrameBuffer) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ops)
}
