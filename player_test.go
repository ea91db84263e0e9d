package main

import (
	"strings"
	"testing"
)

func newTestPlayer(t *testing.T, w *World, at Cell, length int) *Player {
	t.Helper()
	p, err := NewPlayer(w, PlayerOptions{At: at, Heading: HeadingRight, Length: length})
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	return p
}

func TestNewPlayerTrail(t *testing.T) {
	w, grid := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 3)
	want := []Cell{{X: 8, Y: 10}, {X: 9, Y: 10}, {X: 10, Y: 10}}
	got := p.Cells()
	if len(got) != len(want) {
		t.Fatalf("trail = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trail[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if p.Head() != (Cell{X: 10, Y: 10}) {
		t.Errorf("head = %v", p.Head())
	}
	for _, c := range want {
		if owner, _ := grid.Owner(c); owner != Entity(p) {
			t.Errorf("cell %v not owned by the player", c)
		}
	}
}

func TestNewPlayerOccupiedStart(t *testing.T) {
	w, grid := newTestWorld(t)
	if _, err := NewGrain(w, Cell{X: 9, Y: 10}, ""); err != nil {
		t.Fatalf("NewGrain: %v", err)
	}
	_, err := NewPlayer(w, PlayerOptions{At: Cell{X: 10, Y: 10}, Heading: HeadingRight})
	if err == nil || !strings.Contains(err.Error(), "occupied") {
		t.Fatalf("occupied start error = %v", err)
	}
	if grid.Used() != 1 {
		t.Errorf("used after failed construction = %d, want 1", grid.Used())
	}
}

func TestQueueHeading(t *testing.T) {
	w, _ := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 3)
	// heading right
	if p.QueueHeading(HeadingLeft) {
		t.Error("reverse accepted")
	}
	if p.QueueHeading(HeadingRight) {
		t.Error("repeat of current heading accepted")
	}
	if p.QueueHeading(Heading(9)) {
		t.Error("invalid heading accepted")
	}
	if !p.QueueHeading(HeadingUp) {
		t.Error("perpendicular refused")
	}
	if p.QueueHeading(HeadingUp) {
		t.Error("repeat of last queued turn accepted")
	}
	if !p.QueueHeading(HeadingDown) {
		t.Error("turn differing from the queue tail refused")
	}
	// still the reverse of the applied heading, queue or not
	if p.QueueHeading(HeadingLeft) {
		t.Error("reverse of applied heading accepted while turns queued")
	}
	if p.PendingTurns() != 2 {
		t.Errorf("pending = %d, want 2", p.PendingTurns())
	}
}

func TestPlayerTickMovesAndWraps(t *testing.T) {
	w, grid := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 19, Y: 10}, 3)
	if err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if p.Head() != (Cell{X: 0, Y: 10}) {
		t.Errorf("head = %v, want wrapped (0,10)", p.Head())
	}
	if len(p.Cells()) != 3 {
		t.Errorf("trail length = %d, want 3", len(p.Cells()))
	}
	if _, owned := grid.Owner(Cell{X: 17, Y: 10}); owned {
		t.Error("evicted tail cell still owned")
	}
}

func TestPlayerTickAppliesTurn(t *testing.T) {
	w, _ := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 3)
	p.QueueHeading(HeadingUp)
	if err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if p.Heading() != HeadingUp {
		t.Errorf("heading = %v, want up", p.Heading())
	}
	if p.Head() != (Cell{X: 10, Y: 9}) {
		t.Errorf("head = %v, want (10,9)", p.Head())
	}
}

func TestPlayerTickDiscardsStaleTurns(t *testing.T) {
	w, _ := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 3)
	p.QueueHeading(HeadingUp)
	p.QueueHeading(HeadingDown) // legal when queued, a reversal once up applies
	if err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if p.Heading() != HeadingUp {
		t.Fatalf("heading = %v, want up", p.Heading())
	}
	if err := p.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if p.Heading() != HeadingUp {
		t.Errorf("stale reversal applied, heading = %v", p.Heading())
	}
	if p.PendingTurns() != 0 {
		t.Errorf("pending = %d, want 0", p.PendingTurns())
	}
	if p.Head() != (Cell{X: 10, Y: 8}) {
		t.Errorf("head = %v, want (10,8)", p.Head())
	}
}

func TestPlayerGrow(t *testing.T) {
	w, _ := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 5, Y: 5}, 3)
	p.Grow(2)
	if p.Length() != 5 {
		t.Fatalf("target length = %d, want 5", p.Length())
	}
	for i := 0; i < 2; i++ {
		if err := p.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if len(p.Cells()) != 5 {
		t.Errorf("trail = %d cells, want 5", len(p.Cells()))
	}
	p.Grow(-3)
	if p.Length() != 5 {
		t.Errorf("negative grow changed length to %d", p.Length())
	}
}

func TestPlayerShrinkFloor(t *testing.T) {
	w, grid := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 4)
	p.Shrink(10)
	if p.Length() != 1 {
		t.Errorf("length = %d, want 1", p.Length())
	}
	if len(p.Cells()) != 1 {
		t.Errorf("trail = %v, want only the head", p.Cells())
	}
	if p.Head() != (Cell{X: 10, Y: 10}) {
		t.Errorf("head = %v, want (10,10)", p.Head())
	}
	if grid.Used() != 1 {
		t.Errorf("used = %d, want 1", grid.Used())
	}
}

func TestPlayerSelfCollisionDies(t *testing.T) {
	w, _ := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 5)
	var deaths []Death
	w.Bus.Register(TopicDie, &deaths, func(sender, data any) (bool, error) {
		if d, ok := data.(Death); ok {
			deaths = append(deaths, d)
		}
		return true, nil
	})
	// curl back into the body: up, left, down
	for _, h := range []Heading{HeadingUp, HeadingLeft, HeadingDown} {
		if !p.QueueHeading(h) {
			t.Fatalf("turn %v refused", h)
		}
		if err := p.Tick(); err != nil {
			t.Fatalf("tick %v: %v", h, err)
		}
	}
	if len(deaths) != 1 {
		t.Fatalf("deaths = %d, want 1", len(deaths))
	}
	if deaths[0].Cause != Entity(p) {
		t.Errorf("death cause = %v, want the player itself", deaths[0].Cause)
	}
	if deaths[0].Cell != (Cell{X: 9, Y: 10}) {
		t.Errorf("death cell = %v, want (9,10)", deaths[0].Cell)
	}
}

func TestPlayerRunsIntoObstacleDies(t *testing.T) {
	w, _ := newTestWorld(t)
	p := newTestPlayer(t, w, Cell{X: 10, Y: 10}, 3)
	o, err := NewObstacle(w, ObstacleOptions{Pattern: PatternWallV, At: Cell{X: 12, Y: 9}, Span: 3})
	if err != nil {
		t.Fatalf("NewObstacle: %v", err)
	}
	var deaths []Death
	w.Bus.Register(TopicDie, &deaths, func(sender, data any) (bool, error) {
		if d, ok := data.(Death); ok {
			deaths = append(deaths, d)
		}
		return true, nil
	})
	for i := 0; i < 2; i++ {
		if err := p.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if len(deaths) != 1 {
		t.Fatalf("deaths = %d, want 1", len(deaths))
	}
	if deaths[0].Cause != Entity(o) {
		t.Errorf("death cause = %v, want the obstacle", deaths[0].Cause)
	}
}
