package main

import (
	"errors"
	"testing"
)

// tickStub is a bare entity for registry bookkeeping tests
type tickStub struct {
	id     string
	kind   Kind
	speed  int
	anim   bool
	ticks  int
	draws  int
	fail   error
	onTick func()
}

func (s *tickStub) ID() string         { return s.id }
func (s *tickStub) Kind() Kind         { return s.kind }
func (s *tickStub) Cells() []Cell      { return nil }
func (s *tickStub) Head() Cell         { return Cell{} }
func (s *tickStub) Fill() FillStyle    { return "" }
func (s *tickStub) Heading() Heading   { return HeadingUp }
func (s *tickStub) SetHeading(Heading) {}
func (s *tickStub) Speed() int         { return s.speed }
func (s *tickStub) SetSpeed(n int)     { s.speed = n }
func (s *tickStub) Animated() bool     { return s.anim }
func (s *tickStub) Draw()              { s.draws++ }
func (s *tickStub) Clear(bool)         {}

func (s *tickStub) Tick() error {
	s.ticks++
	if s.onTick != nil {
		s.onTick()
	}
	return s.fail
}

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()
	a := &tickStub{id: "a", kind: KindGrain, speed: SpeedMax}
	b := &tickStub{id: "b", kind: KindPrey, speed: SpeedMax}
	c := &tickStub{id: "c", kind: KindGrain, speed: SpeedMax}

	if !r.Add(a) || !r.Add(b) || !r.Add(c) {
		t.Fatal("add refused a new entity")
	}
	if r.Add(a) {
		t.Error("re-add accepted")
	}
	if r.Add(nil) {
		t.Error("nil add accepted")
	}
	if a.draws != 1 {
		t.Errorf("draws after add = %d, want 1", a.draws)
	}
	if r.Len() != 3 || r.Count(KindGrain) != 2 || r.Count(KindPrey) != 1 {
		t.Errorf("len=%d grain=%d prey=%d", r.Len(), r.Count(KindGrain), r.Count(KindPrey))
	}

	if !r.Remove(b) {
		t.Fatal("remove refused")
	}
	if r.Remove(b) {
		t.Error("second remove succeeded")
	}
	if r.Has(b) {
		t.Error("removed entity still present")
	}
	// the index must survive the middle removal
	if !r.Remove(c) || !r.Remove(a) {
		t.Error("removal after reindex failed")
	}
	if r.Len() != 0 {
		t.Errorf("len = %d, want 0", r.Len())
	}
}

func TestRegistryEdibleCount(t *testing.T) {
	r := NewRegistry()
	r.Add(&tickStub{id: "g", kind: KindGrain})
	r.Add(&tickStub{id: "p", kind: KindPrey})
	r.Add(&tickStub{id: "d", kind: KindPredator})
	r.Add(&tickStub{id: "o", kind: KindObstacle})
	r.Add(&tickStub{id: "b", kind: KindBonus})
	if n := r.EdibleCount(); n != 3 {
		t.Errorf("edible count = %d, want 3", n)
	}
}

func TestRegistryTickStride(t *testing.T) {
	r := NewRegistry()
	fast := &tickStub{id: "fast", kind: KindPrey, speed: SpeedMax, anim: true}
	slow := &tickStub{id: "slow", kind: KindPrey, speed: SpeedMin}
	r.Add(fast)
	r.Add(slow)
	for n := int64(1); n <= 9; n++ {
		if err := r.Tick(n); err != nil {
			t.Fatalf("tick %d: %v", n, err)
		}
	}
	if fast.ticks != 9 {
		t.Errorf("fast ticks = %d, want 9", fast.ticks)
	}
	if slow.ticks != 1 {
		t.Errorf("slow ticks = %d, want 1", slow.ticks)
	}
	// one paint on add, then one per eligible tick
	if fast.draws != 10 {
		t.Errorf("fast draws = %d, want 10", fast.draws)
	}
	if slow.draws != 1 {
		t.Errorf("slow draws = %d, want 1", slow.draws)
	}
}

func TestRegistryTickError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	first := &tickStub{id: "first", kind: KindPrey, speed: SpeedMax, fail: boom}
	second := &tickStub{id: "second", kind: KindPrey, speed: SpeedMax}
	r.Add(first)
	r.Add(second)
	if err := r.Tick(1); !errors.Is(err, boom) {
		t.Errorf("tick error = %v, want boom", err)
	}
	if second.ticks != 0 {
		t.Errorf("entity after the failure ticked %d times", second.ticks)
	}
}

func TestRegistryMidPassRemoval(t *testing.T) {
	r := NewRegistry()
	victim := &tickStub{id: "victim", kind: KindPrey, speed: SpeedMax}
	remover := &tickStub{id: "remover", kind: KindPrey, speed: SpeedMax}
	remover.onTick = func() { r.Remove(victim) }
	r.Add(remover)
	r.Add(victim)
	if err := r.Tick(1); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if victim.ticks != 0 {
		t.Errorf("removed entity ticked %d times", victim.ticks)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry()
	r.Add(&tickStub{id: "a", kind: KindGrain})
	r.Add(&tickStub{id: "b", kind: KindPrey})
	r.Reset()
	if r.Len() != 0 || r.Count(KindGrain) != 0 || r.EdibleCount() != 0 {
		t.Errorf("len=%d grain=%d edible=%d after reset", r.Len(), r.Count(KindGrain), r.EdibleCount())
	}
}
