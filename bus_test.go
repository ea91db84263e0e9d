package main

import (
	"errors"
	"testing"
)

func TestBusDispatchOrder(t *testing.T) {
	bus := NewBus()
	var got string
	for _, letter := range []string{"a", "b", "c"} {
		l := letter
		bus.Register("topic", &l, func(sender, data any) (bool, error) {
			got += l
			return true, nil
		})
	}
	if err := bus.Trigger("topic", nil, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if got != "abc" {
		t.Errorf("dispatch order = %q, want abc", got)
	}
}

func TestBusScopeHoldsOneHandler(t *testing.T) {
	bus := NewBus()
	scope := &struct{}{}
	if !bus.Register("topic", scope, func(sender, data any) (bool, error) { return true, nil }) {
		t.Fatal("first register refused")
	}
	if bus.Register("topic", scope, func(sender, data any) (bool, error) { return true, nil }) {
		t.Error("second register for same scope accepted")
	}
	if n := bus.HandlerCount("topic"); n != 1 {
		t.Errorf("handler count = %d, want 1", n)
	}
}

func TestBusUnregister(t *testing.T) {
	bus := NewBus()
	scope := &struct{}{}
	called := false
	bus.Register("topic", scope, func(sender, data any) (bool, error) {
		called = true
		return true, nil
	})
	if !bus.Unregister("topic", scope) {
		t.Fatal("unregister refused")
	}
	if bus.Unregister("topic", scope) {
		t.Error("second unregister succeeded")
	}
	bus.Trigger("topic", nil, nil)
	if called {
		t.Error("unregistered handler still called")
	}
}

func TestBusShortCircuit(t *testing.T) {
	bus := NewBus()
	reached := false
	s1, s2 := &struct{}{}, &struct{}{}
	bus.Register("topic", s1, func(sender, data any) (bool, error) { return false, nil })
	bus.Register("topic", s2, func(sender, data any) (bool, error) {
		reached = true
		return true, nil
	})
	if err := bus.Trigger("topic", nil, nil); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if reached {
		t.Error("handler after short-circuit still called")
	}
}

func TestBusErrorAbortsChain(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	reached := false
	s1, s2 := &struct{}{}, &struct{}{}
	bus.Register("topic", s1, func(sender, data any) (bool, error) { return true, boom })
	bus.Register("topic", s2, func(sender, data any) (bool, error) {
		reached = true
		return true, nil
	})
	err := bus.Trigger("topic", nil, nil)
	if !errors.Is(err, boom) {
		t.Errorf("trigger error = %v, want wrapped boom", err)
	}
	if reached {
		t.Error("handler after error still called")
	}
}

func TestBusTargetedDispatch(t *testing.T) {
	bus := NewBus()
	// Zero-size allocations can share one address, which Register would
	// dedup as a single scope; nonzero allocations are guaranteed distinct.
	s1, s2 := new(int), new(int)
	hit1, hit2 := false, false
	bus.Register("topic", s1, func(sender, data any) (bool, error) { hit1 = true; return true, nil })
	bus.Register("topic", s2, func(sender, data any) (bool, error) { hit2 = true; return true, nil })
	if err := bus.TriggerTarget("topic", nil, nil, s2); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if hit1 {
		t.Error("non-target handler called")
	}
	if !hit2 {
		t.Error("target handler not called")
	}
}

func TestBusUnregisterDuringDispatch(t *testing.T) {
	bus := NewBus()
	// Distinct nonzero-size allocations; see TestBusTargetedDispatch.
	s1, s2 := new(int), new(int)
	calls := 0
	// s1 removes s2 mid-chain; the snapshot means s2 still runs this pass
	bus.Register("topic", s1, func(sender, data any) (bool, error) {
		bus.Unregister("topic", s2)
		return true, nil
	})
	bus.Register("topic", s2, func(sender, data any) (bool, error) {
		calls++
		return true, nil
	})
	if err := bus.Trigger("topic", nil, nil); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls after first trigger = %d, want 1", calls)
	}
	if err := bus.Trigger("topic", nil, nil); err != nil {
		t.Fatalf("second trigger: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls after second trigger = %d, want 1 still", calls)
	}
}

func TestBusSelfUnregisterDuringDispatch(t *testing.T) {
	bus := NewBus()
	scope := &struct{}{}
	calls := 0
	bus.Register("topic", scope, func(sender, data any) (bool, error) {
		calls++
		bus.Unregister("topic", scope)
		return true, nil
	})
	bus.Trigger("topic", nil, nil)
	bus.Trigger("topic", nil, nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBusClear(t *testing.T) {
	bus := NewBus()
	s1, s2 := &struct{}{}, &struct{}{}
	bus.Register("a", s1, func(sender, data any) (bool, error) { return true, nil })
	bus.Register("b", s2, func(sender, data any) (bool, error) { return true, nil })
	bus.Clear("a")
	if n := bus.HandlerCount("a"); n != 0 {
		t.Errorf("cleared topic count = %d, want 0", n)
	}
	if n := bus.HandlerCount("b"); n != 1 {
		t.Errorf("untouched topic count = %d, want 1", n)
	}
	bus.ClearAll()
	if n := bus.HandlerCount("b"); n != 0 {
		t.Errorf("count after ClearAll = %d, want 0", n)
	}
}

func TestBusEmptyTopic(t *testing.T) {
	bus := NewBus()
	if err := bus.Trigger("nobody", nil, nil); err != nil {
		t.Errorf("trigger on empty topic: %v", err)
	}
}
