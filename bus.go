package main

import "fmt"

// EventHandler processes one bus event. Returning false stops the remaining
// handlers for that trigger call; an error aborts the chain entirely.
type EventHandler func(sender, data any) (bool, error)

type handlerEntry struct {
	scope any
	fn    EventHandler
}

// Bus dispatches named-topic events to handlers in registration order.
// One Bus exists per game session. It is not safe for concurrent use; all
// dispatch happens on the session's single logical tick thread.
type Bus struct {
	topics map[string][]handlerEntry
}

// NewBus creates an empty Bus
func NewBus() *Bus {
	return &Bus{topics: make(map[string][]handlerEntry)}
}

// Register adds a handler for topic owned by scope. Scope values must be
// comparable (pointers throughout this codebase) and a scope holds at most
// one handler per topic; re-registering returns false and changes nothing.
func (b *Bus) Register(topic string, scope any, fn EventHandler) bool {
	for _, e := range b.topics[topic] {
		if e.scope == scope {
			return false
		}
	}
	b.topics[topic] = append(b.topics[topic], handlerEntry{scope: scope, fn: fn})
	return true
}

// Unregister removes scope's handler for topic. The topic entry is deleted
// outright once its last handler goes, so an empty list never lingers.
func (b *Bus) Unregister(topic string, scope any) bool {
	entries := b.topics[topic]
	for i, e := range entries {
		if e.scope == scope {
			b.topics[topic] = append(entries[:i], entries[i+1:]...)
			if len(b.topics[topic]) == 0 {
				delete(b.topics, topic)
			}
			return true
		}
	}
	return false
}

// Trigger invokes every handler for topic in registration order
func (b *Bus) Trigger(topic string, sender, data any) error {
	return b.dispatch(topic, sender, data, nil, false)
}

// TriggerTarget invokes only the handler whose scope equals target
func (b *Bus) TriggerTarget(topic string, sender, data, target any) error {
	return b.dispatch(topic, sender, data, target, true)
}

func (b *Bus) dispatch(topic string, sender, data, target any, targeted bool) error {
	// Handlers unregister themselves mid-chain (an eaten entity clears its
	// subscriptions inside the collide dispatch), so iterate a snapshot.
	entries := b.topics[topic]
	if len(entries) == 0 {
		return nil
	}
	snapshot := make([]handlerEntry, len(entries))
	copy(snapshot, entries)

	for _, e := range snapshot {
		if targeted && e.scope != target {
			continue
		}
		cont, err := e.fn(sender, data)
		if err != nil {
			return fmt.Errorf("%s handler: %w", topic, err)
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// Clear removes every handler for topic
func (b *Bus) Clear(topic string) {
	delete(b.topics, topic)
}

// ClearAll removes every handler for every topic
func (b *Bus) ClearAll() {
	b.topics = make(map[string][]handlerEntry)
}

// HandlerCount returns the number of handlers registered for topic
func (b *Bus) HandlerCount(topic string) int {
	return len(b.topics[topic])
}
