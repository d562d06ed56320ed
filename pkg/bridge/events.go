package bridge

import (
	"log/slog"
	"time"
)

// EventType labels the notifications a bridge emits.
type EventType string

const (
	// EventStateChange fires when an extraction observes a snapshot whose
	// identity differs from the previous one.
	EventStateChange EventType = "STATE_CHANGE"
	// EventFormUpdate fires after a transformation result has been applied
	// and the post-write state re-extracted.
	EventFormUpdate EventType = "FORM_UPDATE"
	// EventConnection fires on connect and disconnect.
	EventConnection EventType = "CONNECTION"
	// EventError fires when an operation moves the bridge into the error
	// state.
	EventError EventType = "ERROR"
)

// Event is delivered to subscribed listeners. Snapshot is nil for events
// that carry no extracted state.
type Event struct {
	Type      EventType
	Snapshot  *Snapshot
	Detail    string
	Timestamp time.Time
}

// Listener receives bridge events.
type Listener func(Event)

type subscription struct {
	id      int
	handler Listener
	types   map[EventType]struct{}
}

func (s subscription) wants(eventType EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// AddListener subscribes a handler to the given event types; with no types
// it receives everything. The returned id unsubscribes via RemoveListener.
func (b *Bridge) AddListener(handler Listener, types ...EventType) int {
	if handler == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextListenerID++
	sub := subscription{id: b.nextListenerID, handler: handler}
	if len(types) > 0 {
		sub.types = make(map[EventType]struct{}, len(types))
		for _, eventType := range types {
			sub.types[eventType] = struct{}{}
		}
	}
	b.listeners = append(b.listeners, sub)
	return sub.id
}

// RemoveListener drops a subscription. It reports whether the id was known.
func (b *Bridge) RemoveListener(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.listeners {
		if sub.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// emit delivers an event to every matching listener in registration order.
// A panicking listener is logged and skipped; delivery to the remaining
// listeners continues.
func (b *Bridge) emit(event Event) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.listeners...)
	b.mu.Unlock()

	for _, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		b.deliver(sub, event)
	}
}

func (b *Bridge) deliver(sub subscription, event Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Warn("bridge listener panicked",
				slog.Int("listener", sub.id),
				slog.String("event", string(event.Type)),
				slog.Any("panic", recovered))
		}
	}()
	sub.handler(event)
}
