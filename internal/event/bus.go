package event

import "sync"

// Wildcard matches every emitted event name.
const Wildcard = "*"

// Handler receives the arguments passed to Emit.
type Handler func(args ...any)

// Subscription identifies one registration on the bus. The same
// handler registered twice yields two subscriptions and fires twice
// per emission.
type Subscription struct {
	id      uint64
	name    string
	handler Handler
	once    bool
}

// Name returns the event name the subscription is registered for.
func (s *Subscription) Name() string {
	return s.name
}

// Bus is a synchronous named-topic event bus. The zero value is not
// usable; create one with NewBus. All methods are safe for concurrent
// use, though dispatch itself runs on the emitting goroutine.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []*Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// On registers a persistent handler for name. Duplicate registrations
// are kept and each fires per matching emission. A nil handler panics.
func (b *Bus) On(name string, handler Handler) *Subscription {
	return b.register(name, handler, false)
}

// Once registers a handler that is removed after its first matching
// emission. Removal takes effect for later Emit calls; an emission
// already dispatching from its snapshot is not affected.
func (b *Bus) Once(name string, handler Handler) *Subscription {
	return b.register(name, handler, true)
}

func (b *Bus) register(name string, handler Handler, once bool) *Subscription {
	if handler == nil {
		panic("event: nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		name:    name,
		handler: handler,
		once:    once,
	}
	b.subs = append(b.subs, sub)
	return sub
}

// Emit invokes, in registration order, every handler registered for
// name or for the wildcard. Once-handlers that match are unregistered
// before their invocation, so a re-emit from inside a handler will not
// fire them again. Handler panics propagate to the caller.
func (b *Bus) Emit(name string, args ...any) {
	b.mu.Lock()
	matched := make([]*Subscription, 0, len(b.subs))
	kept := b.subs[:0]
	for _, sub := range b.subs {
		hit := sub.name == name || sub.name == Wildcard
		if hit {
			matched = append(matched, sub)
		}
		if hit && sub.once {
			continue
		}
		kept = append(kept, sub)
	}
	b.subs = kept
	b.mu.Unlock()

	// Dispatch outside the lock so handlers may register, remove, or
	// emit without deadlocking.
	for _, sub := range matched {
		sub.handler(args...)
	}
}

// Off removes every registration for name. The wildcard is only
// removed when name is the wildcard itself.
func (b *Bus) Off(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.subs[:0]
	for _, sub := range b.subs {
		if sub.name == name {
			continue
		}
		kept = append(kept, sub)
	}
	b.subs = kept
}

// Unsubscribe removes one specific registration, leaving other
// handlers on the same event intact. Unknown or nil subscriptions are
// ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.subs[:0]
	for _, s := range b.subs {
		if s.id == sub.id {
			continue
		}
		kept = append(kept, s)
	}
	b.subs = kept
}

// Clear removes all registrations unconditionally.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

// Len returns the number of live registrations.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
