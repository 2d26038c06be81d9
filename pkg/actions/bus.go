package actions

import (
	"context"
	"sync"

	"github.com/aretw0/jsonview/pkg/domain"
)

// AnyEvent subscribes to every event name.
const AnyEvent = "*"

// Event is raised by the dispatch action.
type Event struct {
	Name   string
	Scope  *domain.Scope
	Action domain.Action
}

// Listener receives dispatched events.
type Listener func(ctx context.Context, ev Event)

// Bus delivers dispatched events to listeners synchronously, in subscription order.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string][]subscription
}

type subscription struct {
	id int
	fn Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]subscription)}
}

// Subscribe registers fn for name (or AnyEvent) and returns a function removing it.
func (b *Bus) Subscribe(name string, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.listeners[name]
		for i, s := range subs {
			if s.id == id {
				b.listeners[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to listeners of its name, then to AnyEvent listeners.
func (b *Bus) Emit(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.listeners[ev.Name]...)
	if ev.Name != AnyEvent {
		subs = append(subs, b.listeners[AnyEvent]...)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, ev)
	}
}
