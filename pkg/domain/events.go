package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventResolve   EventType = "resolve"
	EventAction    EventType = "action"
	EventCondition EventType = "condition"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ScopeID   string    `json:"scope_id"`
}

// ResolveEvent is emitted once per Invoke.
type ResolveEvent struct {
	EventBase
	Name     string   `json:"name"`
	Strategy Strategy `json:"strategy"`
}

// ActionEvent is emitted for every action the runner looks up.
type ActionEvent struct {
	EventBase
	Action  Action `json:"action"`
	Handled bool   `json:"handled"`
	Err     error  `json:"-"`
}

// ConditionEvent is emitted for every condition that is evaluated.
type ConditionEvent struct {
	EventBase
	Kind      ConditionKind `json:"kind"`
	Index     int           `json:"index"`
	Matched   bool          `json:"matched"`
	Malformed bool          `json:"malformed,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnResolve   func(context.Context, *ResolveEvent)
	OnAction    func(context.Context, *ActionEvent)
	OnCondition func(context.Context, *ConditionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnResolve:   chain(h.OnResolve, other.OnResolve),
		OnAction:    chain(h.OnAction, other.OnAction),
		OnCondition: chain(h.OnCondition, other.OnCondition),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
