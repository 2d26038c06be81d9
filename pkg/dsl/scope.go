package dsl

import (
	"fmt"

	"github.com/aretw0/jsonview/pkg/domain"
)

// ScopeBuilder provides a fluent API for configuring one scope and its widget.
type ScopeBuilder struct {
	builder  *Builder
	spec     domain.ScopeSpec
	children []*ScopeBuilder
}

// ID returns the scope ID.
func (s *ScopeBuilder) ID() string {
	return s.spec.ID
}

// State sets an initial state value.
func (s *ScopeBuilder) State(key string, value any) *ScopeBuilder {
	if s.spec.State == nil {
		s.spec.State = make(map[string]any)
	}
	s.spec.State[key] = value
	return s
}

// Function binds name to a payload of actions, run in order.
func (s *ScopeBuilder) Function(name string, actions ...domain.Action) *ScopeBuilder {
	if s.spec.Functions == nil {
		s.spec.Functions = make(map[string]*domain.Payload)
	}
	s.spec.Functions[name] = domain.NewPayload(actions...)
	return s
}

// On binds an event declared directly on the widget (click: grade).
func (s *ScopeBuilder) On(event, name string) *ScopeBuilder {
	if s.spec.Widget.Handlers == nil {
		s.spec.Widget.Handlers = make(map[string]string)
	}
	s.spec.Widget.Handlers[event] = name
	return s
}

// Event binds an event under the widget's events block.
func (s *ScopeBuilder) Event(event, name string) *ScopeBuilder {
	if s.spec.Widget.Events == nil {
		s.spec.Widget.Events = make(map[string]string)
	}
	s.spec.Widget.Events[event] = name
	return s
}

// Widget adds a child scope. Adding an existing ID returns its builder.
func (s *ScopeBuilder) Widget(id string) *ScopeBuilder {
	for _, c := range s.children {
		if c.spec.ID == id {
			return c
		}
	}
	c := &ScopeBuilder{builder: s.builder, spec: domain.ScopeSpec{ID: id}}
	s.children = append(s.children, c)
	return c
}

// Done returns the question builder, for chaining.
func (s *ScopeBuilder) Done() *Builder {
	return s.builder
}

func (s *ScopeBuilder) build(seen map[string]bool) (domain.ScopeSpec, error) {
	if s.spec.ID == "" {
		return domain.ScopeSpec{}, fmt.Errorf("scope id is required")
	}
	if seen[s.spec.ID] {
		return domain.ScopeSpec{}, fmt.Errorf("duplicate scope id %q", s.spec.ID)
	}
	seen[s.spec.ID] = true

	spec := s.spec
	spec.Widget.ID = spec.ID
	spec.Children = make([]domain.ScopeSpec, 0, len(s.children))
	for _, c := range s.children {
		child, err := c.build(seen)
		if err != nil {
			return domain.ScopeSpec{}, err
		}
		spec.Children = append(spec.Children, child)
	}
	return spec, nil
}
