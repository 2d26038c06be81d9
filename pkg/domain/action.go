package domain

import (
	"context"
	"fmt"
)

// Well-known action types.
const (
	ActionExec      = "exec"
	ActionDispatch  = "dispatch"
	ActionSet       = "set"
	ActionCondition = "condition"
	ActionInvoke    = "invoke"
	ActionLog       = "log"
)

// DefaultFunctionName is the function name that never falls back to the default command.
const DefaultFunctionName = "default"

// Action is a single typed side-effect request dispatched through the action registry.
// Type selects the handler; the remaining typed fields are read by the handlers that use them.
type Action struct {
	Type string `json:"type" yaml:"type" mapstructure:"type"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`

	// Command is read by "exec".
	Command string `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`

	// Property and Value are read by "set".
	Property string `json:"property,omitempty" yaml:"property,omitempty" mapstructure:"property"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`

	// Conditions are read by "condition".
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" mapstructure:"-"`

	// Extra holds fields this package does not model, for custom handlers.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" mapstructure:",remain"`
}

// Field returns a named field, falling back to Extra.
func (a Action) Field(key string) (any, bool) {
	switch key {
	case "type":
		return a.Type, a.Type != ""
	case "name":
		return a.Name, a.Name != ""
	case "command":
		return a.Command, a.Command != ""
	case "property":
		return a.Property, a.Property != ""
	case "value":
		return a.Value, a.Value != nil
	}
	v, ok := a.Extra[key]
	return v, ok
}

func (a Action) String() string {
	switch {
	case a.Command != "":
		return fmt.Sprintf("%s(%s)", a.Type, a.Command)
	case a.Name != "":
		return fmt.Sprintf("%s(%s)", a.Type, a.Name)
	default:
		return a.Type
	}
}

// Payload is the normalized, ordered form of an action payload.
// A document may declare a single action or a list; both decode to Actions.
type Payload struct {
	Actions []Action `json:"action" yaml:"action"`
}

// NewPayload builds a payload from actions, preserving order.
func NewPayload(actions ...Action) *Payload {
	return &Payload{Actions: actions}
}

// Empty reports whether there is nothing to run.
func (p *Payload) Empty() bool {
	return p == nil || len(p.Actions) == 0
}

// ActionHandler executes one action. scope is where the action was issued from and
// root is the application scope.
type ActionHandler func(ctx context.Context, scope *Scope, action Action, root *Scope) error

// Predicate compares a resolved property value (actual) against an operand (expected).
// The property always comes first: gte holds when actual >= expected.
type Predicate func(actual, expected any) bool
