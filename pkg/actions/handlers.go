// Package actions provides the built-in action handlers.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/ports"
)

// Engine is the part of the runtime the handlers call back into.
type Engine interface {
	Invoke(ctx context.Context, scope *domain.Scope, name string) domain.Resolution
	RunCondition(ctx context.Context, scope *domain.Scope, conds ...domain.Condition) bool
}

// Registrar is where handlers get installed.
type Registrar interface {
	Register(actionType string, fn domain.ActionHandler)
}

// Deps are the collaborators of the built-in handlers.
type Deps struct {
	Commands *CommandTable
	Bus      *Bus
	Values   ports.ValueResolver
	Engine   Engine
	Logger   *slog.Logger
}

// Register installs every built-in handler.
func Register(reg Registrar, deps Deps) {
	reg.Register(domain.ActionExec, Exec(deps.Commands))
	reg.Register(domain.ActionDispatch, Dispatch(deps.Bus))
	reg.Register(domain.ActionSet, Set(deps.Values))
	reg.Register(domain.ActionCondition, Condition(deps.Engine))
	reg.Register(domain.ActionInvoke, Invoke(deps.Engine))
	reg.Register(domain.ActionLog, Log(deps.Logger))
}

// Exec runs action.Command from the command table against the application scope.
func Exec(commands *CommandTable) domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		if action.Command == "" {
			return errors.New("exec: missing command")
		}
		if !commands.Allowed(action.Command) {
			return fmt.Errorf("exec %s: %w", action.Command, domain.ErrCommandNotAllowed)
		}
		fn, ok := commands.Lookup(action.Command)
		if !ok {
			return fmt.Errorf("exec %s: %w", action.Command, domain.ErrUnknownCommand)
		}
		return fn(ctx, root, action)
	}
}

// Dispatch raises action.Name on the bus.
func Dispatch(bus *Bus) domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		if action.Name == "" {
			return errors.New("dispatch: missing event name")
		}
		bus.Emit(ctx, Event{Name: action.Name, Scope: scope, Action: action})
		return nil
	}
}

// Set writes a resolved value to a property. The target is the issuing scope
// unless the action carries scope: root. Dotted properties write into nested maps.
func Set(values ports.ValueResolver) domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		if action.Property == "" {
			return errors.New("set: missing property")
		}
		target := scope
		if s, _ := action.Extra["scope"].(string); s == "root" || target == nil {
			target = root
		}
		if target == nil {
			return errors.New("set: no target scope")
		}
		value := values.Resolve(scope, action.Value, false)
		setPath(target, action.Property, value)
		return nil
	}
}

func setPath(scope *domain.Scope, path string, value any) {
	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		scope.Set(path, value)
		return
	}
	top, _ := scope.Get(segments[0])
	scope.Set(segments[0], setNested(top, segments[1:], value))
}

// setNested copies maps along the path so earlier snapshots are not mutated.
func setNested(cur any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	next := make(map[string]any)
	if m, ok := cur.(map[string]any); ok {
		for k, v := range m {
			next[k] = v
		}
	}
	next[segments[0]] = setNested(next[segments[0]], segments[1:], value)
	return next
}

// Condition runs nested conditions, so rules can be composed.
func Condition(engine Engine) domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		engine.RunCondition(ctx, scope, action.Conditions...)
		return nil
	}
}

// Invoke resolves action.Name from the issuing scope.
func Invoke(engine Engine) domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		if action.Name == "" {
			return errors.New("invoke: missing name")
		}
		engine.Invoke(ctx, scope, action.Name)
		return nil
	}
}

// Log writes the action's message at info level.
func Log(logger *slog.Logger) domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		if logger == nil {
			return nil
		}
		msg, _ := action.Extra["message"].(string)
		if msg == "" {
			msg = action.Name
		}
		scopeID := ""
		if scope != nil {
			scopeID = scope.ID
		}
		logger.InfoContext(ctx, "question log", "message", msg, "scope", scopeID)
		return nil
	}
}
