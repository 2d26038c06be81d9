package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/jsonview/internal/logging"
	"github.com/aretw0/jsonview/pkg/compare"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
	"github.com/aretw0/jsonview/pkg/interpolate"
	"github.com/aretw0/jsonview/pkg/lookup"
	"github.com/aretw0/jsonview/pkg/ports"
)

// DefaultMaxDepth bounds nested action execution (functions invoking functions).
const DefaultMaxDepth = 64

// Engine resolves action names against the scope tree, evaluates conditions and
// runs action payloads through the registry.
// All calls run synchronously on the caller's goroutine.
type Engine struct {
	registry  ports.ActionRegistry
	operators ports.OperatorTable
	values    ports.ValueResolver
	interp    ports.Interpolator
	evaluator ports.ExpressionEvaluator

	root           *domain.Scope
	defaultCommand string
	maxDepth       int
	logger         *slog.Logger
	hooks          domain.LifecycleHooks
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDefaultCommand sets the command run when resolution finds nothing.
func WithDefaultCommand(command string) EngineOption {
	return func(e *Engine) {
		if command != "" {
			e.defaultCommand = command
		}
	}
}

// WithOperators replaces the operator table used by property conditions.
func WithOperators(table ports.OperatorTable) EngineOption {
	return func(e *Engine) {
		e.operators = table
	}
}

// WithValueResolver replaces how property conditions read values.
func WithValueResolver(r ports.ValueResolver) EngineOption {
	return func(e *Engine) {
		e.values = r
	}
}

// WithInterpolator replaces the template compiler used by expression conditions.
func WithInterpolator(i ports.Interpolator) EngineOption {
	return func(e *Engine) {
		e.interp = i
	}
}

// WithEvaluator replaces the expression evaluator.
func WithEvaluator(ev ports.ExpressionEvaluator) EngineOption {
	return func(e *Engine) {
		e.evaluator = ev
	}
}

// WithMaxDepth bounds how deeply actions may nest.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewEngine creates an engine over the given registry. root is the application
// scope that terminates resolution and is handed to every handler.
func NewEngine(registry ports.ActionRegistry, root *domain.Scope, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:       registry,
		operators:      compare.Default(),
		values:         lookup.New(),
		interp:         interpolate.New(),
		evaluator:      expr.NewEvaluator(),
		root:           root,
		defaultCommand: domain.DefaultCommand,
		maxDepth:       DefaultMaxDepth,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the application scope.
func (e *Engine) Root() *domain.Scope {
	return e.root
}

// DefaultCommand returns the configured fallback command.
func (e *Engine) DefaultCommand() string {
	return e.defaultCommand
}

// Hook emission never affects control flow: a panicking hook is logged and dropped.

func (e *Engine) emitResolve(ctx context.Context, scope *domain.Scope, res domain.Resolution) {
	if e.hooks.OnResolve == nil {
		return
	}
	defer e.recoverHook("OnResolve")
	e.hooks.OnResolve(ctx, &domain.ResolveEvent{
		EventBase: e.base(domain.EventResolve, scope),
		Name:      res.Name,
		Strategy:  res.Strategy,
	})
}

func (e *Engine) emitAction(ctx context.Context, scope *domain.Scope, action domain.Action, handled bool, err error) {
	if e.hooks.OnAction == nil {
		return
	}
	defer e.recoverHook("OnAction")
	e.hooks.OnAction(ctx, &domain.ActionEvent{
		EventBase: e.base(domain.EventAction, scope),
		Action:    action,
		Handled:   handled,
		Err:       err,
	})
}

func (e *Engine) emitCondition(ctx context.Context, scope *domain.Scope, ev domain.ConditionEvent) {
	if e.hooks.OnCondition == nil {
		return
	}
	defer e.recoverHook("OnCondition")
	ev.EventBase = e.base(domain.EventCondition, scope)
	e.hooks.OnCondition(ctx, &ev)
}

func (e *Engine) base(t domain.EventType, scope *domain.Scope) domain.EventBase {
	b := domain.EventBase{Timestamp: time.Now(), Type: t}
	if scope != nil {
		b.ScopeID = scope.ID
	}
	return b
}

func (e *Engine) recoverHook(name string) {
	if r := recover(); r != nil {
		e.logger.Warn("lifecycle hook panicked", "hook", name, "panic", r)
	}
}
