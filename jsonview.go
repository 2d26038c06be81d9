package jsonview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/jsonview/internal/compiler"
	"github.com/aretw0/jsonview/internal/logging"
	"github.com/aretw0/jsonview/internal/runtime"
	"github.com/aretw0/jsonview/internal/validator"
	"github.com/aretw0/jsonview/pkg/actions"
	"github.com/aretw0/jsonview/pkg/compare"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/lookup"
	"github.com/aretw0/jsonview/pkg/ports"
	"github.com/aretw0/jsonview/pkg/registry"
)

// Player is the high-level entry point: it loads one question, builds its scope
// tree and routes widget events and action names through the engine.
// Calls are serialized; the engine itself is single-threaded.
type Player struct {
	mu sync.Mutex

	registry *registry.Registry
	commands *actions.CommandTable
	bus      *actions.Bus
	parser   *compiler.Parser

	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	defaultCommand string
	evaluator      ports.ExpressionEvaluator
	operators      ports.OperatorTable
	maxDepth       int
	validate       bool
	handlers       map[string]domain.ActionHandler

	question *domain.Question
	engine   *runtime.Engine
	root     *domain.Scope
	scopes   map[string]*domain.Scope
	widgets  map[string]*domain.Widget
	restore  map[string]map[string]any
}

// Option defines a functional option for configuring the Player.
type Option func(*Player)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Player) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithDefaultCommand sets the command run when nothing else resolves a name.
func WithDefaultCommand(command string) Option {
	return func(p *Player) {
		if command != "" {
			p.defaultCommand = command
		}
	}
}

// WithEvaluator replaces the built-in expression language.
func WithEvaluator(ev ports.ExpressionEvaluator) Option {
	return func(p *Player) {
		p.evaluator = ev
	}
}

// WithOperators replaces the operator table.
func WithOperators(table ports.OperatorTable) Option {
	return func(p *Player) {
		if table != nil {
			p.operators = table
		}
	}
}

// WithMaxDepth bounds nested action execution.
func WithMaxDepth(depth int) Option {
	return func(p *Player) {
		p.maxDepth = depth
	}
}

// WithCommand registers a command runnable by exec (and by "ns::name" references).
func WithCommand(name string, fn actions.CommandFunc) Option {
	return func(p *Player) {
		p.commands.Register(name, fn)
	}
}

// WithWhitelist restricts exec to the given command patterns ("nav::*" style).
func WithWhitelist(patterns ...string) Option {
	return func(p *Player) {
		p.commands.Allow(patterns...)
	}
}

// WithActionHandler registers a custom action type, or overrides a built-in one.
func WithActionHandler(actionType string, fn domain.ActionHandler) Option {
	return func(p *Player) {
		p.handlers[actionType] = fn
	}
}

// WithValidation makes Load reject questions the validator finds problems in.
func WithValidation() Option {
	return func(p *Player) {
		p.validate = true
	}
}

// New creates a player with the built-in action handlers installed.
func New(opts ...Option) *Player {
	p := &Player{
		registry:       registry.NewRegistry(),
		commands:       actions.NewCommandTable(),
		bus:            actions.NewBus(),
		parser:         compiler.NewParser(),
		logger:         logging.NewNop(),
		defaultCommand: domain.DefaultCommand,
		operators:      compare.Default(),
		handlers:       make(map[string]domain.ActionHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	actions.Register(p.registry, actions.Deps{
		Commands: p.commands,
		Bus:      p.bus,
		Values:   lookup.New(),
		Engine:   engineRef{p},
		Logger:   p.logger,
	})
	for t, fn := range p.handlers {
		p.registry.Register(t, fn)
	}
	return p
}

// engineRef lets handlers reach the engine of whichever question is loaded.
// Handlers only run inside Player calls, which already hold the lock.
type engineRef struct{ p *Player }

func (r engineRef) Invoke(ctx context.Context, scope *domain.Scope, name string) domain.Resolution {
	if r.p.engine == nil {
		return domain.Resolution{Name: name, Strategy: domain.StrategyNone}
	}
	return r.p.engine.Invoke(ctx, scope, name)
}

func (r engineRef) RunCondition(ctx context.Context, scope *domain.Scope, conds ...domain.Condition) bool {
	if r.p.engine == nil {
		return false
	}
	return r.p.engine.RunCondition(ctx, scope, conds...)
}

// Subscribe listens for events raised by dispatch actions. Use actions.AnyEvent
// for every event. The returned function unsubscribes.
func (p *Player) Subscribe(event string, fn actions.Listener) func() {
	return p.bus.Subscribe(event, fn)
}

// ActionTypes lists the registered action types.
func (p *Player) ActionTypes() []string {
	return p.registry.Types()
}

// Commands lists the registered exec commands.
func (p *Player) Commands() []string {
	return p.commands.Names()
}

// Question returns the loaded question, or nil.
func (p *Player) Question() *domain.Question {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.question
}

// Scope returns a live scope of the loaded question.
func (p *Player) Scope(id string) (*domain.Scope, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.scopes[id]
	return s, ok
}

// ScopeIDs lists the scopes of the loaded question, root first, depth first.
func (p *Player) ScopeIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.root == nil {
		return nil
	}
	var ids []string
	p.root.Walk(func(s *domain.Scope) { ids = append(ids, s.ID) })
	return ids
}

// Invoke resolves name from the given scope.
func (p *Player) Invoke(ctx context.Context, scopeID, name string) (domain.Resolution, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	scope, err := p.scope(scopeID)
	if err != nil {
		return domain.Resolution{Name: name}, err
	}
	return p.engine.Invoke(ctx, scope, name), nil
}

// CallAction invokes name against the application scope, the way header buttons do.
func (p *Player) CallAction(ctx context.Context, name string) (domain.Resolution, error) {
	return p.Invoke(ctx, domain.RootScopeID, name)
}

// Dispatch raises eventType on the widget owning scopeID. ok is false when the
// widget has no handler for the event.
func (p *Player) Dispatch(ctx context.Context, scopeID, eventType string) (res domain.Resolution, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	scope, err := p.scope(scopeID)
	if err != nil {
		return res, false, err
	}
	res, ok = p.engine.Dispatch(ctx, scope, eventType, p.widgets[scopeID])
	return res, ok, nil
}

// RunCondition evaluates conditions against a scope of the loaded question.
func (p *Player) RunCondition(ctx context.Context, scopeID string, conds ...domain.Condition) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	scope, err := p.scope(scopeID)
	if err != nil {
		return false, err
	}
	return p.engine.RunCondition(ctx, scope, conds...), nil
}

func (p *Player) scope(id string) (*domain.Scope, error) {
	if p.engine == nil {
		return nil, domain.ErrNoQuestion
	}
	s, ok := p.scopes[id]
	if !ok || !s.Alive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrScopeNotFound, id)
	}
	return s, nil
}

// Snapshot captures the state of every scope as a session.
func (p *Player) Snapshot(sessionID string) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.question == nil {
		return nil, domain.ErrNoQuestion
	}
	sess := domain.NewSession(sessionID, p.question.ID)
	p.root.Walk(func(s *domain.Scope) {
		sess.Scopes[s.ID] = s.Snapshot()
	})
	sess.RestorePoint = p.restore
	return sess.Clone(), nil
}

// Restore loads scope state from a session taken on the same question.
// Scopes the session does not mention keep their current state.
func (p *Player) Restore(sess *domain.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.question == nil {
		return domain.ErrNoQuestion
	}
	if sess == nil {
		return domain.ErrSessionNotFound
	}
	if sess.QuestionID != p.question.ID {
		return fmt.Errorf("session %s belongs to question %q, loaded %q", sess.ID, sess.QuestionID, p.question.ID)
	}
	p.apply(sess.Scopes)
	return nil
}

// Reset returns every scope to the restore point taken after startup.
func (p *Player) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.question == nil {
		return domain.ErrNoQuestion
	}
	p.apply(p.restore)
	p.logger.Debug("question reset", "question", p.question.ID)
	return nil
}

func (p *Player) apply(states map[string]map[string]any) {
	for id, state := range states {
		s, ok := p.scopes[id]
		if !ok {
			p.logger.Warn("ignoring state for unknown scope", "scope", id)
			continue
		}
		s.Load(state)
	}
}

// Close tears down the loaded question.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unload()
}

func (p *Player) unload() {
	if p.root != nil {
		p.root.Destroy()
	}
	p.question = nil
	p.engine = nil
	p.root = nil
	p.scopes = nil
	p.widgets = nil
	p.restore = nil
}

func snapshotAll(root *domain.Scope) map[string]map[string]any {
	out := make(map[string]map[string]any)
	root.Walk(func(s *domain.Scope) { out[s.ID] = s.Snapshot() })
	return out
}

func (p *Player) newEngine(root *domain.Scope) *runtime.Engine {
	opts := []runtime.EngineOption{
		runtime.WithLogger(p.logger),
		runtime.WithLifecycleHooks(p.hooks),
		runtime.WithDefaultCommand(p.defaultCommand),
		runtime.WithOperators(p.operators),
		runtime.WithMaxDepth(p.maxDepth),
	}
	if p.evaluator != nil {
		opts = append(opts, runtime.WithEvaluator(p.evaluator))
	}
	return runtime.NewEngine(p.registry, root, opts...)
}

func (p *Player) validatorOptions() validator.Options {
	return validator.Options{ActionTypes: p.registry.Types(), Operators: p.operators}
}
