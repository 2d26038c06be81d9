package jsonview

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/jsonview/internal/runtime"
	"github.com/aretw0/jsonview/internal/validator"
	"github.com/aretw0/jsonview/pkg/domain"
)

// loading is the state a Load builds before it is swapped in.
type loading struct {
	data     []byte
	question *domain.Question
	root     *domain.Scope
	scopes   map[string]*domain.Scope
	widgets  map[string]*domain.Widget
	engine   *runtime.Engine
	restore  map[string]map[string]any
}

type step struct {
	name string
	run  func(ctx context.Context, l *loading) error
}

// LoadFile reads a question document from disk and loads it.
func (p *Player) LoadFile(ctx context.Context, path string) error {
	read := step{"read question", func(ctx context.Context, l *loading) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		l.data = data
		return nil
	}}
	return p.start(ctx, &loading{}, read, p.parseStep())
}

// Load parses and starts a question document. Steps run strictly in order:
// clear the previous session, parse, validate (when enabled), build the scope
// tree, run init actions and take the restore point. The first failing step
// aborts the rest and leaves the player unloaded.
func (p *Player) Load(ctx context.Context, data []byte) error {
	return p.start(ctx, &loading{data: data}, p.parseStep())
}

// LoadQuestion starts an already parsed question.
func (p *Player) LoadQuestion(ctx context.Context, q *domain.Question) error {
	if q == nil {
		return domain.ErrNoQuestion
	}
	return p.start(ctx, &loading{question: q})
}

func (p *Player) parseStep() step {
	return step{"parse question", func(ctx context.Context, l *loading) error {
		q, err := p.parser.Parse(l.data)
		if err != nil {
			return err
		}
		l.question = q
		return nil
	}}
}

func (p *Player) start(ctx context.Context, l *loading, pre ...step) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	steps := []step{{"clear session", func(ctx context.Context, l *loading) error {
		p.unload()
		return nil
	}}}
	steps = append(steps, pre...)
	if p.validate {
		steps = append(steps, step{"validate question", func(ctx context.Context, l *loading) error {
			return validator.ValidateQuestion(l.question, p.validatorOptions())
		}})
	}
	steps = append(steps,
		step{"build scopes", p.buildScopes},
		step{"run init actions", p.runInit},
		step{"create restore point", func(ctx context.Context, l *loading) error {
			l.restore = snapshotAll(l.root)
			return nil
		}},
	)

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return p.teardown(l, s.name, err)
		}
		if err := s.run(ctx, l); err != nil {
			return p.teardown(l, s.name, err)
		}
	}

	p.question = l.question
	p.root = l.root
	p.scopes = l.scopes
	p.widgets = l.widgets
	p.engine = l.engine
	p.restore = l.restore
	p.logger.Info("question loaded", "question", l.question.ID, "scopes", len(l.scopes))
	return nil
}

// teardown is the single exit for a failed load.
func (p *Player) teardown(l *loading, stepName string, err error) error {
	p.logger.Error("question load failed", "step", stepName, "err", err)
	if l.root != nil {
		l.root.Destroy()
	}
	p.unload()
	return fmt.Errorf("%s: %w", stepName, err)
}

func (p *Player) buildScopes(ctx context.Context, l *loading) error {
	l.scopes = make(map[string]*domain.Scope)
	l.widgets = make(map[string]*domain.Widget)

	root := domain.NewScope(domain.RootScopeID)
	l.root = root
	if err := l.populate(root, l.question.Root); err != nil {
		return err
	}
	l.engine = p.newEngine(root)
	return nil
}

func (l *loading) populate(s *domain.Scope, spec domain.ScopeSpec) error {
	if _, dup := l.scopes[s.ID]; dup {
		return fmt.Errorf("duplicate scope id %q", s.ID)
	}
	l.scopes[s.ID] = s
	s.Load(spec.State)
	for name, payload := range spec.Functions {
		s.Define(name, payload)
	}
	if !s.IsRoot() {
		w := spec.Widget
		w.ID = s.ID
		l.widgets[s.ID] = &w
	}
	for _, child := range spec.Children {
		if err := l.populate(s.NewChild(child.ID), child); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) runInit(ctx context.Context, l *loading) error {
	if len(l.question.Init) == 0 {
		return nil
	}
	// runtime access during init goes through engineRef, which reads p.engine.
	prev := p.engine
	p.engine = l.engine
	defer func() { p.engine = prev }()

	l.engine.Run(ctx, l.root, domain.NewPayload(l.question.Init...))
	return nil
}
