package dsl

import (
	"fmt"

	"github.com/aretw0/jsonview/pkg/domain"
)

// Builder manages question construction.
type Builder struct {
	id     string
	weight float64
	init   []domain.Action
	root   *ScopeBuilder
}

// New creates a builder for the question id. The root scope is domain.RootScopeID.
func New(id string) *Builder {
	b := &Builder{id: id}
	b.root = &ScopeBuilder{builder: b, spec: domain.ScopeSpec{ID: domain.RootScopeID}}
	return b
}

// Weight sets the question weight.
func (b *Builder) Weight(w float64) *Builder {
	b.weight = w
	return b
}

// Init appends actions run once after the scope tree is built.
func (b *Builder) Init(actions ...domain.Action) *Builder {
	b.init = append(b.init, actions...)
	return b
}

// Root returns the application scope builder.
func (b *Builder) Root() *ScopeBuilder {
	return b.root
}

// Build compiles the question. Scope IDs must be unique.
func (b *Builder) Build() (*domain.Question, error) {
	if b.id == "" {
		return nil, fmt.Errorf("question id is required")
	}
	seen := make(map[string]bool)
	root, err := b.root.build(seen)
	if err != nil {
		return nil, err
	}
	return &domain.Question{
		ID:     b.id,
		Weight: b.weight,
		Init:   b.init,
		Root:   root,
	}, nil
}
