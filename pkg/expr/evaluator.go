package expr

import (
	"context"

	"github.com/aretw0/jsonview/pkg/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is how many compiled programs an Evaluator keeps.
const DefaultCacheSize = 512

// Evaluator runs expressions against a scope. Identifiers resolve through the
// scope chain. Compiled programs are cached by source; interpolated sources vary
// with state, so the least recently used ones are evicted.
type Evaluator struct {
	cache *lru.Cache[string, *Program]
}

// NewEvaluator creates an Evaluator holding up to DefaultCacheSize programs.
func NewEvaluator() *Evaluator {
	return NewEvaluatorSize(DefaultCacheSize)
}

// NewEvaluatorSize creates an Evaluator holding up to size programs.
// Non-positive sizes fall back to DefaultCacheSize.
func NewEvaluatorSize(size int) *Evaluator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails on a non-positive size.
	cache, _ := lru.New[string, *Program](size)
	return &Evaluator{cache: cache}
}

// Evaluate compiles (or reuses) src and runs it against scope.
func (e *Evaluator) Evaluate(ctx context.Context, scope *domain.Scope, src string) (any, error) {
	prg, err := e.program(src)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return prg.Eval(nil)
	}
	return prg.Eval(scope)
}

// CacheLen reports how many compiled programs are held.
func (e *Evaluator) CacheLen() int {
	return e.cache.Len()
}

func (e *Evaluator) program(src string) (*Program, error) {
	if prg, hit := e.cache.Get(src); hit {
		return prg, nil
	}

	prg, err := Compile(src)
	if err != nil {
		return nil, err
	}
	e.cache.Add(src, prg)
	return prg, nil
}
