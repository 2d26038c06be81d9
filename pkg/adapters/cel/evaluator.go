// Package cel provides an expression evaluator backed by cel-go, for questions
// that want CEL semantics instead of the built-in expression language.
package cel

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
	"github.com/google/cel-go/cel"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCostLimit bounds the work a single expression may do.
const DefaultCostLimit = 10000

// DefaultCacheSize is how many compiled programs an Evaluator keeps.
// Interpolated sources change with state, so the cache evicts least recently used.
const DefaultCacheSize = 512

// ScopeVariable exposes the merged scope state as a map, for keys that are not identifiers.
const ScopeVariable = "scope"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Evaluator implements ports.ExpressionEvaluator using CEL.
//
// Every state key visible from the scope that is a valid identifier is declared
// as a dynamic variable; the full merged state is also available as scope.
// Programs are cached per expression and variable set, up to a fixed size.
type Evaluator struct {
	env       *cel.Env
	costLimit uint64
	cacheSize int

	prgCache *lru.Cache[string, cel.Program]
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithCostLimit overrides DefaultCostLimit.
func WithCostLimit(limit uint64) Option {
	return func(e *Evaluator) {
		e.costLimit = limit
	}
}

// WithCacheSize overrides DefaultCacheSize. Non-positive sizes are ignored.
func WithCacheSize(size int) Option {
	return func(e *Evaluator) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// New creates an evaluator with the base environment.
func New(opts ...Option) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(ScopeVariable, cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	e := &Evaluator{
		env:       env,
		costLimit: DefaultCostLimit,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.prgCache, err = lru.New[string, cel.Program](e.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create program cache: %w", err)
	}
	return e, nil
}

// CacheLen reports how many compiled programs are held.
func (e *Evaluator) CacheLen() int {
	return e.prgCache.Len()
}

// Evaluate runs src against the merged state of scope.
// Compile failures wrap expr.ErrSyntax.
func (e *Evaluator) Evaluate(ctx context.Context, scope *domain.Scope, src string) (any, error) {
	state := map[string]any{}
	if scope != nil {
		state = scope.Flatten()
	}

	vars := make([]string, 0, len(state))
	for k := range state {
		if identifier.MatchString(k) && k != ScopeVariable {
			vars = append(vars, k)
		}
	}
	sort.Strings(vars)

	prg, err := e.program(src, vars)
	if err != nil {
		return nil, err
	}

	input := make(map[string]any, len(vars)+1)
	for _, v := range vars {
		input[v] = state[v]
	}
	input[ScopeVariable] = state

	out, _, err := prg.ContextEval(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("cel eval %q: %w", src, err)
	}
	return out.Value(), nil
}

func (e *Evaluator) program(src string, vars []string) (cel.Program, error) {
	cacheKey := src + "\x00" + strings.Join(vars, ",")

	if prg, hit := e.prgCache.Get(cacheKey); hit {
		return prg, nil
	}

	env := e.env
	if len(vars) > 0 {
		decls := make([]cel.EnvOption, 0, len(vars))
		for _, v := range vars {
			decls = append(decls, cel.Variable(v, cel.DynType))
		}
		extended, err := env.Extend(decls...)
		if err != nil {
			return nil, fmt.Errorf("failed to extend CEL environment: %w", err)
		}
		env = extended
	}

	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", expr.ErrSyntax, issues.Err())
	}
	prg, err := env.Program(ast,
		cel.InterruptCheckFrequency(100),
		cel.CostLimit(e.costLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	e.prgCache.Add(cacheKey, prg)
	return prg, nil
}
