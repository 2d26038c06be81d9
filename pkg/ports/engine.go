package ports

import (
	"context"

	"github.com/aretw0/jsonview/pkg/domain"
)

// ActionRegistry maps action types to handlers. It is read-only once the engine runs.
type ActionRegistry interface {
	Has(actionType string) bool
	Get(actionType string) (domain.ActionHandler, bool)
}

// OperatorTable maps declared comparison operators to predicates.
// Names reports the declared operators in evaluation order; Lookup must miss for
// anything not declared.
//
// Predicates receive (property value, operand), in that order. A condition
// {property: score, gt: 70} calls pred(score, 70) and fires when score > 70.
// Tables written for the operand-first order must swap their arguments.
type OperatorTable interface {
	Names() []string
	Lookup(name string) (domain.Predicate, bool)
}

// ValueResolver fetches condition values. isProperty selects path lookup against
// the scope; otherwise ref is an operand.
type ValueResolver interface {
	Resolve(scope *domain.Scope, ref any, isProperty bool) any
}

// Interpolator compiles a template into a function rendering it against a scope.
type Interpolator interface {
	Compile(template string) (func(*domain.Scope) string, error)
}

// ExpressionEvaluator evaluates an interpolated expression against a scope's state.
type ExpressionEvaluator interface {
	Evaluate(ctx context.Context, scope *domain.Scope, src string) (any, error)
}
