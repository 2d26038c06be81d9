package runtime

import (
	"context"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
)

// RunCondition evaluates conds in order and runs the payload of the first one
// that matches. It reports whether any condition fired; at most one payload runs.
func (e *Engine) RunCondition(ctx context.Context, scope *domain.Scope, conds ...domain.Condition) bool {
	for i, cond := range conds {
		var matched, malformed bool
		switch cond.Kind {
		case domain.ConditionExpression:
			matched, malformed = e.matchExpression(ctx, scope, cond)
		case domain.ConditionProperty:
			matched = e.matchProperty(scope, cond)
		}

		e.emitCondition(ctx, scope, domain.ConditionEvent{
			Kind:      cond.Kind,
			Index:     i,
			Matched:   matched,
			Malformed: malformed,
		})

		if matched {
			e.Run(ctx, scope, cond.Payload)
			return true
		}
	}
	return false
}

// matchExpression interpolates the expression against scope and evaluates the result.
// Any failure is a non-match.
func (e *Engine) matchExpression(ctx context.Context, scope *domain.Scope, cond domain.Condition) (matched, malformed bool) {
	render, err := e.interp.Compile(cond.Expression)
	if err != nil {
		e.warnMalformed(cond.Expression, err)
		return false, true
	}

	v, err := e.evaluator.Evaluate(ctx, scope, render(scope))
	if err != nil {
		e.warnMalformed(cond.Expression, err)
		return false, true
	}
	return expr.Truthy(v), false
}

func (e *Engine) warnMalformed(expression string, err error) {
	e.logger.Warn("malformed expression in condition, check for literals that should be strings",
		"expression", expression,
		"err", err,
	)
}

// matchProperty tries every declared operator the condition carries, in table order.
func (e *Engine) matchProperty(scope *domain.Scope, cond domain.Condition) bool {
	actual := e.values.Resolve(scope, cond.Property, true)
	for _, op := range e.operators.Names() {
		operand, ok := cond.Operands[op]
		if !ok {
			continue
		}
		pred, ok := e.operators.Lookup(op)
		if !ok {
			continue
		}
		if pred(actual, e.values.Resolve(scope, operand, false)) {
			return true
		}
	}
	return false
}
