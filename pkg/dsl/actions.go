package dsl

import "github.com/aretw0/jsonview/pkg/domain"

// Exec runs a registered command.
func Exec(command string) domain.Action {
	return domain.Action{Type: domain.ActionExec, Command: command}
}

// Dispatch raises a named event.
func Dispatch(event string) domain.Action {
	return domain.Action{Type: domain.ActionDispatch, Name: event}
}

// Set writes value to property on the issuing scope.
func Set(property string, value any) domain.Action {
	return domain.Action{Type: domain.ActionSet, Property: property, Value: value}
}

// SetRoot writes value to property on the application scope.
func SetRoot(property string, value any) domain.Action {
	a := Set(property, value)
	a.Extra = map[string]any{"scope": "root"}
	return a
}

// Invoke resolves another function name from the issuing scope.
func Invoke(name string) domain.Action {
	return domain.Action{Type: domain.ActionInvoke, Name: name}
}

// Log writes message to the player's logger.
func Log(message string) domain.Action {
	return domain.Action{Type: domain.ActionLog, Extra: map[string]any{"message": message}}
}

// Condition runs the first matching condition.
func Condition(conds ...domain.Condition) domain.Action {
	return domain.Action{Type: domain.ActionCondition, Conditions: conds}
}

// If builds an expression condition.
func If(expression string, actions ...domain.Action) domain.Condition {
	return domain.Expression(expression, actions...)
}

// When builds a property condition with one operator.
func When(property, operator string, operand any, actions ...domain.Action) domain.Condition {
	return domain.Property(property, operator, operand, actions...)
}
