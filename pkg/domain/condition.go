package domain

// ConditionKind distinguishes the two condition shapes.
type ConditionKind int

const (
	// ConditionUnknown matches neither shape and never fires.
	ConditionUnknown ConditionKind = iota
	// ConditionExpression is evaluated as an expression against the scope.
	ConditionExpression
	// ConditionProperty compares a scope property against operator operands.
	ConditionProperty
)

func (k ConditionKind) String() string {
	switch k {
	case ConditionExpression:
		return "expression"
	case ConditionProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Condition guards a payload. Expression conditions set Expression; property
// conditions set Property and one or more Operands keyed by operator name.
type Condition struct {
	Kind       ConditionKind  `json:"kind"`
	Expression string         `json:"expression,omitempty"`
	Property   string         `json:"property,omitempty"`
	Operands   map[string]any `json:"operands,omitempty"`
	Payload    *Payload       `json:"payload,omitempty"`
}

// Expression builds an expression condition.
func Expression(expr string, actions ...Action) Condition {
	return Condition{
		Kind:       ConditionExpression,
		Expression: expr,
		Payload:    NewPayload(actions...),
	}
}

// Property builds a property condition with a single operator.
func Property(property, operator string, operand any, actions ...Action) Condition {
	return Condition{
		Kind:     ConditionProperty,
		Property: property,
		Operands: map[string]any{operator: operand},
		Payload:  NewPayload(actions...),
	}
}
