package domain

// Strategy names the resolver step that handled a name.
type Strategy string

const (
	StrategyNone     Strategy = "none"
	StrategyCommand  Strategy = "command"
	StrategyDispatch Strategy = "dispatch"
	StrategyFunction Strategy = "function"
	StrategyDefault  Strategy = "default"
	StrategyRejected Strategy = "rejected"
)

// Resolution reports how a name was resolved.
type Resolution struct {
	Name     string
	Strategy Strategy
	// Scope is the scope that owned the function for StrategyFunction.
	Scope *Scope
}

// Fired reports whether the resolution ran any action.
func (r Resolution) Fired() bool {
	return r.Strategy != StrategyNone && r.Strategy != StrategyRejected
}
