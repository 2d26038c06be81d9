package runtime

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
)

const commandDelimiter = "::"

var (
	// dispatchLike catches every name written as a dispatch call.
	dispatchLike = regexp.MustCompile(`^\s*dispatch\s*\(`)
	// dispatchCall accepts exactly one quoted event name.
	dispatchCall = regexp.MustCompile(`^\s*dispatch\(\s*(?:'(\w+)'|"(\w+)")\s*\)\s*$`)
)

// Invoke resolves name issued from scope and runs whatever it resolves to.
//
// Strategies are tried in order and the first that applies is final:
// explicit "ns::command", dispatch('event'), a function bound in scope or the
// nearest ancestor, and finally the default command (never for "default" itself).
func (e *Engine) Invoke(ctx context.Context, scope *domain.Scope, name string) domain.Resolution {
	if name == "" {
		return domain.Resolution{Strategy: domain.StrategyNone}
	}
	res := e.resolve(ctx, scope, name)
	e.emitResolve(ctx, scope, res)
	return res
}

func (e *Engine) resolve(ctx context.Context, scope *domain.Scope, name string) domain.Resolution {
	res := domain.Resolution{Name: name}

	if strings.Contains(name, commandDelimiter) {
		e.logger.Debug("invoke command", "fn", name)
		e.runAction(ctx, e.root, domain.Action{Type: domain.ActionExec, Command: name})
		res.Strategy = domain.StrategyCommand
		return res
	}

	if IsDispatchCall(name) {
		event, ok := ParseDispatch(name)
		if !ok {
			e.logger.Warn("rejected dispatch call", "fn", name, "err", domain.ErrMalformedDispatch)
			res.Strategy = domain.StrategyRejected
			return res
		}
		e.logger.Debug("invoke dispatch", "fn", name, "event", event)
		e.Run(ctx, scope, domain.NewPayload(domain.Action{Type: domain.ActionDispatch, Name: event}))
		res.Strategy = domain.StrategyDispatch
		return res
	}

	visited := make(map[*domain.Scope]struct{})
	for cur := scope; cur != nil && cur.Alive(); cur = cur.Parent() {
		if _, seen := visited[cur]; seen {
			e.logger.Warn("scope cycle detected during resolution", "fn", name, "scope", cur.ID)
			break
		}
		visited[cur] = struct{}{}

		if payload, ok := cur.LookupLocal(name); ok {
			e.logger.Debug("invoke function", "fn", name, "scope", cur.ID)
			e.Run(ctx, cur, payload)
			res.Strategy = domain.StrategyFunction
			res.Scope = cur
			return res
		}
		if cur == e.root {
			break
		}
	}

	if name == domain.DefaultFunctionName {
		res.Strategy = domain.StrategyNone
		return res
	}
	e.logger.Debug("invoke default command", "fn", name, "command", e.defaultCommand)
	e.runAction(ctx, e.root, domain.Action{Type: domain.ActionExec, Command: e.defaultCommand})
	res.Strategy = domain.StrategyDefault
	return res
}

// IsDispatchCall reports whether name is written as a dispatch(...) call, well formed or not.
func IsDispatchCall(name string) bool {
	return dispatchLike.MatchString(name)
}

// ParseDispatch extracts the event of dispatch('event'). Anything but a single
// quoted word argument is rejected.
func ParseDispatch(name string) (string, bool) {
	m := dispatchCall.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}
