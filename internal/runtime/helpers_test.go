package runtime_test

import (
	"context"
	"sync"

	"github.com/aretw0/jsonview/internal/runtime"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/registry"
)

type call struct {
	Action domain.Action
	Scope  *domain.Scope
	Root   *domain.Scope
}

// recorder captures every handler invocation per action type.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) handler() domain.ActionHandler {
	return func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, call{Action: action, Scope: scope, Root: root})
		return nil
	}
}

func (r *recorder) ofType(actionType string) []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []call
	for _, c := range r.calls {
		if c.Action.Type == actionType {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// newTestEngine wires a registry whose handlers record into rec.
func newTestEngine(root *domain.Scope, types []string, opts ...runtime.EngineOption) (*runtime.Engine, *recorder, *registry.Registry) {
	rec := &recorder{}
	reg := registry.NewRegistry()
	for _, t := range types {
		reg.Register(t, rec.handler())
	}
	return runtime.NewEngine(reg, root, opts...), rec, reg
}

var defaultTypes = []string{domain.ActionExec, domain.ActionDispatch, "mark"}
