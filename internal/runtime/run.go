package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/jsonview/pkg/domain"
)

type depthKey struct{}

// Run executes each action of payload in order through the registry.
// Unknown action types are skipped; handler errors are logged and do not stop the sequence.
func (e *Engine) Run(ctx context.Context, scope *domain.Scope, payload *domain.Payload) {
	if payload.Empty() {
		return
	}
	for _, action := range payload.Actions {
		e.runAction(ctx, scope, action)
	}
}

func (e *Engine) runAction(ctx context.Context, scope *domain.Scope, action domain.Action) {
	handler, ok := e.registry.Get(action.Type)
	if !ok {
		e.logger.Debug("no handler for action type", "type", action.Type)
		e.emitAction(ctx, scope, action, false, nil)
		return
	}

	depth, _ := ctx.Value(depthKey{}).(int)
	if depth >= e.maxDepth {
		err := fmt.Errorf("action %s exceeds max depth %d", action, e.maxDepth)
		e.logger.Warn("action skipped", "type", action.Type, "err", err)
		e.emitAction(ctx, scope, action, false, err)
		return
	}
	ctx = context.WithValue(ctx, depthKey{}, depth+1)

	err := e.call(ctx, handler, scope, action)
	if err != nil {
		e.logger.Warn("action failed", "type", action.Type, "action", action.String(), "err", err)
	} else {
		e.logger.Debug("action fired", "type", action.Type, "action", action.String())
	}
	e.emitAction(ctx, scope, action, true, err)
}

func (e *Engine) call(ctx context.Context, handler domain.ActionHandler, scope *domain.Scope, action domain.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %s panicked: %v", action, r)
		}
	}()
	return handler(ctx, scope, action, e.root)
}
