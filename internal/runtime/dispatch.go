package runtime

import (
	"context"

	"github.com/aretw0/jsonview/pkg/domain"
)

// Dispatch routes a widget event to the function name the widget binds for it.
// Direct bindings win over the events block. It reports false when the widget
// binds nothing for eventType.
func (e *Engine) Dispatch(ctx context.Context, scope *domain.Scope, eventType string, widget *domain.Widget) (domain.Resolution, bool) {
	name, ok := widget.Handler(eventType)
	if !ok {
		return domain.Resolution{Strategy: domain.StrategyNone}, false
	}
	return e.Invoke(ctx, scope, name), true
}
