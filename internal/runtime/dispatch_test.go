package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	root := domain.NewScope("app")
	button := root.NewChild("button")
	root.Define("submit", domain.NewPayload(mark("submit")))
	root.Define("peek", domain.NewPayload(mark("peek")))
	eng, rec, _ := newTestEngine(root, defaultTypes)

	widget := &domain.Widget{
		ID:       "button",
		Handlers: map[string]string{"click": "submit"},
		Events:   map[string]string{"click": "peek", "hover": "peek"},
	}

	res, ok := eng.Dispatch(context.Background(), button, "click", widget)
	require.True(t, ok)
	assert.Equal(t, domain.StrategyFunction, res.Strategy)

	_, ok = eng.Dispatch(context.Background(), button, "hover", widget)
	require.True(t, ok)

	_, ok = eng.Dispatch(context.Background(), button, "blur", widget)
	assert.False(t, ok)

	_, ok = eng.Dispatch(context.Background(), button, "click", nil)
	assert.False(t, ok)

	calls := rec.ofType("mark")
	require.Len(t, calls, 2)
	assert.Equal(t, "submit", calls[0].Action.Name)
	assert.Equal(t, "peek", calls[1].Action.Name)
}

func TestDispatch_DispatchSyntaxBinding(t *testing.T) {
	root := domain.NewScope("app")
	eng, rec, _ := newTestEngine(root, defaultTypes)

	widget := &domain.Widget{Handlers: map[string]string{"click": "dispatch('done')"}}
	res, ok := eng.Dispatch(context.Background(), root, "click", widget)

	require.True(t, ok)
	assert.Equal(t, domain.StrategyDispatch, res.Strategy)
	assert.Len(t, rec.ofType(domain.ActionDispatch), 1)
}
