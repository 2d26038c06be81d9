package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/jsonview/internal/runtime"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NilAndEmpty(t *testing.T) {
	root := domain.NewScope("app")
	eng, rec, _ := newTestEngine(root, defaultTypes)

	eng.Run(context.Background(), root, nil)
	eng.Run(context.Background(), root, &domain.Payload{})
	assert.Zero(t, rec.count())
}

func TestRun_UnknownTypeIsSkipped(t *testing.T) {
	root := domain.NewScope("app")
	eng, rec, _ := newTestEngine(root, []string{"a2"})

	assert.NotPanics(t, func() {
		eng.Run(context.Background(), root, domain.NewPayload(
			domain.Action{Type: "a1"},
			domain.Action{Type: "a2"},
		))
	})
	assert.Len(t, rec.ofType("a2"), 1)
	assert.Equal(t, 1, rec.count())
}

func TestRun_PreservesOrderAndPassesRoot(t *testing.T) {
	root := domain.NewScope("app")
	child := root.NewChild("c")
	eng, rec, _ := newTestEngine(root, defaultTypes)

	eng.Run(context.Background(), child, domain.NewPayload(mark("1"), mark("2"), mark("3")))

	calls := rec.ofType("mark")
	require.Len(t, calls, 3)
	for i, c := range calls {
		assert.Equal(t, string(rune('1'+i)), c.Action.Name)
		assert.Same(t, child, c.Scope)
		assert.Same(t, root, c.Root)
	}
}

func TestRun_HandlerErrorsAndPanicsDoNotAbort(t *testing.T) {
	root := domain.NewScope("app")
	eng, rec, reg := newTestEngine(root, defaultTypes)
	reg.Register("fail", func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		return errors.New("nope")
	})
	reg.Register("explode", func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		panic("boom")
	})

	var failures []error
	eng = runtime.NewEngine(reg, root, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			if e.Err != nil {
				failures = append(failures, e.Err)
			}
		},
	}))

	eng.Run(context.Background(), root, domain.NewPayload(
		domain.Action{Type: "fail"},
		domain.Action{Type: "explode"},
		mark("after"),
	))

	assert.Len(t, rec.ofType("mark"), 1)
	assert.Len(t, failures, 2)
}

func TestRun_MaxDepth(t *testing.T) {
	root := domain.NewScope("app")
	eng, _, reg := newTestEngine(root, defaultTypes)

	calls := 0
	reg.Register("loop", func(ctx context.Context, scope *domain.Scope, action domain.Action, root *domain.Scope) error {
		calls++
		eng.Invoke(ctx, scope, "again")
		return nil
	})
	root.Define("again", domain.NewPayload(domain.Action{Type: "loop"}))
	eng = runtime.NewEngine(reg, root, runtime.WithMaxDepth(5))

	assert.NotPanics(t, func() {
		eng.Invoke(context.Background(), root, "again")
	})
	assert.Equal(t, 5, calls)
}
