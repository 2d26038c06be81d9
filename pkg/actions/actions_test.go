package actions_test

import (
	"context"
	"testing"

	"github.com/aretw0/jsonview/pkg/actions"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	invoked []string
	conds   int
}

func (f *fakeEngine) Invoke(ctx context.Context, scope *domain.Scope, name string) domain.Resolution {
	f.invoked = append(f.invoked, name)
	return domain.Resolution{Name: name, Strategy: domain.StrategyFunction, Scope: scope}
}

func (f *fakeEngine) RunCondition(ctx context.Context, scope *domain.Scope, conds ...domain.Condition) bool {
	f.conds += len(conds)
	return len(conds) > 0
}

func TestExec(t *testing.T) {
	ctx := context.Background()
	root := domain.NewScope(domain.RootScopeID)
	child := root.NewChild("child")

	commands := actions.NewCommandTable()
	var gotRoot *domain.Scope
	commands.Register("nav::next", func(ctx context.Context, r *domain.Scope, a domain.Action) error {
		gotRoot = r
		return nil
	})
	exec := actions.Exec(commands)

	t.Run("runs registered command against root", func(t *testing.T) {
		err := exec(ctx, child, domain.Action{Type: domain.ActionExec, Command: "nav::next"}, root)
		require.NoError(t, err)
		assert.Same(t, root, gotRoot)
	})

	t.Run("unknown command", func(t *testing.T) {
		err := exec(ctx, child, domain.Action{Type: domain.ActionExec, Command: "nav::nope"}, root)
		assert.ErrorIs(t, err, domain.ErrUnknownCommand)
	})

	t.Run("missing command", func(t *testing.T) {
		assert.Error(t, exec(ctx, child, domain.Action{Type: domain.ActionExec}, root))
	})

	t.Run("whitelist", func(t *testing.T) {
		commands.Allow("app::*")
		err := exec(ctx, child, domain.Action{Type: domain.ActionExec, Command: "nav::next"}, root)
		assert.ErrorIs(t, err, domain.ErrCommandNotAllowed)
	})
}

func TestCommandTable_Allowed(t *testing.T) {
	tbl := actions.NewCommandTable()
	assert.True(t, tbl.Allowed("anything::goes"))

	tbl.Allow("app::default", " nav::* ", "")
	assert.True(t, tbl.Allowed("app::default"))
	assert.True(t, tbl.Allowed("nav::back"))
	assert.False(t, tbl.Allowed("app::quit"))
}

func TestBus(t *testing.T) {
	ctx := context.Background()
	bus := actions.NewBus()

	var got []string
	unsub := bus.Subscribe("submit", func(ctx context.Context, ev actions.Event) { got = append(got, "submit:"+ev.Name) })
	bus.Subscribe(actions.AnyEvent, func(ctx context.Context, ev actions.Event) { got = append(got, "any:"+ev.Name) })

	bus.Emit(ctx, actions.Event{Name: "submit"})
	bus.Emit(ctx, actions.Event{Name: "other"})
	unsub()
	bus.Emit(ctx, actions.Event{Name: "submit"})

	assert.Equal(t, []string{"submit:submit", "any:submit", "any:other", "any:submit"}, got)
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	root := domain.NewScope(domain.RootScopeID)
	bus := actions.NewBus()
	var got actions.Event
	bus.Subscribe("save", func(ctx context.Context, ev actions.Event) { got = ev })

	h := actions.Dispatch(bus)
	require.NoError(t, h(ctx, root, domain.Action{Type: domain.ActionDispatch, Name: "save"}, root))
	assert.Equal(t, "save", got.Name)
	assert.Same(t, root, got.Scope)

	assert.Error(t, h(ctx, root, domain.Action{Type: domain.ActionDispatch}, root))
}

func TestSet(t *testing.T) {
	ctx := context.Background()
	root := domain.NewScope(domain.RootScopeID)
	child := root.NewChild("child")
	root.Set("user", map[string]any{"name": "ana"})
	h := actions.Set(lookup.New())

	t.Run("literal into issuing scope", func(t *testing.T) {
		require.NoError(t, h(ctx, child, domain.Action{Type: domain.ActionSet, Property: "answer", Value: 42}, root))
		v, ok := child.Get("answer")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		_, ok = root.Get("answer")
		assert.False(t, ok)
	})

	t.Run("reference into root", func(t *testing.T) {
		a := domain.Action{
			Type:     domain.ActionSet,
			Property: "copy",
			Value:    "{{user.name}}",
			Extra:    map[string]any{"scope": "root"},
		}
		require.NoError(t, h(ctx, child, a, root))
		v, _ := root.Get("copy")
		assert.Equal(t, "ana", v)
	})

	t.Run("nested path copies maps", func(t *testing.T) {
		before, _ := root.Get("user")
		require.NoError(t, h(ctx, root, domain.Action{Type: domain.ActionSet, Property: "user.age", Value: 30}, root))
		after, _ := root.Get("user")
		assert.Equal(t, map[string]any{"name": "ana", "age": 30}, after)
		assert.Equal(t, map[string]any{"name": "ana"}, before)
	})

	t.Run("missing property", func(t *testing.T) {
		assert.Error(t, h(ctx, root, domain.Action{Type: domain.ActionSet}, root))
	})
}

func TestInvokeAndCondition(t *testing.T) {
	ctx := context.Background()
	root := domain.NewScope(domain.RootScopeID)
	eng := &fakeEngine{}

	require.NoError(t, actions.Invoke(eng)(ctx, root, domain.Action{Type: domain.ActionInvoke, Name: "next"}, root))
	assert.Equal(t, []string{"next"}, eng.invoked)
	assert.Error(t, actions.Invoke(eng)(ctx, root, domain.Action{Type: domain.ActionInvoke}, root))

	cond := domain.Action{
		Type:       domain.ActionCondition,
		Conditions: []domain.Condition{domain.Expression("true"), domain.Expression("false")},
	}
	require.NoError(t, actions.Condition(eng)(ctx, root, cond, root))
	assert.Equal(t, 2, eng.conds)
}

type recordingRegistrar map[string]domain.ActionHandler

func (r recordingRegistrar) Register(actionType string, fn domain.ActionHandler) { r[actionType] = fn }

func TestRegister(t *testing.T) {
	reg := recordingRegistrar{}
	actions.Register(reg, actions.Deps{
		Commands: actions.NewCommandTable(),
		Bus:      actions.NewBus(),
		Values:   lookup.New(),
		Engine:   &fakeEngine{},
	})
	for _, typ := range []string{
		domain.ActionExec, domain.ActionDispatch, domain.ActionSet,
		domain.ActionCondition, domain.ActionInvoke, domain.ActionLog,
	} {
		assert.Contains(t, reg, typ)
	}

	// log tolerates a nil logger
	assert.NoError(t, reg[domain.ActionLog](context.Background(), nil, domain.Action{Type: domain.ActionLog}, nil))
}
