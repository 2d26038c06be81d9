package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/jsonview"
	"github.com/aretw0/jsonview/pkg/actions"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiz() *dsl.Builder {
	b := dsl.New("quiz").Weight(2).Init(dsl.Set("started", true))
	b.Root().
		State("score", 80).
		Function("grade", dsl.Condition(
			dsl.When("score", "gte", 70, dsl.Dispatch("pass")),
			dsl.If("{{score}} < 70", dsl.Dispatch("fail")),
		))
	b.Root().Widget("submit").
		On("click", "grade").
		Event("press", "nav::next")
	b.Root().Widget("counter").
		State("clicks", 0).
		Function("bump", dsl.Set("clicks", 1), dsl.SetRoot("touched", true)).
		On("click", "bump")
	return b
}

func TestBuilder_Structure(t *testing.T) {
	q, err := quiz().Build()
	require.NoError(t, err)

	assert.Equal(t, "quiz", q.ID)
	assert.Equal(t, 2.0, q.Weight)
	require.Len(t, q.Init, 1)
	assert.Equal(t, domain.RootScopeID, q.Root.ID)
	require.Len(t, q.Root.Children, 2)

	submit := q.Root.Children[0]
	assert.Equal(t, "submit", submit.Widget.ID)
	assert.Equal(t, "grade", submit.Widget.Handlers["click"])
	assert.Equal(t, "nav::next", submit.Widget.Events["press"])

	grade := q.Root.Functions["grade"]
	require.NotNil(t, grade)
	require.Len(t, grade.Actions[0].Conditions, 2)
	assert.Equal(t, domain.ConditionProperty, grade.Actions[0].Conditions[0].Kind)
	assert.Equal(t, domain.ConditionExpression, grade.Actions[0].Conditions[1].Kind)
}

func TestBuilder_WidgetReturnsExisting(t *testing.T) {
	b := dsl.New("q")
	first := b.Root().Widget("w")
	assert.Same(t, first, b.Root().Widget("w"))
}

func TestBuilder_Errors(t *testing.T) {
	_, err := dsl.New("").Build()
	assert.Error(t, err)

	b := dsl.New("dup")
	b.Root().Widget("a").Widget("b")
	b.Root().Widget("b")
	_, err = b.Build()
	assert.ErrorContains(t, err, `duplicate scope id "b"`)
}

func TestBuilder_PlaysInPlayer(t *testing.T) {
	q, err := quiz().Build()
	require.NoError(t, err)

	p := jsonview.New()
	defer p.Close()
	require.NoError(t, p.LoadQuestion(context.Background(), q))

	var events []string
	p.Subscribe(actions.AnyEvent, func(ctx context.Context, ev actions.Event) {
		events = append(events, ev.Name)
	})

	_, ok, err := p.Dispatch(context.Background(), "submit", "click")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"pass"}, events)

	_, _, err = p.Dispatch(context.Background(), "counter", "click")
	require.NoError(t, err)
	get := func(scopeID, key string) any {
		s, ok := p.Scope(scopeID)
		require.True(t, ok)
		v, _ := s.Get(key)
		return v
	}
	assert.Equal(t, 1, get("counter", "clicks"))
	assert.Equal(t, true, get(domain.RootScopeID, "touched"))
	assert.Equal(t, true, get(domain.RootScopeID, "started"))
}
