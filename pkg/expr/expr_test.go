package expr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	env := expr.MapEnv{
		"score":  80,
		"name":   "alice",
		"done":   true,
		"answer": map[string]any{"choice": "b", "tries": 2},
		"items":  []any{"x", "y", "z"},
	}

	tests := []struct {
		src  string
		want any
	}{
		{"1 + 2 * 3", 7.0},
		{"(1 + 2) * 3", 9.0},
		{"10 - 4 - 3", 3.0},
		{"7 % 4", 3.0},
		{"-score", -80.0},
		{"score >= 70", true},
		{"score > 80", false},
		{"80 >= 70", true},
		{"score == '80'", true},
		{"score === '80'", false},
		{"score === 80", true},
		{"name == 'alice' && done", true},
		{"!done || score < 50", false},
		{"missing", nil},
		{"missing || 'fallback'", "fallback"},
		{"answer.choice == 'b'", true},
		{"answer['tries'] + 1", 3.0},
		{"items[1]", "y"},
		{"items.length", 3.0},
		{"missing.deep.path", nil},
		{"'a' + 1", "a1"},
		{"\"it's\"", "it's"},
		{"null == undefined", true},
		{"'apple' < 'banana'", true},
		{"1e2", 100.0},
		{".5 + .5", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := expr.Eval(tt.src, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	env := expr.MapEnv{"score": 80, "name": "alice"}

	tests := []struct {
		src  string
		kind error
	}{
		{"", expr.ErrSyntax},
		{"score >=", expr.ErrSyntax},
		{"(1 + 2", expr.ErrSyntax},
		{"'unterminated", expr.ErrSyntax},
		{"1 2", expr.ErrSyntax},
		{"score # 2", expr.ErrSyntax},
		{"a.", expr.ErrSyntax},
		{"name * 2", expr.ErrType},
		{"missing > 1", expr.ErrType},
		{"true < 1", expr.ErrType},
		{"-name", expr.ErrType},
		{"1 / 0", expr.ErrDivisionByZero},
		{"1 % 0", expr.ErrDivisionByZero},
		{"alert(1)", expr.ErrUnsupportedNode},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := expr.Eval(tt.src, env)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var exprErr *expr.Error
			assert.True(t, errors.As(err, &exprErr))
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, expr.Truthy(nil))
	assert.False(t, expr.Truthy(false))
	assert.False(t, expr.Truthy(0))
	assert.False(t, expr.Truthy(0.0))
	assert.False(t, expr.Truthy(""))
	assert.True(t, expr.Truthy("0"))
	assert.True(t, expr.Truthy(1))
	assert.True(t, expr.Truthy(map[string]any{}))
}

func TestEvaluator_Scope(t *testing.T) {
	root := domain.NewScope("app")
	root.Set("score", 80)
	child := root.NewChild("panel")
	child.Set("threshold", 70)

	ev := expr.NewEvaluator()
	got, err := ev.Evaluate(context.Background(), child, "score >= threshold")
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = ev.Evaluate(context.Background(), root, "threshold")
	require.NoError(t, err)
	assert.Nil(t, got, "parents do not see child state")

	_, err = ev.Evaluate(context.Background(), root, "score >")
	assert.ErrorIs(t, err, expr.ErrSyntax)

	got, err = ev.Evaluate(context.Background(), nil, "1 + 1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestEvaluator_CacheIsBounded(t *testing.T) {
	ev := expr.NewEvaluatorSize(16)
	root := domain.NewScope("app")
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		got, err := ev.Evaluate(ctx, root, fmt.Sprintf("%d >= 70", i))
		require.NoError(t, err)
		assert.Equal(t, i >= 70, got)
	}
	assert.Equal(t, 16, ev.CacheLen())

	_, err := ev.Evaluate(ctx, root, "499 >= 70")
	require.NoError(t, err)
	assert.Equal(t, 16, ev.CacheLen(), "a hit does not grow the cache")
}
