package compiler_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/jsonview/internal/compiler"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseFile(t *testing.T) {
	q, err := compiler.NewParser().ParseFile(filepath.Join("testdata", "quiz.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "quiz-1", q.ID)
	assert.Equal(t, 2.0, q.Weight)

	// init runs in sorted type order: log before set
	require.Len(t, q.Init, 2)
	assert.Equal(t, domain.ActionLog, q.Init[0].Type)
	assert.Equal(t, "loaded", q.Init[0].Extra["message"])
	assert.Equal(t, domain.ActionSet, q.Init[1].Type)
	assert.Equal(t, "started", q.Init[1].Property)
	assert.Equal(t, true, q.Init[1].Value)

	root := q.Root
	assert.Equal(t, domain.RootScopeID, root.ID)
	assert.Equal(t, 80, root.State["score"])
	require.Contains(t, root.Functions, "grade")

	grade := root.Functions["grade"].Actions
	require.Len(t, grade, 1)
	assert.Equal(t, domain.ActionCondition, grade[0].Type)
	require.Len(t, grade[0].Conditions, 2)

	prop := grade[0].Conditions[0]
	assert.Equal(t, domain.ConditionProperty, prop.Kind)
	assert.Equal(t, "score", prop.Property)
	assert.Equal(t, map[string]any{"gte": 70}, prop.Operands)
	assert.Equal(t, "pass", prop.Payload.Actions[0].Name)

	exp := grade[0].Conditions[1]
	assert.Equal(t, domain.ConditionExpression, exp.Kind)
	assert.Equal(t, "{{score}} < 70", exp.Expression)
	assert.Equal(t, "fail", exp.Payload.Actions[0].Name)

	require.Len(t, root.Children, 1)
	submit := root.Children[0]
	assert.Equal(t, "submit", submit.ID)
	assert.Equal(t, map[string]string{"click": "grade"}, submit.Widget.Handlers)
	assert.Equal(t, map[string]string{"hover": "dispatch('tooltip')"}, submit.Widget.Events)

	local := submit.Functions["local"].Actions
	require.Len(t, local, 2)
	assert.Equal(t, "clicked", local[0].Property)
	assert.Equal(t, "nav::next", local[1].Command)

	require.Len(t, submit.Children, 1)
	assert.Equal(t, "submit/0", submit.Children[0].ID)
	assert.Equal(t, "nested", submit.Children[0].Widget.Handlers["label"])
}

func TestParser_JSON(t *testing.T) {
	doc := `{"id":"q","functions":{"foo":{"action":{"type":"exec","command":"X"}}}}`
	q, err := compiler.NewParser().Parse([]byte(doc))
	require.NoError(t, err)
	require.Contains(t, q.Root.Functions, "foo")
	assert.Equal(t, "X", q.Root.Functions["foo"].Actions[0].Command)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"empty", ``, ""},
		{"invalid yaml", "id: [", ""},
		{"missing id", "weight: 1", "id"},
		{"bad weight", "id: q\nweight: heavy", "weight"},
		{"bad init", "id: q\ninit: [1]", "init"},
		{"bad state", "id: q\nstate: [1]", "root.state"},
		{"bad function", "id: q\nfunctions:\n  f: 3", "root.functions.f"},
		{"bad widgets", "id: q\nwidgets: {}", "root.widgets"},
		{"bad condition", "id: q\nfunctions:\n  f:\n    type: condition\n    conditions: [1]", "root.functions.f.conditions[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.path == "" {
				return
			}
			var de *compiler.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.path, de.Path)
		})
	}
}

func TestDecodeConditions(t *testing.T) {
	conds, err := compiler.DecodeConditions("c", map[string]any{"label": "x"})
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, domain.ConditionUnknown, conds[0].Kind)
	assert.True(t, conds[0].Payload.Empty())

	conds, err = compiler.DecodeConditions("c", nil)
	require.NoError(t, err)
	assert.Empty(t, conds)
}
