package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_Tree(t *testing.T) {
	root := NewScope("app")
	panel := root.NewChild("panel")
	button := panel.NewChild("button")

	assert.True(t, root.IsRoot())
	assert.False(t, panel.IsRoot())
	assert.Same(t, panel, button.Parent())
	assert.Same(t, root, panel.Parent())
	assert.Nil(t, root.Parent())
	assert.Len(t, root.Children(), 1)
}

func TestScope_LookupWalksParents(t *testing.T) {
	root := NewScope("app")
	root.Set("score", 80)
	child := root.NewChild("child")
	child.Set("name", "alice")

	v, ok := child.Lookup("score")
	require.True(t, ok)
	assert.Equal(t, 80, v)

	_, ok = root.Lookup("name")
	assert.False(t, ok, "parents never see child state")

	child.Set("score", 10)
	v, _ = child.Lookup("score")
	assert.Equal(t, 10, v, "nearest scope wins")
}

func TestScope_Flatten(t *testing.T) {
	root := NewScope("app")
	root.Set("a", 1)
	root.Set("b", 1)
	child := root.NewChild("child")
	child.Set("b", 2)

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, child.Flatten())
}

func TestScope_Destroy(t *testing.T) {
	root := NewScope("app")
	panel := root.NewChild("panel")
	button := panel.NewChild("button")
	button.Define("foo", NewPayload(Action{Type: ActionExec}))

	panel.Destroy()

	assert.False(t, panel.Alive())
	assert.False(t, button.Alive())
	assert.Nil(t, button.Parent())
	assert.Empty(t, root.Children())

	_, ok := button.LookupLocal("foo")
	assert.False(t, ok, "torn-down scopes expose no functions")
}

func TestScope_LookupLocal(t *testing.T) {
	s := NewScope("app")
	_, ok := s.LookupLocal("foo")
	assert.False(t, ok)

	s.Define("foo", NewPayload(Action{Type: ActionExec, Command: "X"}))
	p, ok := s.LookupLocal("foo")
	require.True(t, ok)
	assert.Equal(t, "X", p.Actions[0].Command)

	s.Define("foo", nil)
	_, ok = s.LookupLocal("foo")
	assert.False(t, ok)
}

func TestScope_LookupStopsOnCycle(t *testing.T) {
	a := NewScope("a")
	b := a.NewChild("b")
	a.Attach(b)

	_, ok := b.Lookup("missing")
	assert.False(t, ok)
	assert.NotNil(t, b.Flatten())
}

func TestScope_WalkStopsOnCycle(t *testing.T) {
	a := NewScope("a")
	b := a.NewChild("b")
	a.Attach(b)

	var ids []string
	a.Walk(func(s *Scope) { ids = append(ids, s.ID) })
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestScope_SnapshotIsCopy(t *testing.T) {
	s := NewScope("app")
	s.Set("x", 1)
	snap := s.Snapshot()
	snap["x"] = 2

	v, _ := s.Get("x")
	assert.Equal(t, 1, v)

	s.Load(map[string]any{"y": true})
	_, ok := s.Get("x")
	assert.False(t, ok)
}
