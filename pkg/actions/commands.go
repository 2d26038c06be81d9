package actions

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/jsonview/pkg/domain"
)

// CommandFunc implements an "ns::name" command run by the exec action.
type CommandFunc func(ctx context.Context, root *domain.Scope, action domain.Action) error

// CommandTable holds the commands exec can run and an optional whitelist.
type CommandTable struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
	allow    []string
}

// NewCommandTable creates an empty table that allows every registered command.
func NewCommandTable() *CommandTable {
	return &CommandTable{commands: make(map[string]CommandFunc)}
}

// Register adds or replaces a command.
func (t *CommandTable) Register(name string, fn CommandFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commands[name] = fn
}

// Lookup returns the command registered under name.
func (t *CommandTable) Lookup(name string) (CommandFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.commands[name]
	return fn, ok
}

// Names returns the registered command names, sorted.
func (t *CommandTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.commands))
	for n := range t.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Allow restricts exec to the given patterns. A pattern is an exact command
// name or a namespace wildcard such as "nav::*". No patterns allows everything.
func (t *CommandTable) Allow(patterns ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			t.allow = append(t.allow, p)
		}
	}
}

// Allowed reports whether the whitelist admits name.
func (t *CommandTable) Allowed(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.allow) == 0 {
		return true
	}
	for _, p := range t.allow {
		if p == name {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
