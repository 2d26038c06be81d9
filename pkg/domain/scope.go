package domain

import (
	"sync"
)

// Scope is a node in the execution context tree.
// Each scope may own local function bindings and arbitrary state.
// The root scope (no parent) is the application scope that terminates resolution.
type Scope struct {
	ID string

	mu        sync.RWMutex
	parent    *Scope
	children  []*Scope
	functions map[string]*Payload
	state     map[string]any
	destroyed bool
}

// NewScope creates a root scope.
func NewScope(id string) *Scope {
	return &Scope{
		ID:        id,
		functions: make(map[string]*Payload),
		state:     make(map[string]any),
	}
}

// NewChild creates a scope whose parent is s.
func (s *Scope) NewChild(id string) *Scope {
	child := NewScope(id)
	child.parent = s

	s.mu.Lock()
	s.children = append(s.children, child)
	s.mu.Unlock()
	return child
}

// Attach moves s under parent. The rendering layer owns tree shape; Attach does not
// reject cycles, resolution guards against them instead.
func (s *Scope) Attach(parent *Scope) {
	s.mu.Lock()
	old := s.parent
	s.parent = parent
	s.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		for i, c := range old.children {
			if c == s {
				old.children = append(old.children[:i], old.children[i+1:]...)
				break
			}
		}
		old.mu.Unlock()
	}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, s)
		parent.mu.Unlock()
	}
}

// Parent returns the enclosing scope, or nil at the root or once s was destroyed.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed {
		return nil
	}
	return s.parent
}

// IsRoot reports whether s has no parent.
func (s *Scope) IsRoot() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parent == nil && !s.destroyed
}

// Alive reports whether s still takes part in resolution.
func (s *Scope) Alive() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.destroyed
}

// Children returns a copy of the live child scopes.
func (s *Scope) Children() []*Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Scope, 0, len(s.children))
	for _, c := range s.children {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Destroy tears down s and its whole subtree and detaches it from its parent.
func (s *Scope) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	parent := s.parent
	children := s.children
	s.children = nil
	s.mu.Unlock()

	for _, c := range children {
		c.Destroy()
	}

	if parent != nil {
		parent.mu.Lock()
		for i, c := range parent.children {
			if c == s {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
		parent.mu.Unlock()
	}
}

// Define binds a named function payload in this scope.
// A nil payload removes the binding.
func (s *Scope) Define(name string, payload *Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payload == nil {
		delete(s.functions, name)
		return
	}
	s.functions[name] = payload
}

// LookupLocal returns the payload bound to name in this scope only.
func (s *Scope) LookupLocal(name string) (*Payload, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed {
		return nil, false
	}
	p, ok := s.functions[name]
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// Functions returns the names bound locally.
func (s *Scope) Functions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.functions))
	for name := range s.functions {
		names = append(names, name)
	}
	return names
}

// Get returns a local state value.
func (s *Scope) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// Set stores a local state value.
func (s *Scope) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
}

// Lookup finds key in this scope or the nearest ancestor that defines it.
func (s *Scope) Lookup(key string) (any, bool) {
	seen := make(map[*Scope]struct{})
	for cur := s; cur != nil; cur = cur.Parent() {
		if _, ok := seen[cur]; ok {
			return nil, false
		}
		seen[cur] = struct{}{}
		if v, ok := cur.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Flatten merges state from the root down to s; nearer scopes win.
func (s *Scope) Flatten() map[string]any {
	var chain []*Scope
	seen := make(map[*Scope]struct{})
	for cur := s; cur != nil; cur = cur.Parent() {
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		chain = append(chain, cur)
	}

	out := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].mu.RLock()
		for k, v := range chain[i].state {
			out[k] = v
		}
		chain[i].mu.RUnlock()
	}
	return out
}

// Snapshot returns a shallow copy of the local state.
func (s *Scope) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// Load replaces the local state with a copy of data.
func (s *Scope) Load(data map[string]any) {
	next := make(map[string]any, len(data))
	for k, v := range data {
		next[k] = v
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Walk visits s and every live descendant, depth first.
func (s *Scope) Walk(fn func(*Scope)) {
	s.walk(fn, make(map[*Scope]struct{}))
}

func (s *Scope) walk(fn func(*Scope), seen map[*Scope]struct{}) {
	if !s.Alive() {
		return
	}
	if _, ok := seen[s]; ok {
		return
	}
	seen[s] = struct{}{}
	fn(s)
	for _, c := range s.Children() {
		c.walk(fn, seen)
	}
}
