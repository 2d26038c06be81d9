// Package lookup resolves property paths and operands against the scope tree.
package lookup

import (
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
)

// Resolver implements the engine's value resolution port.
type Resolver struct{}

// New returns the default resolver.
func New() Resolver {
	return Resolver{}
}

// Resolve fetches a value for a condition.
//
// When isProperty is set, ref is a dotted path looked up through the scope chain.
// Otherwise ref is an operand: a string of the form "{{ path }}" is looked up,
// anything else is returned as the literal it is.
func (Resolver) Resolve(scope *domain.Scope, ref any, isProperty bool) any {
	if isProperty {
		path, ok := ref.(string)
		if !ok {
			return nil
		}
		v, _ := Path(scope, path)
		return v
	}

	s, ok := ref.(string)
	if !ok {
		return ref
	}
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") {
		inner := strings.TrimSpace(trimmed[2 : len(trimmed)-2])
		if inner != "" && !strings.Contains(inner, "{{") {
			v, _ := Path(scope, inner)
			return v
		}
	}
	return ref
}

// Path walks a dotted path ("answer.choices.0") starting at the scope chain.
func Path(scope *domain.Scope, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" || scope == nil {
		return nil, false
	}
	segments := strings.Split(path, ".")
	cur, ok := scope.Lookup(segments[0])
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		cur = expr.Index(cur, seg)
		if cur == nil {
			return nil, false
		}
	}
	return cur, true
}
