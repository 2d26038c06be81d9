// Package interpolate compiles "{{ expr }}" templates and renders them against a scope.
package interpolate

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Template is a compiled template: literal text interleaved with expressions.
type Template struct {
	src   string
	parts []part
}

type part struct {
	text string
	prg  *expr.Program
}

// Compile parses src. Text outside delimiters is kept verbatim.
func Compile(src string) (*Template, error) {
	t := &Template{src: src}
	rest := src
	offset := 0
	for {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			if rest != "" {
				t.parts = append(t.parts, part{text: rest})
			}
			return t, nil
		}
		if open > 0 {
			t.parts = append(t.parts, part{text: rest[:open]})
		}
		body := rest[open+len(openDelim):]
		end := strings.Index(body, closeDelim)
		if end < 0 {
			return nil, fmt.Errorf("unterminated %q at %d", openDelim, offset+open)
		}
		inner := strings.TrimSpace(body[:end])
		prg, err := expr.Compile(inner)
		if err != nil {
			return nil, fmt.Errorf("template expression at %d: %w", offset+open, err)
		}
		t.parts = append(t.parts, part{prg: prg})

		consumed := open + len(openDelim) + end + len(closeDelim)
		rest = rest[consumed:]
		offset += consumed
	}
}

// Static reports whether the template has no expressions.
func (t *Template) Static() bool {
	for _, p := range t.parts {
		if p.prg != nil {
			return false
		}
	}
	return true
}

// Render evaluates every expression against env. A failing expression renders
// as an empty string, the way an unresolved binding shows nothing.
func (t *Template) Render(env expr.Env) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.prg == nil {
			b.WriteString(p.text)
			continue
		}
		v, err := p.prg.Eval(env)
		if err != nil {
			continue
		}
		b.WriteString(expr.Format(v))
	}
	return b.String()
}

// Interpolator adapts Compile to the engine's interpolation port.
type Interpolator struct{}

// New returns the default interpolator.
func New() Interpolator {
	return Interpolator{}
}

// Compile returns a render function bound to the compiled template.
func (Interpolator) Compile(src string) (func(*domain.Scope) string, error) {
	t, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return func(scope *domain.Scope) string {
		if scope == nil {
			return t.Render(nil)
		}
		return t.Render(scope)
	}, nil
}
