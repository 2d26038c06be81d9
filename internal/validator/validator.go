package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/jsonview/internal/runtime"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/expr"
	"github.com/aretw0/jsonview/pkg/interpolate"
	"github.com/aretw0/jsonview/pkg/ports"
)

// Options tells the validator what the runtime will accept.
type Options struct {
	// ActionTypes lists the registered action types. Empty disables the check.
	ActionTypes []string
	// Operators is the operator table property conditions are checked against.
	Operators ports.OperatorTable
}

// ValidateQuestion statically checks a parsed question: action types, condition
// shapes, expressions and widget handlers. All problems are reported together.
func ValidateQuestion(q *domain.Question, opts Options) error {
	if q == nil {
		return domain.ErrNoQuestion
	}
	v := &checker{opts: opts, known: make(map[string]bool)}
	for _, t := range opts.ActionTypes {
		v.known[t] = true
	}

	for i, a := range q.Init {
		v.action(fmt.Sprintf("init[%d]", i), a)
	}
	v.scope("root", q.Root)

	if len(v.errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(v.errors), strings.Join(v.errors, "\n- "))
	}
	return nil
}

type checker struct {
	opts   Options
	known  map[string]bool
	errors []string
}

func (v *checker) addf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *checker) scope(path string, spec domain.ScopeSpec) {
	names := make([]string, 0, len(spec.Functions))
	for name := range spec.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.payload(path+".functions."+name, spec.Functions[name])
	}

	events := make([]string, 0, len(spec.Widget.Handlers)+len(spec.Widget.Events))
	for ev, fn := range spec.Widget.Handlers {
		events = append(events, ev+"="+fn)
	}
	for ev, fn := range spec.Widget.Events {
		events = append(events, "events."+ev+"="+fn)
	}
	sort.Strings(events)
	for _, e := range events {
		key, fn, _ := strings.Cut(e, "=")
		if runtime.IsDispatchCall(fn) {
			if _, ok := runtime.ParseDispatch(fn); !ok {
				v.addf("%s.%s: malformed dispatch call %q", path, key, fn)
			}
		}
	}

	for _, child := range spec.Children {
		v.scope(path+"/"+child.ID, child)
	}
}

func (v *checker) payload(path string, p *domain.Payload) {
	if p == nil {
		return
	}
	for i, a := range p.Actions {
		v.action(fmt.Sprintf("%s[%d]", path, i), a)
	}
}

func (v *checker) action(path string, a domain.Action) {
	switch {
	case a.Type == "":
		v.addf("%s: action missing type", path)
		return
	case len(v.known) > 0 && !v.known[a.Type]:
		v.addf("%s: unknown action type %q", path, a.Type)
	}

	switch a.Type {
	case domain.ActionExec:
		if a.Command == "" {
			v.addf("%s: exec without command", path)
		}
	case domain.ActionDispatch, domain.ActionInvoke:
		if a.Name == "" {
			v.addf("%s: %s without name", path, a.Type)
		}
	case domain.ActionSet:
		if a.Property == "" {
			v.addf("%s: set without property", path)
		}
	}

	for i, c := range a.Conditions {
		v.condition(fmt.Sprintf("%s.conditions[%d]", path, i), c)
	}
}

func (v *checker) condition(path string, c domain.Condition) {
	switch c.Kind {
	case domain.ConditionExpression:
		tmpl, err := interpolate.Compile(c.Expression)
		if err != nil {
			v.addf("%s: malformed expression: %v", path, err)
			break
		}
		// Expressions with placeholders can only be checked once rendered.
		if tmpl.Static() {
			if _, err := expr.Compile(c.Expression); err != nil {
				v.addf("%s: malformed expression: %v", path, err)
			}
		}
	case domain.ConditionProperty:
		if v.opts.Operators != nil && !hasOperator(v.opts.Operators, c.Operands) {
			v.addf("%s: property condition on %q has no known operator", path, c.Property)
		}
	default:
		v.addf("%s: condition is neither an expression nor a property condition", path)
	}
	v.payload(path+".action", c.Payload)
}

func hasOperator(table ports.OperatorTable, operands map[string]any) bool {
	for _, name := range table.Names() {
		if _, ok := operands[name]; ok {
			return true
		}
	}
	return false
}
