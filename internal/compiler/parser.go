// Package compiler turns question documents (YAML or JSON) into domain.Question values.
package compiler

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DecodeError locates a malformed part of a document.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(path string, format string, args ...any) error {
	return &DecodeError{Path: path, Err: fmt.Errorf(format, args...)}
}

// Widget keys that are not event handlers.
var reservedWidgetKeys = map[string]bool{
	"id":        true,
	"type":      true,
	"state":     true,
	"functions": true,
	"events":    true,
	"widgets":   true,
}

// Parser is responsible for converting raw bytes into a Question.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a document from disk.
func (p *Parser) ParseFile(path string) (*domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question: %w", err)
	}
	return p.Parse(data)
}

// Parse decodes a question document. JSON is accepted as YAML.
func (p *Parser) Parse(data []byte) (*domain.Question, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse question: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("empty question document")
	}

	q := &domain.Question{}
	q.ID, _ = raw["id"].(string)
	if q.ID == "" {
		return nil, decodeErr("id", "question missing id")
	}

	if w, ok := raw["weight"]; ok {
		f, ok := toFloat(w)
		if !ok {
			return nil, decodeErr("weight", "expected number, got %T", w)
		}
		q.Weight = f
	}

	init, err := decodeInit(raw["init"])
	if err != nil {
		return nil, err
	}
	q.Init = init

	root, err := decodeScope("root", domain.RootScopeID, raw)
	if err != nil {
		return nil, err
	}
	q.Root = root
	return q, nil
}

// decodeInit reads a map of action type to action(s). Types run in sorted order.
func decodeInit(v any) ([]domain.Action, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, decodeErr("init", "expected map of action type to actions, got %T", v)
	}
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)

	var out []domain.Action
	for _, t := range types {
		actions, err := decodeActions("init."+t, m[t])
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			if a.Type == "" {
				a.Type = t
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func decodeScope(path, id string, raw map[string]any) (domain.ScopeSpec, error) {
	spec := domain.ScopeSpec{ID: id}
	if rawID, ok := raw["id"].(string); ok && rawID != "" && path != "root" {
		spec.ID = rawID
	}

	if st, ok := raw["state"]; ok && st != nil {
		m, ok := st.(map[string]any)
		if !ok {
			return spec, decodeErr(path+".state", "expected map, got %T", st)
		}
		spec.State = m
	}

	if fns, ok := raw["functions"]; ok && fns != nil {
		m, ok := fns.(map[string]any)
		if !ok {
			return spec, decodeErr(path+".functions", "expected map, got %T", fns)
		}
		spec.Functions = make(map[string]*domain.Payload, len(m))
		for name, body := range m {
			payload, err := decodePayload(path+".functions."+name, body)
			if err != nil {
				return spec, err
			}
			spec.Functions[name] = payload
		}
	}

	if path != "root" {
		w, err := decodeWidget(path, spec.ID, raw)
		if err != nil {
			return spec, err
		}
		spec.Widget = w
	}

	if ws, ok := raw["widgets"]; ok && ws != nil {
		list, ok := ws.([]any)
		if !ok {
			return spec, decodeErr(path+".widgets", "expected list, got %T", ws)
		}
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return spec, decodeErr(fmt.Sprintf("%s.widgets[%d]", path, i), "expected map, got %T", item)
			}
			childPath := fmt.Sprintf("%s.widgets[%d]", path, i)
			childID := fmt.Sprintf("%s/%d", spec.ID, i)
			child, err := decodeScope(childPath, childID, m)
			if err != nil {
				return spec, err
			}
			spec.Children = append(spec.Children, child)
		}
	}
	return spec, nil
}

func decodeWidget(path, id string, raw map[string]any) (domain.Widget, error) {
	w := domain.Widget{ID: id}
	for k, v := range raw {
		if reservedWidgetKeys[k] {
			continue
		}
		if s, ok := v.(string); ok {
			if w.Handlers == nil {
				w.Handlers = make(map[string]string)
			}
			w.Handlers[k] = s
		}
	}
	if ev, ok := raw["events"]; ok && ev != nil {
		var events map[string]string
		if err := mapstructure.Decode(ev, &events); err != nil {
			return w, &DecodeError{Path: path + ".events", Err: err}
		}
		w.Events = events
	}
	return w, nil
}

// decodePayload accepts a single action, a list of actions, or {action: ...}.
func decodePayload(path string, v any) (*domain.Payload, error) {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["action"]; ok {
			if _, typed := m["type"]; !typed {
				v = inner
				path += ".action"
			}
		}
	}
	actions, err := decodeActions(path, v)
	if err != nil {
		return nil, err
	}
	return domain.NewPayload(actions...), nil
}

func decodeActions(path string, v any) ([]domain.Action, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]domain.Action, 0, len(x))
		for i, item := range x {
			a, err := decodeAction(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	default:
		a, err := decodeAction(path, x)
		if err != nil {
			return nil, err
		}
		return []domain.Action{a}, nil
	}
}

func decodeAction(path string, v any) (domain.Action, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.Action{}, decodeErr(path, "expected action map, got %T", v)
	}

	fields := make(map[string]any, len(m))
	for k, val := range m {
		if k != "conditions" {
			fields[k] = val
		}
	}

	var a domain.Action
	if err := mapstructure.Decode(fields, &a); err != nil {
		return a, &DecodeError{Path: path, Err: err}
	}
	if len(a.Extra) == 0 {
		a.Extra = nil
	}

	if raw, ok := m["conditions"]; ok {
		conds, err := DecodeConditions(path+".conditions", raw)
		if err != nil {
			return a, err
		}
		a.Conditions = conds
	}
	return a, nil
}

// DecodeConditions reads a single condition or a list of them.
//
// A condition with an "expression" key is an expression condition. One with a
// "property" key is a property condition whose operands are every other key
// except "action". Anything else decodes as ConditionUnknown.
func DecodeConditions(path string, v any) ([]domain.Condition, error) {
	var list []any
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		list = x
	default:
		list = []any{x}
	}

	out := make([]domain.Condition, 0, len(list))
	for i, item := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			return nil, decodeErr(p, "expected condition map, got %T", item)
		}
		payload, err := decodePayload(p+".action", m["action"])
		if err != nil {
			return nil, err
		}

		c := domain.Condition{Payload: payload}
		switch {
		case m["expression"] != nil:
			s, ok := m["expression"].(string)
			if !ok {
				return nil, decodeErr(p+".expression", "expected string, got %T", m["expression"])
			}
			c.Kind = domain.ConditionExpression
			c.Expression = s
		case m["property"] != nil:
			s, ok := m["property"].(string)
			if !ok {
				return nil, decodeErr(p+".property", "expected string, got %T", m["property"])
			}
			c.Kind = domain.ConditionProperty
			c.Property = s
			c.Operands = make(map[string]any)
			for k, val := range m {
				if k != "property" && k != "action" {
					c.Operands[strings.TrimSpace(k)] = val
				}
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
