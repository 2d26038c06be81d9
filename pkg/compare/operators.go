// Package compare holds the operator table used by property conditions.
package compare

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/jsonview/pkg/domain"
)

// Operator names understood by the default table, in evaluation order.
const (
	OpEq       = "eq"
	OpNe       = "ne"
	OpGt       = "gt"
	OpGte      = "gte"
	OpLt       = "lt"
	OpLte      = "lte"
	OpContains = "contains"
	OpIn       = "in"
)

// Table is an ordered operator table. Names are declared explicitly; lookups of
// anything else miss.
type Table struct {
	names []string
	preds map[string]domain.Predicate
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{preds: make(map[string]domain.Predicate)}
}

// Default returns the standard operator table.
func Default() *Table {
	return NewTable().
		Add(OpEq, Equal).
		Add(OpNe, func(a, b any) bool { return !Equal(a, b) }).
		Add(OpGt, ordered(func(c int) bool { return c > 0 })).
		Add(OpGte, ordered(func(c int) bool { return c >= 0 })).
		Add(OpLt, ordered(func(c int) bool { return c < 0 })).
		Add(OpLte, ordered(func(c int) bool { return c <= 0 })).
		Add(OpContains, Contains).
		Add(OpIn, func(a, b any) bool { return Contains(b, a) })
}

// Add declares an operator. Re-adding a name replaces its predicate and keeps its position.
func (t *Table) Add(name string, pred domain.Predicate) *Table {
	if _, ok := t.preds[name]; !ok {
		t.names = append(t.names, name)
	}
	t.preds[name] = pred
	return t
}

// Names returns the declared operator names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Lookup returns the predicate for a declared operator.
func (t *Table) Lookup(name string) (domain.Predicate, bool) {
	p, ok := t.preds[name]
	return p, ok
}

// Has reports whether name is a declared operator.
func (t *Table) Has(name string) bool {
	_, ok := t.preds[name]
	return ok
}

// Number converts numeric values and numeric strings to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// Equal compares loosely: numbers (and numeric strings) by value, everything else
// by its string form, nil only equal to nil.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := Number(a); ok {
		if y, ok := Number(b); ok {
			return x == y
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Compare orders a and b numerically when both are numbers, otherwise as strings.
// ok is false when either side is nil.
func Compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if x, ok := Number(a); ok {
		if y, ok := Number(b); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)), true
}

func ordered(accept func(int) bool) domain.Predicate {
	return func(actual, expected any) bool {
		c, ok := Compare(actual, expected)
		return ok && accept(c)
	}
}

// Contains reports whether haystack holds needle: substring for strings,
// element for slices and arrays, key for maps.
func Contains(haystack, needle any) bool {
	if haystack == nil {
		return false
	}
	if s, ok := haystack.(string); ok {
		return needle != nil && strings.Contains(s, fmt.Sprint(needle))
	}

	v := reflect.ValueOf(haystack)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if Equal(v.Index(i).Interface(), needle) {
				return true
			}
		}
	case reflect.Map:
		for _, k := range v.MapKeys() {
			if Equal(k.Interface(), needle) {
				return true
			}
		}
	}
	return false
}
