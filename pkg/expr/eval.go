package expr

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/aretw0/jsonview/pkg/compare"
)

// Env resolves top-level identifiers.
type Env interface {
	Lookup(name string) (any, bool)
}

// MapEnv is an Env backed by a map.
type MapEnv map[string]any

// Lookup implements Env.
func (m MapEnv) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Program is a compiled expression.
type Program struct {
	src  string
	root node
}

// Compile parses src into a Program.
func Compile(src string) (*Program, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Program{src: src, root: root}, nil
}

// String returns the source text.
func (p *Program) String() string { return p.src }

// Eval runs the program. Unknown identifiers and missing members are nil.
func (p *Program) Eval(env Env) (any, error) {
	return eval(p.root, env)
}

// Eval compiles and runs src in one step.
func Eval(src string, env Env) (any, error) {
	p, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return p.Eval(env)
}

// Truthy applies JavaScript-like truthiness.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if n, ok := number(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

func eval(n node, env Env) (any, error) {
	switch n := n.(type) {
	case *literal:
		return n.value, nil
	case *ident:
		if env == nil {
			return nil, nil
		}
		v, _ := env.Lookup(n.name)
		return v, nil
	case *member:
		obj, err := eval(n.object, env)
		if err != nil {
			return nil, err
		}
		key, err := eval(n.key, env)
		if err != nil {
			return nil, err
		}
		return Index(obj, key), nil
	case *unary:
		x, err := eval(n.x, env)
		if err != nil {
			return nil, err
		}
		switch n.op {
		case "!":
			return !Truthy(x), nil
		case "-", "+":
			f, ok := number(x)
			if !ok {
				return nil, newError(ErrType, n.at, "operand of unary %s is %s, not a number", n.op, typeName(x))
			}
			if n.op == "-" {
				return -f, nil
			}
			return f, nil
		}
	case *binary:
		return evalBinary(n, env)
	}
	return nil, newError(ErrUnsupportedNode, n.pos(), "unsupported node %T", n)
}

func evalBinary(n *binary, env Env) (any, error) {
	l, err := eval(n.l, env)
	if err != nil {
		return nil, err
	}

	// short-circuit operators return the deciding operand.
	switch n.op {
	case "&&":
		if !Truthy(l) {
			return l, nil
		}
		return eval(n.r, env)
	case "||":
		if Truthy(l) {
			return l, nil
		}
		return eval(n.r, env)
	}

	r, err := eval(n.r, env)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return compare.Equal(l, r), nil
	case "!=":
		return !compare.Equal(l, r), nil
	case "===":
		return strictEqual(l, r), nil
	case "!==":
		return !strictEqual(l, r), nil
	case "<", "<=", ">", ">=":
		c, err := order(n, l, r)
		if err != nil {
			return nil, err
		}
		switch n.op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "+":
		ls, lIsStr := l.(string)
		rs, rIsStr := r.(string)
		if lIsStr || rIsStr {
			if !lIsStr {
				ls = format(l)
			}
			if !rIsStr {
				rs = format(r)
			}
			return ls + rs, nil
		}
	}

	x, ok := number(l)
	y, ok2 := number(r)
	if !ok || !ok2 {
		return nil, newError(ErrType, n.at, "operands of %s are %s and %s", n.op, typeName(l), typeName(r))
	}
	switch n.op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, newError(ErrDivisionByZero, n.at, "%v / 0", x)
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return nil, newError(ErrDivisionByZero, n.at, "%v %% 0", x)
		}
		return math.Mod(x, y), nil
	}
	return nil, newError(ErrUnsupportedNode, n.at, "unknown operator %q", n.op)
}

// order compares two numbers or two strings; anything else is a type error.
func order(n *binary, l, r any) (int, error) {
	if x, ok := number(l); ok {
		if y, ok := number(r); ok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		}
	}
	ls, ok := l.(string)
	rs, ok2 := r.(string)
	if ok && ok2 {
		switch {
		case ls < rs:
			return -1, nil
		case ls > rs:
			return 1, nil
		}
		return 0, nil
	}
	return 0, newError(ErrType, n.at, "cannot compare %s %s %s", typeName(l), n.op, typeName(r))
}

func strictEqual(a, b any) bool {
	x, ok := number(a)
	y, ok2 := number(b)
	if ok && ok2 {
		return x == y
	}
	if ok != ok2 {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// number converts numeric kinds only; strings are not coerced.
func number(v any) (float64, bool) {
	if _, ok := v.(string); ok {
		return 0, false
	}
	return compare.Number(v)
}

// Index reads key from a map, slice or Env; anything missing is nil.
func Index(obj, key any) any {
	if obj == nil {
		return nil
	}
	switch o := obj.(type) {
	case map[string]any:
		return o[format(key)]
	case Env:
		v, _ := o.Lookup(format(key))
		return v
	}

	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			for _, k := range v.MapKeys() {
				if compare.Equal(k.Interface(), key) {
					return v.MapIndex(k).Interface()
				}
			}
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(format(key)).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Slice, reflect.Array:
		i, ok := number(key)
		if !ok {
			if s, isStr := key.(string); isStr {
				if s == "length" {
					return float64(v.Len())
				}
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil
				}
				i = f
			} else {
				return nil
			}
		}
		idx := int(i)
		if float64(idx) != i || idx < 0 || idx >= v.Len() {
			return nil
		}
		return v.Index(idx).Interface()
	case reflect.String:
		if key == "length" {
			return float64(len(v.String()))
		}
	}
	return nil
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	if f, ok := number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Format renders a value the way interpolation shows it.
func Format(v any) string {
	return format(v)
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := number(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
