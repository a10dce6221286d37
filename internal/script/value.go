package script

import (
	"strconv"
	"strings"
)

// Kind is the dynamic type of a script value.
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a script value. The zero Value is unit.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
}

func Unit() Value               { return Value{} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// Items returns the elements of a list value.
func (v Value) Items() []Value { return v.list }

func (v Value) isNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// String renders v the way a template shows a script result. Unit renders as
// the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			if item.kind == KindString {
				parts[i] = strconv.Quote(item.s)
			} else {
				parts[i] = item.String()
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

func (v Value) equal(o Value) bool {
	if v.isNumber() && o.isNumber() {
		if v.kind == KindInt && o.kind == KindInt {
			return v.i == o.i
		}
		return v.float() == o.float()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUnit:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}
