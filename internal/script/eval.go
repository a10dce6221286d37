package script

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// errBreak unwinds to the innermost loop.
var errBreak = errors.New("break outside of a loop")

type scope struct {
	vars   map[string]Value
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]Value{}, parent: parent}
}

func (s *scope) lookup(name string) (*scope, bool) {
	for c := s; c != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}

type interp struct {
	ctx    context.Context
	engine *Engine
	scope  *scope
}

func (in *interp) eval(n node) (Value, error) {
	switch n := n.(type) {
	case *literalNode:
		return n.value, nil
	case *identNode:
		s, ok := in.scope.lookup(n.name)
		if !ok {
			return Value{}, fmt.Errorf("Variable not found: %s", n.name)
		}
		return s.vars[n.name], nil
	case *listNode:
		items := make([]Value, 0, len(n.items))
		for _, item := range n.items {
			v, err := in.eval(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return List(items...), nil
	case *unaryNode:
		return in.unary(n)
	case *binaryNode:
		return in.binary(n)
	case *callNode:
		return in.call(n)
	case *indexNode:
		target, err := in.eval(n.target)
		if err != nil {
			return Value{}, err
		}
		idx, err := in.eval(n.index)
		if err != nil {
			return Value{}, err
		}
		return index(target, idx)
	case *letNode:
		v := Unit()
		if n.value != nil {
			var err error
			if v, err = in.eval(n.value); err != nil {
				return Value{}, err
			}
		}
		in.scope.vars[n.name] = v
		return Unit(), nil
	case *assignNode:
		return Unit(), in.assign(n)
	case *ifNode:
		cond, err := in.condition(n.cond)
		if err != nil {
			return Value{}, err
		}
		if cond {
			return in.eval(n.then)
		}
		if n.els != nil {
			return in.eval(n.els)
		}
		return Unit(), nil
	case *whileNode:
		for {
			if err := in.ctx.Err(); err != nil {
				return Value{}, err
			}
			cond, err := in.condition(n.cond)
			if err != nil {
				return Value{}, err
			}
			if !cond {
				return Unit(), nil
			}
			if _, err := in.eval(n.body); err != nil {
				if errors.Is(err, errBreak) {
					return Unit(), nil
				}
				return Value{}, err
			}
		}
	case *loopNode:
		for {
			if err := in.ctx.Err(); err != nil {
				return Value{}, err
			}
			if _, err := in.eval(n.body); err != nil {
				if errors.Is(err, errBreak) {
					return Unit(), nil
				}
				return Value{}, err
			}
		}
	case *breakNode:
		return Value{}, errBreak
	case *blockNode:
		return in.block(n, true)
	}
	return Value{}, fmt.Errorf("unsupported expression at position %d", n.position())
}

// block evaluates b, in a child scope when nested.
func (in *interp) block(b *blockNode, nested bool) (Value, error) {
	if nested {
		saved := in.scope
		in.scope = newScope(saved)
		defer func() { in.scope = saved }()
	}
	for _, st := range b.stmts {
		if _, err := in.eval(st); err != nil {
			return Value{}, err
		}
	}
	if b.tail == nil {
		return Unit(), nil
	}
	return in.eval(b.tail)
}

func (in *interp) condition(n node) (bool, error) {
	v, err := in.eval(n)
	if err != nil {
		return false, err
	}
	if v.kind != KindBool {
		return false, fmt.Errorf("condition must be a bool, got %s", v.kind)
	}
	return v.b, nil
}

func (in *interp) assign(n *assignNode) error {
	rhs, err := in.eval(n.value)
	if err != nil {
		return err
	}
	switch target := n.target.(type) {
	case *identNode:
		s, ok := in.scope.lookup(target.name)
		if !ok {
			return fmt.Errorf("Variable not found: %s", target.name)
		}
		v, err := compound(n.op, s.vars[target.name], rhs)
		if err != nil {
			return err
		}
		s.vars[target.name] = v
		return nil
	case *indexNode:
		ident, ok := target.target.(*identNode)
		if !ok {
			return fmt.Errorf("cannot assign to a nested index")
		}
		s, ok := in.scope.lookup(ident.name)
		if !ok {
			return fmt.Errorf("Variable not found: %s", ident.name)
		}
		list := s.vars[ident.name]
		idxVal, err := in.eval(target.index)
		if err != nil {
			return err
		}
		old, err := index(list, idxVal)
		if err != nil {
			return err
		}
		v, err := compound(n.op, old, rhs)
		if err != nil {
			return err
		}
		items := append([]Value(nil), list.list...)
		items[idxVal.i] = v
		s.vars[ident.name] = List(items...)
		return nil
	}
	return fmt.Errorf("cannot assign at position %d", n.pos)
}

func compound(op string, old, rhs Value) (Value, error) {
	if op == "=" {
		return rhs, nil
	}
	return arith(op[:1], old, rhs)
}

func index(target, idx Value) (Value, error) {
	if target.kind != KindList {
		return Value{}, fmt.Errorf("cannot index into %s", target.kind)
	}
	if idx.kind != KindInt {
		return Value{}, fmt.Errorf("list index must be an int, got %s", idx.kind)
	}
	if idx.i < 0 || idx.i >= int64(len(target.list)) {
		return Value{}, fmt.Errorf("list index %d out of bounds for length %d", idx.i, len(target.list))
	}
	return target.list[idx.i], nil
}

func (in *interp) unary(n *unaryNode) (Value, error) {
	x, err := in.eval(n.x)
	if err != nil {
		return Value{}, err
	}
	switch {
	case n.op == "-" && x.kind == KindInt:
		return Int(-x.i), nil
	case n.op == "-" && x.kind == KindFloat:
		return Float(-x.f), nil
	case n.op == "!" && x.kind == KindBool:
		return Bool(!x.b), nil
	}
	return Value{}, fmt.Errorf("operator %s not defined for %s", n.op, x.kind)
}

func (in *interp) binary(n *binaryNode) (Value, error) {
	left, err := in.eval(n.left)
	if err != nil {
		return Value{}, err
	}
	if n.op == "&&" || n.op == "||" {
		if left.kind != KindBool {
			return Value{}, fmt.Errorf("operator %s not defined for %s", n.op, left.kind)
		}
		if (n.op == "&&") != left.b {
			return left, nil
		}
		right, err := in.eval(n.right)
		if err != nil {
			return Value{}, err
		}
		if right.kind != KindBool {
			return Value{}, fmt.Errorf("operator %s not defined for %s", n.op, right.kind)
		}
		return right, nil
	}
	right, err := in.eval(n.right)
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case "==":
		return Bool(left.equal(right)), nil
	case "!=":
		return Bool(!left.equal(right)), nil
	case "<", "<=", ">", ">=":
		return compare(n.op, left, right)
	}
	return arith(n.op, left, right)
}

func compare(op string, a, b Value) (Value, error) {
	var c int
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		c = cmp3(a.i < b.i, a.i > b.i)
	case a.isNumber() && b.isNumber():
		c = cmp3(a.float() < b.float(), a.float() > b.float())
	case a.kind == KindString && b.kind == KindString:
		c = cmp3(a.s < b.s, a.s > b.s)
	default:
		return Value{}, fmt.Errorf("operator %s not defined for %s and %s", op, a.kind, b.kind)
	}
	switch op {
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// ErrNotANumber is returned when a string operand of arithmetic does not
// parse as a number.
var ErrNotANumber = errors.New("Could not parse string as number")

// arith applies + - * / %. Mixing int and float yields a float. A string
// added to a number is parsed as that number's kind first.
func arith(op string, a, b Value) (Value, error) {
	if op == "+" {
		switch {
		case a.kind == KindString && b.kind == KindString:
			return String(a.s + b.s), nil
		case a.kind == KindList && b.kind == KindList:
			return List(append(append([]Value(nil), a.list...), b.list...)...), nil
		case a.kind == KindString && b.isNumber():
			n, err := parseNumberAs(a.s, b.kind)
			if err != nil {
				return Value{}, err
			}
			a = n
		case a.isNumber() && b.kind == KindString:
			n, err := parseNumberAs(b.s, a.kind)
			if err != nil {
				return Value{}, err
			}
			b = n
		}
	}
	if !a.isNumber() || !b.isNumber() {
		return Value{}, fmt.Errorf("operator %s not defined for %s and %s", op, a.kind, b.kind)
	}
	if a.kind == KindInt && b.kind == KindInt {
		return intArith(op, a.i, b.i)
	}
	x, y := a.float(), b.float()
	switch op {
	case "+":
		return Float(x + y), nil
	case "-":
		return Float(x - y), nil
	case "*":
		return Float(x * y), nil
	case "/":
		return Float(x / y), nil
	case "%":
		return Float(math.Mod(x, y)), nil
	}
	return Value{}, fmt.Errorf("unknown operator %s", op)
}

func intArith(op string, x, y int64) (Value, error) {
	switch op {
	case "+":
		return Int(x + y), nil
	case "-":
		return Int(x - y), nil
	case "*":
		return Int(x * y), nil
	case "/", "%":
		if y == 0 {
			return Value{}, errors.New("Division by zero")
		}
		if op == "/" {
			return Int(x / y), nil
		}
		return Int(x % y), nil
	}
	return Value{}, fmt.Errorf("unknown operator %s", op)
}

func parseNumberAs(s string, kind Kind) (Value, error) {
	if kind == KindInt {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, ErrNotANumber
		}
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, ErrNotANumber
	}
	return Float(f), nil
}
