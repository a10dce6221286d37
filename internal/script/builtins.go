package script

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/VoxDroid/stovbot/internal/variable"
)

type builtin func(in *interp, args []Value) (Value, error)

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"string":       fixed(1, builtinString),
		"random":       fixed(0, builtinRandom),
		"random_index": fixed(1, builtinRandomIndex),
		"len":          fixed(1, builtinLen),
		"floor":        fixed(1, builtinFloor),
		"int":          fixed(1, builtinInt),
		"get":          fixed(1, builtinGet),
		"set":          fixed(2, builtinSet),
		"get_list":     fixed(1, builtinGetList),
	}
}

func fixed(arity int, fn builtin) builtin {
	return func(in *interp, args []Value) (Value, error) {
		if len(args) != arity {
			return Value{}, argErrorf("expects %d argument(s), got %d", arity, len(args))
		}
		return fn(in, args)
	}
}

func (in *interp) call(n *callNode) (Value, error) {
	fn, ok := builtins[n.name]
	if !ok {
		return Value{}, fmt.Errorf("Function not found: %s", n.name)
	}
	args := make([]Value, 0, len(n.args))
	for _, a := range n.args {
		v, err := in.eval(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	v, err := fn(in, args)
	var ae *argError
	if errors.As(err, &ae) {
		return Value{}, fmt.Errorf("%s(): %s", n.name, ae.msg)
	}
	return v, err
}

// argError is a misuse of a builtin's arguments; it is reported with the
// builtin's name. Other builtin errors are shown to the user verbatim.
type argError struct {
	msg string
}

func (e *argError) Error() string { return e.msg }

func argErrorf(format string, args ...any) error {
	return &argError{msg: fmt.Sprintf(format, args...)}
}

func builtinString(_ *interp, args []Value) (Value, error) {
	if args[0].kind == KindList || args[0].kind == KindUnit {
		return Value{}, argErrorf("not defined for %s", args[0].kind)
	}
	return String(args[0].String()), nil
}

func builtinRandom(in *interp, _ []Value) (Value, error) {
	return Float(in.engine.rng.Float64()), nil
}

func builtinRandomIndex(in *interp, args []Value) (Value, error) {
	if args[0].kind != KindList {
		return Value{}, argErrorf("not defined for %s", args[0].kind)
	}
	if len(args[0].list) == 0 {
		return Value{}, argErrorf("list is empty")
	}
	return Int(int64(in.engine.rng.IntN(len(args[0].list)))), nil
}

func builtinLen(_ *interp, args []Value) (Value, error) {
	switch args[0].kind {
	case KindList:
		return Int(int64(len(args[0].list))), nil
	case KindString:
		return Int(int64(utf8.RuneCountInString(args[0].s))), nil
	}
	return Value{}, argErrorf("not defined for %s", args[0].kind)
}

func builtinFloor(_ *interp, args []Value) (Value, error) {
	switch args[0].kind {
	case KindFloat:
		return Int(int64(math.Floor(args[0].f))), nil
	case KindInt:
		return args[0], nil
	}
	return Value{}, argErrorf("not defined for %s", args[0].kind)
}

// builtinInt converts to an int; strings that do not parse yield 0.
func builtinInt(_ *interp, args []Value) (Value, error) {
	switch a := args[0]; a.kind {
	case KindString:
		i, err := strconv.ParseInt(a.s, 10, 64)
		if err != nil {
			return Int(0), nil
		}
		return Int(i), nil
	case KindInt:
		return a, nil
	case KindFloat:
		return Int(int64(a.f)), nil
	}
	return Value{}, argErrorf("not defined for %s", args[0].kind)
}

func builtinGet(in *interp, args []Value) (Value, error) {
	v, err := in.variable(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Value.Kind != variable.KindText {
		return Value{}, fmt.Errorf("Variable %s is StringList, not Text. Use get_list()!", v.Name)
	}
	return String(v.Value.Text), nil
}

func builtinGetList(in *interp, args []Value) (Value, error) {
	v, err := in.variable(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Value.Kind != variable.KindStringList {
		return Value{}, fmt.Errorf("Variable %s is Text, not StringList. Use get()!", v.Name)
	}
	items := make([]Value, 0, len(v.Value.List))
	for _, item := range v.Value.List {
		items = append(items, String(item.Value))
	}
	return List(items...), nil
}

// builtinSet stores the textual form of a scalar as a Text variable,
// creating it when missing.
func builtinSet(in *interp, args []Value) (Value, error) {
	name, err := variableName(args[0])
	if err != nil {
		return Value{}, err
	}
	val := args[1]
	if val.kind == KindList || val.kind == KindUnit {
		return Value{}, argErrorf("cannot store a %s in Text variable %s", val.kind, name)
	}
	store, err := in.engine.variables()
	if err != nil {
		return Value{}, err
	}
	existing, err := store.GetVariable(name)
	if err != nil {
		return Value{}, err
	}
	if existing != nil && existing.Value.Kind != variable.KindText {
		return Value{}, fmt.Errorf("Variable %s is StringList, not Text. Use get_list()!", name)
	}
	if err := store.SetVariable(variable.New(name, variable.Text(val.String()))); err != nil {
		return Value{}, err
	}
	return Unit(), nil
}

func (in *interp) variable(nameVal Value) (*variable.Variable, error) {
	name, err := variableName(nameVal)
	if err != nil {
		return nil, err
	}
	store, err := in.engine.variables()
	if err != nil {
		return nil, err
	}
	v, err := store.GetVariable(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("Variable %s does not exist!", name)
	}
	return v, nil
}

func variableName(v Value) (string, error) {
	if v.kind != KindString {
		return "", argErrorf("variable name must be a string, got %s", v.kind)
	}
	return v.s, nil
}
