package variable

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWrongType is returned when an edit's operand tag does not match the
// stored value's tag.
var ErrWrongType = errors.New("variable wrong type")

// EditType selects how an edit combines the stored value with the operand.
type EditType int

const (
	Overwrite EditType = iota
	Append
	Remove
	InsertAt
	RemoveAt
)

func (t EditType) String() string {
	switch t {
	case Overwrite:
		return "Overwrite"
	case Append:
		return "Append"
	case Remove:
		return "Remove"
	case InsertAt:
		return "InsertAt"
	case RemoveAt:
		return "RemoveAt"
	default:
		return "Unknown"
	}
}

// Edit is an EditType plus the index used by InsertAt and RemoveAt.
type Edit struct {
	Type  EditType
	Index int
}

func (e Edit) String() string {
	if e.Type == InsertAt || e.Type == RemoveAt {
		return fmt.Sprintf("%s(%d)", e.Type, e.Index)
	}
	return e.Type.String()
}

// Apply computes the value that results from applying edit with operand to
// old. Overwrite replaces old entirely and may change the tag. RemoveAt
// ignores the operand. Every other edit requires matching tags.
func Apply(old Value, edit Edit, operand Value) (Value, error) {
	switch edit.Type {
	case Overwrite:
		return operand, nil
	case RemoveAt:
		return removeAt(old, edit.Index), nil
	}
	if old.Kind != operand.Kind {
		return Value{}, fmt.Errorf("%w: stored %s, got %s", ErrWrongType, old.Kind, operand.Kind)
	}
	switch edit.Type {
	case Append:
		if old.Kind == KindText {
			return Text(old.Text + operand.Text), nil
		}
		return StringList(appendItems(old.List, operand.List)...), nil
	case Remove:
		if old.Kind == KindText {
			if operand.Text == "" {
				return old, nil
			}
			return Text(strings.ReplaceAll(old.Text, operand.Text, "")), nil
		}
		return StringList(removeItems(old.List, operand.List)...), nil
	case InsertAt:
		return insertAt(old, edit.Index, operand), nil
	default:
		return Value{}, fmt.Errorf("unsupported edit type %d", edit.Type)
	}
}

// clamp limits i to [lo, hi].
func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func appendItems(a, b []StringItem) []StringItem {
	out := make([]StringItem, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func removeItems(list, remove []StringItem) []StringItem {
	drop := make(map[string]bool, len(remove))
	for _, item := range remove {
		drop[item.Value] = true
	}
	out := make([]StringItem, 0, len(list))
	for _, item := range list {
		if !drop[item.Value] {
			out = append(out, item)
		}
	}
	return out
}

func insertAt(old Value, index int, operand Value) Value {
	if old.Kind == KindText {
		runes := []rune(old.Text)
		i := clamp(index, 0, len(runes))
		return Text(string(runes[:i]) + operand.Text + string(runes[i:]))
	}
	i := clamp(index, 0, len(old.List))
	out := make([]StringItem, 0, len(old.List)+len(operand.List))
	out = append(out, old.List[:i]...)
	out = append(out, operand.List...)
	out = append(out, old.List[i:]...)
	return StringList(out...)
}

func removeAt(old Value, index int) Value {
	if old.Kind == KindText {
		runes := []rune(old.Text)
		if len(runes) == 0 {
			return old
		}
		i := clamp(index, 0, len(runes)-1)
		return Text(string(runes[:i]) + string(runes[i+1:]))
	}
	if len(old.List) == 0 {
		return old
	}
	i := clamp(index, 0, len(old.List)-1)
	out := make([]StringItem, 0, len(old.List)-1)
	out = append(out, old.List[:i]...)
	out = append(out, old.List[i+1:]...)
	return StringList(out...)
}
