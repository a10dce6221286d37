// Package variable holds the typed values users store between messages and
// the edit rules applied to them.
package variable

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Kind is the tag of a Value.
type Kind int

const (
	KindText Kind = iota
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindStringList:
		return "StringList"
	default:
		return "Unknown"
	}
}

// StringItem is one entry of a StringList value.
type StringItem struct {
	CreatedAt time.Time `json:"time_created"`
	Value     string    `json:"value"`
}

// NewItem stamps s with the current time.
func NewItem(s string) StringItem {
	return StringItem{CreatedAt: time.Now().UTC(), Value: s}
}

// Items builds a list of freshly stamped items.
func Items(values ...string) []StringItem {
	out := make([]StringItem, 0, len(values))
	for _, v := range values {
		out = append(out, NewItem(v))
	}
	return out
}

// Value is a tagged union of Text and StringList.
type Value struct {
	Kind Kind
	Text string
	List []StringItem
}

// Text returns a Text value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// StringList returns a StringList value.
func StringList(items ...StringItem) Value {
	if items == nil {
		items = []StringItem{}
	}
	return Value{Kind: KindStringList, List: items}
}

// Strings returns the payloads of a StringList value.
func (v Value) Strings() []string {
	out := make([]string, 0, len(v.List))
	for _, item := range v.List {
		out = append(out, item.Value)
	}
	return out
}

// String renders text as-is and lists as ["a", "b"].
func (v Value) String() string {
	if v.Kind == KindText {
		return v.Text
	}
	quoted := make([]string, 0, len(v.List))
	for _, item := range v.List {
		quoted = append(quoted, strconv.Quote(item.Value))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Equal compares tags and payloads, ignoring item timestamps.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == KindText {
		return v.Text == o.Text
	}
	if len(v.List) != len(o.List) {
		return false
	}
	for i := range v.List {
		if v.List[i].Value != o.List[i].Value {
			return false
		}
	}
	return true
}

type textJSON struct {
	Text *string `json:"Text,omitempty"`
}

type listJSON struct {
	StringList []StringItem `json:"StringList"`
}

// MarshalJSON encodes the value externally tagged: {"Text": "..."} or
// {"StringList": [...]}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		s := v.Text
		return json.Marshal(textJSON{Text: &s})
	case KindStringList:
		list := v.List
		if list == nil {
			list = []StringItem{}
		}
		return json.Marshal(listJSON{StringList: list})
	default:
		return nil, fmt.Errorf("marshal variable value: unknown kind %d", v.Kind)
	}
}

// UnmarshalJSON decodes the externally tagged form.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unmarshal variable value: %w", err)
	}
	if t, ok := raw["Text"]; ok {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return fmt.Errorf("unmarshal text value: %w", err)
		}
		*v = Text(s)
		return nil
	}
	if l, ok := raw["StringList"]; ok {
		var items []StringItem
		if err := json.Unmarshal(l, &items); err != nil {
			return fmt.Errorf("unmarshal list value: %w", err)
		}
		*v = StringList(items...)
		return nil
	}
	return fmt.Errorf("unmarshal variable value: missing tag in %s", string(b))
}

// Variable is a named, persisted value.
type Variable struct {
	ID         int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	Name       string
	Value      Value
}

// New returns an unsaved variable.
func New(name string, value Value) *Variable {
	return &Variable{Name: name, Value: value}
}
