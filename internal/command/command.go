// Package command defines commands, the actions they can request and the
// registry used to resolve a chat message to a command.
package command

import (
	"time"

	"github.com/VoxDroid/stovbot/internal/variable"
)

// User is a message sender.
type User struct {
	Name string
}

// Message is an inbound chat message.
type Message struct {
	Sender User
	Text   string
	// Source names where the message came from, e.g. "admin" or "replay".
	Source string
}

// AfterTrigger returns the text following trigger and its separating space,
// or "" when the message is no longer than that.
func (m Message) AfterTrigger(trigger string) string {
	if len(trigger)+1 > len(m.Text) {
		return ""
	}
	return m.Text[len(trigger)+1:]
}

// Command is a trigger and the response template it renders.
type Command struct {
	ID        int64
	CreatedAt time.Time
	Trigger   string
	Response  string
	// Validator, when set, turns a matching message into an Action that
	// must be accepted before Response is rendered.
	Validator Validator
	// IsAlias commands have their rendered response resolved again as a
	// new message.
	IsAlias bool
	// Location is the database the command was loaded from; empty for
	// commands that only exist in memory.
	Location string
}

// Matches reports whether text invokes c: the trigger alone or followed by a
// space.
func (c *Command) Matches(text string) bool {
	if len(text) < len(c.Trigger) || text[:len(c.Trigger)] != c.Trigger {
		return false
	}
	return len(text) == len(c.Trigger) || text[len(c.Trigger)] == ' '
}

// Validator checks a message against a command and proposes an Action.
type Validator interface {
	Validate(cmd *Command, msg Message) (Action, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(cmd *Command, msg Message) (Action, error)

func (f ValidatorFunc) Validate(cmd *Command, msg Message) (Action, error) {
	return f(cmd, msg)
}

// ActionKind is the kind of mutation an Action requests.
type ActionKind int

const (
	AddCommand ActionKind = iota + 1
	EditCommand
	DeleteCommand
	AddVariable
	EditVariable
	DeleteVariable
)

func (k ActionKind) String() string {
	switch k {
	case AddCommand:
		return "AddCommand"
	case EditCommand:
		return "EditCommand"
	case DeleteCommand:
		return "DeleteCommand"
	case AddVariable:
		return "AddVariable"
	case EditVariable:
		return "EditVariable"
	case DeleteVariable:
		return "DeleteVariable"
	default:
		return "Unknown"
	}
}

// Action is a proposed mutation of the registry or the variable store.
type Action struct {
	Kind ActionKind
	// Command is set for command actions.
	Command *Command
	// Name, Edit and Value are set for variable actions. Value is the
	// operand of the edit, not the resulting value.
	Name  string
	Edit  variable.Edit
	Value variable.Value
}
