// Package events carries the audit trail of command and variable changes
// from the engine to whoever listens.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is the type of change an Event records.
type Kind string

const (
	LoadCommand    Kind = "LoadCommand"
	AddCommand     Kind = "AddCommand"
	EditCommand    Kind = "EditCommand"
	DeleteCommand  Kind = "DeleteCommand"
	LoadVariable   Kind = "LoadVariable"
	AddVariable    Kind = "AddVariable"
	EditVariable   Kind = "EditVariable"
	DeleteVariable Kind = "DeleteVariable"
)

// IsLoad reports whether k describes startup state rather than a change.
func (k Kind) IsLoad() bool {
	return k == LoadCommand || k == LoadVariable
}

// Event is one change to the registry or the variable store.
type Event struct {
	ID   string
	Time time.Time
	Kind Kind
	// Subject is the command trigger or variable name.
	Subject string
	Old     string
	New     string
	// User is the sender whose message caused the change; empty for loads.
	User string
	// PersistError is set when the store write failed. The in-memory
	// registry was updated regardless.
	PersistError string
}

// New returns an Event stamped with a fresh ID and the current time.
func New(kind Kind, subject string) Event {
	return Event{ID: uuid.NewString(), Time: time.Now(), Kind: kind, Subject: subject}
}

func (e Event) String() string {
	s := fmt.Sprintf("%s(%s", e.Kind, e.Subject)
	if e.New != "" {
		s += fmt.Sprintf(", %q", e.New)
	}
	if e.User != "" {
		s += ", " + e.User
	}
	s += ")"
	if e.PersistError != "" {
		s += " [not persisted: " + e.PersistError + "]"
	}
	return s
}
