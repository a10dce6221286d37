package command

import "strconv"

// ErrorKind is the reason an Action was rejected.
type ErrorKind int

const (
	CommandAlreadyExists ErrorKind = iota + 1
	CommandDoesNotExist
	CannotDeleteBuiltInCommand
	CannotModifyBuiltInCommand
	BadCommand
	BadCommandTriggerPrefix
	BadCommandAlias
	VariableAlreadyExists
	VariableDoesNotExist
	VariableWrongType
	VariableBadEditIndex
	VariableBadEditIndexValue
	VariableEditTypeNotSupported
	PermissionDenied
	NotificationChannelNotFound
)

var errorNames = map[ErrorKind]string{
	CommandAlreadyExists:         "CommandAlreadyExists",
	CommandDoesNotExist:          "CommandDoesNotExist",
	CannotDeleteBuiltInCommand:   "CannotDeleteBuiltInCommand",
	CannotModifyBuiltInCommand:   "CannotModifyBuiltInCommand",
	BadCommand:                   "BadCommand",
	BadCommandTriggerPrefix:      "BadCommandTriggerPrefix",
	BadCommandAlias:              "BadCommandAlias",
	VariableAlreadyExists:        "VariableAlreadyExists",
	VariableDoesNotExist:         "VariableDoesNotExist",
	VariableWrongType:            "VariableWrongType",
	VariableBadEditIndex:         "VariableBadEditIndex",
	VariableBadEditIndexValue:    "VariableBadEditIndexValue",
	VariableEditTypeNotSupported: "VariableEditTypeNotSupported",
	PermissionDenied:             "PermissionDenied",
	NotificationChannelNotFound:  "NotificationChannelNotFound",
}

func (k ErrorKind) String() string {
	if s, ok := errorNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ActionError rejects a proposed Action. Its text is sent back to the user
// as the reply, e.g. `CommandAlreadyExists` or `BadCommand("!x")`.
type ActionError struct {
	Kind   ErrorKind
	Detail string
}

// NewError returns an ActionError of the given kind.
func NewError(kind ErrorKind) *ActionError {
	return &ActionError{Kind: kind}
}

// ErrBadCommand rejects malformed input, echoing it back.
func ErrBadCommand(detail string) *ActionError {
	return &ActionError{Kind: BadCommand, Detail: detail}
}

func (e *ActionError) Error() string {
	if e.Kind == BadCommand {
		return e.Kind.String() + "(" + strconv.Quote(e.Detail) + ")"
	}
	return e.Kind.String()
}

// Is matches any ActionError of the same kind, so errors.Is(err,
// NewError(CommandDoesNotExist)) works regardless of detail.
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Kind == e.Kind
}
