package command

import (
	"strconv"
	"strings"

	"github.com/VoxDroid/stovbot/internal/nameutil"
	"github.com/VoxDroid/stovbot/internal/variable"
)

// BuiltIns returns the commands that manage other commands and variables.
func BuiltIns() []*Command {
	return []*Command{
		{Trigger: "!command add", Response: "Your command has been added", Validator: ValidatorFunc(addCommand)},
		{Trigger: "!command edit", Response: "Your command has been edited", Validator: ValidatorFunc(editCommand)},
		{Trigger: "!command delete", Response: "Your command has been deleted", Validator: ValidatorFunc(deleteCommand)},
		{Trigger: "!alias add", Response: "Your alias has been added", Validator: ValidatorFunc(addAlias)},
		{Trigger: "!variable add", Response: "Your variable has been added", Validator: ValidatorFunc(addVariable)},
		{Trigger: "!variable edit", Response: "Your variable has been edited", Validator: ValidatorFunc(editVariable)},
		{Trigger: "!variable delete", Response: "Your variable has been deleted", Validator: ValidatorFunc(deleteVariable)},
	}
}

// splitWord splits s at its first space. rest excludes that space.
func splitWord(s string) (word, rest string, ok bool) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// triggerAndResponse parses "<trigger> <response...>".
func triggerAndResponse(cmd *Command, msg Message) (string, string, error) {
	args := msg.AfterTrigger(cmd.Trigger)
	trigger, response, ok := splitWord(args)
	if !ok || response == "" {
		return "", "", ErrBadCommand(args)
	}
	if !strings.HasPrefix(trigger, nameutil.TriggerPrefix) {
		return "", "", NewError(BadCommandTriggerPrefix)
	}
	if err := nameutil.ValidateTrigger(trigger); err != nil {
		return "", "", ErrBadCommand(trigger)
	}
	return trigger, response, nil
}

func addCommand(cmd *Command, msg Message) (Action, error) {
	trigger, response, err := triggerAndResponse(cmd, msg)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: AddCommand, Command: &Command{Trigger: trigger, Response: response}}, nil
}

func addAlias(cmd *Command, msg Message) (Action, error) {
	trigger, response, err := triggerAndResponse(cmd, msg)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: AddCommand, Command: &Command{Trigger: trigger, Response: response, IsAlias: true}}, nil
}

func editCommand(cmd *Command, msg Message) (Action, error) {
	trigger, response, err := triggerAndResponse(cmd, msg)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: EditCommand, Command: &Command{Trigger: trigger, Response: response}}, nil
}

func deleteCommand(cmd *Command, msg Message) (Action, error) {
	args := msg.AfterTrigger(cmd.Trigger)
	if !strings.HasPrefix(args, nameutil.TriggerPrefix) {
		return Action{}, NewError(BadCommandTriggerPrefix)
	}
	trigger, _, _ := splitWord(args)
	return Action{Kind: DeleteCommand, Command: &Command{Trigger: trigger}}, nil
}

func addVariable(cmd *Command, msg Message) (Action, error) {
	args := msg.AfterTrigger(cmd.Trigger)
	name, rest, _ := splitWord(args)
	if err := nameutil.ValidateVariableName(name); err != nil {
		return Action{}, ErrBadCommand(args)
	}
	return Action{Kind: AddVariable, Name: name, Value: ParseValue(rest)}, nil
}

func deleteVariable(cmd *Command, msg Message) (Action, error) {
	args := msg.AfterTrigger(cmd.Trigger)
	name, _, _ := splitWord(args)
	if err := nameutil.ValidateVariableName(name); err != nil {
		return Action{}, ErrBadCommand(args)
	}
	return Action{Kind: DeleteVariable, Name: name}, nil
}

// edit operators, longest first
var editSuffixes = []struct {
	suffix string
	typ    variable.EditType
}{
	{"+#", variable.InsertAt},
	{"-#", variable.RemoveAt},
	{"+", variable.Append},
	{"-", variable.Remove},
}

// editVariable parses "<name>[+|-|+#|-#] [<index>] <value...>".
func editVariable(cmd *Command, msg Message) (Action, error) {
	args := msg.AfterTrigger(cmd.Trigger)
	target, rest, _ := splitWord(args)

	name, edit := target, variable.Edit{Type: variable.Overwrite}
	for _, s := range editSuffixes {
		if strings.HasSuffix(target, s.suffix) {
			name, edit.Type = strings.TrimSuffix(target, s.suffix), s.typ
			break
		}
	}
	if name != "" && strings.ContainsAny(name[len(name)-1:], "+-#*") {
		return Action{}, NewError(VariableEditTypeNotSupported)
	}
	if err := nameutil.ValidateVariableName(name); err != nil {
		return Action{}, ErrBadCommand(args)
	}

	if edit.Type == variable.InsertAt || edit.Type == variable.RemoveAt {
		indexText, value, _ := splitWord(rest)
		if indexText == "" {
			return Action{}, NewError(VariableBadEditIndex)
		}
		index, err := strconv.Atoi(indexText)
		if err != nil {
			return Action{}, NewError(VariableBadEditIndexValue)
		}
		edit.Index = index
		rest = value
		if edit.Type == variable.RemoveAt {
			return Action{Kind: EditVariable, Name: name, Edit: edit}, nil
		}
	}
	if rest == "" && edit.Type != variable.Overwrite {
		return Action{}, ErrBadCommand(args)
	}
	return Action{Kind: EditVariable, Name: name, Edit: edit, Value: ParseValue(rest)}, nil
}

// ParseValue reads a chat-supplied value. "[...]" is a one-item StringList,
// "[]" an empty StringList, and anything else Text.
func ParseValue(s string) variable.Value {
	if len(s) >= 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := s[1 : len(s)-1]
		if inner == "" {
			return variable.StringList()
		}
		return variable.StringList(variable.NewItem(inner))
	}
	return variable.Text(s)
}
