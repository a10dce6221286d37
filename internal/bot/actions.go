package bot

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/VoxDroid/stovbot/internal/command"
	"github.com/VoxDroid/stovbot/internal/events"
	"github.com/VoxDroid/stovbot/internal/store"
	"github.com/VoxDroid/stovbot/internal/variable"
)

// pending is an accepted action plus the state it was checked against.
type pending struct {
	action   command.Action
	existing *command.Command
	old      *variable.Variable
	value    variable.Value
}

// check validates action against the registry and the variable store.
func (e *Engine) check(action command.Action) (*pending, error) {
	p := &pending{action: action}
	switch action.Kind {
	case command.AddCommand:
		if e.registry.Contains(action.Command.Trigger) {
			return nil, command.NewError(command.CommandAlreadyExists)
		}
	case command.EditCommand, command.DeleteCommand:
		existing, ok := e.registry.Get(action.Command.Trigger)
		if !ok {
			return nil, command.NewError(command.CommandDoesNotExist)
		}
		if e.registry.IsBuiltIn(existing.Trigger) {
			if action.Kind == command.EditCommand {
				return nil, command.NewError(command.CannotModifyBuiltInCommand)
			}
			return nil, command.NewError(command.CannotDeleteBuiltInCommand)
		}
		p.existing = existing
	case command.AddVariable:
		old, err := e.store.GetVariable(action.Name)
		if err != nil {
			return nil, err
		}
		if old != nil {
			return nil, command.NewError(command.VariableAlreadyExists)
		}
		p.value = action.Value
	case command.EditVariable:
		old, err := e.store.GetVariable(action.Name)
		if err != nil {
			return nil, err
		}
		if old == nil {
			return nil, command.NewError(command.VariableDoesNotExist)
		}
		value, err := variable.Apply(old.Value, action.Edit, action.Value)
		if errors.Is(err, variable.ErrWrongType) {
			return nil, command.NewError(command.VariableWrongType)
		}
		if err != nil {
			return nil, err
		}
		p.old, p.value = old, value
	case command.DeleteVariable:
		old, err := e.store.GetVariable(action.Name)
		if err != nil {
			return nil, err
		}
		if old == nil {
			return nil, command.NewError(command.VariableDoesNotExist)
		}
		p.old = old
	default:
		return nil, fmt.Errorf("unknown action kind %d", action.Kind)
	}
	return p, nil
}

// apply writes the store first and then updates the registry. A failed
// write is logged and recorded on the event; the registry is updated anyway.
func (e *Engine) apply(p *pending, sender command.User) {
	a := p.action
	var (
		ev  events.Event
		err error
	)
	switch a.Kind {
	case command.AddCommand:
		c := *a.Command
		c.CreatedAt = time.Now().UTC()
		c.Location = e.location
		c.ID, err = e.store.AddCommand(&store.CommandRow{Trigger: c.Trigger, Response: c.Response, IsAlias: c.IsAlias})
		e.registry.Put(&c)
		ev = events.New(events.AddCommand, c.Trigger)
		ev.New = c.Response
	case command.EditCommand:
		c := *p.existing
		c.Response = a.Command.Response
		err = e.store.UpdateCommand(c.Trigger, c.Response, c.IsAlias)
		e.registry.Put(&c)
		ev = events.New(events.EditCommand, c.Trigger)
		ev.Old, ev.New = p.existing.Response, c.Response
	case command.DeleteCommand:
		err = e.store.DeleteCommand(p.existing.Trigger)
		e.registry.Delete(p.existing.Trigger)
		ev = events.New(events.DeleteCommand, p.existing.Trigger)
		ev.Old = p.existing.Response
	case command.AddVariable:
		err = e.store.SetVariable(variable.New(a.Name, p.value))
		ev = events.New(events.AddVariable, a.Name)
		ev.New = p.value.String()
	case command.EditVariable:
		v := *p.old
		v.Value = p.value
		err = e.store.SetVariable(&v)
		ev = events.New(events.EditVariable, a.Name)
		ev.Old, ev.New = p.old.Value.String(), p.value.String()
	case command.DeleteVariable:
		err = e.store.DeleteVariable(a.Name)
		ev = events.New(events.DeleteVariable, a.Name)
		ev.Old = p.old.Value.String()
	}
	ev.User = sender.Name
	if err != nil {
		e.logger.Error("persist failed", zap.Stringer("action", a.Kind), zap.String("subject", ev.Subject), zap.Error(err))
		ev.PersistError = err.Error()
	}
	e.publish(ev)
}
