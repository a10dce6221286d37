// Package bot resolves chat messages to responses and applies the state
// changes built-in commands request.
package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/VoxDroid/stovbot/internal/command"
	"github.com/VoxDroid/stovbot/internal/events"
	"github.com/VoxDroid/stovbot/internal/policy"
	"github.com/VoxDroid/stovbot/internal/store"
	"github.com/VoxDroid/stovbot/internal/template"
	"github.com/VoxDroid/stovbot/internal/variable"
)

// DefaultAliasDepth bounds alias-to-alias chains when Options.AliasDepth is
// not set.
const DefaultAliasDepth = 8

// Store is the persistence the engine needs.
type Store interface {
	AddCommand(c *store.CommandRow) (int64, error)
	UpdateCommand(trigger, response string, isAlias bool) error
	DeleteCommand(trigger string) error
	ListCommands() ([]store.CommandRow, error)
	GetVariable(name string) (*variable.Variable, error)
	SetVariable(v *variable.Variable) error
	DeleteVariable(name string) error
	ListVariables() ([]variable.Variable, error)
	SeedDefaults(commands []store.CommandRow, vars []variable.Variable) error
}

// Options configures an Engine.
type Options struct {
	// BotName is the bot's own user name; its messages are ignored.
	BotName string
	Store   Store
	// Scripts evaluates script blocks in responses.
	Scripts template.ScriptRunner
	// Policy restricts validator commands; nil allows everything.
	Policy *policy.Policy
	// Bus receives audit events; nil discards them.
	Bus        *events.Bus
	AliasDepth int
	// Location identifies the store on loaded commands.
	Location string
	Logger   *zap.Logger
}

// Engine is the response engine. Respond must not be called concurrently.
type Engine struct {
	name       string
	registry   *command.Registry
	store      Store
	renderer   *template.Renderer
	policy     *policy.Policy
	bus        *events.Bus
	aliasDepth int
	location   string
	logger     *zap.Logger
}

// Reply is the engine's answer to a message.
type Reply struct {
	Text string
	// Trigger of the command that produced Text.
	Trigger string
}

// New seeds the default commands, loads the registry from the store and
// publishes a load event for every command and variable.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("bot: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	depth := opts.AliasDepth
	if depth <= 0 {
		depth = DefaultAliasDepth
	}
	e := &Engine{
		name:       opts.BotName,
		registry:   command.NewRegistry(),
		store:      opts.Store,
		renderer:   &template.Renderer{Scripts: opts.Scripts, Logger: logger},
		policy:     opts.Policy,
		bus:        opts.Bus,
		aliasDepth: depth,
		location:   opts.Location,
		logger:     logger,
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load() error {
	defaults := command.Defaults()
	rows := make([]store.CommandRow, 0, len(defaults))
	for _, c := range defaults {
		rows = append(rows, store.CommandRow{Trigger: c.Trigger, Response: c.Response, IsAlias: c.IsAlias})
		e.registry.Protect(c.Trigger)
	}
	if err := e.store.SeedDefaults(rows, command.DefaultVariables()); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	stored, err := e.store.ListCommands()
	if err != nil {
		return fmt.Errorf("load commands: %w", err)
	}
	for _, row := range stored {
		e.registry.Put(&command.Command{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			Trigger:   row.Trigger,
			Response:  row.Response,
			IsAlias:   row.IsAlias,
			Location:  e.location,
		})
	}
	// built-ins win over any stored row with the same trigger
	for _, c := range command.BuiltIns() {
		e.registry.Put(c)
		e.registry.Protect(c.Trigger)
	}
	for _, c := range e.registry.All() {
		ev := events.New(events.LoadCommand, c.Trigger)
		ev.New = c.Response
		e.publish(ev)
	}

	vars, err := e.store.ListVariables()
	if err != nil {
		return fmt.Errorf("load variables: %w", err)
	}
	for _, v := range vars {
		ev := events.New(events.LoadVariable, v.Name)
		ev.New = v.Value.String()
		e.publish(ev)
	}
	e.logger.Info("engine loaded", zap.Int("commands", e.registry.Len()), zap.Int("variables", len(vars)))
	return nil
}

// Registry exposes the loaded commands.
func (e *Engine) Registry() *command.Registry { return e.registry }

// Respond resolves msg and returns the reply, or nil when no command
// matches or the message is the bot's own. Rejected actions are replies, not
// errors; an error means the store could not be read.
func (e *Engine) Respond(ctx context.Context, msg command.Message) (*Reply, error) {
	if msg.Sender.Name == e.name {
		return nil, nil
	}
	return e.respond(ctx, msg, 0)
}

func (e *Engine) respond(ctx context.Context, msg command.Message, depth int) (*Reply, error) {
	cmd := e.registry.Resolve(msg.Text)
	if cmd == nil {
		return nil, nil
	}

	var p *pending
	if cmd.Validator != nil {
		if !e.allowed(cmd, msg) {
			return rejected(cmd, command.NewError(command.PermissionDenied)), nil
		}
		action, err := cmd.Validator.Validate(cmd, msg)
		if err != nil {
			return e.rejection(cmd, err)
		}
		if p, err = e.check(action); err != nil {
			return e.rejection(cmd, err)
		}
	}

	text := e.renderer.Render(ctx, cmd.Response, template.Input{
		Args: msg.AfterTrigger(cmd.Trigger),
		User: msg.Sender.Name,
	})
	if p != nil {
		e.apply(p, msg.Sender)
	}

	if !cmd.IsAlias {
		return &Reply{Text: text, Trigger: cmd.Trigger}, nil
	}
	if depth >= e.aliasDepth {
		e.logger.Warn("alias chain too deep", zap.String("trigger", cmd.Trigger), zap.Int("depth", depth+1))
		return rejected(cmd, command.NewError(command.BadCommandAlias)), nil
	}
	next := msg
	next.Text = text
	reply, err := e.respond(ctx, next, depth+1)
	if err != nil || reply != nil {
		return reply, err
	}
	return rejected(cmd, command.NewError(command.BadCommandAlias)), nil
}

func rejected(cmd *command.Command, ae *command.ActionError) *Reply {
	return &Reply{Text: ae.Error(), Trigger: cmd.Trigger}
}

// rejection turns an ActionError into a reply and passes other errors up.
func (e *Engine) rejection(cmd *command.Command, err error) (*Reply, error) {
	var ae *command.ActionError
	if errors.As(err, &ae) {
		e.logger.Debug("action rejected", zap.String("trigger", cmd.Trigger), zap.Stringer("reason", ae.Kind))
		return rejected(cmd, ae), nil
	}
	return nil, err
}

func (e *Engine) allowed(cmd *command.Command, msg command.Message) bool {
	ok, err := e.policy.Allowed(policy.Env{
		User:    msg.Sender.Name,
		Trigger: cmd.Trigger,
		Text:    msg.Text,
		Source:  msg.Source,
	})
	if err != nil {
		e.logger.Error("permission check failed", zap.String("trigger", cmd.Trigger), zap.Error(err))
		return false
	}
	return ok
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
