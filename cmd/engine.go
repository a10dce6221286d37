package cmd

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/VoxDroid/stovbot/internal/bot"
	"github.com/VoxDroid/stovbot/internal/command"
	"github.com/VoxDroid/stovbot/internal/db"
	"github.com/VoxDroid/stovbot/internal/events"
	"github.com/VoxDroid/stovbot/internal/policy"
	"github.com/VoxDroid/stovbot/internal/recorder"
	"github.com/VoxDroid/stovbot/internal/sandbox"
	"github.com/VoxDroid/stovbot/internal/store"
)

// openStore opens the configured database.
func openStore() (*store.Repository, error) {
	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return store.NewRepository(conn), nil
}

// startEngine builds an engine over repo that evaluates scripts in sandbox
// children and publishes to bus (which may be nil).
func startEngine(repo *store.Repository, bus *events.Bus) (*bot.Engine, error) {
	runner, err := sandbox.NewRunner(cfg, logger)
	if err != nil {
		return nil, err
	}
	pol, err := policy.New(cfg.Permissions)
	if err != nil {
		return nil, err
	}
	return bot.New(bot.Options{
		BotName:    cfg.BotName,
		Store:      repo,
		Scripts:    runner,
		Policy:     pol,
		Bus:        bus,
		AliasDepth: cfg.AliasDepth,
		Location:   cfg.DatabasePath,
		Logger:     logger,
	})
}

// session feeds chat lines to the engine and writes its replies.
type session struct {
	in     io.Reader
	out    io.Writer
	sender string
	source string
	// echo prints each input line before its reply.
	echo bool
}

// run answers every line of s.in while a second goroutine persists the
// audit events the engine publishes. It returns once input is exhausted and
// every queued event has been recorded.
func (s session) run(ctx context.Context) error {
	repo, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	bus := events.NewBus(logger)
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	engine, err := startEngine(repo, bus)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Record(gctx, ch, repo, logger) })
	g.Go(func() error {
		defer bus.Close()
		return recorder.Each(s.in, func(line string) error {
			if gctx.Err() != nil {
				return recorder.ErrStop
			}
			if s.echo {
				fmt.Fprintf(s.out, "%s: %s\n", s.sender, line)
			}
			reply, err := engine.Respond(gctx, command.Message{
				Sender: command.User{Name: s.sender},
				Text:   line,
				Source: s.source,
			})
			if err != nil {
				logger.Error("respond failed", zap.String("text", line), zap.Error(err))
				return nil
			}
			if reply != nil {
				fmt.Fprintf(s.out, "%s: %s\n", cfg.BotName, reply.Text)
			}
			return nil
		})
	})
	return g.Wait()
}
