package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/VoxDroid/stovbot/internal/config"
	"github.com/VoxDroid/stovbot/internal/script"
)

// EngineCommand is the subcommand of the stovbot binary that evaluates one
// script and exits.
const EngineCommand = "script-engine"

// Runner evaluates scripts in a child process.
type Runner struct {
	// Command is the child's argv prefix; the script is appended as the
	// last argument. Empty means "<this executable> script-engine".
	Command []string
	// DatabasePath is handed to the child for get, set and get_list.
	DatabasePath string
	// Timeout is the child's evaluation budget.
	Timeout time.Duration
	// KillGrace is how long past Timeout the parent waits before killing
	// a child that did not stop by itself.
	KillGrace time.Duration
	// Env is appended to the inherited environment.
	Env    []string
	Logger *zap.Logger
}

// NewRunner builds a Runner from configuration.
func NewRunner(cfg config.Config, logger *zap.Logger) (*Runner, error) {
	r := &Runner{
		DatabasePath: cfg.DatabasePath,
		Timeout:      cfg.Script.Timeout,
		KillGrace:    cfg.Script.KillGrace,
		Logger:       logger,
	}
	if cfg.Script.EngineCommand != "" {
		argv, err := shellquote.Split(cfg.Script.EngineCommand)
		if err != nil {
			return nil, fmt.Errorf("parse script.engine_command: %w", err)
		}
		if len(argv) == 0 {
			return nil, errors.New("script.engine_command is empty")
		}
		r.Command = argv
	}
	return r, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) argv() ([]string, error) {
	if len(r.Command) > 0 {
		return append([]string(nil), r.Command...), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return []string{exe, EngineCommand}, nil
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return time.Second
	}
	return r.Timeout
}

// Run evaluates src in a child process and returns its output. A *Failure
// is returned when the child timed out, crashed, or could not be run. Run
// never blocks for longer than Timeout plus KillGrace.
func (r *Runner) Run(ctx context.Context, src string) (string, error) {
	argv, err := r.argv()
	if err != nil {
		return "", &Failure{Kind: IO, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout()+r.KillGrace)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], src)...)
	cmd.Env = append(os.Environ(),
		config.DatabaseEnv+"="+r.DatabasePath,
		config.ScriptTimeoutEnv+"="+r.timeout().String(),
	)
	cmd.Env = append(cmd.Env, r.Env...)
	// bounds the wait for pipes held open by anything the child spawned
	cmd.WaitDelay = r.KillGrace + 100*time.Millisecond
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)
	if err == nil {
		r.logger().Debug("script finished", zap.Duration("elapsed", elapsed))
		return bout.String(), nil
	}
	out, f := classify(ctx, err, &bout)
	if f != nil {
		r.logger().Warn("script failed",
			zap.Stringer("kind", f.Kind),
			zap.Duration("elapsed", elapsed),
			zap.String("stderr", strings.TrimSpace(berr.String())),
			zap.Error(err))
		return "", f
	}
	return out, nil
}

// classify maps a failed child run to its output or a Failure. A non-zero
// exit that is not a known failure code still counts as a result.
func classify(ctx context.Context, err error, bout *bytes.Buffer) (string, *Failure) {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		// killed by us after the grace period
		return "", &Failure{Kind: Timeout, Err: err}
	case ctx.Err() != nil:
		return "", &Failure{Kind: IO, Err: ctx.Err()}
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return "", &Failure{Kind: IO, Err: err}
	}
	switch code := exitErr.ExitCode(); code {
	case ExitTimeout:
		return "", &Failure{Kind: Timeout, Err: err}
	case ExitCrash, 2, -1:
		// 2 is the Go runtime's fatal error status; -1 means killed by a signal
		return "", &Failure{Kind: Crash, Err: err}
	default:
		return bout.String(), nil
	}
}

// RunScript is Run with failures rendered as their display text.
func (r *Runner) RunScript(ctx context.Context, src string) string {
	out, err := r.Run(ctx, src)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return f.Error()
		}
		return script.ErrorPrefix + err.Error()
	}
	return out
}
