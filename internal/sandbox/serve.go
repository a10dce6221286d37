package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/VoxDroid/stovbot/internal/config"
	"github.com/VoxDroid/stovbot/internal/db"
	"github.com/VoxDroid/stovbot/internal/script"
	"github.com/VoxDroid/stovbot/internal/store"
)

// Serve is the child side of Runner. It evaluates the last element of args,
// writes the rendered result to stdout and returns the process exit code:
// 0 with output, ExitTimeout when the evaluation budget runs out, or
// ExitCrash when evaluation ended without a result.
func Serve(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		return ExitCrash
	}
	src := args[len(args)-1]

	timeout := time.Second
	if v := os.Getenv(config.ScriptTimeoutEnv); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var repo *store.Repository
	engine := script.New(script.WithStoreOpener(func() (script.VariableStore, error) {
		path, err := config.DBPath()
		if err != nil {
			return nil, err
		}
		conn, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		repo = store.NewRepository(conn)
		return repo, nil
	}))

	done := make(chan string, 1)
	go func() {
		defer close(done)
		v, err := engine.Eval(ctx, src)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return
		case err != nil:
			done <- script.ErrorPrefix + err.Error()
		default:
			done <- v.String()
		}
	}()

	select {
	case out, ok := <-done:
		if !ok {
			if ctx.Err() != nil {
				return ExitTimeout
			}
			return ExitCrash
		}
		if repo != nil {
			_ = repo.Close()
		}
		if _, err := fmt.Fprint(stdout, out); err != nil {
			return ExitCrash
		}
		return 0
	case <-ctx.Done():
		return ExitTimeout
	}
}
