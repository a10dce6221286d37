// Package sandbox runs script blocks in a child process so that runaway or
// crashing scripts cannot take the bot down with them.
package sandbox

import (
	"github.com/VoxDroid/stovbot/internal/script"
)

// Exit codes the child uses to report a failure that produced no output.
const (
	ExitTimeout = 100
	ExitCrash   = 128
)

// FailureKind classifies why a script produced no result.
type FailureKind int

const (
	Timeout FailureKind = iota
	Crash
	IO
)

func (k FailureKind) String() string {
	switch k {
	case Timeout:
		return "Timeout"
	case Crash:
		return "Crash"
	case IO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Failure is returned by Runner.Run when the child did not produce a result.
// Its message is the text shown in place of the script's output.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return script.ErrorPrefix + f.Kind.String()
}

func (f *Failure) Unwrap() error { return f.Err }
