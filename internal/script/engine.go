// Package script implements the small expression language embedded in
// command responses between {{ and }}.
//
// A script is a sequence of statements separated by semicolons. Its value is
// the value of the last statement when that statement is not followed by a
// semicolon. Statements ending in a block (if, while, loop) need no
// semicolon.
//
//	let n = int("3"); let d = 0;
//	while n > 0 { n -= 1; d += floor(random() * 6) + 1 }
//	d
package script

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/VoxDroid/stovbot/internal/variable"
)

// ErrorPrefix starts every failed evaluation's rendered text.
const ErrorPrefix = "Script Error: "

// VariableStore is the persistence used by get, set and get_list. A missing
// variable is reported as (nil, nil).
type VariableStore interface {
	GetVariable(name string) (*variable.Variable, error)
	SetVariable(v *variable.Variable) error
}

// ErrNoStore is returned by variable builtins when the engine has no store.
var ErrNoStore = errors.New("no variable store available")

// Engine evaluates scripts. It is not safe for concurrent use.
type Engine struct {
	store VariableStore
	open  func() (VariableStore, error)
	rng   *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore gives scripts access to s.
func WithStore(s VariableStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithStoreOpener defers opening the variable store until a script first
// touches a variable, so scripts that never do pay nothing for it.
func WithStoreOpener(open func() (VariableStore, error)) Option {
	return func(e *Engine) { e.open = open }
}

// WithRand replaces the random source, for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

func (e *Engine) variables() (VariableStore, error) {
	if e.store != nil {
		return e.store, nil
	}
	if e.open == nil {
		return nil, ErrNoStore
	}
	s, err := e.open()
	if err != nil {
		return nil, fmt.Errorf("open variable store: %w", err)
	}
	e.store = s
	return s, nil
}

// Eval parses and runs src. Loops stop with ctx's error once ctx is done.
// Panics during evaluation are returned as errors.
func (e *Engine) Eval(ctx context.Context, src string) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	prog, err := parse(src)
	if err != nil {
		return Value{}, err
	}
	in := &interp{ctx: ctx, engine: e, scope: newScope(nil)}
	return in.block(prog, false)
}

// Render evaluates src and returns the text a template shows for it: the
// result's string form, or ErrorPrefix followed by the failure.
func (e *Engine) Render(ctx context.Context, src string) string {
	v, err := e.Eval(ctx, src)
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return v.String()
}
