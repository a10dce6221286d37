// Package policy decides who may use commands that change bot state.
package policy

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/VoxDroid/stovbot/internal/config"
)

// Env is what an allow expression can reference.
type Env struct {
	User    string `expr:"user"`
	Trigger string `expr:"trigger"`
	Text    string `expr:"text"`
	Source  string `expr:"source"`
}

type rule struct {
	prefix  string
	source  string
	program *vm.Program
}

// Policy is an ordered list of compiled rules. The zero Policy allows
// everything.
type Policy struct {
	rules []rule
}

// New compiles rules. Each allow expression must evaluate to a bool.
func New(rules []config.PermissionRule) (*Policy, error) {
	p := &Policy{}
	for i, r := range rules {
		program, err := expr.Compile(r.Allow, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("permission rule %d (%s): %w", i, r.Trigger, err)
		}
		p.rules = append(p.rules, rule{prefix: r.Trigger, source: r.Allow, program: program})
	}
	return p, nil
}

// Allowed reports whether env may run env.Trigger. Every rule whose trigger
// prefixes env.Trigger must allow it.
func (p *Policy) Allowed(env Env) (bool, error) {
	if p == nil {
		return true, nil
	}
	for _, r := range p.rules {
		if !strings.HasPrefix(env.Trigger, r.prefix) {
			continue
		}
		out, err := expr.Run(r.program, env)
		if err != nil {
			return false, fmt.Errorf("evaluate %q: %w", r.source, err)
		}
		if allowed, _ := out.(bool); !allowed {
			return false, nil
		}
	}
	return true, nil
}
