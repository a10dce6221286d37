package command

import (
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"
)

// Registry is the in-memory set of commands keyed by trigger. Triggers
// marked protected (built-ins and defaults) cannot be edited or deleted
// through actions.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]*Command
	protected map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  map[string]*Command{},
		protected: map[string]struct{}{},
	}
}

// Protect marks triggers as built-in.
func (r *Registry) Protect(triggers ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range triggers {
		r.protected[t] = struct{}{}
	}
}

// IsBuiltIn reports whether trigger is protected.
func (r *Registry) IsBuiltIn(trigger string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.protected[trigger]
	return ok
}

// Put adds c, replacing any command with the same trigger.
func (r *Registry) Put(c *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Trigger] = c
}

// Delete removes the command with trigger.
func (r *Registry) Delete(trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, trigger)
}

// Get returns the command with trigger.
func (r *Registry) Get(trigger string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[trigger]
	return c, ok
}

// Contains reports whether trigger is registered.
func (r *Registry) Contains(trigger string) bool {
	_, ok := r.Get(trigger)
	return ok
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Resolve returns the command invoked by text, or nil. When several triggers
// match, the longest one wins so that "!command add" beats "!command".
func (r *Registry) Resolve(text string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *Command
	for _, c := range r.commands {
		if !c.Matches(text) {
			continue
		}
		if best == nil || len(c.Trigger) > len(best.Trigger) {
			best = c
		}
	}
	return best
}

// All returns every command ordered by trigger.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger < out[j].Trigger })
	return out
}

type commandSource []*Command

func (s commandSource) String(i int) string { return s[i].Trigger + " " + s[i].Response }
func (s commandSource) Len() int            { return len(s) }

// Search returns commands whose trigger or response fuzzy-matches query,
// best match first. An empty query returns All.
func (r *Registry) Search(query string) []*Command {
	all := r.All()
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, commandSource(all))
	out := make([]*Command, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}
