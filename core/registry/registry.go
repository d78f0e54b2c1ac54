// Package registry holds the built-in commands and runs classified
// pipelines against them.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/josephlewis42/queenshell/core/evaluate"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Command is the interface every built-in implements.
type Command interface {
	// Name is the word that invokes the command.
	Name() string

	// Usage is a one line description for help output.
	Usage() string

	// Signature declares the parameters, it's consulted when parsing.
	Signature() *signature.Signature

	// Run executes the command. Arguments are bound inside Run from the
	// evaluated call. input is reserved for upstream values and is nil.
	// Long running commands must poll cancel and stop early when it's set,
	// returning what they produced so far. A nil result means no output.
	Run(call *evaluate.CallInfo, input []value.Value, cancel *atomic.Bool, sh shell.Shell, reg *Registry) ([]value.Value, error)
}

// Registry maps command names to implementations, keeping registration
// order.
type Registry struct {
	mu       sync.RWMutex
	commands *orderedmap.OrderedMap[string, Command]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		commands: orderedmap.New[string, Command](),
	}
}

// Register adds a command, replacing any command with the same name.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands.Set(cmd.Name(), cmd)
}

// Resolve looks up a command by name.
func (r *Registry) Resolve(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands.Get(name)
}

// Has is true if a command is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Resolve(name)
	return ok
}

// ExpectCommand looks up a command, failing with a runtime error if it
// doesn't exist.
func (r *Registry) ExpectCommand(name string) (Command, error) {
	cmd, ok := r.Resolve(name)
	if !ok {
		return nil, shellerr.RuntimeErrorf("Could not load command: %s", name)
	}
	return cmd, nil
}

// Signature returns the signature of a registered command.
func (r *Registry) Signature(name string) (*signature.Signature, bool) {
	cmd, ok := r.Resolve(name)
	if !ok {
		return nil, false
	}
	return cmd.Signature(), true
}

// Names lists the registered commands in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, r.commands.Len())
	for pair := r.commands.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Commands lists the registered commands in registration order.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, r.commands.Len())
	for pair := r.commands.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
