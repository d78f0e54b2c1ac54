// Package commands holds the shell's built-in commands.
package commands

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/evaluate"
	"github.com/josephlewis42/queenshell/core/registry"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// allCommands holds every built-in, keyed by name.
var allCommands = make(map[string]registry.Command)

func addCommand(cmd registry.Command) {
	allCommands[cmd.Name()] = cmd
}

// ListBuiltinCommands returns the built-ins sorted by name.
func ListBuiltinCommands() []registry.Command {
	var out []registry.Command
	for _, cmd := range allCommands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// RegisterAll adds every built-in to reg in name order.
func RegisterAll(reg *registry.Registry) {
	for _, cmd := range ListBuiltinCommands() {
		reg.Register(cmd)
	}
}

// Invocation is everything a SimpleCommand gets when run.
type Invocation struct {
	Call     *evaluate.CallInfo
	Cancel   *atomic.Bool
	Shell    shell.Shell
	Registry *registry.Registry

	sig *signature.Signature
}

// Bind decodes the invocation's arguments into target.
func (inv *Invocation) Bind(target deserializer.Target) error {
	return deserializer.Decode(inv.sig, inv.Call.Args, target)
}

// RequireShell returns the shell, failing if the command runs without one.
func (inv *Invocation) RequireShell() (shell.Shell, error) {
	if inv.Shell == nil {
		return nil, shellerr.RuntimeErrorf("%s: no shell available", inv.sig.Name)
	}
	return inv.Shell, nil
}

// RequireFiles returns the shell's filesystem, failing if the shell has none.
func (inv *Invocation) RequireFiles() (shell.Files, error) {
	sh, err := inv.RequireShell()
	if err != nil {
		return nil, err
	}
	files, ok := sh.(shell.Files)
	if !ok {
		return nil, shellerr.RuntimeErrorf("%s: the %s shell has no filesystem", inv.sig.Name, sh.Name())
	}
	return files, nil
}

// SimpleCommand is a built-in defined by a signature and a callback.
type SimpleCommand struct {
	// Sig holds the command's name, usage and parameters.
	Sig *signature.Signature
	// Callback runs the command.
	Callback func(inv *Invocation) ([]value.Value, error)
}

var _ registry.Command = (*SimpleCommand)(nil)

func (s *SimpleCommand) Name() string {
	return s.Sig.Name
}

func (s *SimpleCommand) Usage() string {
	return s.Sig.Usage
}

func (s *SimpleCommand) Signature() *signature.Signature {
	return s.Sig
}

func (s *SimpleCommand) Run(call *evaluate.CallInfo, _ []value.Value, cancel *atomic.Bool, sh shell.Shell, reg *registry.Registry) ([]value.Value, error) {
	if cancel == nil {
		cancel = &atomic.Bool{}
	}
	return s.Callback(&Invocation{
		Call:     call,
		Cancel:   cancel,
		Shell:    sh,
		Registry: reg,
		sig:      s.Sig,
	})
}

// textLines turns multi-line text into one String value per line.
func textLines(text string) []value.Value {
	var out []value.Value
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		out = append(out, value.String(line))
	}
	return out
}
