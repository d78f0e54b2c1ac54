// Package shell defines the host capabilities built-in commands rely on.
package shell

import (
	"sync/atomic"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/spf13/afero"
)

// Shell is the environment commands run against. Operations that touch the
// filesystem return the same output shape as commands, a nil slice means no
// output.
type Shell interface {
	// Name identifies the kind of shell, e.g. "filesystem".
	Name() string
	// HomeDir is where cd goes without arguments.
	HomeDir() string
	// Path is the current working directory.
	Path() string
	// Readline reads the next line of input.
	Readline() (string, error)
	// Print writes text to the output.
	Print(text string)

	Ls(args LsArgs, cancel *atomic.Bool) ([]value.Value, error)
	Cd(args CdArgs) ([]value.Value, error)
	Mkdir(args MkdirArgs, cancel *atomic.Bool) ([]value.Value, error)
	Pwd() ([]value.Value, error)
}

// Files is implemented by shells backed by a filesystem, commands that read
// or write files directly need it.
type Files interface {
	Fs() afero.Fs
	// Resolve makes a name typed by the user absolute.
	Resolve(name string) string
}

// LsArgs are the arguments of ls.
type LsArgs struct {
	// Path is a file, directory or glob, nil lists the working directory.
	Path *string
}

func (a *LsArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Path = d.OptionalString("path")
	return d.Err()
}

// CdArgs are the arguments of cd.
type CdArgs struct {
	// Destination is nil to go home.
	Destination *string
}

func (a *CdArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Destination = d.OptionalString("destination")
	return d.Err()
}

// MkdirArgs are the arguments of mkdir.
type MkdirArgs struct {
	Paths []string
}

func (a *MkdirArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Paths = d.Rest(signature.RestName)
	return d.Err()
}

var (
	_ Files = (*FilesystemShell)(nil)

	_ deserializer.Target = (*LsArgs)(nil)
	_ deserializer.Target = (*CdArgs)(nil)
	_ deserializer.Target = (*MkdirArgs)(nil)
)
