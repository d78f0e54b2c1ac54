package commands

import (
	"fmt"
	"path/filepath"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/spf13/afero"
)

// RmdirArgs are the arguments of rmdir.
type RmdirArgs struct {
	Parents bool
	Verbose bool
	Paths   []string
}

func (a *RmdirArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Parents = d.Bool("parents")
	a.Verbose = d.Bool("verbose")
	a.Paths = d.Rest(signature.RestName)
	return d.Err()
}

// steps lists dir and, with parents, each of its ancestors named in dir,
// deepest first.
func (a *RmdirArgs) steps(dir string) []string {
	steps := []string{filepath.Clean(dir)}
	if !a.Parents {
		return steps
	}
	for {
		parent := filepath.Dir(steps[len(steps)-1])
		if parent == "." || parent == "/" || parent == steps[len(steps)-1] {
			return steps
		}
		steps = append(steps, parent)
	}
}

// Rmdir removes empty directories.
var Rmdir = &SimpleCommand{
	Sig: signature.Build("rmdir").
		Desc("Remove empty directories.").
		Switch("parents", "also remove the directory's ancestors").
		Switch("verbose", "output a line for every removed directory").
		RestArgs(signature.ShapePath, "directories to remove"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args RmdirArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		files, err := inv.RequireFiles()
		if err != nil {
			return nil, err
		}
		if len(args.Paths) == 0 {
			return nil, shellerr.RuntimeError("rmdir: missing operand")
		}

		var out []value.Value
		for _, dir := range args.Paths {
			if inv.Cancel.Load() {
				break
			}
			for _, step := range args.steps(dir) {
				path := files.Resolve(step)

				isDir, err := afero.IsDir(files.Fs(), path)
				switch {
				case err != nil:
					return out, shellerr.RuntimeErrorf("rmdir: failed to remove %q: no such file or directory", step)
				case !isDir:
					return out, shellerr.RuntimeErrorf("rmdir: failed to remove %q: not a directory", step)
				}

				empty, err := afero.IsEmpty(files.Fs(), path)
				switch {
				case err != nil:
					return out, shellerr.Wrap(err, shellerr.RuntimeErrorf("rmdir: cannot read directory %q", step))
				case !empty:
					return out, shellerr.RuntimeErrorf("rmdir: failed to remove %q: directory not empty", step)
				}

				if err := files.Fs().Remove(path); err != nil {
					return out, shellerr.Wrap(err, shellerr.RuntimeErrorf("rmdir: failed to remove %q", step))
				}
				if args.Verbose {
					out = append(out, value.String(fmt.Sprintf("rmdir: removing directory, %q", step)))
				}
			}
		}
		return out, nil
	},
}

func init() {
	addCommand(Rmdir)
}
