package commands

import (
	"errors"
	"io/fs"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// RmArgs are the arguments of rm.
type RmArgs struct {
	Recursive bool
	Force     bool
	Paths     []string
}

func (a *RmArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Recursive = d.Bool("recursive")
	a.Force = d.Bool("force")
	a.Paths = d.Rest(signature.RestName)
	return d.Err()
}

// Rm removes files, and directories if asked to.
var Rm = &SimpleCommand{
	Sig: signature.Build("rm").
		Desc("Remove files or directories.").
		Switch("recursive", "remove directories and their contents recursively").
		Switch("force", "ignore missing files").
		RestArgs(signature.ShapePath, "files to remove"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args RmArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		files, err := inv.RequireFiles()
		if err != nil {
			return nil, err
		}
		if len(args.Paths) == 0 && !args.Force {
			return nil, shellerr.RuntimeError("rm: missing operand")
		}

		for _, name := range args.Paths {
			if inv.Cancel.Load() {
				break
			}
			path := files.Resolve(name)

			stat, err := files.Fs().Stat(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				if !args.Force {
					return nil, shellerr.RuntimeErrorf("rm: can't remove %q: no such file or directory", name)
				}

			case err != nil:
				return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("rm: can't stat %q", name))

			case stat.IsDir() && !args.Recursive:
				return nil, shellerr.RuntimeErrorf("rm: can't remove %q: is a directory", name)

			default:
				if err := files.Fs().RemoveAll(path); err != nil {
					return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("rm: can't remove %q", name))
				}
			}
		}
		return nil, nil
	},
}

func init() {
	addCommand(Rm)
}
