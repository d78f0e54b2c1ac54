package commands

import (
	"errors"
	"io/fs"
	"time"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// now is replaced in tests.
var now = time.Now

// TouchArgs are the arguments of touch.
type TouchArgs struct {
	NoCreate bool
	Paths    []string
}

func (a *TouchArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.NoCreate = d.Bool("no-create")
	a.Paths = d.Rest(signature.RestName)
	return d.Err()
}

// Touch updates modification times, creating missing files.
var Touch = &SimpleCommand{
	Sig: signature.Build("touch").
		Desc("Update the modification times of files, creating them if needed.").
		Switch("no-create", "don't create files").
		RestArgs(signature.ShapePath, "files to touch"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args TouchArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		files, err := inv.RequireFiles()
		if err != nil {
			return nil, err
		}
		if len(args.Paths) == 0 {
			return nil, shellerr.RuntimeError("touch: missing file operand")
		}

		t := now()
		for _, name := range args.Paths {
			if inv.Cancel.Load() {
				break
			}
			path := files.Resolve(name)

			err := files.Fs().Chtimes(path, t, t)
			switch {
			case errors.Is(err, fs.ErrNotExist) && !args.NoCreate:
				fd, err := files.Fs().Create(path)
				if err != nil {
					return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("touch: cannot touch %q", name))
				}
				fd.Close()

			case errors.Is(err, fs.ErrNotExist):
				// Not an error with --no-create.

			case err != nil:
				return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("touch: setting times of %q", name))
			}
		}
		return nil, nil
	},
}

func init() {
	addCommand(Touch)
}
