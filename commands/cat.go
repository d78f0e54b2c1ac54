package commands

import (
	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/spf13/afero"
)

// FilesArgs are the arguments of commands that only take paths.
type FilesArgs struct {
	Paths []string
}

func (a *FilesArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Paths = d.Rest(signature.RestName)
	return d.Err()
}

// Cat outputs the lines of each file in turn.
var Cat = &SimpleCommand{
	Sig: signature.Build("cat").
		Desc("Concatenate files and print them.").
		RestArgs(signature.ShapePath, "files to print"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args FilesArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		files, err := inv.RequireFiles()
		if err != nil {
			return nil, err
		}
		if len(args.Paths) == 0 {
			return nil, shellerr.RuntimeError("cat: missing operand")
		}

		var out []value.Value
		for _, name := range args.Paths {
			if inv.Cancel.Load() {
				break
			}

			path := files.Resolve(name)
			if isDir, err := afero.IsDir(files.Fs(), path); err == nil && isDir {
				return out, shellerr.RuntimeErrorf("cat: %s: is a directory", name)
			}

			contents, err := afero.ReadFile(files.Fs(), path)
			if err != nil {
				return out, shellerr.RuntimeErrorf("cat: %s: no such file or directory", name)
			}
			if len(contents) > 0 {
				out = append(out, textLines(string(contents))...)
			}
		}
		return out, nil
	},
}

var _ deserializer.Target = (*FilesArgs)(nil)

func init() {
	addCommand(Cat)
}
