package commands

import (
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// Ls lists a directory, a file or the matches of a glob.
var Ls = &SimpleCommand{
	Sig: signature.Build("ls").
		Desc("List the contents of a directory.").
		Optional("path", signature.ShapePattern, "file, directory or glob to list"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args shell.LsArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		sh, err := inv.RequireShell()
		if err != nil {
			return nil, err
		}
		return sh.Ls(args, inv.Cancel)
	},
}

func init() {
	addCommand(Ls)
}
