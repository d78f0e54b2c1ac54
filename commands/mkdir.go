package commands

import (
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// Mkdir creates directories along with any missing parents.
var Mkdir = &SimpleCommand{
	Sig: signature.Build("mkdir").
		Desc("Create directories.").
		RestArgs(signature.ShapePath, "directories to create"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args shell.MkdirArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		sh, err := inv.RequireShell()
		if err != nil {
			return nil, err
		}
		return sh.Mkdir(args, inv.Cancel)
	},
}

func init() {
	addCommand(Mkdir)
}
