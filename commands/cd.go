package commands

import (
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// Cd changes the working directory.
var Cd = &SimpleCommand{
	Sig: signature.Build("cd").
		Desc("Change the working directory.").
		Optional("destination", signature.ShapePath, "directory to change to, home if left out"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args shell.CdArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		sh, err := inv.RequireShell()
		if err != nil {
			return nil, err
		}
		return sh.Cd(args)
	},
}

func init() {
	addCommand(Cd)
}
