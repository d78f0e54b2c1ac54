package commands

import (
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// Pwd outputs the working directory.
var Pwd = &SimpleCommand{
	Sig: signature.Build("pwd").Desc("Print the name of the current working directory."),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		sh, err := inv.RequireShell()
		if err != nil {
			return nil, err
		}
		return sh.Pwd()
	},
}

func init() {
	addCommand(Pwd)
}
