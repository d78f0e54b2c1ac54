package commands

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// HelpArgs are the arguments of help.
type HelpArgs struct {
	Command *string
}

func (a *HelpArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Command = d.OptionalString("command")
	return d.Err()
}

// Help lists the registered commands or describes one of them.
var Help = &SimpleCommand{
	Sig: signature.Build("help").
		Desc("Display information about built-in commands.").
		Optional("command", signature.ShapeString, "command to describe"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args HelpArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		if inv.Registry == nil {
			return nil, shellerr.RuntimeError("help: no commands registered")
		}

		var buf bytes.Buffer
		if args.Command != nil {
			cmd, err := inv.Registry.ExpectCommand(*args.Command)
			if err != nil {
				return nil, err
			}
			cmd.Signature().PrintHelp(&buf)
			return textLines(buf.String()), nil
		}

		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		for _, cmd := range inv.Registry.Commands() {
			fmt.Fprintf(tw, "%s\t%s\n", cmd.Signature().UsageLine(), cmd.Usage())
		}
		tw.Flush()
		return textLines(buf.String()), nil
	},
}

func init() {
	addCommand(Help)
}
