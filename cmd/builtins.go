package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/queenshell/commands"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/spf13/cobra"
)

var builtinsOutput string

// builtinsCmd lists the builtin commands
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(builtinsOutput, outputText, outputJSON, outputYAML); err != nil {
			return err
		}

		var signatures []*signature.Signature
		for _, builtin := range commands.ListBuiltinCommands() {
			signatures = append(signatures, builtin.Signature())
		}

		if builtinsOutput != outputText {
			return writeStructured(cmd.OutOrStdout(), builtinsOutput, signatures)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, sig := range signatures {
			fmt.Fprintf(w, "%s\t%s\n", sig.UsageLine(), sig.Usage)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
	builtinsCmd.Flags().StringVarP(&builtinsOutput, "output", "o", outputText, "output format: text, json or yaml")
}
