package cmd

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/spf13/cobra"
)

var (
	parseOutput string
	parseTokens bool
)

// parseCmd shows how a line is lexed and classified without running it.
var parseCmd = &cobra.Command{
	Use:   "parse LINE...",
	Short: "Show the parse of a line without running it.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(parseOutput, outputJSON, outputYAML); err != nil {
			return err
		}
		cmd.SilenceUsage = true

		line := strings.Join(args, " ")

		var result interface{}
		var err error
		if parseTokens {
			result, err = parser.Tokenize(line)
		} else {
			result, err = parser.Parse(line, newRegistry())
		}

		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), shellerr.From(err).Render(line))
			cmd.SilenceErrors = true
			return displayedError{err}
		}

		return writeStructured(cmd.OutOrStdout(), parseOutput, result)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().SetInterspersed(false)
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", outputJSON, "output format: json or yaml")
	parseCmd.Flags().BoolVar(&parseTokens, "tokens", false, "show the tokens instead of the classified commands")
}
