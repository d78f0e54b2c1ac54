package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephlewis42/queenshell/core"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/spf13/cobra"
)

var (
	execLine   string
	execOutput string
)

// execCmd runs a single line non-interactively.
var execCmd = &cobra.Command{
	Use:   "exec [-c LINE | LINE...]",
	Short: "Run a line and print its output.",
	Long: `Run a line and print its output. The line runs on the configured
sandbox, or a throwaway in-memory filesystem if none is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		line := execLine
		if line == "" {
			line = strings.Join(args, " ")
		}
		if strings.TrimSpace(line) == "" {
			return errors.New("nothing to run: pass -c or a line")
		}
		if err := checkOutputFormat(execOutput, outputText, outputJSON, outputYAML); err != nil {
			return err
		}
		cmd.SilenceUsage = true

		cfg, err := loadConfigOrDefault()
		if err != nil {
			return err
		}

		sh, err := shell.NewFilesystemShell(cfg.SandboxFs(), cfg.Home, nil, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		interp := core.NewInterpreter(newRegistry(), sh, cmd.ErrOrStderr(), core.InterpreterOptions{
			Prompt:   cfg.Prompt,
			Hostname: cfg.Hostname,
			User:     cfg.User,
		})

		out, runErr := interp.Execute(line)
		if out == nil {
			out = []value.Value{}
		}

		stdout := cmd.OutOrStdout()
		if execOutput == outputText {
			fmt.Fprint(stdout, core.FormatValues(out))
		} else if err := writeStructured(stdout, execOutput, out); err != nil {
			return err
		}

		if runErr != nil {
			interp.PrintError(line, runErr)
			cmd.SilenceErrors = true
			return displayedError{runErr}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	// Flags after the line belong to the line.
	execCmd.Flags().SetInterspersed(false)
	execCmd.Flags().StringVarP(&execLine, "command", "c", "", "line to run")
	execCmd.Flags().StringVarP(&execOutput, "output", "o", outputText, "output format: text, json or yaml")
}
