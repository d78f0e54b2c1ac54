package cmd

import (
	"log"
	"os"
	"os/signal"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/queenshell/core"
	"github.com/josephlewis42/queenshell/core/logger"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/spf13/cobra"
)

// replCmd runs the shell on the local terminal
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run the shell interactively on this terminal.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		replLogger := log.New(cmd.ErrOrStderr(), "[repl] ", 0)

		cfg, err := loadConfigOrDefault()
		if err != nil {
			return err
		}

		eventLog := logger.NopLogger()
		if cfg.Dir() != "" {
			logFd, err := cfg.OpenAppLog()
			if err != nil {
				return err
			}
			defer logFd.Close()
			eventLog = logger.NewJsonLinesLogRecorder(logFd)
		}

		rl, err := readline.NewEx(&readline.Config{
			HistoryFile: cfg.HistoryPath(),
			Stdin:       readline.NewCancelableStdin(os.Stdin),
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		sh, err := shell.NewFilesystemShell(cfg.SandboxFs(), cfg.Home, rl, rl)
		if err != nil {
			return err
		}

		interp := core.NewInterpreter(newRegistry(), sh, rl, core.InterpreterOptions{
			Prompt:   cfg.Prompt,
			Hostname: cfg.Hostname,
			User:     cfg.User,
			Colors:   core.ColorPrinter{Enabled: cfg.ShouldColor(readline.DefaultIsTerminal())},
			Logger:   eventLog.NewSession(""),
			ErrorLog: replLogger,
		})

		// Ctrl+C while a command runs asks it to stop, readline handles it
		// while a line is being edited.
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)
		go func() {
			for range interrupts {
				interp.Interrupt()
			}
		}()

		return interp.Run(rl)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
