package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/queenshell/core"
	"github.com/josephlewis42/queenshell/core/logger"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shell over SSH on a local port.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Stdin.Close()
		cmd.SilenceUsage = true
		serverLog := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
		serverLog.Println("Initializing server...")

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		serverLog.Println("Starting logger...")
		logFd, err := configuration.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()

		server, err := core.NewServer(configuration, newRegistry(), logger.NewJsonLinesLogRecorder(logFd), serverLog)
		if err != nil {
			return err
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				serverLog.Fatal(err)
			}
		}()

		sigs := make(chan os.Signal, 1)

		serverLog.Println("- Starting interrupt handler")
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		sig := <-sigs
		serverLog.Printf("Got signal %q, terminating...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return err
		}
		serverLog.Print("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
