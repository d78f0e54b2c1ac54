package cmd

import (
	"log"

	"github.com/josephlewis42/queenshell/core/config"
	"github.com/spf13/cobra"
)

// initCmd initializes the configuration directory
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration in the config directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		return config.Initialize(cfgPath, logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
