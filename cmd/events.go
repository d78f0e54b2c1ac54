package cmd

import (
	"github.com/josephlewis42/queenshell/core/logger"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the event log.",
}

// readEvents feeds every entry of the configured event log to handler.
func readEvents(handler func(le *logger.LogEntry)) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := config.ReadAppLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.Report
		if err := readEvents(report.Update); err != nil {
			return err
		}

		return writeStructured(cmd.OutOrStdout(), outputYAML, report)
	},
}

var bugsCommand = &cobra.Command{
	Use:   "bugs",
	Short: "Show errors, unknown commands and parse failures.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewBugReport()
		if err := readEvents(report.Update); err != nil {
			return err
		}

		return writeStructured(cmd.OutOrStdout(), outputYAML, report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show what happened in each session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := &logger.InteractionReport{}
		if err := readEvents(report.Update); err != nil {
			return err
		}

		return writeStructured(cmd.OutOrStdout(), outputYAML, report)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(bugsCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
