package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/josephlewis42/queenshell/commands"
	"github.com/josephlewis42/queenshell/core/config"
	"github.com/josephlewis42/queenshell/core/registry"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// loadConfigOrDefault falls back to the built-in configuration if the config
// directory wasn't initialized.
func loadConfigOrDefault() (*config.Configuration, error) {
	if _, err := os.Stat(filepath.Join(cfgPath, config.ConfigurationName)); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

// newRegistry returns a registry holding every built-in.
func newRegistry() *registry.Registry {
	reg := registry.New()
	commands.RegisterAll(reg)
	return reg
}

// displayedError is returned by commands that already showed the error to
// the user.
type displayedError struct {
	error
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "queenshell",
	Short: "A small structured shell",
	Long: `A shell with span-tracked parsing, typed command signatures and
structured output that can run locally or be served over SSH.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	var displayed displayedError
	if errors.As(err, &displayed) {
		os.Exit(1)
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
