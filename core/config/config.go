// Package config loads and validates the shell's configuration directory.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	PrivateKeyName    = "private_key"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	Prompt   string `json:"prompt" validate:"required"`
	Hostname string `json:"hostname" validate:"required,hostname_rfc1123"`
	User     string `json:"user" validate:"required"`
	Home     string `json:"home" validate:"required,startswith=/"`

	SandboxRoot string `json:"sandbox_root"`
	HistoryFile string `json:"history_file"`
	Color       string `json:"color" validate:"required,oneof=auto always never"`

	SSHPort                int    `json:"ssh_port" validate:"gte=0,lte=65535"`
	SSHBanner              string `json:"ssh_banner"`
	MaxInputBytesPerSecond int64  `json:"max_input_bytes_per_second" validate:"gte=0"`

	AppLog string `json:"app_log" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// Dir is the configuration directory on the host, it's empty for
// configurations that weren't loaded from disk.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// PrivateKeyPem returns the bytes of the SSH host key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the event log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(c.AppLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadAppLog opens the event log for reading.
func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(c.AppLog, os.O_RDONLY, 0600)
}

// HistoryPath returns the host path of the readline history, or an empty
// string if history is disabled or there's no directory to keep it in.
func (c *Configuration) HistoryPath() string {
	switch {
	case c.HistoryFile == "":
		return ""
	case filepath.IsAbs(c.HistoryFile):
		return c.HistoryFile
	case c.configurationDir == "":
		return ""
	default:
		return filepath.Join(c.configurationDir, c.HistoryFile)
	}
}

// SandboxFs returns the filesystem a new session works on.
func (c *Configuration) SandboxFs() afero.Fs {
	if c.SandboxRoot == "" {
		return afero.NewMemMapFs()
	}
	return afero.NewBasePathFs(afero.NewOsFs(), c.SandboxRoot)
}

// ShouldColor reports whether output should be colorized, isTerminal is used
// in auto mode.
func (c *Configuration) ShouldColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// Default returns the built-in configuration, it isn't backed by a
// directory.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
