package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	out, err := LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
	if err != nil {
		return nil, err
	}
	out.configurationDir = path
	return out, nil
}

// LoadFs loads and validates the configuration from the root of fs.
func LoadFs(fs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(fs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configFs = fs
	return &out, nil
}

// Initialize creates a configuration directory with the default
// configuration and a new SSH host key. Existing files are kept.
func Initialize(dir string, logger *log.Logger) error {
	logger.Printf("Initializing configuration in %q\n", dir)
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return InitializeFs(afero.NewBasePathFs(fs, dir), logger)
}

// InitializeFs is Initialize for the root of fs.
func InitializeFs(fs afero.Fs, logger *log.Logger) error {
	files := []struct {
		name     string
		contents func() ([]byte, error)
	}{
		{ConfigurationName, func() ([]byte, error) { return defaultConfigData, nil }},
		{PrivateKeyName, generateHostKey},
	}

	for _, file := range files {
		exists, err := afero.Exists(fs, file.name)
		if err != nil {
			return err
		}
		if exists {
			logger.Printf("- %s exists, skipping\n", file.name)
			continue
		}

		logger.Printf("- Writing %s\n", file.name)
		contents, err := file.contents()
		if err != nil {
			return fmt.Errorf("couldn't create %s: %w", file.name, err)
		}
		if err := afero.WriteFile(fs, file.name, contents, 0600); err != nil {
			return err
		}
	}

	return nil
}

func generateHostKey() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := ssh.MarshalPrivateKey(privateKey, "")
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}
