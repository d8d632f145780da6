package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/packrat-dev/packrat/internal/branding"
)

// File and key name constants for the store convention.
const (
	ConfigFile = "config.yaml"

	// KeyAPIKey holds the plaintext registry API key.
	KeyAPIKey = "api_key"
	// KeyEncrypted holds the passphrase-encrypted API key. It is internal
	// and never shown by listings.
	KeyEncrypted = "encrypted_key"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
)

// Dir returns the path to the packrat home directory.
// It checks the PACKRAT_HOME environment variable first,
// then falls back to ~/.packrat.
func Dir() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// FilePath returns the full path to the config file within the home directory.
func FilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}
