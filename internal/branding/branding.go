// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into
// the binary with //go:embed, so a fork can reskin the tool without
// touching any other package.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	RegistryURL string `yaml:"registry_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "packrat",
			DisplayName: "Packrat",
			Description: "Client for hex-compatible package registries",
			HomeDir:     ".packrat",
			EnvPrefix:   "PACKRAT",
			GoModule:    "github.com/packrat-dev/packrat",
			RegistryURL: "https://hex.pm/api",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "packrat").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Packrat").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".packrat").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PACKRAT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RegistryURL returns the default registry API base URL.
func RegistryURL() string { load(); return defaults.RegistryURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PACKRAT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
