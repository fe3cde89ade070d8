package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeanhaley32/iteron/internal/constants"
)

// Paths locates the host files iteron reads and writes. It is resolved once
// from the environment and passed to the components that need it.
type Paths struct {
	// Dir holds config.toml and .env.
	Dir        string
	ConfigFile string
	EnvFile    string

	// DataHome is the XDG data directory, where agent credentials live.
	DataHome string
}

// NewPaths resolves Paths from environment lookups and the user's home.
func NewPaths(getenv func(string) string, home string) Paths {
	dir := getenv(constants.ConfigDirEnvVar)
	if dir == "" {
		dir = filepath.Join(home, constants.ConfigDirName)
	}
	dataHome := getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	return Paths{
		Dir:        dir,
		ConfigFile: filepath.Join(dir, constants.ConfigFileName),
		EnvFile:    filepath.Join(dir, constants.EnvFileName),
		DataHome:   dataHome,
	}
}

// DefaultPaths resolves Paths from the process environment.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewPaths(os.Getenv, home), nil
}

// OpenCodeAuthFile is the OpenCode credential file on the host.
func (p Paths) OpenCodeAuthFile() string {
	return filepath.Join(p.DataHome, "opencode", "auth.json")
}
