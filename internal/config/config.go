// Package config reads and writes the persisted iteron configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/embedded"
	"github.com/jeanhaley32/iteron/internal/session"
)

// ErrMissing is returned when config.toml does not exist yet.
var ErrMissing = errors.New(`config not found. Run "iteron setup" first`)

// Container describes the sandbox container.
type Container struct {
	Name   string `toml:"name"`
	Image  string `toml:"image"`
	Memory string `toml:"memory"`
}

// Agent is a named agent CLI installed in the sandbox image.
type Agent struct {
	Binary string `toml:"binary"`
}

// Config is the content of config.toml.
type Config struct {
	Container Container        `toml:"container"`
	Agents    map[string]Agent `toml:"agents"`
}

// InvalidError reports a config.toml entry that cannot be used.
type InvalidError struct {
	Key string
	Err error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid config [%s]: %v", e.Key, e.Err)
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// Default returns the configuration written by setup. An empty image selects
// constants.DefaultImage.
func Default(image string) Config {
	if image == "" {
		image = constants.DefaultImage
	}
	return Config{
		Container: Container{
			Name:   constants.DefaultContainerName,
			Image:  image,
			Memory: constants.DefaultMemory,
		},
		Agents: map[string]Agent{
			"claude-code": {Binary: "claude"},
			"codex-cli":   {Binary: "codex"},
			"gemini-cli":  {Binary: "gemini"},
			"opencode":    {Binary: "opencode"},
		},
	}
}

// Validate checks that every agent name can be embedded in a session name
// and that the container table is usable.
func (c *Config) Validate() error {
	if c.Container.Name == "" {
		return &InvalidError{Key: "container", Err: errors.New("name is required")}
	}
	if c.Container.Image == "" {
		return &InvalidError{Key: "container", Err: errors.New("image is required")}
	}

	names := make([]string, 0, len(c.Agents))
	for name := range c.Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := session.ValidateToken(name, "Agent name"); err != nil {
			return &InvalidError{Key: "agents." + name, Err: err}
		}
	}
	return nil
}

// Load reads and validates config.toml.
func Load(p Paths) (*Config, error) {
	data, err := os.ReadFile(p.ConfigFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.ConfigFile, err)
	}
	if cfg.Container.Memory == "" {
		cfg.Container.Memory = constants.DefaultMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func save(p Paths, cfg Config) error {
	if err := os.MkdirAll(p.Dir, constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(p.ConfigFile, data, constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Exists reports whether config.toml is present.
func Exists(p Paths) bool {
	_, err := os.Stat(p.ConfigFile)
	return err == nil
}

// WriteDefault writes the default configuration with image unless
// config.toml already exists. It reports whether the file was written.
func WriteDefault(p Paths, image string) (bool, error) {
	if Exists(p) {
		return false, nil
	}
	if err := save(p, Default(image)); err != nil {
		return false, err
	}
	return true, nil
}

// NeedsImageUpdate reports whether the stored image should become image.
// A differing stored image is only replaced when force is set or when it is
// the legacy default; a user-chosen image is never overwritten silently.
func NeedsImageUpdate(stored, image string, force bool) bool {
	if stored == image {
		return false
	}
	return force || stored == constants.LegacyDefaultImage
}

// ReconcileImage rewrites the container image in an existing config.toml when
// NeedsImageUpdate says so. It reports whether the file changed.
func ReconcileImage(p Paths, image string, force bool) (bool, error) {
	if !Exists(p) {
		return false, nil
	}
	cfg, err := Load(p)
	if err != nil {
		return false, err
	}
	if !NeedsImageUpdate(cfg.Container.Image, image, force) {
		return false, nil
	}
	cfg.Container.Image = image
	if err := save(p, *cfg); err != nil {
		return false, err
	}
	return true, nil
}

// EnvTemplateExists reports whether the secrets file is present.
func EnvTemplateExists(p Paths) bool {
	_, err := os.Stat(p.EnvFile)
	return err == nil
}

// WriteEnvTemplate writes the secrets template unless the file already
// exists. An existing file is never overwritten.
func WriteEnvTemplate(p Paths) (bool, error) {
	if EnvTemplateExists(p) {
		return false, nil
	}
	if err := os.MkdirAll(p.Dir, constants.DirPermissions); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(p.EnvFile, embedded.EnvTemplate, constants.SecretFilePermissions); err != nil {
		return false, fmt.Errorf("failed to write env template: %w", err)
	}
	return true, nil
}

// CredentialsSet lists the template keys that have a value in the secrets
// file, in template order. A missing file has none set.
func CredentialsSet(p Paths) ([]string, error) {
	if !EnvTemplateExists(p) {
		return nil, nil
	}
	values, err := godotenv.Read(p.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.EnvFile, err)
	}
	var set []string
	for _, key := range embedded.EnvTemplateKeys() {
		if values[key] != "" {
			set = append(set, key)
		}
	}
	return set, nil
}
