package constants

import (
	"os"
	"time"
)

// Container-related constants
const (
	// DefaultImage is the sandbox image pulled by setup.
	DefaultImage = "ghcr.io/sublang-dev/iteron-sandbox:latest"

	// LegacyDefaultImage is the image older releases wrote into config.toml.
	// Setup replaces it with the current default without being asked.
	LegacyDefaultImage = "docker.io/library/alpine:latest"

	// DefaultContainerName is the name of the sandbox container.
	DefaultContainerName = "iteron-sandbox"

	// DefaultMemory is the container memory limit.
	DefaultMemory = "16g"

	// VolumeName is the named data volume mounted at ContainerHome.
	VolumeName = "iteron-data"

	// ContainerHome is the home directory inside the sandbox.
	ContainerHome = "/home/iteron"

	// StopGracePeriod is how long stop waits before the engine kills the container.
	StopGracePeriod = 30 * time.Second
)

// Podman machine profile used on macOS.
const (
	MachineMemoryMB = 4096
	MachineCPUs     = 2
)

// Session-related constants
const (
	// DefaultShell is the binary started when no agent or command is named.
	DefaultShell = "bash"
)

// Host configuration layout
const (
	// ConfigDirEnvVar overrides the configuration directory.
	ConfigDirEnvVar = "ITERON_CONFIG_DIR"

	// ConfigDirName is the configuration directory under the user's home.
	ConfigDirName = ".iteron"

	ConfigFileName = "config.toml"
	EnvFileName    = ".env"

	// DebugEnvVar enables debug logging when set to any non-empty value.
	DebugEnvVar = "ITERON_DEBUG"
)

// File permissions
const (
	// DirPermissions is the default permission mode for directories.
	DirPermissions os.FileMode = 0755

	// FilePermissions is the default permission mode for config files.
	FilePermissions os.FileMode = 0644

	// SecretFilePermissions is the permission mode for the secrets template.
	SecretFilePermissions os.FileMode = 0600
)
