package lifecycle

import (
	"os"
	"path"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/constants"
)

// Mount is a host file bind-mounted into the container with UID remapping.
type Mount struct {
	Host      string
	Container string
}

// Args returns the podman flags for the mount.
func (m Mount) Args() []string {
	return []string{"-v", m.Host + ":" + m.Container + ":U"}
}

// CredentialMounts lists the host credential files forwarded to the sandbox
// when they exist.
func CredentialMounts(p config.Paths) []Mount {
	return []Mount{
		{
			Host:      p.OpenCodeAuthFile(),
			Container: path.Join(constants.ContainerHome, ".local", "share", "opencode", "auth.json"),
		},
	}
}

// OptionalMounts keeps the candidates whose host file is present.
func OptionalMounts(candidates []Mount, present func(string) bool) []Mount {
	var mounts []Mount
	for _, m := range candidates {
		if present(m.Host) {
			mounts = append(mounts, m)
		}
	}
	return mounts
}

// FileExists reports whether a regular file or directory exists at p.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// RunArgs builds the `podman run` arguments for the sandbox container.
func RunArgs(c config.Container, envFile string, mounts []Mount) []string {
	args := []string{
		"run", "-d",
		"--name", c.Name,
		"--cap-drop", "ALL",
		"--security-opt", "no-new-privileges",
		"--read-only",
		"--tmpfs", "/tmp",
		"-v", constants.VolumeName + ":" + constants.ContainerHome + ":U",
		"--env-file", envFile,
		"--memory", c.Memory,
		"--init",
	}
	for _, m := range mounts {
		args = append(args, m.Args()...)
	}
	return append(args, c.Image, "sleep", "infinity")
}
