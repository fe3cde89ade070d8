package podman

import (
	"context"
	"time"
)

// Engine is the set of container engine operations used by setup, the
// container lifecycle and session management.
//
// Boolean probes return false on any failure; the caller decides whether
// the negative answer is fatal.
type Engine interface {
	// Installed reports whether the engine binary can be invoked.
	Installed(ctx context.Context) bool

	// Rootless reports whether the engine runs in rootless mode.
	Rootless(ctx context.Context) bool

	MachineExists(ctx context.Context) bool
	MachineRunning(ctx context.Context) bool
	InitMachine(ctx context.Context) error
	StartMachine(ctx context.Context) error

	ImageExists(ctx context.Context, image string) bool
	PullImage(ctx context.Context, image string) error

	VolumeExists(ctx context.Context, name string) bool
	CreateVolume(ctx context.Context, name string) error

	ContainerExists(ctx context.Context, name string) bool
	ContainerRunning(ctx context.Context, name string) bool

	// RunContainer runs `podman <args...>`; args start with "run".
	RunContainer(ctx context.Context, args []string) error

	// StopContainer stops a container, killing it after grace.
	StopContainer(ctx context.Context, name string, grace time.Duration) error

	// RemoveContainer removes a stopped container. Volumes are kept.
	RemoveContainer(ctx context.Context, name string) error

	// Exec runs a command in a running container and returns its stdout.
	Exec(ctx context.Context, container string, command ...string) (string, error)

	// ExecInteractive runs a command in a running container attached to
	// the caller's terminal.
	ExecInteractive(ctx context.Context, container string, command ...string) error
}
