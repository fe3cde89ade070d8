// Package lifecycle starts and stops the sandbox container.
//
// The container has two states visible to callers: running, or absent.
// Stop always removes the container; the data volume is never touched.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/platform"
	"github.com/jeanhaley32/iteron/internal/podman"
)

var (
	// ErrNotRunning is matched by NotRunningError.
	ErrNotRunning = errors.New("container is not running")

	// ErrStartFailed is returned when the container does not report running
	// after it was created.
	ErrStartFailed = errors.New("container failed to start")
)

// NotRunningError is returned by commands that need the sandbox running.
type NotRunningError struct {
	Name string
}

func (e *NotRunningError) Error() string {
	return fmt.Sprintf("Container %s is not running. Run `iteron start` first.", e.Name)
}

func (e *NotRunningError) Unwrap() error {
	return ErrNotRunning
}

// Controller starts and stops one container.
type Controller struct {
	Engine    podman.Engine
	Platform  platform.Platform
	Container config.Container
	Paths     config.Paths

	// Present reports whether an optional mount source exists.
	// Defaults to FileExists.
	Present func(string) bool
}

// StartResult reports what Start did.
type StartResult struct {
	AlreadyRunning bool
	MachineStarted bool
	Mounts         []Mount
}

// StopResult reports what Stop did.
type StopResult struct {
	NotRunning bool
}

// RequireRunning returns a *NotRunningError unless the container is running.
func (c *Controller) RequireRunning(ctx context.Context) error {
	if !c.Engine.ContainerRunning(ctx, c.Container.Name) {
		return &NotRunningError{Name: c.Container.Name}
	}
	return nil
}

// Start brings the container up. Starting a running container does nothing.
func (c *Controller) Start(ctx context.Context) (StartResult, error) {
	var res StartResult
	name := c.Container.Name

	if platform.NeedsMachine(c.Platform) && !c.Engine.MachineRunning(ctx) {
		log.Debug().Msg("starting podman machine")
		if err := c.Engine.StartMachine(ctx); err != nil {
			return res, err
		}
		res.MachineStarted = true
	}

	if c.Engine.ContainerRunning(ctx, name) {
		res.AlreadyRunning = true
		return res, nil
	}

	if c.Engine.ContainerExists(ctx, name) {
		log.Debug().Str("container", name).Msg("removing stopped container")
		if err := c.Engine.RemoveContainer(ctx, name); err != nil {
			return res, err
		}
	}

	present := c.Present
	if present == nil {
		present = FileExists
	}
	res.Mounts = OptionalMounts(CredentialMounts(c.Paths), present)

	if err := c.Engine.RunContainer(ctx, RunArgs(c.Container, c.Paths.EnvFile, res.Mounts)); err != nil {
		return res, err
	}

	if !c.Engine.ContainerRunning(ctx, name) {
		return res, fmt.Errorf("%w: %s", ErrStartFailed, name)
	}
	return res, nil
}

// Stop stops and removes the container. Stopping an absent or stopped
// container does nothing.
func (c *Controller) Stop(ctx context.Context) (StopResult, error) {
	name := c.Container.Name
	if !c.Engine.ContainerRunning(ctx, name) {
		return StopResult{NotRunning: true}, nil
	}

	if err := c.Engine.StopContainer(ctx, name, constants.StopGracePeriod); err != nil {
		return StopResult{}, err
	}
	if c.Engine.ContainerExists(ctx, name) {
		if err := c.Engine.RemoveContainer(ctx, name); err != nil {
			return StopResult{}, err
		}
	}
	return StopResult{}, nil
}
