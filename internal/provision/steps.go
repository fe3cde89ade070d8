package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/platform"
	"github.com/jeanhaley32/iteron/internal/podman"
)

var (
	ErrInstallIncomplete = errors.New("Podman installation did not complete successfully.")
	ErrNotRootless       = errors.New("Podman is not running in rootless mode.")
)

// Env is everything the setup steps act on.
type Env struct {
	Platform platform.Platform
	Engine   podman.Engine
	Paths    config.Paths

	// Image is the sandbox image to pull and record. Empty selects
	// constants.DefaultImage.
	Image string

	// ForceImage rewrites the image in an existing config.toml even when
	// the user changed it. Set when an image was given explicitly.
	ForceImage bool

	Installer Installer
}

func (e Env) image() string {
	if e.Image == "" {
		return constants.DefaultImage
	}
	return e.Image
}

// Plan returns the setup steps for env, in the order they must run.
func Plan(env Env) []Step {
	steps := []Step{stepEngine(env)}
	if platform.NeedsMachine(env.Platform) {
		steps = append(steps, stepMachineInit(env), stepMachineStart(env))
	}
	return append(steps,
		stepRootless(env),
		stepImage(env),
		stepVolume(env),
		stepConfig(env),
		stepEnvTemplate(env),
	)
}

func stepEngine(env Env) Step {
	return Step{
		Name: "Podman installed",
		Check: func(ctx context.Context) (bool, error) {
			return env.Engine.Installed(ctx), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			if env.Installer == nil {
				return "", podman.ErrNotInstalled
			}
			if err := env.Installer.Install(ctx); err != nil {
				return "", err
			}
			return StatusDone, nil
		},
		Unmet: ErrInstallIncomplete,
	}
}

func stepMachineInit(env Env) Step {
	return Step{
		Name:  "Podman machine init",
		Doing: fmt.Sprintf("Initializing Podman machine (%d GB, %d vCPU)...", constants.MachineMemoryMB/1024, constants.MachineCPUs),
		Check: func(ctx context.Context) (bool, error) {
			return env.Engine.MachineExists(ctx), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			return StatusCreated, env.Engine.InitMachine(ctx)
		},
	}
}

func stepMachineStart(env Env) Step {
	return Step{
		Name:  "Podman machine start",
		Doing: "Starting Podman machine...",
		Check: func(ctx context.Context) (bool, error) {
			return env.Engine.MachineRunning(ctx), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			return StatusDone, env.Engine.StartMachine(ctx)
		},
	}
}

func stepRootless(env Env) Step {
	return Step{
		Name: "Rootless mode",
		Check: func(ctx context.Context) (bool, error) {
			return env.Engine.Rootless(ctx), nil
		},
		Unmet: ErrNotRootless,
	}
}

func stepImage(env Env) Step {
	image := env.image()
	return Step{
		Name:  "Image " + image,
		Doing: fmt.Sprintf("Pulling image %s...", image),
		Check: func(ctx context.Context) (bool, error) {
			return env.Engine.ImageExists(ctx, image), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			return StatusDone, env.Engine.PullImage(ctx, image)
		},
	}
}

func stepVolume(env Env) Step {
	return Step{
		Name: fmt.Sprintf("Volume %q", constants.VolumeName),
		Check: func(ctx context.Context) (bool, error) {
			return env.Engine.VolumeExists(ctx, constants.VolumeName), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			return StatusCreated, env.Engine.CreateVolume(ctx, constants.VolumeName)
		},
	}
}

func stepConfig(env Env) Step {
	image := env.image()
	return Step{
		Name: "Config " + env.Paths.ConfigFile,
		Check: func(ctx context.Context) (bool, error) {
			if !config.Exists(env.Paths) {
				return false, nil
			}
			cfg, err := config.Load(env.Paths)
			if err != nil {
				return false, err
			}
			return !config.NeedsImageUpdate(cfg.Container.Image, image, env.ForceImage), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			created, err := config.WriteDefault(env.Paths, image)
			if err != nil {
				return "", err
			}
			if created {
				return StatusCreated, nil
			}
			if _, err := config.ReconcileImage(env.Paths, image, env.ForceImage); err != nil {
				return "", err
			}
			return StatusUpdated, nil
		},
	}
}

func stepEnvTemplate(env Env) Step {
	return Step{
		Name: "Env template " + env.Paths.EnvFile,
		Check: func(ctx context.Context) (bool, error) {
			return config.EnvTemplateExists(env.Paths), nil
		},
		Apply: func(ctx context.Context) (Status, error) {
			if _, err := config.WriteEnvTemplate(env.Paths); err != nil {
				return "", err
			}
			return StatusCreated, nil
		},
	}
}
