package state

import (
	"context"
	"time"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/platform"
	"github.com/jeanhaley32/iteron/internal/podman"
)

// Timeout for state detection commands
const stateCheckTimeout = 10 * time.Second

// EnvironmentState represents the current state of the iteron environment.
type EnvironmentState struct {
	Platform platform.Platform

	EngineInstalled bool
	Rootless        bool

	NeedsMachine   bool
	MachineExists  bool
	MachineRunning bool

	ConfigExists bool
	ConfigErr    error
	EnvExists    bool

	// Credentials are the secrets file keys that carry a value.
	Credentials []string
	EnvErr      error

	Image        string
	ImagePresent bool
	VolumeExists bool

	ContainerName    string
	ContainerExists  bool
	ContainerRunning bool
}

// Ready reports whether setup has completed.
func (s *EnvironmentState) Ready() bool {
	if !s.EngineInstalled || !s.Rootless || !s.ConfigExists || s.ConfigErr != nil || !s.EnvExists {
		return false
	}
	if s.NeedsMachine && !s.MachineExists {
		return false
	}
	return s.ImagePresent && s.VolumeExists
}

// Detector checks the state of the environment.
type Detector struct {
	engine   podman.Engine
	platform platform.Platform
	paths    config.Paths
}

// NewDetector creates a new state detector.
func NewDetector(engine podman.Engine, p platform.Platform, paths config.Paths) *Detector {
	return &Detector{engine: engine, platform: p, paths: paths}
}

// Detect checks all aspects of the environment state. Engine probes stop
// at the first one that cannot succeed: nothing is queried from an engine
// that is not installed, or from a machine that is not running.
func (d *Detector) Detect(ctx context.Context) *EnvironmentState {
	ctx, cancel := context.WithTimeout(ctx, stateCheckTimeout)
	defer cancel()

	state := &EnvironmentState{
		Platform:     d.platform,
		NeedsMachine: platform.NeedsMachine(d.platform),
	}

	d.checkConfig(state)

	state.EngineInstalled = d.engine.Installed(ctx)
	if !state.EngineInstalled {
		return state
	}

	if state.NeedsMachine {
		state.MachineExists = d.engine.MachineExists(ctx)
		state.MachineRunning = state.MachineExists && d.engine.MachineRunning(ctx)
		if !state.MachineRunning {
			return state
		}
	}

	state.Rootless = d.engine.Rootless(ctx)
	state.ImagePresent = d.engine.ImageExists(ctx, state.Image)
	state.VolumeExists = d.engine.VolumeExists(ctx, constants.VolumeName)
	state.ContainerExists = d.engine.ContainerExists(ctx, state.ContainerName)
	state.ContainerRunning = state.ContainerExists && d.engine.ContainerRunning(ctx, state.ContainerName)
	return state
}

// checkConfig fills in what config.toml says, falling back to defaults when
// it is missing or unreadable.
func (d *Detector) checkConfig(state *EnvironmentState) {
	defaults := config.Default("").Container
	state.Image = defaults.Image
	state.ContainerName = defaults.Name
	state.EnvExists = config.EnvTemplateExists(d.paths)
	state.Credentials, state.EnvErr = config.CredentialsSet(d.paths)

	state.ConfigExists = config.Exists(d.paths)
	if !state.ConfigExists {
		return
	}
	cfg, err := config.Load(d.paths)
	if err != nil {
		state.ConfigErr = err
		return
	}
	state.Image = cfg.Container.Image
	state.ContainerName = cfg.Container.Name
}
