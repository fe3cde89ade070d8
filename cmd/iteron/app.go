package main

import (
	"context"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/hostexec"
	"github.com/jeanhaley32/iteron/internal/lifecycle"
	"github.com/jeanhaley32/iteron/internal/platform"
	"github.com/jeanhaley32/iteron/internal/podman"
	"github.com/jeanhaley32/iteron/internal/workspace"
)

// app is the per-invocation environment shared by all commands.
type app struct {
	platform platform.Platform
	paths    config.Paths
	run      hostexec.Runner
	engine   podman.Engine
}

func newApp() (*app, error) {
	p, err := platform.Detect()
	if err != nil {
		return nil, err
	}
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, err
	}
	run := hostexec.NewLocal()
	return &app{
		platform: p,
		paths:    paths,
		run:      run,
		engine:   podman.NewClient(run),
	}, nil
}

func (a *app) controller(cfg *config.Config) *lifecycle.Controller {
	return &lifecycle.Controller{
		Engine:    a.engine,
		Platform:  a.platform,
		Container: cfg.Container,
		Paths:     a.paths,
	}
}

// running loads the config and fails unless the sandbox container is up.
func (a *app) running(ctx context.Context) (*config.Config, *workspace.Manager, error) {
	cfg, err := config.Load(a.paths)
	if err != nil {
		return nil, nil, err
	}
	if err := a.controller(cfg).RequireRunning(ctx); err != nil {
		return nil, nil, err
	}
	return cfg, workspace.NewManager(a.engine, cfg.Container.Name), nil
}
