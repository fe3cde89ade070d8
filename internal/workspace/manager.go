package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeanhaley32/iteron/internal/hostexec"
	"github.com/jeanhaley32/iteron/internal/inventory"
	"github.com/jeanhaley32/iteron/internal/session"
)

var (
	// ErrWorkspaceRequired is returned by Remove when no name is given.
	ErrWorkspaceRequired = errors.New("workspace name is required")

	// ErrRemoveHome is returned by Remove for the home location.
	ErrRemoveHome = errors.New("cannot remove the home directory. Use `iteron stop` to shut down the container.")
)

// ConfirmFunc asks whether the listed sessions may be killed.
type ConfirmFunc func(sessions []session.Token) (bool, error)

// Manager opens sessions and removes workspaces in a running sandbox.
type Manager struct {
	engine    inventory.Execer
	container string
	inv       *inventory.Inventory
}

// NewManager creates a Manager for the named container.
func NewManager(engine inventory.Execer, container string) *Manager {
	return &Manager{
		engine:    engine,
		container: container,
		inv:       inventory.New(engine, container),
	}
}

// Inventory returns the session inventory of the managed container.
func (m *Manager) Inventory() *inventory.Inventory {
	return m.inv
}

// Open creates the workspace directory when needed and attaches to the
// session described by r, running it with extra args on first creation.
func (m *Manager) Open(ctx context.Context, r Resolution, args []string) error {
	if r.Location != session.Home {
		if _, err := m.engine.Exec(ctx, m.container, "mkdir", "-p", r.WorkDir); err != nil {
			return fmt.Errorf("failed to create workspace %q: %w", r.Location, err)
		}
	}
	return m.inv.Registry().Attach(ctx, r.Token, r.WorkDir, r.Binary, args)
}

// RemoveResult reports what Remove did.
type RemoveResult struct {
	Killed  []session.Token
	Aborted bool
}

// Remove kills every session in workspace name and deletes its directory.
// When sessions are running, confirm is asked first; a refusal aborts
// without error.
func (m *Manager) Remove(ctx context.Context, name string, confirm ConfirmFunc) (RemoveResult, error) {
	if name == "" {
		return RemoveResult{}, ErrWorkspaceRequired
	}
	if name == session.Home {
		return RemoveResult{}, ErrRemoveHome
	}
	if err := Validate(name); err != nil {
		return RemoveResult{}, err
	}

	var tokens []session.Token
	for _, s := range m.inv.SessionsIn(ctx, name) {
		tokens = append(tokens, s.Token)
	}

	if len(tokens) > 0 {
		ok, err := confirm(tokens)
		if err != nil {
			return RemoveResult{}, err
		}
		if !ok {
			return RemoveResult{Aborted: true}, nil
		}
		for _, t := range tokens {
			hostexec.BestEffort("kill session "+t.String(), func() error {
				return m.inv.Registry().Kill(ctx, t)
			})
		}
	}

	hostexec.BestEffort("remove workspace "+name, func() error {
		_, err := m.engine.Exec(ctx, m.container, "rm", "-rf", Dir(name))
		return err
	})
	return RemoveResult{Killed: tokens}, nil
}
