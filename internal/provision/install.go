package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeanhaley32/iteron/internal/hostexec"
	"github.com/jeanhaley32/iteron/internal/platform"
)

// ErrInstallDeclined is returned when the user refuses the engine install.
var ErrInstallDeclined = errors.New(`aborted. Install Podman manually, then re-run "iteron setup"`)

// Installer installs the container engine on the host.
type Installer interface {
	Install(ctx context.Context) error
}

// HostInstaller installs podman with the host's package manager, or with the
// official .pkg on macOS. It shows the command and asks before running it.
type HostInstaller struct {
	Platform platform.Platform
	Run      hostexec.Runner

	// Confirm asks a yes/no question. Not called when AssumeYes is set.
	Confirm   func(prompt string) (bool, error)
	AssumeYes bool

	Out io.Writer

	// Has reports whether a command is on PATH. Defaults to platform.HasCommand.
	Has func(string) bool

	// TempDir receives the downloaded .pkg. Defaults to os.TempDir().
	TempDir string
}

func (h *HostInstaller) Install(ctx context.Context) error {
	has := h.Has
	if has == nil {
		has = platform.HasCommand
	}
	method, err := platform.DetectInstallMethod(h.Platform, has)
	if err != nil {
		return err
	}

	cmd := platform.InstallCommand(method)
	if method == platform.MethodPkg {
		fmt.Fprintf(h.Out, "\nPodman is not installed. Download and install the official .pkg?\n\n  %s\n\n", platform.PkgURL)
	} else {
		fmt.Fprintf(h.Out, "\nPodman is not installed. Install it now?\n\n  %s\n\n", strings.Join(cmd, " "))
	}

	if !h.AssumeYes {
		ok, err := h.Confirm("Proceed?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrInstallDeclined
		}
	}

	if method == platform.MethodPkg {
		return h.installPkg(ctx)
	}
	fmt.Fprintf(h.Out, "Running: %s\n", strings.Join(cmd, " "))
	return h.Run.Attach(ctx, cmd[0], cmd[1:]...)
}

func (h *HostInstaller) installPkg(ctx context.Context) error {
	dir := h.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	pkg := filepath.Join(dir, "podman-installer.pkg")
	defer hostexec.BestEffort("remove "+pkg, func() error { return os.Remove(pkg) })

	fmt.Fprintf(h.Out, "  Downloading %s...\n", platform.PkgURL)
	if err := h.Run.Attach(ctx, "curl", "-fL", "--progress-bar", "-o", pkg, platform.PkgURL); err != nil {
		return fmt.Errorf("failed to download podman installer: %w", err)
	}

	fmt.Fprintln(h.Out, "  Running installer (may prompt for password)...")
	if err := h.Run.Attach(ctx, "sudo", "installer", "-pkg", pkg, "-target", "/"); err != nil {
		return fmt.Errorf("podman installer failed: %w", err)
	}
	return nil
}
