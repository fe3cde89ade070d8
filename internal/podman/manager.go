package podman

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/hostexec"
)

// Binary is the engine executable.
const Binary = "podman"

// ErrNotInstalled is returned when the podman binary cannot be found.
var ErrNotInstalled = errors.New("podman is not installed")

// Client implements Engine using the podman CLI.
type Client struct {
	run hostexec.Runner
}

// NewClient creates a podman client that runs commands with run.
func NewClient(run hostexec.Runner) *Client {
	return &Client{run: run}
}

var _ Engine = (*Client)(nil)

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	out, err := c.run.Output(ctx, Binary, args...)
	if errors.Is(err, exec.ErrNotFound) {
		return out, fmt.Errorf("%w: %w", ErrNotInstalled, err)
	}
	return out, err
}

func (c *Client) succeeds(ctx context.Context, args ...string) bool {
	_, err := c.output(ctx, args...)
	return err == nil
}

func (c *Client) Installed(ctx context.Context) bool {
	return c.succeeds(ctx, "--version")
}

func (c *Client) Rootless(ctx context.Context) bool {
	out, err := c.output(ctx, "info", "--format", "{{.Host.Security.Rootless}}")
	return err == nil && out == "true"
}

func (c *Client) MachineExists(ctx context.Context) bool {
	return c.succeeds(ctx, "machine", "inspect")
}

func (c *Client) MachineRunning(ctx context.Context) bool {
	out, err := c.output(ctx, "machine", "inspect", "--format", "{{.State}}")
	return err == nil && strings.EqualFold(out, "running")
}

func (c *Client) InitMachine(ctx context.Context) error {
	_, err := c.output(ctx, "machine", "init",
		"--memory", strconv.Itoa(constants.MachineMemoryMB),
		"--cpus", strconv.Itoa(constants.MachineCPUs),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize podman machine: %w", err)
	}
	return nil
}

func (c *Client) StartMachine(ctx context.Context) error {
	if _, err := c.output(ctx, "machine", "start"); err != nil {
		return fmt.Errorf("failed to start podman machine: %w", err)
	}
	return nil
}

func (c *Client) ImageExists(ctx context.Context, image string) bool {
	return c.succeeds(ctx, "image", "exists", image)
}

func (c *Client) PullImage(ctx context.Context, image string) error {
	if _, err := c.output(ctx, "pull", image); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	return nil
}

func (c *Client) VolumeExists(ctx context.Context, name string) bool {
	return c.succeeds(ctx, "volume", "inspect", name)
}

func (c *Client) CreateVolume(ctx context.Context, name string) error {
	if _, err := c.output(ctx, "volume", "create", name); err != nil {
		return fmt.Errorf("failed to create volume %s: %w", name, err)
	}
	return nil
}

func (c *Client) ContainerExists(ctx context.Context, name string) bool {
	return c.succeeds(ctx, "container", "inspect", name)
}

func (c *Client) ContainerRunning(ctx context.Context, name string) bool {
	out, err := c.output(ctx, "container", "inspect", name, "--format", "{{.State.Running}}")
	return err == nil && out == "true"
}

func (c *Client) RunContainer(ctx context.Context, args []string) error {
	if _, err := c.output(ctx, args...); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

func (c *Client) StopContainer(ctx context.Context, name string, grace time.Duration) error {
	seconds := strconv.Itoa(int(grace / time.Second))
	if _, err := c.output(ctx, "stop", "-t", seconds, name); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", name, err)
	}
	return nil
}

func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	if _, err := c.output(ctx, "rm", name); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}
	return nil
}

func (c *Client) Exec(ctx context.Context, container string, command ...string) (string, error) {
	args := append([]string{"exec", container}, command...)
	return c.output(ctx, args...)
}

func (c *Client) ExecInteractive(ctx context.Context, container string, command ...string) error {
	args := append([]string{"exec", "-it", container}, command...)
	err := c.run.Attach(ctx, Binary, args...)
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotInstalled, err)
	}
	return err
}

// ErrorMessage turns an engine error into a single user-facing line.
// For failed podman commands this is the last line podman wrote to stderr.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrNotInstalled) {
		return `Podman is not installed. Run "iteron setup" to set up your environment.`
	}
	var exitErr *hostexec.ExitError
	if errors.As(err, &exitErr) && exitErr.Stderr != "" {
		lines := strings.Split(exitErr.Stderr, "\n")
		last := strings.TrimSpace(lines[len(lines)-1])
		if len(last) >= 6 && strings.EqualFold(last[:6], "error:") {
			last = strings.TrimSpace(last[6:])
		}
		return last
	}
	return err.Error()
}
