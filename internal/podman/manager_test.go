package podman

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanhaley32/iteron/internal/hostexec"
)

type call struct {
	attached bool
	args     string
}

// recorder returns a runner that answers from responses keyed by the joined
// argument list; unknown commands fail with exit code 125.
func recorder(responses map[string]string) (hostexec.Func, *[]call) {
	calls := &[]call{}
	run := hostexec.Func(func(ctx context.Context, attached bool, name string, args ...string) (string, error) {
		joined := strings.Join(args, " ")
		*calls = append(*calls, call{attached: attached, args: joined})
		if name != Binary {
			return "", fmt.Errorf("unexpected binary %s", name)
		}
		if out, ok := responses[joined]; ok {
			return out, nil
		}
		return "", &hostexec.ExitError{Name: name, Args: args, Code: 125, Stderr: "Error: no such object"}
	})
	return run, calls
}

func TestProbes(t *testing.T) {
	run, _ := recorder(map[string]string{
		"--version": "podman version 5.4.1",
		"info --format {{.Host.Security.Rootless}}":                    "true",
		"machine inspect --format {{.State}}":                          "Running",
		"image exists ghcr.io/x/y:latest":                              "",
		"volume inspect iteron-data":                                   "[]",
		"container inspect iteron-sandbox --format {{.State.Running}}": "false",
		"container inspect iteron-sandbox":                             "[]",
	})
	c := NewClient(run)
	ctx := context.Background()

	assert.True(t, c.Installed(ctx))
	assert.True(t, c.Rootless(ctx))
	assert.True(t, c.MachineRunning(ctx))
	assert.False(t, c.MachineExists(ctx))
	assert.True(t, c.ImageExists(ctx, "ghcr.io/x/y:latest"))
	assert.False(t, c.ImageExists(ctx, "other:latest"))
	assert.True(t, c.VolumeExists(ctx, "iteron-data"))
	assert.True(t, c.ContainerExists(ctx, "iteron-sandbox"))
	assert.False(t, c.ContainerRunning(ctx, "iteron-sandbox"))
}

func TestRootlessFalse(t *testing.T) {
	run, _ := recorder(map[string]string{
		"info --format {{.Host.Security.Rootless}}": "false",
	})
	assert.False(t, NewClient(run).Rootless(context.Background()))
}

func TestCommandArguments(t *testing.T) {
	run, calls := recorder(map[string]string{
		"machine init --memory 4096 --cpus 2":          "",
		"stop -t 30 iteron-sandbox":                    "",
		"rm iteron-sandbox":                            "",
		"exec iteron-sandbox mkdir -p /home/iteron/ws": "",
		"exec -it iteron-sandbox tmux attach":          "",
	})
	c := NewClient(run)
	ctx := context.Background()

	require.NoError(t, c.InitMachine(ctx))
	require.NoError(t, c.StopContainer(ctx, "iteron-sandbox", 30*time.Second))
	require.NoError(t, c.RemoveContainer(ctx, "iteron-sandbox"))
	_, err := c.Exec(ctx, "iteron-sandbox", "mkdir", "-p", "/home/iteron/ws")
	require.NoError(t, err)
	require.NoError(t, c.ExecInteractive(ctx, "iteron-sandbox", "tmux", "attach"))

	require.Len(t, *calls, 5)
	assert.False(t, (*calls)[3].attached)
	assert.True(t, (*calls)[4].attached)
}

func TestPullImageWrapsError(t *testing.T) {
	run, _ := recorder(nil)
	err := NewClient(run).PullImage(context.Background(), "bad:image")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad:image")
	assert.Equal(t, "no such object", ErrorMessage(err))
}

func TestNotInstalled(t *testing.T) {
	run := hostexec.Func(func(ctx context.Context, attached bool, name string, args ...string) (string, error) {
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	})
	c := NewClient(run)

	assert.False(t, c.Installed(context.Background()))
	_, err := c.Exec(context.Background(), "iteron-sandbox", "true")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInstalled))
	assert.Contains(t, ErrorMessage(err), "iteron setup")
}

func TestErrorMessage(t *testing.T) {
	multi := &hostexec.ExitError{
		Name:   Binary,
		Code:   125,
		Stderr: "time=\"...\" level=warning msg=\"cgroupv2\"\nError: volume iteron-data already exists",
	}
	assert.Equal(t, "volume iteron-data already exists", ErrorMessage(multi))

	noStderr := &hostexec.ExitError{Name: Binary, Args: []string{"pull"}, Code: 1}
	assert.Equal(t, "podman pull exited with code 1", ErrorMessage(noStderr))

	assert.Equal(t, "plain", ErrorMessage(errors.New("plain")))
}
