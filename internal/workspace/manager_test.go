package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanhaley32/iteron/internal/inventory"
	"github.com/jeanhaley32/iteron/internal/podman/podmantest"
	"github.com/jeanhaley32/iteron/internal/session"
)

const container = "iteron-sandbox"

var listKey = "tmux list-sessions -F " + inventory.ListFormat

func sessionLines(tokens ...string) string {
	epoch := time.Now().Unix()
	lines := make([]string, len(tokens))
	for i, tok := range tokens {
		lines[i] = fmt.Sprintf("%s 0 %d", tok, epoch)
	}
	return strings.Join(lines, "\n")
}

func TestOpenHomeSkipsMkdir(t *testing.T) {
	fake := podmantest.New()
	m := NewManager(fake, container)

	r, err := Resolve(nil, agents)
	require.NoError(t, err)
	require.NoError(t, m.Open(context.Background(), r, nil))

	assert.Empty(t, fake.Execs)
	require.Len(t, fake.Interactive, 1)
	assert.Equal(t, []string{"tmux", "new-session", "-A", "-s", "bash@~", "-c", "/home/iteron", "bash"}, fake.Interactive[0])
}

func TestOpenWorkspaceCreatesDirectory(t *testing.T) {
	fake := podmantest.New()
	m := NewManager(fake, container)

	r, err := Resolve([]string{"claude-code", "myproject"}, agents)
	require.NoError(t, err)
	require.NoError(t, m.Open(context.Background(), r, []string{"--resume"}))

	require.Len(t, fake.Execs, 1)
	assert.Equal(t, []string{"mkdir", "-p", "/home/iteron/myproject"}, fake.Execs[0])
	require.Len(t, fake.Interactive, 1)
	assert.Equal(t,
		[]string{"tmux", "new-session", "-A", "-s", "claude-code@myproject", "-c", "/home/iteron/myproject", "claude", "--resume"},
		fake.Interactive[0])
}

func TestOpenMkdirFailure(t *testing.T) {
	fake := podmantest.New()
	fake.ExecErr["mkdir -p /home/iteron/ws"] = errors.New("read-only file system")
	m := NewManager(fake, container)

	r, err := Resolve([]string{"ws"}, agents)
	require.NoError(t, err)
	err = m.Open(context.Background(), r, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
	assert.Empty(t, fake.Interactive)
}

func TestRemoveRejectsHomeAndEmpty(t *testing.T) {
	m := NewManager(podmantest.New(), container)
	never := func([]session.Token) (bool, error) {
		t.Fatal("confirm should not be called")
		return false, nil
	}

	_, err := m.Remove(context.Background(), "", never)
	assert.ErrorIs(t, err, ErrWorkspaceRequired)

	_, err = m.Remove(context.Background(), "~", never)
	assert.ErrorIs(t, err, ErrRemoveHome)
	assert.Contains(t, err.Error(), "iteron stop")

	_, err = m.Remove(context.Background(), "../x", never)
	assert.Error(t, err)
}

func TestRemoveWithoutSessions(t *testing.T) {
	fake := podmantest.New()
	m := NewManager(fake, container)

	res, err := m.Remove(context.Background(), "proj", func([]session.Token) (bool, error) {
		t.Fatal("confirm should not be called")
		return false, nil
	})
	require.NoError(t, err)
	assert.Empty(t, res.Killed)
	assert.False(t, res.Aborted)
	assert.Contains(t, fake.Execs, []string{"rm", "-rf", "/home/iteron/proj"})
}

func TestRemoveKillsMatchingSessions(t *testing.T) {
	fake := podmantest.New()
	fake.ExecOutput[listKey] = sessionLines("bash@proj", "claude-code@proj", "bash@other", "bash@~")
	m := NewManager(fake, container)

	var asked []session.Token
	res, err := m.Remove(context.Background(), "proj", func(tokens []session.Token) (bool, error) {
		asked = tokens
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []session.Token{"bash@proj", "claude-code@proj"}, asked)
	assert.Equal(t, asked, res.Killed)

	assert.Contains(t, fake.Execs, []string{"tmux", "kill-session", "-t", "=bash@proj"})
	assert.Contains(t, fake.Execs, []string{"tmux", "kill-session", "-t", "=claude-code@proj"})
	assert.NotContains(t, fake.Execs, []string{"tmux", "kill-session", "-t", "=bash@other"})
	assert.Equal(t, []string{"rm", "-rf", "/home/iteron/proj"}, fake.Execs[len(fake.Execs)-1])
}

func TestRemoveDeclined(t *testing.T) {
	fake := podmantest.New()
	fake.ExecOutput[listKey] = sessionLines("bash@proj")
	m := NewManager(fake, container)

	res, err := m.Remove(context.Background(), "proj", func([]session.Token) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.True(t, res.Aborted)
	for _, cmd := range fake.Execs {
		assert.NotEqual(t, "rm", cmd[0])
		assert.NotEqual(t, []string{"tmux", "kill-session", "-t", "=bash@proj"}, cmd)
	}
}

func TestRemoveIgnoresCleanupFailures(t *testing.T) {
	fake := podmantest.New()
	fake.ExecOutput[listKey] = sessionLines("bash@proj")
	fake.ExecErr["tmux kill-session -t =bash@proj"] = errors.New("session not found")
	fake.ExecErr["rm -rf /home/iteron/proj"] = errors.New("no such file")
	m := NewManager(fake, container)

	_, err := m.Remove(context.Background(), "proj", func([]session.Token) (bool, error) {
		return true, nil
	})
	assert.NoError(t, err)
}

func TestRemoveConfirmError(t *testing.T) {
	fake := podmantest.New()
	fake.ExecOutput[listKey] = sessionLines("bash@proj")
	m := NewManager(fake, container)

	boom := errors.New("no terminal")
	_, err := m.Remove(context.Background(), "proj", func([]session.Token) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRemoveKillsSessionsWithRewrittenName(t *testing.T) {
	fake := podmantest.New()
	fake.ExecOutput[listKey] = sessionLines("bash@my_site", "bash@mysite")
	m := NewManager(fake, container)

	res, err := m.Remove(context.Background(), "my.site", func([]session.Token) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []session.Token{"bash@my_site"}, res.Killed)
	assert.Contains(t, fake.Execs, []string{"tmux", "kill-session", "-t", "=bash@my_site"})
	assert.Contains(t, fake.Execs, []string{"rm", "-rf", "/home/iteron/my.site"})
}
