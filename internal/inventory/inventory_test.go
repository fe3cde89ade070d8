package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanhaley32/iteron/internal/podman/podmantest"
	"github.com/jeanhaley32/iteron/internal/session"
)

const fixedNow = 1700000000

var now = time.Unix(fixedNow, 0)

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse("", now))
	assert.Empty(t, Parse("  \n", now))
}

func TestParse(t *testing.T) {
	output := fmt.Sprintf("a@~ 1 %d\nb@p 0 %d", fixedNow-10, fixedNow-5)
	sessions := Parse(output, now)
	require.Len(t, sessions, 2)

	assert.Equal(t, Session{Token: "a@~", Command: "a", Location: "~", Attached: true, UptimeSeconds: 10}, sessions[0])
	assert.Equal(t, Session{Token: "b@p", Command: "b", Location: "p", Attached: false, UptimeSeconds: 5}, sessions[1])
}

func TestParseDecodesNames(t *testing.T) {
	output := strings.Join([]string{
		fmt.Sprintf("orphan 0 %d", fixedNow-60),
		fmt.Sprintf("foo@bar@ws 2 %d", fixedNow-60),
		fmt.Sprintf("bash@myproject   1   %d", fixedNow-120),
	}, "\n")
	sessions := Parse(output, now)
	require.Len(t, sessions, 3)

	assert.Equal(t, "orphan", sessions[0].Command)
	assert.Equal(t, session.Home, sessions[0].Location)
	assert.Equal(t, "foo@bar", sessions[1].Command)
	assert.Equal(t, "ws", sessions[1].Location)
	assert.True(t, sessions[1].Attached)
	assert.Equal(t, int64(120), sessions[2].UptimeSeconds)
}

func TestParseSkipsMalformedLines(t *testing.T) {
	output := strings.Join([]string{
		"missing-fields",
		"two fields",
		"bad-count x 1700000000",
		"bad-epoch 1 not-a-number",
		fmt.Sprintf("good@ws 0 %d", fixedNow-30),
		"",
	}, "\n")
	sessions := Parse(output, now)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.Token("good@ws"), sessions[0].Token)
}

func TestParseFutureActivityClampsToZero(t *testing.T) {
	sessions := Parse(fmt.Sprintf("bash@~ 0 %d", fixedNow+100), now)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(0), sessions[0].UptimeSeconds)
}

func TestFormatUptime(t *testing.T) {
	tests := map[int64]string{
		0:    "0s",
		30:   "30s",
		59:   "59s",
		60:   "1m",
		150:  "2m",
		2700: "45m",
		3600: "1h",
		7200: "2h",
		8100: "2h 15m",
	}
	for seconds, want := range tests {
		assert.Equal(t, want, FormatUptime(seconds), "FormatUptime(%d)", seconds)
	}
}

func TestBuildTree(t *testing.T) {
	sessions := []Session{
		{Token: "bash@proj", Command: "bash", Location: "proj", UptimeSeconds: 60},
		{Token: "claude-code@~", Command: "claude-code", Location: "~", Attached: true, UptimeSeconds: 8100},
		{Token: "bash@~", Command: "bash", Location: "~", UptimeSeconds: 2700},
	}
	got := BuildTree(sessions, []string{"empty", "proj"})

	want := strings.Join([]string{
		"~/ (home)",
		"  claude-code (attached, 2h 15m)",
		"  bash (detached, 45m)",
		"empty/",
		"proj/",
		"  bash (detached, 1m)",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestBuildTreeDirsOnly(t *testing.T) {
	assert.Equal(t, "backend/\nfrontend/", BuildTree(nil, []string{"frontend", "backend"}))
	assert.Equal(t, "", BuildTree(nil, nil))
}

func TestInventorySessions(t *testing.T) {
	engine := podmantest.New()
	engine.ExecOutput["tmux list-sessions -F "+ListFormat] = fmt.Sprintf("bash@ws 0 %d\nvim@other 1 %d", fixedNow-5, fixedNow-7)

	inv := New(engine, "iteron-sandbox")
	inv.now = func() time.Time { return now }

	sessions := inv.Sessions(context.Background())
	require.Len(t, sessions, 2)

	inWs := inv.SessionsIn(context.Background(), "ws")
	require.Len(t, inWs, 1)
	assert.Equal(t, session.Token("bash@ws"), inWs[0].Token)
}

func TestInventorySessionsQueryFailure(t *testing.T) {
	engine := podmantest.New()
	engine.ExecErr["tmux list-sessions -F "+ListFormat] = errors.New("no server running on /tmp/tmux-1000/default")

	inv := New(engine, "iteron-sandbox")
	assert.Empty(t, inv.Sessions(context.Background()))
}

func TestInventoryWorkspaceDirs(t *testing.T) {
	engine := podmantest.New()
	inv := New(engine, "iteron-sandbox")

	script := "ls -1d /home/iteron/*/ 2>/dev/null | xargs -I{} basename {} || true"
	engine.ExecOutput["sh -c "+script] = "zeta\nalpha\n\n"

	assert.Equal(t, []string{"alpha", "zeta"}, inv.WorkspaceDirs(context.Background()))
}

func TestRegistryCommands(t *testing.T) {
	engine := podmantest.New()
	reg := NewRegistry(engine, "iteron-sandbox")
	ctx := context.Background()

	require.NoError(t, reg.Kill(ctx, "bash@ws"))
	require.NoError(t, reg.Attach(ctx, "claude-code@ws", "/home/iteron/ws", "claude", []string{"--resume"}))

	assert.Equal(t, [][]string{{"tmux", "kill-session", "-t", "=bash@ws"}}, engine.Execs)
	assert.Equal(t, [][]string{{
		"tmux", "new-session", "-A", "-s", "claude-code@ws", "-c", "/home/iteron/ws", "claude", "--resume",
	}}, engine.Interactive)
}

func TestBuildTreeMatchesRewrittenLocations(t *testing.T) {
	sessions := []Session{
		{Token: "bash@my_site", Command: "bash", Location: "my_site", UptimeSeconds: 30},
		{Token: "vim@a_b", Command: "vim", Location: "a_b", UptimeSeconds: 30},
	}
	got := BuildTree(sessions, []string{"a.b", "a_b", "my.site"})

	want := strings.Join([]string{
		"a.b/",
		"a_b/",
		"  vim (detached, 30s)",
		"my.site/",
		"  bash (detached, 30s)",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestSessionsInMatchesRewrittenLocation(t *testing.T) {
	engine := podmantest.New()
	engine.ExecOutput["tmux list-sessions -F "+ListFormat] = fmt.Sprintf("bash@my_site 0 %d\nbash@mysite 0 %d", fixedNow, fixedNow)

	inv := New(engine, "iteron-sandbox")
	inv.now = func() time.Time { return now }

	in := inv.SessionsIn(context.Background(), "my.site")
	require.Len(t, in, 1)
	assert.Equal(t, session.Token("bash@my_site"), in[0].Token)
}

func TestKillMatchesExactName(t *testing.T) {
	engine := podmantest.New()
	require.NoError(t, NewRegistry(engine, "iteron-sandbox").Kill(context.Background(), "bash@proj"))
	assert.Equal(t, [][]string{{"tmux", "kill-session", "-t", "=bash@proj"}}, engine.Execs)
}
