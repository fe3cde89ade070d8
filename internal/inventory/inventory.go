// Package inventory reports the sessions running in the sandbox and the
// workspaces they belong to.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/session"
)

// Session is a live multiplexer session in the sandbox.
type Session struct {
	Token         session.Token
	Command       string
	Location      string
	Attached      bool
	UptimeSeconds int64
}

// Parse reads registry listing output, one session per line:
//
//	<session_name> <attached_count> <last_activity_epoch>
//
// Lines with fewer than three fields or non-numeric counts are skipped.
func Parse(output string, now time.Time) []Session {
	var sessions []Session
	nowEpoch := now.Unix()

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		attached, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		activity, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}

		token := session.Token(fields[0])
		parts := session.Decode(token)
		sessions = append(sessions, Session{
			Token:         token,
			Command:       parts.Command,
			Location:      parts.Location,
			Attached:      attached > 0,
			UptimeSeconds: max(0, nowEpoch-activity),
		})
	}
	return sessions
}

// FormatUptime renders seconds as "45s", "12m", "3h" or "3h 5m".
func FormatUptime(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// BuildTree groups sessions under their workspace. Workspace directories
// without sessions are listed too. Home comes first, the rest sort by name.
func BuildTree(sessions []Session, workspaceDirs []string) string {
	sessions = matchDirs(sessions, workspaceDirs)
	byLocation := make(map[string][]Session)
	for _, s := range sessions {
		byLocation[s.Location] = append(byLocation[s.Location], s)
	}

	seen := make(map[string]bool)
	var locations []string
	add := func(loc string) {
		if !seen[loc] {
			seen[loc] = true
			locations = append(locations, loc)
		}
	}
	for _, s := range sessions {
		add(s.Location)
	}
	for _, dir := range workspaceDirs {
		add(dir)
	}

	sort.Slice(locations, func(i, j int) bool {
		a, b := locations[i], locations[j]
		if a == session.Home || b == session.Home {
			return a == session.Home && b != session.Home
		}
		return a < b
	})

	var lines []string
	for _, loc := range locations {
		if loc == session.Home {
			lines = append(lines, "~/ (home)")
		} else {
			lines = append(lines, loc+"/")
		}
		for _, s := range byLocation[loc] {
			state := "detached"
			if s.Attached {
				state = "attached"
			}
			lines = append(lines, fmt.Sprintf("  %s (%s, %s)", s.Command, state, FormatUptime(s.UptimeSeconds)))
		}
	}
	return strings.Join(lines, "\n")
}

// matchDirs moves sessions whose location was rewritten by tmux (see
// session.RegistryName) back under the workspace directory they run in.
// A directory whose name matches the location exactly always wins.
func matchDirs(sessions []Session, workspaceDirs []string) []Session {
	exact := make(map[string]bool, len(workspaceDirs))
	renamed := make(map[string]string)
	for _, dir := range workspaceDirs {
		exact[dir] = true
		if reg := session.RegistryName(dir); reg != dir {
			renamed[reg] = dir
		}
	}

	out := make([]Session, len(sessions))
	for i, s := range sessions {
		if dir, ok := renamed[s.Location]; ok && !exact[s.Location] {
			s.Location = dir
		}
		out[i] = s
	}
	return out
}

// Inventory queries a running sandbox container.
type Inventory struct {
	registry *Registry
	now      func() time.Time
}

// New creates an Inventory for the named container.
func New(engine Execer, container string) *Inventory {
	return &Inventory{
		registry: NewRegistry(engine, container),
		now:      time.Now,
	}
}

// Registry returns the session registry the inventory reads from.
func (i *Inventory) Registry() *Registry {
	return i.registry
}

// Sessions lists live sessions. A failed query, typically because no
// multiplexer server is running yet, yields no sessions.
func (i *Inventory) Sessions(ctx context.Context) []Session {
	out, err := i.registry.List(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("session registry query failed; assuming no sessions")
		return nil
	}
	return Parse(out, i.now())
}

// SessionsIn lists live sessions opened in workspace loc, including those
// whose name tmux rewrote.
func (i *Inventory) SessionsIn(ctx context.Context, loc string) []Session {
	reg := session.RegistryName(loc)
	var matching []Session
	for _, s := range i.Sessions(ctx) {
		if s.Location == loc || s.Location == reg {
			matching = append(matching, s)
		}
	}
	return matching
}

// WorkspaceDirs lists the non-hidden directories directly under the
// container home, sorted by name.
func (i *Inventory) WorkspaceDirs(ctx context.Context) []string {
	script := fmt.Sprintf("ls -1d %s/*/ 2>/dev/null | xargs -I{} basename {} || true", constants.ContainerHome)
	out, err := i.registry.engine.Exec(ctx, i.registry.container, "sh", "-c", script)
	if err != nil {
		log.Debug().Err(err).Msg("workspace listing failed; assuming no workspaces")
		return nil
	}
	var dirs []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			dirs = append(dirs, name)
		}
	}
	sort.Strings(dirs)
	return dirs
}
