package inventory

import (
	"context"

	"github.com/jeanhaley32/iteron/internal/session"
)

// ListFormat is the tmux format string for one registry line.
const ListFormat = "#{session_name} #{session_attached} #{session_activity}"

// Execer runs commands inside a container.
type Execer interface {
	Exec(ctx context.Context, container string, command ...string) (string, error)
	ExecInteractive(ctx context.Context, container string, command ...string) error
}

// Registry drives the tmux server inside the sandbox container.
type Registry struct {
	engine    Execer
	container string
}

// NewRegistry creates a Registry for the named container.
func NewRegistry(engine Execer, container string) *Registry {
	return &Registry{engine: engine, container: container}
}

// List returns raw `tmux list-sessions` output in ListFormat.
func (r *Registry) List(ctx context.Context) (string, error) {
	return r.engine.Exec(ctx, r.container, "tmux", "list-sessions", "-F", ListFormat)
}

// Kill terminates a session. The "=" target prefix makes tmux match the
// name exactly instead of falling back to a prefix match.
func (r *Registry) Kill(ctx context.Context, t session.Token) error {
	_, err := r.engine.Exec(ctx, r.container, "tmux", "kill-session", "-t", "="+t.String())
	return err
}

// Attach creates the session if needed and attaches the caller's terminal
// to it. It returns when the client detaches or the session exits.
func (r *Registry) Attach(ctx context.Context, t session.Token, workDir, binary string, args []string) error {
	return r.engine.ExecInteractive(ctx, r.container, NewSessionArgs(t, workDir, binary, args)...)
}

// NewSessionArgs builds the tmux command that creates or attaches to session t
// running binary with args in workDir.
func NewSessionArgs(t session.Token, workDir, binary string, args []string) []string {
	cmd := []string{"tmux", "new-session", "-A", "-s", t.String(), "-c", workDir, binary}
	return append(cmd, args...)
}
