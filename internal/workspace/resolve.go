// Package workspace maps user arguments to sessions and manages workspace
// directories inside the sandbox.
package workspace

import (
	"errors"
	"path"
	"strings"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/session"
)

// ErrTooManyArgs is returned when more than two positional arguments are given.
var ErrTooManyArgs = errors.New("expected at most two arguments: [agent-or-workspace] [workspace]")

// Resolution is what an open request turns into.
type Resolution struct {
	Binary   string
	Token    session.Token
	WorkDir  string
	Location string
}

// Validate checks a workspace name. The empty string and session.Home are
// accepted; callers treat empty as "no argument".
func Validate(name string) error {
	if name == "" || name == session.Home {
		return nil
	}
	invalid := func(cause session.Cause) error {
		return &session.InvalidNameError{Label: "Workspace name", Value: name, Cause: cause}
	}
	if strings.HasPrefix(name, "/") {
		return invalid(session.CauseAbsolute)
	}
	if strings.ContainsAny(name, `/\`) {
		return invalid(session.CauseSeparator)
	}
	if name == "." || name == ".." {
		return invalid(session.CauseTraversal)
	}
	return session.ValidateToken(name, "Workspace name")
}

// Dir returns the container directory of a workspace.
func Dir(location string) string {
	if location == session.Home {
		return constants.ContainerHome
	}
	return path.Join(constants.ContainerHome, location)
}

// Resolve turns zero, one or two positional arguments into a session.
//
//   - no arguments: the default shell in home
//   - one argument naming an agent: that agent in home
//   - one other argument: the default shell in that workspace
//   - two arguments: an agent, or any command, in the workspace named second
//
// Empty arguments count as absent.
func Resolve(args []string, agents map[string]config.Agent) (Resolution, error) {
	args = nonEmpty(args)
	switch len(args) {
	case 0:
		return resolution(constants.DefaultShell, constants.DefaultShell, session.Home), nil

	case 1:
		arg := args[0]
		if agent, ok := agents[arg]; ok {
			if err := session.ValidateToken(arg, "Agent name"); err != nil {
				return Resolution{}, err
			}
			return resolution(arg, agent.Binary, session.Home), nil
		}
		if err := Validate(arg); err != nil {
			return Resolution{}, err
		}
		return resolution(constants.DefaultShell, constants.DefaultShell, arg), nil

	case 2:
		command, ws := args[0], args[1]
		if ws != session.Home {
			if err := Validate(ws); err != nil {
				return Resolution{}, err
			}
		}
		agent, isAgent := agents[command]
		label := "Command name"
		if isAgent {
			label = "Agent name"
		}
		if err := session.ValidateToken(command, label); err != nil {
			return Resolution{}, err
		}
		binary := command
		if isAgent {
			binary = agent.Binary
		}
		return resolution(command, binary, ws), nil

	default:
		return Resolution{}, ErrTooManyArgs
	}
}

func nonEmpty(args []string) []string {
	var out []string
	for _, a := range args {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func resolution(command, binary, location string) Resolution {
	return Resolution{
		Binary:   binary,
		Token:    session.Encode(command, location),
		WorkDir:  Dir(location),
		Location: location,
	}
}

// PassthroughArgs returns everything after the first "--" in args. dashAt
// is the index of that separator as reported by the flag parser, or -1.
func PassthroughArgs(args []string, dashAt int) []string {
	if dashAt < 0 || dashAt >= len(args) {
		return nil
	}
	return args[dashAt:]
}
