package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeanhaley32/iteron/internal/inventory"
	"github.com/jeanhaley32/iteron/internal/session"
	"github.com/jeanhaley32/iteron/internal/terminal"
	"github.com/jeanhaley32/iteron/internal/workspace"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [agent-or-workspace] [workspace] [-- args...]",
		Short: "Open or attach to a session in the sandbox",
		Long: `Opens a tmux session in the sandbox, or attaches to it if it already exists.

  iteron open                      shell in ~
  iteron open claude-code          agent in ~
  iteron open myproject            shell in ~/myproject
  iteron open claude-code backend  agent in ~/backend
  iteron open vim backend          any command in ~/backend

Arguments after -- are passed to the agent when the session is created.`,
		RunE: runOpen,
	}
}

func runOpen(cmd *cobra.Command, args []string) error {
	dashAt := cmd.ArgsLenAtDash()
	positional := args
	if dashAt >= 0 {
		positional = args[:dashAt]
	}
	extra := workspace.PassthroughArgs(args, dashAt)

	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, mgr, err := a.running(cmd.Context())
	if err != nil {
		return err
	}

	r, err := workspace.Resolve(positional, cfg.Agents)
	if err != nil {
		return err
	}
	return mgr.Open(cmd.Context(), r, extra)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workspaces and the sessions running in them",
		Args:    cobra.NoArgs,
		RunE:    runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	_, mgr, err := a.running(cmd.Context())
	if err != nil {
		return err
	}

	inv := mgr.Inventory()
	sessions := inv.Sessions(cmd.Context())
	dirs := inv.WorkspaceDirs(cmd.Context())

	out := cmd.OutOrStdout()
	if len(sessions) == 0 && len(dirs) == 0 {
		fmt.Fprintln(out, "No workspaces or sessions.")
		return nil
	}
	fmt.Fprintln(out, styleTree(inventory.BuildTree(sessions, dirs)))
	return nil
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <workspace>",
		Aliases: []string{"rm"},
		Short:   "Kill a workspace's sessions and delete its directory",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	// reject bad names before touching the engine
	switch {
	case name == "":
		return workspace.ErrWorkspaceRequired
	case name == session.Home:
		return workspace.ErrRemoveHome
	}
	if err := workspace.Validate(name); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	_, mgr, err := a.running(cmd.Context())
	if err != nil {
		return err
	}

	confirm := func(tokens []session.Token) (bool, error) {
		names := make([]string, len(tokens))
		for i, t := range tokens {
			names[i] = t.String()
		}
		return terminal.Confirm(fmt.Sprintf("Kill %s?", strings.Join(names, ", ")), false)
	}

	res, err := mgr.Remove(cmd.Context(), name, confirm)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Aborted {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}
	fmt.Fprintf(out, "Workspace %q removed.\n", name)
	return nil
}
