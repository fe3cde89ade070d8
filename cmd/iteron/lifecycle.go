package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeanhaley32/iteron/internal/config"
	"github.com/jeanhaley32/iteron/internal/constants"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the sandbox container",
		Args:  cobra.NoArgs,
		RunE:  runStart,
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := cfg.Container.Name

	res, err := a.controller(cfg).Start(cmd.Context())
	if res.MachineStarted {
		fmt.Fprintln(out, "Started Podman machine.")
	}
	if err != nil {
		return err
	}

	if res.AlreadyRunning {
		fmt.Fprintf(out, "Container %q is already running.\n", name)
		return nil
	}
	for _, m := range res.Mounts {
		fmt.Fprintf(out, "  mounted %s\n", m.Host)
	}
	fmt.Fprintf(out, "Container %q is running.\n", name)
	return nil
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop and remove the sandbox container (the data volume is kept)",
		Args:  cobra.NoArgs,
		RunE:  runStop,
	}
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := cfg.Container.Name
	ctl := a.controller(cfg)

	if err := ctl.RequireRunning(cmd.Context()); err != nil {
		fmt.Fprintf(out, "Container %q is not running.\n", name)
		return nil
	}

	fmt.Fprintf(out, "Stopping container %q (%s grace period)...\n", name, constants.StopGracePeriod)
	res, err := ctl.Stop(cmd.Context())
	if err != nil {
		return err
	}
	if res.NotRunning {
		fmt.Fprintf(out, "Container %q is not running.\n", name)
		return nil
	}
	fmt.Fprintf(out, "Container %q stopped and removed.\n", name)
	return nil
}
