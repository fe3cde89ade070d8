package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeanhaley32/iteron/internal/platform"
	"github.com/jeanhaley32/iteron/internal/state"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show environment status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	s := state.NewDetector(a.engine, a.platform, a.paths).Detect(cmd.Context())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, render(headerStyle, "iteron status"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Platform:   %s\n", s.Platform)
	fmt.Fprintf(out, "Podman:     %s\n", yesNo(s.EngineInstalled))
	if s.NeedsMachine {
		fmt.Fprintf(out, "Machine:    exists %s, running %s\n", yesNo(s.MachineExists), yesNo(s.MachineRunning))
	}
	fmt.Fprintf(out, "Rootless:   %s\n", yesNo(s.Rootless))
	fmt.Fprintf(out, "Image:      %s (%s)\n", s.Image, presence(s.ImagePresent))
	fmt.Fprintf(out, "Volume:     %s\n", yesNo(s.VolumeExists))

	switch {
	case s.ConfigErr != nil:
		fmt.Fprintf(out, "Config:     %s (%s)\n", a.paths.ConfigFile, render(badStyle, s.ConfigErr.Error()))
	case s.ConfigExists:
		fmt.Fprintf(out, "Config:     %s\n", a.paths.ConfigFile)
	default:
		fmt.Fprintf(out, "Config:     %s\n", render(badStyle, "not found"))
	}
	fmt.Fprintf(out, "Env file:   %s\n", yesNo(s.EnvExists))
	switch {
	case s.EnvErr != nil:
		fmt.Fprintf(out, "Secrets:    %s\n", render(badStyle, s.EnvErr.Error()))
	case len(s.Credentials) == 0:
		fmt.Fprintf(out, "Secrets:    none set (edit %s)\n", a.paths.EnvFile)
	default:
		fmt.Fprintf(out, "Secrets:    %s\n", strings.Join(s.Credentials, ", "))
	}

	switch {
	case s.ContainerRunning:
		fmt.Fprintf(out, "Container:  %s (%s)\n", render(okStyle, "running"), s.ContainerName)
	case s.ContainerExists:
		fmt.Fprintf(out, "Container:  stopped (%s)\n", s.ContainerName)
	default:
		fmt.Fprintln(out, "Container:  not created")
	}

	if !s.Ready() {
		fmt.Fprintln(out, "\nSetup is incomplete. Run \"iteron setup\".")
	} else if !s.ContainerRunning {
		fmt.Fprintln(out, "\nRun \"iteron start\" to launch the sandbox.")
	}
	return nil
}

func presence(ok bool) string {
	if ok {
		return render(okStyle, "present")
	}
	return render(badStyle, "missing")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iteron version %s\n", version)
			p, err := platform.Detect()
			if err != nil {
				fmt.Fprintf(out, "Platform: unsupported (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "Platform: %s\n", p)
			return nil
		},
	}
}
