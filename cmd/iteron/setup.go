package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeanhaley32/iteron/internal/provision"
	"github.com/jeanhaley32/iteron/internal/terminal"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "setup",
		Aliases: []string{"init"},
		Short:   "Install podman and prepare the sandbox image, volume and config",
		Long: `Brings this host to a state where the sandbox can run. Every step is
skipped when it is already done, so setup is safe to re-run.`,
		Args: cobra.NoArgs,
		RunE: runSetup,
	}

	cmd.Flags().String("image", "", "Sandbox image to pull and record in config.toml")
	cmd.Flags().BoolP("yes", "y", false, "Install podman without asking")

	return cmd
}

// stepPrinter prints provisioning progress.
type stepPrinter struct {
	out io.Writer
}

func (p stepPrinter) Applying(s provision.Step) {
	if s.Doing != "" {
		fmt.Fprintf(p.out, "  %s\n", s.Doing)
	}
}

func (p stepPrinter) Finished(s provision.Step, status provision.Status) {
	fmt.Fprintf(p.out, "  %s %s\n", s.Name, statusTag(status))
}

func runSetup(cmd *cobra.Command, args []string) error {
	image, err := cmd.Flags().GetString("image")
	if err != nil {
		return fmt.Errorf("invalid image flag: %w", err)
	}
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("invalid yes flag: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Detected platform: %s\n", a.platform)

	env := provision.Env{
		Platform:   a.platform,
		Engine:     a.engine,
		Paths:      a.paths,
		Image:      image,
		ForceImage: image != "",
		Installer: &provision.HostInstaller{
			Platform: a.platform,
			Run:      a.run,
			Confirm: func(prompt string) (bool, error) {
				return terminal.Confirm(prompt, true)
			},
			AssumeYes: yes,
			Out:       out,
		},
	}

	if err := provision.Run(cmd.Context(), provision.Plan(env), stepPrinter{out: out}); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nSetup complete. Run \"iteron start\" to launch the sandbox.")
	return nil
}
