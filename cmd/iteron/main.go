package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeanhaley32/iteron/internal/constants"
	"github.com/jeanhaley32/iteron/internal/podman"
)

var version = "0.4.0"

func main() {
	// Configure logging - minimal by default, debug with --verbose or ITERON_DEBUG
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv(constants.DebugEnvVar) != "" {
		enableDebugLogging()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", podman.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}

func enableDebugLogging() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iteron",
		Short: "Sandboxed terminal sessions for coding agents",
		Long: `iteron runs coding agents and shells in tmux sessions inside a single
hardened podman container. Each session is bound to a workspace directory
under the container's home, which lives on a persistent volume.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("invalid verbose flag: %w", err)
			}
			if verbose {
				enableDebugLogging()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log engine commands to stderr")

	rootCmd.AddCommand(
		newSetupCmd(),
		newStartCmd(),
		newStopCmd(),
		newOpenCmd(),
		newListCmd(),
		newRemoveCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
