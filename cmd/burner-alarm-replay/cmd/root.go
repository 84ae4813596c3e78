package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/service/replay"
	"github.com/oshokin/burner-alarm/internal/version"
)

var (
	// logLevel sets the log level.
	logLevel string
	// showStatus prints the final tracked burners.
	showStatus bool

	// rootCmd represents the base command for replaying a scenario.
	rootCmd = &cobra.Command{
		Use:   "burner-alarm-replay <scenario.yaml>",
		Short: "Replay a scripted burner scenario and print the alerts.",
		Long: `Runs a scenario file against the alarm scheduler on a simulated clock.

The scenario sets ticks, skill_level, alarm and timing, and lists events with
a tick and a type of start, end, reset or level. Events at a tick apply
before that tick's evaluation pass. Every fired alert is printed with its tick.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			scenario, err := replay.Load(args[0])
			if err != nil {
				return err
			}

			result, err := replay.Run(ctx, scenario)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, fired := range result.Fired {
				_, _ = fmt.Fprintln(out, fired.String())
			}

			_, _ = fmt.Fprintf(out, "%d alerts over %d ticks\n", len(result.Fired), scenario.Ticks)

			if showStatus {
				for _, e := range result.Status.Entities {
					_, _ = fmt.Fprintf(out, "still tracked: %s since %d\n", e.ID, e.StartedAt)
				}
			}

			return nil
		},
	}
)

// Execute runs the burner-alarm-replay CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "warn", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVarP(&showStatus, "status", "s", false, "print burners still tracked at the end")
}
