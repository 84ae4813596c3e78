package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/service/ctl"
	"github.com/oshokin/burner-alarm/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides server_addr from the configuration file.
	serverAddress string
	// logLevel sets the log level.
	logLevel string

	// rootCmd represents the base command for talking to the server.
	rootCmd = &cobra.Command{
		Use:   "burner-alarm-ctl",
		Short: "Control a running burner alarm server.",
		Long: `Reports burner signals to a running burner alarm server and inspects it.

Server address is loaded from the configuration file or set with --server.
Defaults are used when the configuration file does not exist.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

// run executes one ctl command with signal handling.
func run(opts *ctl.Options) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	opts.ConfigPath = cfgPath
	opts.ServerAddress = serverAddress

	return ctl.Run(ctx, opts)
}

// parseInt parses a decimal argument.
func parseInt(name, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}

	return n, nil
}

// newEntityCommand builds start and end.
func newEntityCommand(command ctl.Command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(command) + " <entity-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(&ctl.Options{Command: command, Entity: args[0]})
		},
	}
}

// newCommands builds every subcommand.
func newCommands() []*cobra.Command {
	reset := &cobra.Command{
		Use:   "reset [reason]",
		Short: "Forget every tracked burner.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var reason string
			if len(args) > 0 {
				reason = args[0]
			}

			return run(&ctl.Options{Command: ctl.CommandReset, Reason: reason})
		},
	}

	tick := &cobra.Command{
		Use:   "tick [host-tick]",
		Short: "Run one evaluation pass, optionally at the host's tick number.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var hostTick int64

			if len(args) > 0 {
				var err error

				if hostTick, err = parseInt("host tick", args[0]); err != nil {
					return err
				}
			}

			return run(&ctl.Options{Command: ctl.CommandTick, Value: hostTick})
		},
	}

	level := &cobra.Command{
		Use:   "level <skill-level>",
		Short: "Set the skill level used for thresholds.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			value, err := parseInt("skill level", args[0])
			if err != nil {
				return err
			}

			return run(&ctl.Options{Command: ctl.CommandLevel, Value: value})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print thresholds, settings and tracked burners.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return run(&ctl.Options{Command: ctl.CommandStatus})
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print alerts as they are delivered until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return run(&ctl.Options{Command: ctl.CommandWatch})
		},
	}

	return []*cobra.Command{
		newEntityCommand(ctl.CommandStart, "Report a burner being lit."),
		newEntityCommand(ctl.CommandEnd, "Report a burner going out."),
		reset,
		tick,
		level,
		status,
		watch,
	}
}

// Execute runs the burner-alarm-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "server address, overrides config")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newCommands()...)
}
