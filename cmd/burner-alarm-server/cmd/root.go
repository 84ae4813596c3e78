package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/service/server"
	"github.com/oshokin/burner-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides log_level from the configuration file.
	logLevel string

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "burner-alarm-server [listen-address]",
		Short: "Run the burner alarm gRPC server.",
		Long: `Starts the burner alarm server that times lit gilded altar burners and
alerts before their random burnout phase.

The host reports burners being lit and going out, and game ticks, over gRPC.
With ticks.source set to interval the server ticks on its own every 600ms.
A text pre-warning is sent ahead of the guaranteed burn end and a sound is
played when it is reached.

The server listens on server_addr (default 127.0.0.1:50051, loopback only).
Listen address can be provided as argument to override config (e.g., :9090).
Send SIGHUP to reload alarm settings and the log level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				LogLevel:      logLevel,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the burner-alarm-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
}
