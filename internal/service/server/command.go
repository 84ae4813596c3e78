package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"

	api "github.com/oshokin/burner-alarm/internal/api/grpc/burner"
	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/metrics"
	"github.com/oshokin/burner-alarm/internal/service/hostwatch"
	"github.com/oshokin/burner-alarm/internal/version"
)

// Options controls the burner-alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// LogLevel overrides log_level from the settings file when set.
	LogLevel string
	// Ready, when set, receives the bound gRPC address once the server listens.
	Ready chan<- string
}

// metricsShutdownTimeout bounds the metrics server shutdown.
const metricsShutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Loads configuration first, then determines listen address from config or override.
//
//nolint:funlen // Startup wiring reads top to bottom.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "burner-alarm-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyLogLevel(settings.LogLevel, opts.LogLevel)
	logger.InfoKV(ctx, "Starting burner alarm server", version.KV()...)

	// Determine listen address: CLI argument overrides the configured one.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	svc, err := newService(ctx, settings)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	defer svc.close(ctx)

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	metricsServer, err := serveMetrics(ctx, settings.MetricsAddress, svc)
	if err != nil {
		_ = lis.Close()

		return err
	}

	// Create and configure gRPC server with the burner alarm service.
	grpcServer := grpc.NewServer()
	api.NewServer(svc.scheduler, svc.skill, svc.hub).Register(grpcServer)

	logger.InfoKV(ctx, "Burner alarm server listening",
		"listen_address", lis.Addr().String(),
		"tick_source", settings.Ticks.Source,
		"clock", settings.Timing.Mode,
		"gating", settings.Timing.Gating,
		"eviction", settings.Timing.Eviction,
	)

	// Background loops stop with the server.
	loopCtx, stopLoops := context.WithCancel(ctx)

	var loops sync.WaitGroup

	startLoops(loopCtx, &loops, opts.ConfigPath, settings, svc)

	if opts.Ready != nil {
		opts.Ready <- lis.Addr().String()
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		// Watch streams only end when the hub closes.
		svc.hub.Close()
		grpcServer.GracefulStop()
		close(done)
	}()

	serveErr := grpcServer.Serve(lis)

	stopLoops()
	loops.Wait()
	shutdownMetrics(ctx, metricsServer)

	if serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", serveErr)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// applyLogLevel sets the override level when given, otherwise the
// configured one. Empty values leave the level unchanged.
func applyLogLevel(configured, override string) {
	value := configured
	if override != "" {
		value = override
	}

	if value == "" {
		return
	}

	if level, ok := logger.ParseLogLevel(value); ok {
		logger.SetLevel(level)
	}
}

// startLoops launches the tick driver, host watcher and reload handler.
func startLoops(
	ctx context.Context,
	wg *sync.WaitGroup,
	configPath string,
	settings *config.Config,
	svc *service,
) {
	if settings.Ticks.Source == config.TickSourceInterval {
		wg.Go(func() {
			svc.scheduler.Drive(ctx, settings.Ticks.Interval)
		})
	}

	if settings.HostWatch.Process != "" {
		wg.Go(func() {
			err := hostwatch.Run(ctx, svc.scheduler, &hostwatch.Options{
				Process:  settings.HostWatch.Process,
				Interval: settings.HostWatch.Interval,
			})
			if err != nil {
				logger.ErrorKV(ctx, "Host watcher stopped", "error", err)
			}
		})
	}

	wg.Go(func() {
		watchReload(ctx, configPath, svc.scheduler)
	})
}

// serveMetrics starts the /metrics endpoint when an address is configured.
func serveMetrics(ctx context.Context, address string, svc *service) (*http.Server, error) {
	if address == "" {
		return nil, nil //nolint:nilnil // No address means no metrics server.
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen metrics on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(svc.registry))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics server failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Metrics listening", "address", lis.Addr().String())

	return srv, nil
}

// shutdownMetrics stops the metrics server if one was started.
func shutdownMetrics(ctx context.Context, srv *http.Server) {
	if srv == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnKV(ctx, "Metrics server shutdown failed", "error", err)
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// An override is used as is. Otherwise the configured address is bound
// with its host kept, so a loopback address stays loopback-only; a bare
// ":port" binds every interface.
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	host, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return net.JoinHostPort(host, port), nil
}
