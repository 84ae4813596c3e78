package server

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	api "github.com/oshokin/burner-alarm/internal/api/grpc/burner"
	"github.com/oshokin/burner-alarm/internal/clock"
	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/metrics"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
	"github.com/oshokin/burner-alarm/internal/sink"
	"github.com/oshokin/burner-alarm/internal/sink/notify"
	"github.com/oshokin/burner-alarm/internal/sink/sound"
)

// service bundles the pieces built from one configuration.
type service struct {
	// scheduler tracks burners and fires alerts.
	scheduler *scheduler.Scheduler
	// skill is the settable skill level source.
	skill *clock.SkillLevel
	// dispatcher delivers alerts to the sinks.
	dispatcher *sink.Dispatcher
	// hub streams delivered alerts to watchers.
	hub *api.Hub
	// registry holds the collectors served on /metrics.
	registry *prometheus.Registry
}

// newService builds the scheduler and its sinks from cfg.
func newService(ctx context.Context, cfg *config.Config) (*service, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := metrics.New(registry)

	clk, err := clock.New(cfg.Timing.Mode)
	if err != nil {
		return nil, fmt.Errorf("create clock: %w", err)
	}

	skill := clock.NewSkillLevel(cfg.Ticks.SkillLevel)
	hub := api.NewHub(api.DefaultHubBuffer)

	dispatcher := sink.NewDispatcher(
		buildNotifier(cfg),
		buildPlayer(ctx, cfg),
		sink.WithObservers(hub),
		sink.WithWorkers(cfg.Delivery.Workers),
		sink.WithQueueSize(cfg.Delivery.QueueSize),
		sink.WithTimeout(cfg.Timeout),
		sink.WithMetrics(m),
	)

	sched, err := scheduler.New(
		clk,
		skill,
		cfg.Timing,
		cfg.Alarm,
		scheduler.WithDispatcher(dispatcher),
		scheduler.WithMetrics(m),
		scheduler.WithMessage(cfg.Notifications.Message),
	)
	if err != nil {
		dispatcher.Close()

		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &service{
		scheduler:  sched,
		skill:      skill,
		dispatcher: dispatcher,
		hub:        hub,
		registry:   registry,
	}, nil
}

// close clears the tracked burners and drains pending deliveries.
func (s *service) close(ctx context.Context) {
	s.scheduler.OnReset(ctx, scheduler.ResetShutdown, "server stopped")
	s.dispatcher.Close()
}

// buildNotifier returns the configured pre-warning sinks, or nil when
// none is enabled.
//
//nolint:ireturn // A nil interface tells the dispatcher to skip pre-warnings.
func buildNotifier(cfg *config.Config) sink.Notifier {
	var notifiers []sink.Notifier

	if cfg.Notifications.Log {
		notifiers = append(notifiers, notify.NewLogNotifier())
	}

	if cfg.Notifications.Desktop {
		notifiers = append(notifiers, notify.NewDesktopNotifier(cfg.Notifications.Title))
	}

	if cfg.Notifications.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.Notifications.WebhookURL, cfg.Timeout))
	}

	if len(notifiers) == 0 {
		return nil
	}

	return notify.NewMultiNotifier(notifiers...)
}

// buildPlayer returns the terminal sound sink, or nil when sound is off or
// no player is available.
//
//nolint:ireturn // A nil interface tells the dispatcher to skip terminal sounds.
func buildPlayer(ctx context.Context, cfg *config.Config) sink.Player {
	if !cfg.Sound.Enabled {
		return nil
	}

	backend, err := sound.DetectBackend(cfg.Sound.Backend)
	if err != nil {
		logger.WarnKV(ctx, "Terminal sound disabled", "error", err)

		return nil
	}

	player, err := sound.NewPlayer(backend, cfg.Sound.ToneHz, cfg.Sound.CacheDir)
	if err != nil {
		logger.WarnKV(ctx, "Terminal sound disabled", "error", err)

		return nil
	}

	logger.InfoKV(ctx, "Terminal sound enabled", "player", backend.Name)

	return player
}
