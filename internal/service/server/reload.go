package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

// watchReload reloads the settings file on SIGHUP until ctx is done.
func watchReload(ctx context.Context, path string, sched *scheduler.Scheduler) {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)

	defer signal.Stop(hangup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			reload(ctx, path, sched)
		}
	}
}

// reload applies the alarm settings and log level from path. Timing and
// sink changes need a restart and are only reported.
func reload(ctx context.Context, path string, sched *scheduler.Scheduler) {
	cfg, err := config.Load(path)
	if err != nil {
		logger.ErrorKV(ctx, "Reload settings failed, keeping current ones", "error", err)

		return
	}

	applyLogLevel(cfg.LogLevel, "")

	sched.UpdateSettings(cfg.Alarm)

	if cfg.Timing != sched.Status().Timing {
		logger.Warn(ctx, "Timing changes take effect after restart")
	}

	logger.InfoKV(ctx, "Settings reloaded",
		"send_pre_warning", cfg.Alarm.SendPreWarning,
		"play_terminal_sound", cfg.Alarm.PlayTerminalSound,
		"sound_volume", cfg.Alarm.SoundVolume,
		"pre_warning_lead", cfg.Alarm.PreWarningLead,
	)
}
