package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/logger"
)

// Config holds settings shared by the burner alarm binaries.
type Config struct {
	// ServerAddress is the gRPC server address.
	ServerAddress string `yaml:"server_addr"`
	// MetricsAddress serves /metrics over HTTP; empty disables it.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
	// Timeout is the duration for RPC calls and sink deliveries.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level,omitempty"`
	// Alarm holds the user-facing alarm settings.
	Alarm alarm.Settings `yaml:"alarm"`
	// Timing holds the threshold and gating policy.
	Timing alarm.Timing `yaml:"timing"`
	// Ticks configures where evaluation passes come from.
	Ticks Ticks `yaml:"ticks"`
	// Notifications configures the pre-warning sinks.
	Notifications Notifications `yaml:"notifications"`
	// Sound configures the terminal sound sink.
	Sound Sound `yaml:"sound"`
	// Delivery configures the sink dispatcher.
	Delivery Delivery `yaml:"delivery"`
	// HostWatch configures the host process watcher.
	HostWatch HostWatch `yaml:"host_watch"`
}

// TickSource names the origin of evaluation passes.
type TickSource string

const (
	// TickSourceRPC evaluates on every Tick RPC.
	TickSourceRPC TickSource = "rpc"
	// TickSourceInterval evaluates on a local ticker.
	TickSourceInterval TickSource = "interval"
)

// Ticks configures the evaluation pass source.
type Ticks struct {
	// Source is rpc or interval.
	Source TickSource `yaml:"source"`
	// Interval is the ticker period for the interval source.
	Interval time.Duration `yaml:"interval,omitempty"`
	// SkillLevel is the skill level until one is reported.
	SkillLevel int64 `yaml:"skill_level"`
}

// Notifications configures the pre-warning sinks.
type Notifications struct {
	// Log writes pre-warnings to the log.
	Log bool `yaml:"log"`
	// Desktop shows an OS notification.
	Desktop bool `yaml:"desktop"`
	// Title is the desktop notification title.
	Title string `yaml:"title,omitempty"`
	// Message is the pre-warning text.
	Message string `yaml:"message,omitempty"`
	// WebhookURL receives a JSON POST per pre-warning; empty disables it.
	WebhookURL string `yaml:"webhook_url,omitempty"`
}

// Sound configures the terminal sound sink.
type Sound struct {
	// Enabled turns the player on.
	Enabled bool `yaml:"enabled"`
	// Backend names the player program, or auto.
	Backend string `yaml:"backend,omitempty"`
	// ToneHz is the pitch of the alarm tone.
	ToneHz float64 `yaml:"tone_hz,omitempty"`
	// CacheDir holds rendered tones; empty uses the user cache dir.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// Delivery configures the sink dispatcher.
type Delivery struct {
	// Workers is the number of delivery goroutines.
	Workers int `yaml:"workers"`
	// QueueSize is the number of pending deliveries before dropping.
	QueueSize int `yaml:"queue_size"`
}

// HostWatch configures the host process watcher.
type HostWatch struct {
	// Process is the host executable name; empty disables the watcher.
	Process string `yaml:"process,omitempty"`
	// Interval is the polling period.
	Interval time.Duration `yaml:"interval,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "burner-alarm-settings.yaml"

	// DefaultServerAddress is the default gRPC address.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is the local ticker period, one host tick.
	DefaultTickInterval = 600 * time.Millisecond

	// DefaultHostWatchInterval is the host process polling period.
	DefaultHostWatchInterval = 5 * time.Second

	// DefaultWorkers is the default number of delivery workers.
	DefaultWorkers = 2

	// DefaultQueueSize is the default delivery queue length.
	DefaultQueueSize = 32

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errUnknownTickSource is returned for a tick source other than rpc or interval.
	errUnknownTickSource = errors.New("unknown tick source")
	// errUnknownLogLevel is returned for an unrecognized log level.
	errUnknownLogLevel = errors.New("unknown log level")
	// errNegativeSkillLevel is returned for a skill level below zero.
	errNegativeSkillLevel = errors.New("skill level must not be negative")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		ServerAddress: DefaultServerAddress,
		Alarm:         alarm.DefaultSettings(),
		Notifications: Notifications{Log: true},
	}

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := &Config{
		Alarm: alarm.DefaultSettings(),
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings, fills defaults and clamps alarm values.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics socket: %w", err)
		}
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	settings.Alarm = settings.Alarm.Clamp()

	timing, err := settings.Timing.Normalize()
	if err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}

	settings.Timing = timing

	if err := validateTicks(&settings.Ticks); err != nil {
		return err
	}

	if settings.Notifications.Message == "" {
		settings.Notifications.Message = alarm.DefaultPreWarningMessage
	}

	if settings.Notifications.WebhookURL != "" {
		if _, err := url.ParseRequestURI(settings.Notifications.WebhookURL); err != nil {
			return fmt.Errorf("invalid webhook URI: %w", err)
		}
	}

	if settings.Delivery.Workers <= 0 {
		settings.Delivery.Workers = DefaultWorkers
	}

	if settings.Delivery.QueueSize <= 0 {
		settings.Delivery.QueueSize = DefaultQueueSize
	}

	if settings.HostWatch.Process != "" && settings.HostWatch.Interval <= 0 {
		settings.HostWatch.Interval = DefaultHostWatchInterval
	}

	return nil
}

// validateTicks fills the tick source defaults.
func validateTicks(ticks *Ticks) error {
	if ticks.Source == "" {
		ticks.Source = TickSourceRPC
	}

	switch ticks.Source {
	case TickSourceRPC:
	case TickSourceInterval:
		if ticks.Interval <= 0 {
			ticks.Interval = DefaultTickInterval
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownTickSource, ticks.Source)
	}

	if ticks.SkillLevel < 0 {
		return errNegativeSkillLevel
	}

	return nil
}
