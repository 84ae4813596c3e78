package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/service/common"
)

// Command names a ctl operation.
type Command string

const (
	// CommandStart reports a burner being lit.
	CommandStart Command = "start"
	// CommandEnd reports a burner going out.
	CommandEnd Command = "end"
	// CommandReset clears every tracked burner.
	CommandReset Command = "reset"
	// CommandTick runs one evaluation pass.
	CommandTick Command = "tick"
	// CommandLevel sets the skill level.
	CommandLevel Command = "level"
	// CommandStatus prints the scheduler snapshot.
	CommandStatus Command = "status"
	// CommandWatch prints alerts as they are delivered.
	CommandWatch Command = "watch"
)

// Options configures one ctl invocation.
type Options struct {
	// ConfigPath to YAML settings file; defaults are used when it is missing.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Command is the operation to run.
	Command Command
	// Entity is the burner id for start and end.
	Entity string
	// Value is the host tick for tick and the level for level.
	Value int64
	// Reason is attached to reset.
	Reason string
	// Output receives command output; os.Stdout when nil.
	Output io.Writer
	// RetryInterval is the reconnect delay for watch.
	RetryInterval time.Duration
}

// DefaultRetryInterval is the reconnect delay for watch.
const DefaultRetryInterval = time.Second

// errUnknownCommand is returned for an unsupported command.
var errUnknownCommand = errors.New("unknown command")

// Run executes one command against the server.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "burner-alarm-ctl")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	// Connect to alarm server with timeout from config.
	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Running command", "command", opts.Command, "server_address", serverAddress)

	return execute(ctx, client, opts, out)
}

// loadConfig reads the settings file, falling back to defaults when it
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return nil, fmt.Errorf("load settings: %w", err)
}

// execute dispatches the command.
//
//nolint:cyclop // One branch per subcommand.
func execute(ctx context.Context, client *common.Client, opts *Options, out io.Writer) error {
	switch opts.Command {
	case CommandStart:
		if err := client.StartTracking(ctx, alarm.EntityID(opts.Entity)); err != nil {
			return err
		}

		_, err := fmt.Fprintf(out, "tracking %s\n", opts.Entity)

		return err
	case CommandEnd:
		removed, err := client.EndTracking(ctx, alarm.EntityID(opts.Entity))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(out, "removed %s: %t\n", opts.Entity, removed)

		return err
	case CommandReset:
		if err := client.Reset(ctx, common.ActorReason(opts.Reason)); err != nil {
			return err
		}

		_, err := fmt.Fprintln(out, "reset")

		return err
	case CommandTick:
		fired, err := client.Tick(ctx, opts.Value)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(out, "alerts fired: %d\n", fired)

		return err
	case CommandLevel:
		if err := client.SetSkillLevel(ctx, opts.Value); err != nil {
			return err
		}

		_, err := fmt.Fprintf(out, "skill level: %d\n", opts.Value)

		return err
	case CommandStatus:
		return printStatus(ctx, client, out)
	case CommandWatch:
		return watch(ctx, client, opts.RetryInterval, out)
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, opts.Command)
	}
}

// printStatus writes the status as indented JSON.
func printStatus(ctx context.Context, client *common.Client, out io.Writer) error {
	st, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	_, err = fmt.Fprintln(out, string(data))

	return err
}

// watch prints alerts until ctx is done or the server ends the stream,
// reconnecting after failures.
func watch(ctx context.Context, client *common.Client, retry time.Duration, out io.Writer) error {
	if retry <= 0 {
		retry = DefaultRetryInterval
	}

	show := func(alert alarm.Alert) {
		_, _ = fmt.Fprintln(out, alert.String())
	}

	for {
		err := client.WatchAlerts(ctx, show)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		if status.Code(err) == codes.Unimplemented {
			return err
		}

		logger.WarnKV(ctx, "Alert stream broken, reconnecting", "error", err, "retry_in", retry.String())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retry):
		}
	}
}
