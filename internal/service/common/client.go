//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/burner-alarm/internal/api/grpc/burner"
	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// Client wraps the burner alarm gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm server.
	conn *grpc.ClientConn
	// api is the burner alarm client.
	api *burner.BurnerAlarmClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errEntityRequired is returned when an entity id is empty.
	errEntityRequired = errors.New("entity id must be provided")
)

// Dial establishes a gRPC connection to the alarm server.
// Note: this uses insecure transport credentials; the server is expected to
// listen on loopback next to the host it watches.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         burner.NewBurnerAlarmClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// StartTracking reports a burner being lit.
func (c *Client) StartTracking(ctx context.Context, id alarm.EntityID) error {
	if id == "" {
		return errEntityRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.StartTracking(callCtx, wrapperspb.String(string(id))); err != nil {
		return fmt.Errorf("start tracking: %w", err)
	}

	return nil
}

// EndTracking reports a burner going out and returns whether it was tracked.
func (c *Client) EndTracking(ctx context.Context, id alarm.EntityID) (bool, error) {
	if id == "" {
		return false, errEntityRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.EndTracking(callCtx, wrapperspb.String(string(id)))
	if err != nil {
		return false, fmt.Errorf("end tracking: %w", err)
	}

	return resp.GetValue(), nil
}

// Reset clears every tracked burner.
func (c *Client) Reset(ctx context.Context, reason string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.Reset(callCtx, wrapperspb.String(reason)); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	return nil
}

// Tick runs one evaluation pass and returns the number of alerts fired.
func (c *Client) Tick(ctx context.Context, hostTick int64) (int64, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Tick(callCtx, wrapperspb.Int64(hostTick))
	if err != nil {
		return 0, fmt.Errorf("tick: %w", err)
	}

	return resp.GetValue(), nil
}

// SetSkillLevel updates the skill level.
func (c *Client) SetSkillLevel(ctx context.Context, level int64) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.SetSkillLevel(callCtx, wrapperspb.Int64(level)); err != nil {
		return fmt.Errorf("set skill level: %w", err)
	}

	return nil
}

// GetStatus returns the scheduler snapshot.
func (c *Client) GetStatus(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetStatus(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return resp, nil
}

// WatchAlerts calls fn for every alert until ctx is done, the server ends
// the stream or the stream fails. The call timeout does not apply to the
// stream.
func (c *Client) WatchAlerts(ctx context.Context, fn func(alarm.Alert)) error {
	stream, err := c.api.WatchAlerts(ctx, new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("watch alerts: %w", err)
	}

	for {
		msg, err := stream.Recv()
		if err != nil {
			// The server ends the stream cleanly when it shuts down.
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("watch alerts: %w", err)
		}

		fn(burner.AlertFromStruct(msg))
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
