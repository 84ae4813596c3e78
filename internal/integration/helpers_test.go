package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/burner-alarm/internal/config"
	"github.com/oshokin/burner-alarm/internal/service/common"
	"github.com/oshokin/burner-alarm/internal/service/server"
)

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startServer runs the real server with a temporary config adjusted by
// mutate and returns its address. The server stops at test cleanup.
func startServer(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()

	addr, cancel, done := runServer(t, mutate)

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return addr
}

// runServer starts the real server and leaves stopping it to the caller:
// cancel stops it and done yields the error server.Run returned.
func runServer(t *testing.T, mutate func(*config.Config)) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	// Create cancellable context for server lifecycle.
	ctx, cancel := context.WithCancel(context.Background())

	cfg := config.Default()
	cfg.ServerAddress = reservePort(t)
	cfg.Timeout = 2 * time.Second
	cfg.Notifications.Log = false

	if mutate != nil {
		mutate(cfg)
	}

	// Create temporary configuration file.
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	ready := make(chan string, 1)
	done := make(chan error, 1)

	// Start server in background goroutine.
	go func() {
		done <- server.Run(ctx, &server.Options{
			ConfigPath:    cfgPath,
			ListenAddress: cfg.ServerAddress,
			Ready:         ready,
		})
	}()

	select {
	case addr := <-ready:
		return addr, cancel, done
	case err := <-done:
		cancel()
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}

	return "", cancel, done
}

// dial connects a client to addr.
func dial(t *testing.T, addr string) *common.Client {
	t.Helper()

	c, err := common.Dial(context.Background(), addr, common.WithCallTimeout(2*time.Second))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}
