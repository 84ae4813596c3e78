package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	api "github.com/oshokin/burner-alarm/internal/api/grpc/burner"
	"github.com/oshokin/burner-alarm/internal/clock"
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

// startServer serves a tick-mode scheduler on a loopback port.
func startServer(t *testing.T, hub *api.Hub) (string, *scheduler.Scheduler) {
	t.Helper()

	skill := clock.NewSkillLevel(0)

	sched, err := scheduler.New(clock.NewTickCounter(), skill, alarm.DefaultTiming(), alarm.DefaultSettings())
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	g := grpc.NewServer()
	api.NewServer(sched, skill, hub).Register(g)

	go func() {
		_ = g.Serve(lis)
	}()

	t.Cleanup(g.Stop)

	return lis.Addr().String(), sched
}

// runCommand runs one ctl command and returns its output.
func runCommand(t *testing.T, addr string, opts Options) (string, error) {
	t.Helper()

	var out bytes.Buffer

	opts.ServerAddress = addr
	opts.ConfigPath = filepath.Join(t.TempDir(), "missing.yaml")
	opts.Output = &out

	err := Run(context.Background(), &opts)

	return out.String(), err
}

// TestRun_Commands exercises every unary command.
func TestRun_Commands(t *testing.T) {
	t.Parallel()

	addr, sched := startServer(t, nil)

	out, err := runCommand(t, addr, Options{Command: CommandStart, Entity: "x"})
	require.NoError(t, err)
	require.Equal(t, "tracking x\n", out)

	out, err = runCommand(t, addr, Options{Command: CommandLevel, Value: 30})
	require.NoError(t, err)
	require.Equal(t, "skill level: 30\n", out)

	out, err = runCommand(t, addr, Options{Command: CommandTick, Value: 213})
	require.NoError(t, err)
	require.Equal(t, "alerts fired: 1\n", out)

	out, err = runCommand(t, addr, Options{Command: CommandStatus})
	require.NoError(t, err)

	var st struct {
		TerminalThreshold float64 `json:"terminal_threshold"`
		Entities          []struct {
			Entity string `json:"entity"`
		} `json:"entities"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.InDelta(t, 230, st.TerminalThreshold, 0)
	require.Len(t, st.Entities, 1)
	require.Equal(t, "x", st.Entities[0].Entity)

	out, err = runCommand(t, addr, Options{Command: CommandEnd, Entity: "x"})
	require.NoError(t, err)
	require.Equal(t, "removed x: true\n", out)

	out, err = runCommand(t, addr, Options{Command: CommandEnd, Entity: "x"})
	require.NoError(t, err)
	require.Equal(t, "removed x: false\n", out)

	sched.OnStart(context.Background(), "y")

	out, err = runCommand(t, addr, Options{Command: CommandReset, Reason: "left area"})
	require.NoError(t, err)
	require.Equal(t, "reset\n", out)
	require.Empty(t, sched.Status().Entities)

	_, err = runCommand(t, addr, Options{Command: CommandStart})
	require.Error(t, err)

	_, err = runCommand(t, addr, Options{Command: "explode"})
	require.ErrorIs(t, err, errUnknownCommand)
}

// lineWriter hands each write to a channel.
type lineWriter struct {
	// ch carries written lines.
	ch chan string
}

func (b *lineWriter) Write(p []byte) (int, error) {
	b.ch <- string(p)

	return len(p), nil
}

// TestRun_Watch prints delivered alerts and stops on cancel.
func TestRun_Watch(t *testing.T) {
	t.Parallel()

	hub := api.NewHub(0)
	addr, _ := startServer(t, hub)

	out := &lineWriter{ch: make(chan string, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			ConfigPath:    filepath.Join(t.TempDir(), "missing.yaml"),
			ServerAddress: addr,
			Command:       CommandWatch,
			Output:        out,
		})
	}()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	alert := alarm.Alert{Kind: alarm.AlertTerminal, EntityID: "x", At: 200, Volume: -20}
	require.NoError(t, hub.Observe(context.Background(), alert))

	select {
	case line := <-out.ch:
		require.Equal(t, alert.String(), strings.TrimSpace(line))
	case <-time.After(5 * time.Second):
		t.Fatal("alert not printed")
	}

	cancel()
	require.NoError(t, <-done)
}

// TestRun_WatchDisabled returns the server's refusal instead of retrying.
func TestRun_WatchDisabled(t *testing.T) {
	t.Parallel()

	addr, _ := startServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Run(ctx, &Options{
		ConfigPath:    filepath.Join(t.TempDir(), "missing.yaml"),
		ServerAddress: addr,
		Command:       CommandWatch,
		Output:        new(bytes.Buffer),
	})
	require.Error(t, err)
	require.NoError(t, ctx.Err())
}
