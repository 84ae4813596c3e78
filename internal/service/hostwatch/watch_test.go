package hostwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

var errScan = errors.New("scan failed")

// fakeProcess implements ps.Process.
type fakeProcess struct {
	// name is the executable name.
	name string
}

func (p fakeProcess) Pid() int           { return 1 }
func (p fakeProcess) PPid() int          { return 0 }
func (p fakeProcess) Executable() string { return p.name }

// table is a mutable fake process table.
type table struct {
	// mu guards the fields below.
	mu sync.Mutex
	// names are the running executables.
	names []string
	// err is returned instead of the table when set.
	err error
}

func (t *table) set(err error, names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.names, t.err = names, err
}

func (t *table) list() ([]ps.Process, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil {
		return nil, t.err
	}

	out := make([]ps.Process, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, fakeProcess{name: name})
	}

	return out, nil
}

// resets counts reset calls.
type resets struct {
	// mu guards reasons.
	mu sync.Mutex
	// reasons are the received reasons.
	reasons []string
}

func (r *resets) OnReset(_ context.Context, _ scheduler.ResetSource, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reasons = append(r.reasons, reason)
}

func (r *resets) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.reasons)
}

func (r *resets) first() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.reasons[0]
}

// TestRun_ResetsOnExit checks only a running-to-gone transition resets.
func TestRun_ResetsOnExit(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		procs := new(table)
		procs.set(nil, "init", "RuneLite.exe")

		r := new(resets)
		done := make(chan error, 1)

		go func() {
			done <- Run(ctx, r, &Options{Process: "runelite", Interval: time.Second, List: procs.list})
		}()

		// Still running.
		time.Sleep(1500 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 0, r.count())

		// Scan failures are skipped without a reset.
		procs.set(errScan)
		time.Sleep(time.Second)
		synctest.Wait()
		require.Equal(t, 0, r.count())

		procs.set(nil, "init")
		time.Sleep(time.Second)
		synctest.Wait()
		require.Equal(t, 1, r.count())

		// Staying gone does not reset again.
		time.Sleep(3 * time.Second)
		synctest.Wait()
		require.Equal(t, 1, r.count())

		// Restart then exit again.
		procs.set(nil, "runelite")
		time.Sleep(time.Second)
		procs.set(nil)
		time.Sleep(time.Second)
		synctest.Wait()
		require.Equal(t, 2, r.count())
		require.Equal(t, ResetReason, r.first())

		cancel()
		require.NoError(t, <-done)
	})
}

// TestRun_RequiresProcess checks an empty name is rejected.
func TestRun_RequiresProcess(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), new(resets), new(Options))
	require.ErrorIs(t, err, errProcessRequired)
}

// TestMatches checks case and suffix handling.
func TestMatches(t *testing.T) {
	t.Parallel()

	require.True(t, matches("RuneLite.exe", "runelite"))
	require.True(t, matches("runelite", "RuneLite.exe"))
	require.False(t, matches("runelite-launcher", "runelite"))
}
