package replay

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/metrics"
)

// forwarded collects alerts passed to a dispatcher.
type forwarded struct {
	// mu guards alerts.
	mu sync.Mutex
	// alerts are the received alerts.
	alerts []alarm.Alert
}

func (f *forwarded) Submit(_ context.Context, alert alarm.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.alerts = append(f.alerts, alert)
}

// run loads a testdata scenario and replays it.
func run(t *testing.T, name string, opts ...Option) *Result {
	t.Helper()

	s, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)

	result, err := Run(context.Background(), s, opts...)
	require.NoError(t, err)

	return result
}

// ticksOf returns the ticks of fired alerts of one kind.
func ticksOf(r *Result, kind alarm.AlertKind) []int64 {
	var ticks []int64

	for _, f := range r.Fired {
		if f.Alert.Kind == kind {
			ticks = append(ticks, f.Tick)
		}
	}

	return ticks
}

// TestScenarioA replays a single burner.
func TestScenarioA(t *testing.T) {
	t.Parallel()

	r := run(t, "scenario_a.yaml")

	require.Equal(t, []int64{183}, ticksOf(r, alarm.AlertPreWarning))
	require.Equal(t, []int64{200}, ticksOf(r, alarm.AlertTerminal))
	require.Empty(t, r.Status.Entities)
	require.Equal(t, "tick 183: "+r.Fired[0].Alert.String(), r.Fired[0].String())
}

// TestScenarioB replays two burners inside one cooldown window.
func TestScenarioB(t *testing.T) {
	t.Parallel()

	r := run(t, "scenario_b.yaml")

	require.Equal(t, []int64{200}, ticksOf(r, alarm.AlertTerminal))
	require.Equal(t, []int64{183}, ticksOf(r, alarm.AlertPreWarning))

	for _, alert := range r.Alerts() {
		require.Equal(t, alarm.EntityID("x"), alert.EntityID)
	}

	require.Empty(t, r.Status.Entities)
}

// TestScenarioC replays with pre-warnings off.
func TestScenarioC(t *testing.T) {
	t.Parallel()

	r := run(t, "scenario_c.yaml")

	require.Empty(t, ticksOf(r, alarm.AlertPreWarning))
	require.Equal(t, []int64{200, 250}, ticksOf(r, alarm.AlertTerminal))
}

// TestScenarioD replays an early end followed by a relight.
func TestScenarioD(t *testing.T) {
	t.Parallel()

	r := run(t, "scenario_d.yaml")

	require.Equal(t, []int64{483}, ticksOf(r, alarm.AlertPreWarning))
	require.Equal(t, []int64{500}, ticksOf(r, alarm.AlertTerminal))
}

// TestRun_ForwardsAndCounts checks the dispatcher and metrics options.
func TestRun_ForwardsAndCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink := new(forwarded)

	r := run(t, "scenario_a.yaml", WithDispatcher(sink), WithMetrics(metrics.New(reg)))

	require.Equal(t, r.Alerts(), sink.alerts)

	families, err := reg.Gather()
	require.NoError(t, err)

	var ticks float64

	for _, f := range families {
		if f.GetName() == "burner_alarm_ticks_total" {
			ticks = f.GetMetric()[0].GetCounter().GetValue()
		}
	}

	require.InDelta(t, 401, ticks, 0)
	evictions, err := testutil.GatherAndCount(reg, "burner_alarm_evictions_total")
	require.NoError(t, err)
	require.Equal(t, 1, evictions)
}

// TestRun_LevelAndReset checks skill changes and resets from the script.
func TestRun_LevelAndReset(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(`
ticks: 340
events:
  - {tick: 0, type: level, value: 50}
  - {tick: 0, type: start, entity: a}
  - {tick: 10, type: start, entity: b}
  - {tick: 100, type: reset}
  - {tick: 100, type: start, entity: b}
`))
	require.NoError(t, err)

	r, err := Run(context.Background(), s)
	require.NoError(t, err)

	// Only b survives the reset: pre-warning at 100 + 250 - 17, terminal
	// at 350 lies past the last tick.
	require.Equal(t, []int64{333}, ticksOf(r, alarm.AlertPreWarning))
	require.Empty(t, ticksOf(r, alarm.AlertTerminal))
	require.Len(t, r.Status.Entities, 1)
	require.Equal(t, int64(50), r.Status.SkillLevel)
}

// TestRun_WallClock checks readings advance by one tick length.
func TestRun_WallClock(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(`
ticks: 250
timing: {mode: wallclock}
alarm: {pre_warning_lead: 17}
events:
  - {tick: 0, type: start, entity: a}
`))
	require.NoError(t, err)

	r, err := Run(context.Background(), s)
	require.NoError(t, err)

	// 200 ticks of 600ms, lead of 17s: 103000ms falls inside tick 172.
	require.Equal(t, []int64{172}, ticksOf(r, alarm.AlertPreWarning))
	require.Equal(t, []int64{200}, ticksOf(r, alarm.AlertTerminal))
	require.Equal(t, alarm.Reading(120000), r.Fired[1].Alert.At)
}

// TestRun_Canceled checks a canceled context stops the replay.
func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte("ticks: 10\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
}

// TestParse_Errors checks scenario validation.
func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"ticks: 0\n": errNoTicks,
		"ticks: 5\nskill_level: -1\n":                             errNegativeLevel,
		"ticks: 5\ntiming: {gating: hybrid}\n":                    alarm.ErrUnknownGating,
		"ticks: 5\nevents: [{tick: 6, type: reset}]\n":            errEventOutOfRange,
		"ticks: 5\nevents: [{tick: 1, type: start}]\n":            errEntityRequired,
		"ticks: 5\nevents: [{tick: 1, type: level, value: -2}]\n": errNegativeLevel,
		"ticks: 5\nevents: [{tick: 1, type: explode}]\n":          errUnknownEvent,
	}

	for contents, want := range cases {
		_, err := Parse([]byte(contents))
		require.ErrorIs(t, err, want, contents)
	}

	_, err := Parse([]byte("ticks: [\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
}

// TestParse_OrdersEvents checks events are stable-sorted by tick.
func TestParse_OrdersEvents(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(`
ticks: 10
events:
  - {tick: 5, type: start, entity: b}
  - {tick: 1, type: start, entity: a}
  - {tick: 5, type: end, entity: b}
`))
	require.NoError(t, err)
	require.Equal(t, []EventType{EventStart, EventStart, EventEnd}, []EventType{
		s.Events[0].Type, s.Events[1].Type, s.Events[2].Type,
	})
	require.Equal(t, alarm.EntityID("a"), s.Events[0].Entity)
	require.True(t, s.Alarm.SendPreWarning)
}
