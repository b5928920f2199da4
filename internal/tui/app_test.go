package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtsunne/opsdash/internal/model"
	"github.com/jtsunne/opsdash/internal/settings"
	"github.com/jtsunne/opsdash/internal/sim"
)

// fixedRand always draws the same value; 0 makes every random trial fire,
// 0.99 makes none fire.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, rnd sim.Rand, opts ...Option) (*App, *sim.Clock) {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.Prefill = 0
	sched := NewScheduler()
	clock := sim.NewClock(cfg,
		sim.WithRand(rnd),
		sim.WithScheduler(sched),
		sim.WithNow(func() time.Time { return fixedNow }),
		sim.WithLogger(nil),
	)
	opts = append([]Option{WithLogger(nil), WithNow(func() time.Time { return fixedNow })}, opts...)
	app := NewApp(clock, sched, opts...)
	t.Cleanup(clock.Stop)
	return app, clock
}

// fireTick delivers the scheduler's pending tick to the app.
func fireTick(t *testing.T, app *App) tea.Cmd {
	t.Helper()
	gen, live := app.sched.live()
	require.True(t, live, "clock is not scheduled")
	_, cmd := app.Update(TickMsg{Time: fixedNow, gen: gen})
	return cmd
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func TestNewApp_PublishesInitialState(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0.99))

	assert.Len(t, app.nodes.allRows, 6)
	assert.Len(t, app.sources, 6)
	assert.Equal(t, 0, app.alerts.Len())
	assert.Equal(t, "20.0%", app.stats[sim.MetricCPU])
	assert.Equal(t, 20.0, app.values[sim.MetricCPU])
	assert.Equal(t, sim.StatusIdle, clock.Status())
	assert.Nil(t, app.pending)
}

func TestApp_InitStartsClock(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0.99))
	cmd := app.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, sim.StatusRunning, clock.Status())

	// a second Init cannot restart the clock
	assert.Nil(t, app.Init())
}

func TestApp_TickAdvancesDashboard(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0))
	app.Init()

	cmd := fireTick(t, app)
	assert.NotNil(t, cmd, "tick re-arms the schedule")

	assert.Equal(t, "160.0 req/s", app.stats[sim.MetricThroughput])
	assert.Equal(t, "230.0 Mbps", app.stats[sim.MetricTraffic])
	assert.Equal(t, []float64{160}, app.charts[sim.MetricThroughput].Values())
	assert.Equal(t, []float64{230}, app.series[sim.MetricTraffic])
	assert.Equal(t, fixedNow, app.lastTick)
	assert.Equal(t, uint64(1), app.ticks)
	assert.Contains(t, stripANSI(renderHeader(app)), "#1  Last:")

	assert.Equal(t, 1, app.alerts.Len())
	a, ok := app.alerts.Selected()
	require.True(t, ok)
	assert.Equal(t, model.LevelWarning, a.Level)
	assert.Equal(t, "Traffic spike detected: 230.0 Mbps", a.Text)

	assert.Len(t, app.nodes.allRows, 7)
	assert.Equal(t, uint64(1), clock.Snapshot().Tick)
}

func TestApp_StaleTickIgnored(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0))
	app.Init()
	gen, _ := app.sched.live()

	_, cmd := app.Update(TickMsg{Time: fixedNow, gen: gen + 1})
	assert.Nil(t, cmd)
	assert.Equal(t, uint64(0), clock.Snapshot().Tick)
}

func TestApp_QuitStopsClock(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0.99))
	app.Init()
	gen, _ := app.sched.live()

	cmd := press(app, runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, sim.StatusStopped, clock.Status())

	// a tick already in flight is dropped after stop
	app.Update(TickMsg{Time: fixedNow, gen: gen})
	assert.Equal(t, uint64(0), clock.Snapshot().Tick)
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_SimulateKey(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))

	press(app, runeKey("s"))
	require.Equal(t, 1, app.alerts.Len())
	a, _ := app.alerts.Selected()
	assert.Equal(t, model.LevelCritical, a.Level)
	assert.True(t, strings.HasPrefix(a.Text, "Simulated outage on node-"))
	assert.Equal(t, "Raised alert #1", app.flash)
}

func TestApp_RangeKeysBurstTraffic(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))

	press(app, runeKey("+"))
	assert.Equal(t, 2, app.rangeN)
	assert.Len(t, app.charts[sim.MetricTraffic].Values(), 12)
	assert.Len(t, app.series[sim.MetricTraffic], 12)
	assert.Equal(t, "Range 2: burst of 12 points", app.flash)

	press(app, runeKey("-"))
	press(app, runeKey("-"))
	assert.Equal(t, 1, app.rangeN, "range bottoms out at 1")
	assert.Len(t, app.charts[sim.MetricTraffic].Values(), 12+6+6)

	for i := 0; i < 15; i++ {
		press(app, runeKey("+"))
	}
	assert.Equal(t, maxRange, app.rangeN)
	assert.Len(t, app.charts[sim.MetricTraffic].Values(), app.clock.Window(), "window stays bounded")
}

func TestApp_ThemeKeyCyclesAccent(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	require.Equal(t, settings.DefaultAccent, app.theme.Accent())

	press(app, runeKey("t"))
	assert.Equal(t, settings.Palette[1], app.settings.Accent)
	assert.Equal(t, settings.Palette[1], app.theme.Accent())
}

func TestApp_CompactHidesOverviewAndSources(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	out := stripANSI(app.View())
	assert.Contains(t, out, "Top Sources")
	assert.Contains(t, out, "Resources")

	press(app, runeKey("c"))
	assert.True(t, app.settings.Compact)
	out = stripANSI(app.View())
	assert.NotContains(t, out, "Top Sources")
	assert.NotContains(t, out, "Resources")

	cols, rows := chartSize(120, true)
	lines := strings.Split(app.charts[sim.MetricThroughput].View(), "\n")
	assert.Len(t, lines, rows)
	assert.Equal(t, cols, lipgloss.Width(lines[0]))
}

func TestApp_ViewSections(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99), WithSettings(settings.Settings{
		Accent: settings.DefaultAccent, DisplayName: "prod-east",
	}))
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	out := stripANSI(app.View())
	for _, want := range []string{"prod-east", "IDLE", "Throughput", "Traffic", "CPU", "Memory", "Latency", "Nodes (6)", "Alerts (0)", "10.0.4.17"} {
		assert.Contains(t, out, want)
	}
}

func TestApp_DismissSelectedAlert(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0.99))
	press(app, runeKey("s"))
	press(app, runeKey("s"))
	require.Equal(t, 2, app.alerts.Len())

	// x only acts on the alerts panel
	press(app, runeKey("x"))
	assert.Equal(t, 2, app.alerts.Len())

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusAlerts, app.focus)
	press(app, runeKey("x"))

	// the selection follows alert #1 as newer alerts are prepended
	alerts := clock.Snapshot().Alerts
	require.Len(t, alerts, 1)
	assert.Equal(t, uint64(2), alerts[0].ID)
	assert.Equal(t, 1, app.alerts.Len())
	assert.Equal(t, "Dismissed alert #1", app.flash)

	sel, ok := app.alerts.Selected()
	require.True(t, ok)
	assert.Equal(t, uint64(2), sel.ID)
}

func TestApp_FilterPromptSuppressesGlobalKeys(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0.99))
	press(app, runeKey("s"))
	press(app, tea.KeyMsg{Type: tea.KeyTab})
	press(app, runeKey("/"))
	require.True(t, app.alerts.Filtering())

	press(app, runeKey("s"))
	press(app, runeKey("q"))
	assert.Len(t, clock.Snapshot().Alerts, 1)
	assert.NotEqual(t, sim.StatusStopped, clock.Status())
}

func TestApp_ForwardedProgramMessages(t *testing.T) {
	app, clock := newTestApp(t, fixedRand(0.99))

	app.Update(SimulateMsg{})
	require.Len(t, clock.Snapshot().Alerts, 1)

	app.Update(BurstMsg{N: 3})
	assert.Len(t, app.charts[sim.MetricTraffic].Values(), 18)

	app.Update(DismissMsg{ID: 1})
	assert.Empty(t, clock.Snapshot().Alerts)
	assert.Equal(t, 0, app.alerts.Len())
}

func TestApp_SettingsFormSaves(t *testing.T) {
	st := &memStore{}
	app, _ := newTestApp(t, fixedRand(0.99), WithStore(st))

	press(app, runeKey("e"))
	require.True(t, app.editing)
	assert.Contains(t, stripANSI(app.View()), "Edit Settings")

	app.settingsForm.fields[fieldAccent].input.SetValue("#EF4444")
	app.settingsForm.fields[fieldDisplayName].input.SetValue("lab")
	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.False(t, app.editing)
	assert.Equal(t, "#ef4444", app.settings.Accent)
	assert.Equal(t, "#ef4444", app.theme.Accent())

	msg := cmd()
	app.Update(msg)
	require.Len(t, st.saved, 1)
	assert.Equal(t, "lab", st.saved[0].DisplayName)
	assert.Equal(t, "Settings saved", app.flash)
}

func TestApp_SettingsFormEscDiscards(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	press(app, runeKey("e"))
	app.settingsForm.fields[fieldAccent].input.SetValue("#ef4444")
	press(app, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, app.editing)
	assert.Equal(t, settings.DefaultAccent, app.settings.Accent)
}

func TestApp_SaveErrorFlashes(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	app.Update(SettingsSavedMsg{Err: errors.New("redis down")})
	assert.Equal(t, "Save failed: redis down", app.flash)
	assert.Contains(t, stripANSI(renderFooter(app)), "Save failed")
}

func TestApp_FlashExpiry(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	app.setFlash("first")
	app.setFlash("second")

	app.Update(flashExpiredMsg{id: app.flashID - 1})
	assert.Equal(t, "second", app.flash, "stale expiry keeps the newer flash")

	app.Update(flashExpiredMsg{id: app.flashID})
	assert.Empty(t, app.flash)
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t, fixedRand(0.99))
	press(app, runeKey("?"))
	assert.True(t, app.showHelp)
	assert.Contains(t, stripANSI(renderFooter(app)), "cycle accent")
	press(app, runeKey("?"))
	assert.False(t, app.showHelp)
}

// stripANSI removes ANSI escape sequences for plain-text content assertions.
// Handles all CSI sequences (not just SGR m-terminated ones).
func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			// CSI final bytes are in range 0x40–0x7E (@, A-Z, [, \, ], ^, _, `, a-z, {, |, }, ~)
			if r >= 0x40 && r <= 0x7E && r != '[' {
				inEscape = false
			}
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
