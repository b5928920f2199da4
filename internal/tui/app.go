package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jtsunne/opsdash/internal/chart"
	"github.com/jtsunne/opsdash/internal/model"
	"github.com/jtsunne/opsdash/internal/settings"
	"github.com/jtsunne/opsdash/internal/sim"
)

// flashDuration is how long a footer flash stays visible.
const flashDuration = 3 * time.Second

const maxRange = 10

type focusPanel int

const (
	focusNodes focusPanel = iota
	focusAlerts
)

// App is the root Bubble Tea model for opsdash. It is also the clock's
// EventSink; the clock only calls it from inside Update, through the
// Scheduler or a forwarded command message.
type App struct {
	clock  *sim.Clock
	sched  *Scheduler
	store  settings.Store // nil disables persistence
	logger *zap.Logger
	now    func() time.Time

	settings  settings.Settings
	theme     *chart.LiveTheme
	chartOpts []chart.Option

	// Dashboard state, fed by the sink methods.
	charts   map[string]*chart.Chart
	overview *Overview
	nodes    NodeTableModel
	alerts   AlertFeed
	sources  []model.TopSource
	stats    map[string]string
	values   map[string]float64
	series   map[string][]float64
	lastTick time.Time
	ticks    uint64
	pending  []tea.Cmd // list commands produced by sink calls

	// Layout
	width, height int

	// UI state
	focus        focusPanel
	rangeN       int
	showHelp     bool
	help         help.Model
	editing      bool
	settingsForm SettingsFormModel
	flash        string
	flashID      int
}

// Option configures an App.
type Option func(*App)

// WithStore persists appearance changes to st.
func WithStore(st settings.Store) Option {
	return func(a *App) { a.store = st }
}

// WithSettings sets the initial appearance settings.
func WithSettings(s settings.Settings) Option {
	return func(a *App) { a.settings = s }
}

// WithChartOptions passes renderer options to every chart.
func WithChartOptions(opts ...chart.Option) Option {
	return func(a *App) { a.chartOpts = opts }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l == nil {
			l = zap.NewNop()
		}
		a.logger = l.Named("tui")
	}
}

// WithNow overrides the wall clock used for alert ages.
func WithNow(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// NewApp creates the App, binds its charts to clock and subscribes it. The
// clock must have been built with sched as its scheduler.
func NewApp(clock *sim.Clock, sched *Scheduler, opts ...Option) *App {
	app := &App{
		clock:    clock,
		sched:    sched,
		logger:   zap.NewNop(),
		now:      time.Now,
		settings: settings.Default(),
		stats:    make(map[string]string),
		values:   make(map[string]float64),
		series:   make(map[string][]float64),
		rangeN:   1,
		help:     help.New(),
		nodes:    NewNodeTable(),
	}
	for _, o := range opts {
		o(app)
	}

	app.theme = chart.NewLiveTheme(app.settings.Accent)
	app.alerts = NewAlertFeed(app.settings.Accent, app.now)
	app.charts = newCharts(clock, app.theme, app.chartOpts)
	app.overview = NewOverview(clock.Window(), 76, 5)
	app.nodes.focused = true

	clock.Subscribe(app)
	clock.Publish()
	app.ObserveTick(clock.Snapshot())
	app.pending = nil
	return app
}

// Theme returns the live accent shared with the charts, e.g. for the HTTP
// chart endpoint.
func (app *App) Theme() *chart.LiveTheme { return app.theme }

// Init implements tea.Model. Starts the clock on the program loop.
func (app *App) Init() tea.Cmd {
	if err := app.clock.Start(); err != nil {
		app.logger.Error("clock start failed", zap.Error(err))
		return nil
	}
	return app.sched.cmd()
}

// Update implements tea.Model: the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := app.update(msg)
	if len(app.pending) > 0 {
		cmds := append(app.pending, cmd)
		app.pending = nil
		return app, tea.Batch(cmds...)
	}
	return app, cmd
}

func (app *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height
		app.layout()
		return nil

	case TickMsg:
		return app.sched.handle(msg)

	case SimulateMsg:
		return app.simulate()

	case BurstMsg:
		return app.burst(msg.N)

	case DismissMsg:
		app.clock.Dismiss(msg.ID)
		return nil

	case SettingsSavedMsg:
		if msg.Err != nil {
			app.logger.Error("save settings failed", zap.Error(msg.Err))
			return app.setFlash("Save failed: " + msg.Err.Error())
		}
		return app.setFlash("Settings saved")

	case flashExpiredMsg:
		if msg.id == app.flashID {
			app.flash = ""
		}
		return nil

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	// Anything else (cursor blink, list filter results) goes to the widgets.
	if app.editing {
		var cmd tea.Cmd
		app.settingsForm, cmd = app.settingsForm.Update(msg)
		return cmd
	}
	var alertsCmd, nodesCmd tea.Cmd
	app.alerts, alertsCmd = app.alerts.Update(msg)
	if app.nodes.searching {
		app.nodes.input, nodesCmd = app.nodes.input.Update(msg)
	}
	return tea.Batch(alertsCmd, nodesCmd)
}

func (app *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return app.quit()
	}

	if app.editing {
		return app.updateSettingsForm(msg)
	}

	// A focused text prompt owns the keyboard.
	if app.alerts.Filtering() || app.nodes.searching {
		return app.forward(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app.quit()
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
	case key.Matches(msg, keys.Tab):
		app.toggleFocus()
	case key.Matches(msg, keys.Simulate):
		return app.simulate()
	case key.Matches(msg, keys.RangeUp):
		app.rangeN = min(app.rangeN+1, maxRange)
		return app.burst(app.rangeN)
	case key.Matches(msg, keys.RangeDown):
		app.rangeN = max(app.rangeN-1, 1)
		return app.burst(app.rangeN)
	case key.Matches(msg, keys.Theme):
		app.settings.Accent = app.settings.NextAccent()
		app.applyAccent()
		return tea.Batch(app.save(), app.setFlash("Accent "+app.settings.Accent))
	case key.Matches(msg, keys.Compact):
		app.settings.Compact = !app.settings.Compact
		app.layout()
		return app.save()
	case key.Matches(msg, keys.Settings):
		app.editing = true
		app.settingsForm = buildSettingsForm(app.settings)
		return nil
	case key.Matches(msg, keys.Dismiss) && app.focus == focusAlerts:
		if a, ok := app.alerts.Selected(); ok {
			app.clock.Dismiss(a.ID)
			return app.setFlash(fmt.Sprintf("Dismissed alert #%d", a.ID))
		}
	default:
		return app.forward(msg)
	}
	return nil
}

// forward hands msg to the focused panel.
func (app *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch app.focus {
	case focusAlerts:
		app.alerts, cmd = app.alerts.Update(msg)
	default:
		app.nodes, cmd = app.nodes.Update(msg)
	}
	return cmd
}

func (app *App) toggleFocus() {
	if app.focus == focusNodes {
		app.focus = focusAlerts
	} else {
		app.focus = focusNodes
	}
	app.nodes.focused = app.focus == focusNodes
}

func (app *App) updateSettingsForm(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	app.settingsForm, cmd = app.settingsForm.Update(msg)

	switch {
	case app.settingsForm.cancelled:
		app.editing = false
		app.settingsForm = SettingsFormModel{}
		return nil
	case app.settingsForm.submitted:
		s, err := app.settingsForm.values()
		app.editing = false
		app.settingsForm = SettingsFormModel{}
		if err != nil {
			return app.setFlash("Invalid settings: " + err.Error())
		}
		app.settings = s
		app.applyAccent()
		return app.save()
	}
	return cmd
}

func (app *App) quit() tea.Cmd {
	app.clock.Stop()
	return tea.Quit
}

func (app *App) simulate() tea.Cmd {
	a := app.clock.Simulate()
	return app.setFlash(fmt.Sprintf("Raised alert #%d", a.ID))
}

func (app *App) burst(n int) tea.Cmd {
	pushed := app.clock.Burst(n)
	snap := app.clock.Snapshot()
	app.series = snap.Series
	return app.setFlash(fmt.Sprintf("Range %d: burst of %d points", n, pushed))
}

// applyAccent pushes the current accent into the charts and the alert feed.
func (app *App) applyAccent() {
	app.theme.Set(app.settings.Accent)
	app.alerts.SetAccent(app.settings.Accent)
	for _, c := range app.charts {
		c.Redraw()
	}
}

// save persists the current settings asynchronously.
func (app *App) save() tea.Cmd {
	if app.store == nil {
		return nil
	}
	return settingsSaveCmd(app.store, app.settings)
}

func (app *App) setFlash(text string) tea.Cmd {
	app.flashID++
	app.flash = text
	id := app.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

// layout resizes every drawn widget to the terminal size.
func (app *App) layout() {
	width := app.width
	if width <= 0 {
		width = 80
	}
	cols, rows := chartSize(width, app.settings.Compact)
	for _, c := range app.charts {
		c.Resize(cols, rows)
	}
	app.overview.Resize(width-4, 5)

	alertRows := 12
	if app.settings.Compact {
		alertRows = 8
	}
	app.alerts.SetSize(width/2-2, alertRows)
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	header := renderHeader(app)
	footer := renderFooter(app)

	if app.editing {
		return lipgloss.JoinVertical(lipgloss.Left, header, renderSettingsForm(app), footer)
	}

	width := app.width
	if width <= 0 {
		width = 80
	}
	half := width / 2

	parts := []string{header, renderStatsRow(app), renderChartsRow(app)}
	if !app.settings.Compact {
		parts = append(parts, StyleCard.Width(width-2).Render(app.overview.View()))
	}

	nodesCard, alertsCard := StyleCard, StyleCard
	if app.focus == focusNodes {
		nodesCard = StyleFocusedCard(app.settings.Accent)
	} else {
		alertsCard = StyleFocusedCard(app.settings.Accent)
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
		nodesCard.Width(half-2).Render(app.nodes.View(half-4)),
		alertsCard.Width(width-half-2).Render(app.alerts.View()),
	))

	if !app.settings.Compact {
		parts = append(parts, StyleCard.Width(width-2).Render(
			renderSources(app.sources, width-4, app.settings.Accent)))
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderNodes implements sim.EventSink.
func (app *App) RenderNodes(nodes []model.Node) {
	app.nodes.SetData(nodes)
}

// RenderAlerts implements sim.EventSink.
func (app *App) RenderAlerts(alerts []model.Alert) {
	if cmd := app.alerts.SetAlerts(alerts); cmd != nil {
		app.pending = append(app.pending, cmd)
	}
}

// RenderTopSources implements sim.EventSink.
func (app *App) RenderTopSources(sources []model.TopSource) {
	app.sources = sources
}

// UpdateStat implements sim.EventSink.
func (app *App) UpdateStat(name, text string) {
	app.stats[name] = text
}

// ObserveTick implements sim.TickObserver.
func (app *App) ObserveTick(snap sim.Snapshot) {
	app.series = snap.Series
	app.values = snap.Values
	app.ticks = snap.Tick
	if !snap.Time.IsZero() {
		app.lastTick = snap.Time
	}
	app.overview.Update(snap.Series)
}
