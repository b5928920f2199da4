package sim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jtsunne/opsdash/internal/model"
)

// Status is the lifecycle state of a Clock.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	// ErrClockRunning is returned by Start on a clock that is already running.
	ErrClockRunning = errors.New("clock already running")
	// ErrClockStopped is returned by Start after Stop; a clock runs once.
	ErrClockStopped = errors.New("clock stopped")
)

const (
	defaultInterval = 1500 * time.Millisecond
	defaultWindow   = 60

	maxBurstPoints = 60
)

// Config tunes a Clock.
type Config struct {
	Interval time.Duration
	Window   int

	// Per-tick probabilities of the independent side-event trials.
	AlertProbability   float64
	NodeProbability    float64
	SourcesProbability float64

	// MaxAlerts caps the alert feed; 0 keeps every alert.
	MaxAlerts int

	Metrics []Metric
	Sources []model.TopSource

	// Prefill pushes this many walk steps into every plot at construction.
	Prefill int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Interval:           defaultInterval,
		Window:             defaultWindow,
		AlertProbability:   0.03,
		NodeProbability:    0.02,
		SourcesProbability: 0.12,
		Metrics:            DefaultMetrics(),
		Sources:            defaultSources(),
		Prefill:            defaultWindow / 2,
	}
}

// Clock is the fixed-period driver of the simulation. Every mutation of
// the State goes through a Clock method holding mu, so ticks never overlap
// with each other or with manual triggers.
type Clock struct {
	mu sync.Mutex

	cfg    Config
	state  *State
	rnd    Rand
	now    func() time.Time
	sched  Scheduler
	logger *zap.Logger

	sinks  []EventSink
	status Status
	cancel func()

	lastTick time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithRand injects the randomness source.
func WithRand(r Rand) Option {
	return func(c *Clock) { c.rnd = r }
}

// WithNow injects the wall clock used for timestamps.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// WithScheduler replaces the default TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Clock) { c.sched = s }
}

// WithSink subscribes a sink at construction.
func WithSink(s EventSink) Option {
	return func(c *Clock) { c.sinks = append(c.sinks, s) }
}

// WithLogger sets the logger; nil discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *Clock) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l.Named("clock")
	}
}

// NewClock builds an idle Clock.
func NewClock(cfg Config, opts ...Option) *Clock {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if len(cfg.Metrics) == 0 {
		cfg.Metrics = DefaultMetrics()
	}
	if cfg.Sources == nil {
		cfg.Sources = defaultSources()
	}

	c := &Clock{
		cfg:    cfg,
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		now:    time.Now,
		sched:  TickerScheduler{},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}

	c.state = NewState(cfg.Metrics, cfg.Window)
	c.state.maxAlerts = cfg.MaxAlerts
	c.state.seedNodes()
	c.state.SetSources(cfg.Sources)
	for i := 0; i < cfg.Prefill; i++ {
		for _, m := range c.state.metrics {
			c.state.plots[m.Name].Push(m.Step(c.rnd))
		}
	}
	return c
}

// Interval returns the tick period.
func (c *Clock) Interval() time.Duration { return c.cfg.Interval }

// Window returns the rolling-window capacity of every plot.
func (c *Clock) Window() int { return c.cfg.Window }

// Status returns the lifecycle state.
func (c *Clock) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Subscribe adds a sink. It does not replay the current state; call Publish.
func (c *Clock) Subscribe(s EventSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
}

// Bind replaces the plot of a metric, e.g. with a chart that redraws on
// push. Buffered samples are carried over.
func (c *Clock) Bind(metric string, p Plot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Bind(metric, p)
}

// Start registers the periodic tick with the scheduler.
func (c *Clock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.status {
	case StatusRunning:
		return ErrClockRunning
	case StatusStopped:
		return ErrClockStopped
	}
	c.status = StatusRunning
	c.cancel = c.sched.Every(c.cfg.Interval, c.scheduledTick)
	c.logger.Info("started", zap.Duration("interval", c.cfg.Interval))
	return nil
}

// Stop cancels the periodic tick. When Stop returns no further tick runs.
// Stopping twice, or stopping an idle clock, is allowed.
func (c *Clock) Stop() {
	c.mu.Lock()
	if c.status == StatusStopped {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.cancel = nil
	c.status = StatusStopped
	ticks := c.state.Ticks()
	c.mu.Unlock()

	// cancel may wait for an in-flight tick, which needs mu
	if cancel != nil {
		cancel()
	}
	c.logger.Info("stopped", zap.Uint64("ticks", ticks))
}

func (c *Clock) scheduledTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusRunning {
		return
	}
	c.tickLocked()
}

// Tick runs one simulation step immediately, regardless of status.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickLocked()
}

func (c *Clock) tickLocked() {
	s := c.state
	s.ticks++
	c.lastTick = c.now()

	for _, m := range s.metrics {
		s.plots[m.Name].Push(m.Step(c.rnd))
	}
	for _, m := range s.metrics {
		text := m.Format()
		for _, sink := range c.sinks {
			sink.UpdateStat(m.Name, text)
		}
	}

	// Independent trials: each is rolled whatever the others yield.
	if c.rnd.Float64() < c.cfg.AlertProbability {
		c.randomAlertLocked()
	}
	if c.rnd.Float64() < c.cfg.NodeProbability {
		n := s.AddNode(model.StatusOK, int(uniform(c.rnd, 10, 40)))
		c.logger.Info("node joined",
			zap.String("node", n.Name),
			zap.Int("load", n.Load),
			zap.Uint64("tick", s.Ticks()),
		)
	}
	if c.rnd.Float64() < c.cfg.SourcesProbability {
		s.PerturbSources(c.rnd)
	}

	c.publishLocked()

	var snap *Snapshot
	for _, sink := range c.sinks {
		if obs, ok := sink.(TickObserver); ok {
			if snap == nil {
				v := c.snapshotLocked()
				snap = &v
			}
			obs.ObserveTick(*snap)
		}
	}
}

func (c *Clock) randomAlertLocked() {
	a := model.Alert{Time: c.now()}
	if c.rnd.Float64() < 0.5 {
		a.Level = model.LevelWarning
		traffic, _ := c.state.Metric(MetricTraffic)
		if traffic != nil {
			a.Text = "Traffic spike detected: " + traffic.Format()
		} else {
			a.Text = "Traffic spike detected"
		}
	} else {
		a.Level = model.LevelInfo
		a.Text = c.randomNodeNameLocked() + " reported a configuration reload"
	}
	a = c.state.PrependAlert(a)
	c.logAlert(a)
}

func (c *Clock) logAlert(a model.Alert) {
	c.logger.Info("alert raised",
		zap.Uint64("id", a.ID),
		zap.String("level", string(a.Level)),
		zap.String("text", a.Text),
		zap.Uint64("tick", c.state.Ticks()),
	)
}

func (c *Clock) randomNodeNameLocked() string {
	nodes := c.state.nodes
	if len(nodes) == 0 {
		return fmt.Sprintf("node-%02d", pick(c.rnd, 16)+1)
	}
	return nodes[pick(c.rnd, len(nodes))].Name
}

// Simulate prepends one critical alert stamped now. It works whether or not
// the clock is running.
func (c *Clock) Simulate() model.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := c.state.PrependAlert(model.Alert{
		Level: model.LevelCritical,
		Text:  "Simulated outage on " + c.randomNodeNameLocked(),
		Time:  c.now(),
	})
	c.logAlert(a)
	alerts := c.state.Alerts()
	for _, sink := range c.sinks {
		sink.RenderAlerts(alerts)
	}
	return a
}

// Burst pushes min(60, rangeN·6) values drawn from [100, 100+rangeN·4) into
// the traffic plot. The traffic walk state is left untouched. It returns the
// number of injected points.
func (c *Clock) Burst(rangeN int) int {
	if rangeN <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	plot := c.state.Plot(MetricTraffic)
	if plot == nil {
		return 0
	}
	n := min(maxBurstPoints, rangeN*6)
	hi := 100 + float64(rangeN*4)
	for i := 0; i < n; i++ {
		plot.Push(uniform(c.rnd, 100, hi))
	}
	return n
}

// Dismiss removes one alert by id and re-renders the feed.
func (c *Clock) Dismiss(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.DismissAlert(id) {
		return false
	}
	alerts := c.state.Alerts()
	for _, sink := range c.sinks {
		sink.RenderAlerts(alerts)
	}
	return true
}

// Publish sends the current nodes, alerts, sources and stats to every sink.
func (c *Clock) Publish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.state.metrics {
		text := m.Format()
		for _, sink := range c.sinks {
			sink.UpdateStat(m.Name, text)
		}
	}
	c.publishLocked()
}

func (c *Clock) publishLocked() {
	nodes := c.state.Nodes()
	alerts := c.state.Alerts()
	sources := c.state.Sources()
	for _, sink := range c.sinks {
		sink.RenderNodes(nodes)
		sink.RenderAlerts(alerts)
		sink.RenderTopSources(sources)
	}
}

// Snapshot copies the current state.
func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Clock) snapshotLocked() Snapshot {
	s := c.state
	snap := Snapshot{
		Tick:    s.Ticks(),
		Time:    c.lastTick,
		Status:  c.status.String(),
		Window:  s.window,
		Series:  make(map[string][]float64, len(s.metrics)),
		Values:  make(map[string]float64, len(s.metrics)),
		Stats:   make(map[string]string, len(s.metrics)),
		Alerts:  s.Alerts(),
		Nodes:   s.Nodes(),
		Sources: s.Sources(),
	}
	for _, m := range s.metrics {
		snap.Series[m.Name] = s.plots[m.Name].Values()
		snap.Values[m.Name] = m.Previous
		snap.Stats[m.Name] = m.Format()
	}
	return snap
}
