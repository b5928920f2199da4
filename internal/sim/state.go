package sim

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jtsunne/opsdash/internal/model"
)

// Plot receives the samples of one metric. *model.Series satisfies it; a
// chart.Chart does too and redraws on every push.
type Plot interface {
	Push(v float64)
	Clear()
	Values() []float64
}

// State is the single owned bag of simulation data. It is not safe for
// concurrent use; the Clock serializes access.
type State struct {
	metrics []*Metric
	plots   map[string]Plot
	window  int

	alerts    []model.Alert
	nextAlert uint64
	maxAlerts int // 0 keeps every alert

	nodes   []model.Node
	sources []model.TopSource

	ticks uint64
}

// NewState builds a State with one Series of the given window per metric.
func NewState(metrics []Metric, window int) *State {
	s := &State{
		plots:  make(map[string]Plot, len(metrics)),
		window: window,
	}
	for i := range metrics {
		m := metrics[i]
		s.metrics = append(s.metrics, &m)
		s.plots[m.Name] = model.NewSeries(window)
	}
	return s
}

// Window returns the configured rolling-window capacity.
func (s *State) Window() int { return s.window }

// Ticks returns the number of completed ticks.
func (s *State) Ticks() uint64 { return s.ticks }

// Metric returns the named metric.
func (s *State) Metric(name string) (*Metric, bool) {
	for _, m := range s.metrics {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Plot returns the plot bound to the named metric, or nil.
func (s *State) Plot(name string) Plot {
	return s.plots[name]
}

// Bind replaces the plot of a metric, carrying over the samples buffered
// so far.
func (s *State) Bind(name string, p Plot) {
	if old, ok := s.plots[name]; ok && old != nil {
		for _, v := range old.Values() {
			p.Push(v)
		}
	}
	s.plots[name] = p
}

// Alerts returns a copy of the alert feed, newest first.
func (s *State) Alerts() []model.Alert {
	return append([]model.Alert(nil), s.alerts...)
}

// PrependAlert records a new alert at the head of the feed.
func (s *State) PrependAlert(a model.Alert) model.Alert {
	s.nextAlert++
	a.ID = s.nextAlert
	s.alerts = append([]model.Alert{a}, s.alerts...)
	if s.maxAlerts > 0 && len(s.alerts) > s.maxAlerts {
		s.alerts = s.alerts[:s.maxAlerts]
	}
	return a
}

// DismissAlert removes the alert with the given id.
func (s *State) DismissAlert(id uint64) bool {
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Nodes returns a copy of the node list.
func (s *State) Nodes() []model.Node {
	return append([]model.Node(nil), s.nodes...)
}

// AddNode appends a node with a fresh id and a sequential name.
func (s *State) AddNode(status model.NodeStatus, load int) model.Node {
	n := model.Node{
		ID:     uuid.NewString(),
		Name:   fmt.Sprintf("node-%02d", len(s.nodes)+1),
		Status: status,
		Load:   min(max(load, 0), 100),
	}
	s.nodes = append(s.nodes, n)
	return n
}

// Sources returns a copy of the top-sources ranking.
func (s *State) Sources() []model.TopSource {
	return append([]model.TopSource(nil), s.sources...)
}

// SetSources replaces the ranking and sorts it.
func (s *State) SetSources(src []model.TopSource) {
	s.sources = append([]model.TopSource(nil), src...)
	sortSources(s.sources)
}

// PerturbSources scales every source by a factor in [0.8, 1.4), floors the
// volume at 1 MB and re-ranks.
func (s *State) PerturbSources(rnd Rand) {
	for i := range s.sources {
		mb := s.sources[i].MB * uniform(rnd, 0.8, 1.4)
		s.sources[i].MB = max(round1(mb), 1)
	}
	sortSources(s.sources)
}

func sortSources(src []model.TopSource) {
	sort.SliceStable(src, func(i, j int) bool {
		return src[i].MB > src[j].MB
	})
}

// seedNodes fills the initial node list.
func (s *State) seedNodes() {
	loads := []int{34, 58, 21, 86, 47, 63}
	for _, l := range loads {
		status := model.StatusOK
		if l > 80 {
			status = model.StatusWarn
		}
		s.AddNode(status, l)
	}
}

func defaultSources() []model.TopSource {
	return []model.TopSource{
		{Name: "10.0.4.17", MB: 812.4},
		{Name: "10.0.2.91", MB: 640.2},
		{Name: "172.16.8.5", MB: 512.9},
		{Name: "10.0.7.33", MB: 388.0},
		{Name: "192.168.1.40", MB: 205.6},
		{Name: "172.16.3.12", MB: 96.3},
	}
}
