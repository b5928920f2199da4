package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jtsunne/opsdash/internal/model"
	"github.com/jtsunne/opsdash/internal/sim"
)

// PromSink exports the dashboard state as prometheus metrics. It is an
// EventSink and a TickObserver.
type PromSink struct {
	mu        sync.Mutex
	lastAlert uint64

	ticks        prometheus.Counter
	values       *prometheus.GaugeVec
	alerts       *prometheus.GaugeVec
	alertsTotal  *prometheus.CounterVec
	nodes        prometheus.Gauge
	topSourcesMB *prometheus.GaugeVec
}

var alertLevels = []model.AlertLevel{model.LevelInfo, model.LevelWarning, model.LevelCritical}

// NewPromSink registers the collectors with reg.
func NewPromSink(reg prometheus.Registerer) *PromSink {
	p := &PromSink{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opsdash_ticks_total",
			Help: "Simulation ticks completed.",
		}),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "opsdash_metric_value",
			Help: "Latest value of each simulated metric.",
		}, []string{"metric"}),
		alerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "opsdash_alerts",
			Help: "Alerts currently in the feed, by level.",
		}, []string{"level"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdash_alerts_created_total",
			Help: "Alerts created, by level.",
		}, []string{"level"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "opsdash_nodes",
			Help: "Nodes in the node list.",
		}),
		topSourcesMB: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "opsdash_top_source_mb",
			Help: "Traffic volume of each top source in MB.",
		}, []string{"source"}),
	}
	reg.MustRegister(p.ticks, p.values, p.alerts, p.alertsTotal, p.nodes, p.topSourcesMB)

	for _, l := range alertLevels {
		p.alerts.WithLabelValues(string(l)).Set(0)
		p.alertsTotal.WithLabelValues(string(l))
	}
	return p
}

func (p *PromSink) RenderNodes(nodes []model.Node) {
	p.nodes.Set(float64(len(nodes)))
}

// RenderAlerts updates the per-level gauge and counts alerts not seen
// before. Alert ids grow monotonically, so only ids above the last seen
// one are new.
func (p *PromSink) RenderAlerts(alerts []model.Alert) {
	p.mu.Lock()
	defer p.mu.Unlock()

	counts := make(map[model.AlertLevel]int, len(alertLevels))
	newest := p.lastAlert
	for _, a := range alerts {
		counts[a.Level]++
		if a.ID > p.lastAlert {
			p.alertsTotal.WithLabelValues(string(a.Level)).Inc()
			newest = max(newest, a.ID)
		}
	}
	p.lastAlert = newest
	for _, l := range alertLevels {
		p.alerts.WithLabelValues(string(l)).Set(float64(counts[l]))
	}
}

func (p *PromSink) RenderTopSources(sources []model.TopSource) {
	p.topSourcesMB.Reset()
	for _, s := range sources {
		p.topSourcesMB.WithLabelValues(s.Name).Set(s.MB)
	}
}

// UpdateStat is a no-op; numeric values arrive with ObserveTick.
func (p *PromSink) UpdateStat(string, string) {}

func (p *PromSink) ObserveTick(snap sim.Snapshot) {
	p.ticks.Inc()
	for name, v := range snap.Values {
		p.values.WithLabelValues(name).Set(v)
	}
}
