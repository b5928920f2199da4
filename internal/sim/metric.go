package sim

import "github.com/jtsunne/opsdash/internal/format"

// Metric names, in the order a tick advances them.
const (
	MetricThroughput = "throughput"
	MetricTraffic    = "traffic"
	MetricCPU        = "cpu"
	MetricMemory     = "mem"
	MetricLatency    = "latency"
)

// MetricOrder is the fixed advance order of a tick.
var MetricOrder = []string{MetricThroughput, MetricTraffic, MetricCPU, MetricMemory, MetricLatency}

// Metric is the walk state of one synthetic quantity.
type Metric struct {
	Name     string
	Previous float64
	Variance float64
	Min      float64
	Max      float64
	Unit     string
}

// Step advances the metric by one walk step and returns the new value.
func (m *Metric) Step(rnd Rand) float64 {
	m.Previous = Walk(m.Previous, m.Variance, m.Min, m.Max, rnd)
	return m.Previous
}

// Format renders the current value for a stat label.
func (m *Metric) Format() string {
	switch m.Unit {
	case "%":
		return format.FormatPercent(m.Previous)
	case "ms":
		return format.FormatLatency(m.Previous)
	default:
		return format.FormatRate(m.Previous, m.Unit)
	}
}

// DefaultMetrics returns the built-in tuning for the five tracked metrics.
func DefaultMetrics() []Metric {
	return []Metric{
		{Name: MetricThroughput, Previous: 180, Variance: 40, Min: 50, Max: 400, Unit: "req/s"},
		{Name: MetricTraffic, Previous: 260, Variance: 60, Min: 100, Max: 600, Unit: "Mbps"},
		{Name: MetricCPU, Previous: 20, Variance: 8, Min: 2, Max: 98, Unit: "%"},
		{Name: MetricMemory, Previous: 50, Variance: 4, Min: 20, Max: 95, Unit: "%"},
		{Name: MetricLatency, Previous: 12, Variance: 6, Min: 2, Max: 150, Unit: "ms"},
	}
}
