package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/sim"
)

// severity represents the alert level for a metric value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// cpuSeverity returns Warning when CPU > 80%, Critical when > 90%.
func cpuSeverity(pct float64) severity {
	switch {
	case pct > 90:
		return severityCritical
	case pct > 80:
		return severityWarning
	default:
		return severityNormal
	}
}

// memSeverity returns Warning when memory > 75%, Critical when > 85%.
func memSeverity(pct float64) severity {
	switch {
	case pct > 85:
		return severityCritical
	case pct > 75:
		return severityWarning
	default:
		return severityNormal
	}
}

// latencySeverity returns Warning when latency > 80ms, Critical when > 100ms.
func latencySeverity(ms float64) severity {
	switch {
	case ms > 100:
		return severityCritical
	case ms > 80:
		return severityWarning
	default:
		return severityNormal
	}
}

// metricSeverity dispatches on the metric name. Rates have no thresholds.
func metricSeverity(name string, v float64) severity {
	switch name {
	case sim.MetricCPU:
		return cpuSeverity(v)
	case sim.MetricMemory:
		return memSeverity(v)
	case sim.MetricLatency:
		return latencySeverity(v)
	default:
		return severityNormal
	}
}

// severityFg maps a severity to a foreground colour, falling back to base.
func severityFg(s severity, base lipgloss.Color) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return base
	}
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return StyleDim
	}
}
