package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatMB formats a traffic volume given in megabytes.
// Thresholds: <1024 MB → MB, <1024 GB → GB, else TB. Negative values return "---".
func FormatMB(mb float64) string {
	const (
		gb = 1024
		tb = gb * 1024
	)
	switch {
	case mb < 0:
		return "---"
	case mb < gb:
		return fmt.Sprintf("%.1f MB", mb)
	case mb < tb:
		return fmt.Sprintf("%.1f GB", mb/gb)
	default:
		return fmt.Sprintf("%.1f TB", mb/tb)
	}
}

// FormatRate formats a rate with comma-separated thousands, one decimal place
// and the given unit. Example: (1204.3, "req/s") → "1,204.3 req/s".
func FormatRate(v float64, unit string) string {
	s := formatCommaFloat(v)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// FormatLatency formats a latency value in milliseconds.
// Values >= 1000 ms are shown as seconds with 2 decimal places.
// Negative values return "---".
func FormatLatency(ms float64) string {
	if ms < 0 {
		return "---"
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.2f s", ms/1000)
	}
	return fmt.Sprintf("%.1f ms", ms)
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatAge renders how long ago something happened, e.g. "now", "42s ago",
// "3m ago", "2h ago". Future times count as "now".
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// FormatInterval formats a tick interval compactly: "1.5s", "250ms", "2m".
func FormatInterval(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}

// formatCommaFloat formats a float with comma-separated thousands and one decimal place.
func formatCommaFloat(f float64) string {
	formatted := fmt.Sprintf("%.1f", f)
	sign := ""
	if len(formatted) > 0 && formatted[0] == '-' {
		sign = "-"
		formatted = formatted[1:]
	}
	parts := strings.SplitN(formatted, ".", 2)
	intPart := insertCommas(parts[0])
	if len(parts) == 2 {
		return sign + intPart + "." + parts[1]
	}
	return sign + intPart
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
