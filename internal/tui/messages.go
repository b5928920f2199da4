package tui

import (
	"time"

	"github.com/jtsunne/opsdash/internal/settings"
)

// TickMsg fires the scheduled clock tick. gen ties it to one Every
// registration so a cancelled schedule never ticks again.
type TickMsg struct {
	Time time.Time
	gen  uint64
}

// SimulateMsg asks the loop to raise a simulated incident.
type SimulateMsg struct{}

// BurstMsg asks the loop to inject a burst of traffic for range N.
type BurstMsg struct{ N int }

// DismissMsg asks the loop to dismiss the alert with the given id.
type DismissMsg struct{ ID uint64 }

// SettingsSavedMsg reports the result of an async settings save.
type SettingsSavedMsg struct {
	Settings settings.Settings
	Err      error
}

// flashExpiredMsg clears the footer flash if it is still the one with id.
type flashExpiredMsg struct{ id int }
