package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtsunne/opsdash/internal/sim"
)

// ProgramController lets the HTTP server drive a clock that belongs to a
// running Bubble Tea program. Mutations are sent to the program loop;
// snapshots read the clock directly.
type ProgramController struct {
	Clock   *sim.Clock
	Program *tea.Program
}

func (c ProgramController) Snapshot() sim.Snapshot { return c.Clock.Snapshot() }
func (c ProgramController) Simulate()              { c.Program.Send(SimulateMsg{}) }
func (c ProgramController) Burst(rangeN int)       { c.Program.Send(BurstMsg{N: rangeN}) }
func (c ProgramController) Dismiss(id uint64)      { c.Program.Send(DismissMsg{ID: id}) }
