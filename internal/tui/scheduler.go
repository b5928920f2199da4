package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler runs the clock's periodic tick on the Bubble Tea loop instead of
// a goroutine, so every state change happens inside Update. It implements
// sim.Scheduler.
type Scheduler struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	gen      uint64
	active   bool
}

// NewScheduler returns an idle Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every registers fn. Only the latest registration is live; the returned
// cancel disables it.
func (s *Scheduler) Every(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.fn = fn
	s.interval = d
	s.active = true
	gen := s.gen
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.active = false
		}
	}
}

// cmd schedules the next TickMsg, or returns nil when nothing is registered.
func (s *Scheduler) cmd() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}
	gen := s.gen
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, gen: gen}
	})
}

// handle runs the registered fn for msg and schedules the next tick. Stale
// or cancelled ticks are dropped.
func (s *Scheduler) handle(msg TickMsg) tea.Cmd {
	s.mu.Lock()
	if !s.active || msg.gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	fn := s.fn
	s.mu.Unlock()

	fn()
	return s.cmd()
}

// live reports whether a registration is active, and its generation.
func (s *Scheduler) live() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, s.active
}
