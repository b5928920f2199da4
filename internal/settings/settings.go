package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotFound is returned by Store.Load when nothing has been saved yet.
var ErrNotFound = errors.New("settings not found")

// DefaultAccent is the accent colour used until the user picks another.
const DefaultAccent = "#3b82f6"

// Palette is the cycle of accent colours offered by the UI.
var Palette = []string{DefaultAccent, "#22c55e", "#f59e0b", "#ef4444", "#a855f7", "#06b6d4"}

var accentRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Settings are the persisted appearance preferences.
type Settings struct {
	Accent      string `yaml:"accent" json:"accent"`
	Compact     bool   `yaml:"compact" json:"compact"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Notes       string `yaml:"notes" json:"notes"`
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{Accent: DefaultAccent}
}

// Validate checks the accent format and normalizes it to lower case.
func (s *Settings) Validate() error {
	if !accentRe.MatchString(s.Accent) {
		return fmt.Errorf("accent %q: want #rrggbb", s.Accent)
	}
	s.Accent = strings.ToLower(s.Accent)
	s.DisplayName = strings.TrimSpace(s.DisplayName)
	return nil
}

// NextAccent returns the palette entry after the current accent.
func (s Settings) NextAccent() string {
	for i, c := range Palette {
		if strings.EqualFold(c, s.Accent) {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}

// Store persists one Settings blob.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// LoadOrDefault loads from the store, falling back to Default when nothing
// has been saved. Other errors are returned together with the defaults.
func LoadOrDefault(ctx context.Context, st Store) (Settings, error) {
	s, err := st.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}
	if s.Accent == "" {
		s.Accent = DefaultAccent
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("stored settings: %w", err)
	}
	return s, nil
}
