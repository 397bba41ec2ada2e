// Package tui is the interactive playground: a minimal tcell editor that
// reindents as you type so the engine's decisions can be watched live.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// TUI manages the terminal screen using tcell.
type TUI struct {
	screen tcell.Screen
}

// New creates and initializes a TUI on the real terminal.
func New(theme *Theme) (*TUI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	return NewWithScreen(s, theme)
}

// NewWithScreen initializes s, e.g. a tcell.SimulationScreen in tests.
func NewWithScreen(s tcell.Screen, theme *Theme) (*TUI, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	if theme == nil {
		theme = &DevComfortDark
	}
	s.SetStyle(theme.GetStyle("Default"))
	return &TUI{screen: s}, nil
}

// Close finalizes the tcell screen.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// PollEvent retrieves the next event.
func (t *TUI) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

func (t *TUI) Clear() { t.screen.Clear() }
func (t *TUI) Show()  { t.screen.Show() }

// Size returns the width and height of the terminal screen.
func (t *TUI) Size() (int, int) {
	return t.screen.Size()
}

// GetScreen provides direct access (use with caution).
func (t *TUI) GetScreen() tcell.Screen {
	return t.screen
}
