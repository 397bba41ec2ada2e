package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/bethropolis/tide-indent/internal/types"
)

const messageTimeout = 4 * time.Second

// StatusBar shows the file, cursor and the engine's decision for the
// cursor line.
type StatusBar struct {
	filePath        string
	grammar         string
	modified        bool
	cursorPos       types.Position
	decision        string
	tempMessage     string
	tempMessageTime time.Time
	now             func() time.Time
}

func newStatusBar(filePath, grammar string) *StatusBar {
	return &StatusBar{filePath: filePath, grammar: grammar, now: time.Now}
}

// SetState updates everything but the temporary message.
func (sb *StatusBar) SetState(pos types.Position, modified bool, decision string) {
	sb.cursorPos = pos
	sb.modified = modified
	sb.decision = decision
}

// SetTemporaryMessage displays a message for a few seconds.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...any) {
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// Text returns the line the status bar currently shows.
func (sb *StatusBar) Text() string {
	if !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= messageTimeout {
		return sb.tempMessage
	}
	name := sb.filePath
	if name == "" {
		name = "[No Name]"
	}
	if sb.modified {
		name += " [Modified]"
	}
	return fmt.Sprintf("%s -- %s -- Line: %d, Col: %d -- indent: %s",
		name, sb.grammar, sb.cursorPos.Line+1, sb.cursorPos.Col+1, sb.decision)
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, theme *Theme, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	style := theme.GetStyle("StatusBar")
	text := sb.Text()
	if text == sb.tempMessage && text != "" {
		style = theme.GetStyle("StatusBar.message")
	}

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	x := 0
	for _, r := range runewidth.Truncate(text, width, "…") {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
