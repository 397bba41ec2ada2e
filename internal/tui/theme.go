package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/types"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the
// first dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if base, _, found := strings.Cut(name, "."); found {
		if style, ok := t.Styles[base]; ok {
			return style
		}
	}
	if style, ok := t.Styles["Default"]; ok {
		return style
	}
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// ClassStyle styles a character by its lexical class.
func (t *Theme) ClassStyle(c types.Class) tcell.Style {
	switch c {
	case types.ClassComment:
		return t.GetStyle("comment")
	case types.ClassString:
		return t.GetStyle("string")
	}
	return t.GetStyle("Default")
}

var DevComfortDark Theme

func init() {
	dcBackground := tcell.NewHexColor(0x2a2f38)
	dcForeground := tcell.NewHexColor(0xc5cdd9)
	dcComment := tcell.NewHexColor(0x5c6370)
	dcOrange := tcell.NewHexColor(0xd19a66)
	dcGreen := tcell.NewHexColor(0x98c379)
	dcBlue := tcell.NewHexColor(0x61afef)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	DevComfortDark = Theme{
		Name: "DevComfort Dark",
		Styles: map[string]tcell.Style{
			"Default":           baseStyle,
			"LineNumber":        baseStyle.Foreground(dcComment),
			"LineNumber.active": baseStyle.Foreground(dcOrange).Bold(true),
			"StatusBar":         tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground),
			"StatusBar.message": tcell.StyleDefault.Background(dcBackground).Foreground(dcBlue).Bold(true),
			"comment":           baseStyle.Foreground(dcComment).Italic(true),
			"string":            baseStyle.Foreground(dcGreen),
			"Bracket":           baseStyle.Foreground(dcOrange).Bold(true).Underline(true),
		},
	}
}
