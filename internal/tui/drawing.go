package tui

import (
	"fmt"
	"math"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/tide-indent/internal/session"
	"github.com/bethropolis/tide-indent/internal/types"
	"github.com/bethropolis/tide-indent/internal/utils"
)

const statusBarHeight = 1

func gutterWidth(lineCount, width int) (int, int) {
	if lineCount <= 0 {
		lineCount = 1
	}
	digits := int(math.Log10(float64(lineCount))) + 1
	gutter := digits + 1
	if gutter >= width {
		return 0, digits
	}
	return gutter, digits
}

// DrawBuffer draws the visible lines of the session, coloring each
// character by its lexical class.
func DrawBuffer(t *TUI, sess *session.Session, theme *Theme, viewY, viewX int) {
	defaultStyle := theme.GetStyle("Default")
	width, height := t.Size()
	viewHeight := height - statusBarHeight
	if viewHeight <= 0 || width <= 0 {
		return
	}

	buf := sess.Buffer()
	lineCount := buf.LineCount()
	gutter, digits := gutterWidth(lineCount, width)
	textWidth := width - gutter
	tabWidth := sess.Options().TabWidth
	cursor := sess.Cursor()
	pair, matched := sess.MatchBracket()
	closeAt := types.Position{Line: pair.End.Line, Col: pair.End.Col - 1}

	for screenY := 0; screenY < viewHeight; screenY++ {
		line := screenY + viewY
		for x := 0; x < width; x++ {
			t.screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}
		if line >= lineCount {
			continue
		}

		if gutter > 0 {
			numStyle := theme.GetStyle("LineNumber")
			if line == cursor.Line {
				numStyle = theme.GetStyle("LineNumber.active")
			}
			for i, r := range fmt.Sprintf("%*d", digits, line+1) {
				t.screen.SetContent(i, screenY, r, nil, numStyle)
			}
		}

		text, err := buf.Line(line)
		if err != nil {
			continue
		}
		vcol, col := 0, 0
		gr := uniseg.NewGraphemes(string(text))
		for gr.Next() {
			runes := gr.Runes()
			w := gr.Width()
			if len(runes) == 1 && runes[0] == '\t' {
				w = tabWidth - vcol%tabWidth
			}
			screenX := vcol - viewX + gutter
			if vcol+w > viewX && screenX < width {
				pos := types.Position{Line: line, Col: col}
				style := theme.ClassStyle(sess.Class(pos))
				if matched && (pos == pair.Start || pos == closeAt) {
					style = theme.GetStyle("Bracket")
				}
				if runes[0] == '\t' {
					for i := 0; i < w && screenX+i < width; i++ {
						if screenX+i >= gutter {
							t.screen.SetContent(screenX+i, screenY, ' ', nil, style)
						}
					}
				} else if screenX >= gutter {
					t.screen.SetContent(screenX, screenY, runes[0], runes[1:], style)
				}
			}
			vcol += w
			col += len(runes)
			if vcol >= viewX+textWidth {
				break
			}
		}
	}
}

// DrawCursor positions the terminal cursor at the session cursor.
func DrawCursor(t *TUI, sess *session.Session, viewY, viewX int) {
	cursor := sess.Cursor()
	width, height := t.Size()
	gutter, _ := gutterWidth(sess.Buffer().LineCount(), width)

	text, err := sess.Buffer().Line(cursor.Line)
	vcol := 0
	if err == nil {
		vcol = utils.VirtualColumn([]rune(string(text)), cursor.Col, sess.Options().TabWidth)
	}
	screenX := vcol - viewX + gutter
	screenY := cursor.Line - viewY
	if screenX < gutter || screenX >= width || screenY < 0 || screenY >= height-statusBarHeight {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(screenX, screenY)
}

// scrollTo adjusts the viewport so the cursor stays visible.
func scrollTo(viewY, viewX int, cursor types.Position, vcol, width, height int) (int, int) {
	rows := height - statusBarHeight
	if rows > 0 {
		if cursor.Line < viewY {
			viewY = cursor.Line
		} else if cursor.Line >= viewY+rows {
			viewY = cursor.Line - rows + 1
		}
	}
	if width > 0 {
		if vcol < viewX {
			viewX = vcol
		} else if vcol >= viewX+width {
			viewX = vcol - width + 1
		}
	}
	return viewY, viewX
}
