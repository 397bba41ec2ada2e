package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/session"
	"github.com/bethropolis/tide-indent/internal/types"
	"github.com/bethropolis/tide-indent/internal/utils"
)

// Playground is the interactive editor loop around one session.
type Playground struct {
	tui    *TUI
	sess   *session.Session
	theme  *Theme
	status *StatusBar
	viewY  int
	viewX  int
}

// NewPlayground binds a screen to a session.
func NewPlayground(t *TUI, sess *session.Session, theme *Theme) *Playground {
	if theme == nil {
		theme = &DevComfortDark
	}
	return &Playground{
		tui:    t,
		sess:   sess,
		theme:  theme,
		status: newStatusBar(sess.Buffer().FilePath(), sess.Engine().Grammar().Name),
	}
}

// Status exposes the status bar, mostly for tests.
func (p *Playground) Status() *StatusBar { return p.status }

// Run draws and handles events until the user quits or ctx ends.
func (p *Playground) Run(ctx context.Context) error {
	p.status.SetTemporaryMessage("Ctrl-Q quit  Ctrl-S save  Tab reindent line  Ctrl-R reindent all  Ctrl-Z/Ctrl-Y undo/redo")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Draw()
		quit, err := p.HandleEvent(ctx, p.tui.PollEvent())
		if err != nil {
			logger.Errorf("playground: %v", err)
			p.status.SetTemporaryMessage("error: %v", err)
		}
		if quit {
			return nil
		}
	}
}

// Draw renders the buffer, the status bar and the cursor.
func (p *Playground) Draw() {
	width, height := p.tui.Size()
	cursor := p.sess.Cursor()
	text, _ := p.sess.Buffer().Line(cursor.Line)
	vcol := utils.VirtualColumn([]rune(string(text)), cursor.Col, p.sess.Options().TabWidth)
	gutter, _ := gutterWidth(p.sess.Buffer().LineCount(), width)
	p.viewY, p.viewX = scrollTo(p.viewY, p.viewX, cursor, vcol, width-gutter, height)

	p.status.SetState(cursor, p.sess.Buffer().IsModified(), p.sess.Preview(cursor.Line).String())
	DrawBuffer(p.tui, p.sess, p.theme, p.viewY, p.viewX)
	p.status.Draw(p.tui.screen, p.theme, width, height)
	DrawCursor(p.tui, p.sess, p.viewY, p.viewX)
	p.tui.Show()
}

// HandleEvent applies one terminal event and reports whether to quit.
func (p *Playground) HandleEvent(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.tui.screen.Sync()
		return false, nil
	case *tcell.EventKey:
		return p.handleKey(ctx, ev)
	case nil:
		return true, nil
	}
	return false, nil
}

func (p *Playground) handleKey(ctx context.Context, ev *tcell.EventKey) (bool, error) {
	cursor := p.sess.Cursor()
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true, nil
	case tcell.KeyEnter:
		return false, p.sess.Type(ctx, '\n')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return false, p.sess.Backspace(ctx)
	case tcell.KeyTab:
		_, err := p.sess.ReindentLine(ctx, cursor.Line)
		return false, err
	case tcell.KeyCtrlR:
		changes, err := p.sess.ReindentAll(ctx)
		if err == nil {
			p.status.SetTemporaryMessage("reindented %d line(s)", len(changes))
		}
		return false, err
	case tcell.KeyCtrlZ:
		_, err := p.sess.Undo()
		return false, err
	case tcell.KeyCtrlY:
		_, err := p.sess.Redo()
		return false, err
	case tcell.KeyCtrlS:
		if err := p.sess.Buffer().Save(""); err != nil {
			return false, fmt.Errorf("save: %w", err)
		}
		p.status.SetTemporaryMessage("saved %s", p.sess.Buffer().FilePath())
		return false, nil
	case tcell.KeyLeft:
		cursor.Col--
	case tcell.KeyRight:
		cursor.Col++
	case tcell.KeyUp:
		cursor.Line--
	case tcell.KeyDown:
		cursor.Line++
	case tcell.KeyHome:
		cursor.Col = 0
	case tcell.KeyEnd:
		cursor.Col = 1 << 30
	case tcell.KeyRune:
		return false, p.sess.Type(ctx, ev.Rune())
	default:
		return false, nil
	}
	p.sess.SetCursor(types.Position{Line: cursor.Line, Col: cursor.Col})
	return false, nil
}
