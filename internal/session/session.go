// Package session drives the indentation engine the way an editor does:
// it owns a buffer and a classifier, forwards typed characters to the
// engine and applies the decisions it returns to the buffer.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/bethropolis/tide-indent/internal/buffer"
	"github.com/bethropolis/tide-indent/internal/classify"
	"github.com/bethropolis/tide-indent/internal/indent"
	"github.com/bethropolis/tide-indent/internal/types"
	"github.com/bethropolis/tide-indent/internal/utils"
)

// Options controls how decisions turn into whitespace.
type Options struct {
	TabWidth int
	// IndentWidth is the indent unit handed to the engine. Zero means
	// TabWidth.
	IndentWidth int
	UseTabs     bool
	Classifier  classify.Mode
	MaxHistory  int
	Logger      *slog.Logger
}

// LineChange records one line whose leading whitespace was rewritten.
type LineChange struct {
	Line   int    `json:"line"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Session binds one buffer to one engine.
type Session struct {
	buf    buffer.Buffer
	cls    classify.Classifier
	eng    *indent.Engine
	doc    *indent.Document
	opts   Options
	hist   *history
	log    *slog.Logger
	cursor types.Position
}

// New creates a session over buf. The classifier is built from the
// engine's grammar according to opts.Classifier.
func New(ctx context.Context, buf buffer.Buffer, eng *indent.Engine, opts Options) (*Session, error) {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = opts.TabWidth
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	cls, err := classify.New(ctx, opts.Classifier, eng.Grammar(), buf)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	return &Session{
		buf:  buf,
		cls:  cls,
		eng:  eng,
		doc:  indent.NewDocument(buf, cls, opts.TabWidth),
		opts: opts,
		hist: newHistory(opts.MaxHistory),
		log:  log.With("grammar", eng.Grammar().Name),
	}, nil
}

// Close releases parser resources held by the classifier.
func (s *Session) Close() {
	if c, ok := s.cls.(interface{ Close() }); ok {
		c.Close()
	}
}

func (s *Session) Buffer() buffer.Buffer      { return s.buf }
func (s *Session) Engine() *indent.Engine     { return s.eng }
func (s *Session) Document() *indent.Document { return s.doc }
func (s *Session) Cursor() types.Position     { return s.cursor }
func (s *Session) Options() Options           { return s.opts }

// Class reports the classifier's view of pos.
func (s *Session) Class(pos types.Position) types.Class { return s.cls.Class(pos) }

// Preview returns the ungated decision for line without applying it.
func (s *Session) Preview(line int) indent.Decision {
	return s.eng.Compute(s.doc, line, s.opts.IndentWidth)
}

// MatchBracket finds the bracket pair under the cursor, or just before it.
func (s *Session) MatchBracket() (types.Span, bool) {
	if span, ok := s.eng.MatchBracket(s.doc, s.cursor); ok {
		return span, true
	}
	if s.cursor.Col == 0 {
		return types.Span{}, false
	}
	return s.eng.MatchBracket(s.doc, types.Position{Line: s.cursor.Line, Col: s.cursor.Col - 1})
}

// SetCursor moves the cursor, clamped to the buffer.
func (s *Session) SetCursor(pos types.Position) {
	s.cursor = s.clamp(pos)
}

func (s *Session) clamp(pos types.Position) types.Position {
	n := s.buf.LineCount()
	pos.Line = min(max(pos.Line, 0), n-1)
	text, _ := s.buf.Line(pos.Line)
	pos.Col = min(max(pos.Col, 0), utf8.RuneCount(text))
	return pos
}

// Type inserts r at the cursor and, when r is a trigger, applies the
// engine's decision for the cursor line. A newline reindents both the
// completed line and the new one.
func (s *Session) Type(ctx context.Context, r rune) error {
	s.hist.begin(s.cursor)
	defer func() { s.hist.commit(s.cursor) }()

	text := string(r)
	start := s.cursor
	end := start
	if r == '\n' {
		end = types.Position{Line: start.Line + 1}
	} else {
		end.Col++
	}
	if err := s.insert(ctx, start, []byte(text)); err != nil {
		return err
	}
	s.cursor = end

	if !s.eng.IsTrigger(text) {
		return nil
	}
	unit := s.opts.IndentWidth
	if r == '\n' {
		prev, cur := s.eng.Reflow(s.doc, end.Line, unit)
		if _, err := s.apply(ctx, end.Line-1, prev); err != nil {
			return err
		}
		_, err := s.apply(ctx, end.Line, cur)
		return err
	}
	_, err := s.apply(ctx, end.Line, s.eng.IndentAt(s.doc, end, unit, text))
	return err
}

// TypeString types each rune of text in turn.
func (s *Session) TypeString(ctx context.Context, text string) error {
	for _, r := range text {
		if err := s.Type(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Backspace deletes the rune before the cursor, joining lines at column 0.
func (s *Session) Backspace(ctx context.Context) error {
	start := s.cursor
	switch {
	case start.Col > 0:
		start.Col--
	case start.Line > 0:
		start.Line--
		text, err := s.buf.Line(start.Line)
		if err != nil {
			return err
		}
		start.Col = utf8.RuneCount(text)
	default:
		return nil
	}
	s.hist.begin(s.cursor)
	defer func() { s.hist.commit(s.cursor) }()
	if err := s.delete(ctx, start, s.cursor); err != nil {
		return err
	}
	s.cursor = start
	return nil
}

// ReindentLine recomputes line without trigger gating and applies it.
func (s *Session) ReindentLine(ctx context.Context, line int) (bool, error) {
	s.hist.begin(s.cursor)
	defer func() { s.hist.commit(s.cursor) }()
	return s.apply(ctx, line, s.eng.Compute(s.doc, line, s.opts.IndentWidth))
}

// ReindentAll recomputes every non-blank line top to bottom, so each line
// sees the corrected indent of the lines above it.
func (s *Session) ReindentAll(ctx context.Context) ([]LineChange, error) {
	s.hist.begin(s.cursor)
	defer func() { s.hist.commit(s.cursor) }()

	var changes []LineChange
	for line := 0; line < s.buf.LineCount(); line++ {
		if err := ctx.Err(); err != nil {
			return changes, err
		}
		if s.doc.IsBlank(line) {
			continue
		}
		before := s.doc.Line(line)
		changed, err := s.apply(ctx, line, s.eng.Compute(s.doc, line, s.opts.IndentWidth))
		if err != nil {
			return changes, fmt.Errorf("line %d: %w", line+1, err)
		}
		if changed {
			changes = append(changes, LineChange{Line: line, Before: before, After: s.doc.Line(line)})
		}
	}
	s.log.Debug("reindented", "lines", s.buf.LineCount(), "changed", len(changes))
	return changes, nil
}

// Whitespace returns the leading whitespace d asks line to have, and false
// when the line should be left alone.
func (s *Session) Whitespace(line int, d indent.Decision) (string, bool) {
	switch d.Kind {
	case indent.KindColumns:
		return utils.MakeIndent(d.Columns, s.opts.TabWidth, s.opts.UseTabs), true
	case indent.KindKeepPrevious:
		ref := s.eng.ReferenceLine(s.doc, line)
		if ref < 0 {
			return "", false
		}
		text, err := s.buf.Line(ref)
		if err != nil {
			return "", false
		}
		runes := []rune(string(text))
		return string(runes[:utils.LeadingWhitespace(runes)]), true
	}
	return "", false
}

// apply rewrites the leading whitespace of line. It reports whether the
// buffer changed.
func (s *Session) apply(ctx context.Context, line int, d indent.Decision) (bool, error) {
	if line < 0 || line >= s.buf.LineCount() {
		return false, nil
	}
	want, ok := s.Whitespace(line, d)
	if !ok {
		return false, nil
	}
	text, err := s.buf.Line(line)
	if err != nil {
		return false, err
	}
	runes := []rune(string(text))
	n := utils.LeadingWhitespace(runes)
	if string(runes[:n]) == want {
		return false, nil
	}

	if n > 0 {
		if err := s.delete(ctx, types.Position{Line: line}, types.Position{Line: line, Col: n}); err != nil {
			return false, err
		}
	}
	if want != "" {
		if err := s.insert(ctx, types.Position{Line: line}, []byte(want)); err != nil {
			return false, err
		}
	}

	if s.cursor.Line == line {
		delta := utf8.RuneCountInString(want) - n
		if s.cursor.Col >= n {
			s.cursor.Col += delta
		} else {
			s.cursor.Col = utf8.RuneCountInString(want)
		}
	}
	s.log.Debug("applied indent", "line", line, "decision", d.String())
	return true, nil
}

func (s *Session) insert(ctx context.Context, pos types.Position, text []byte) error {
	end, err := s.edit(ctx, func() (types.EditInfo, error) { return s.buf.Insert(pos, text) })
	if err != nil {
		return err
	}
	s.hist.record(Change{Type: InsertAction, Text: text, Start: pos, End: end})
	return nil
}

func (s *Session) delete(ctx context.Context, start, end types.Position) error {
	removed, err := s.textRange(start, end)
	if err != nil {
		return err
	}
	if _, err := s.edit(ctx, func() (types.EditInfo, error) { return s.buf.Delete(start, end) }); err != nil {
		return err
	}
	s.hist.record(Change{Type: DeleteAction, Text: removed, Start: start, End: end})
	return nil
}

func (s *Session) rawInsert(pos types.Position, text []byte) error {
	_, err := s.edit(context.Background(), func() (types.EditInfo, error) { return s.buf.Insert(pos, text) })
	return err
}

func (s *Session) rawDelete(start, end types.Position) error {
	_, err := s.edit(context.Background(), func() (types.EditInfo, error) { return s.buf.Delete(start, end) })
	return err
}

// edit runs a buffer mutation and keeps the classifier and document in
// step with it. It returns the rune position where the new text ends.
func (s *Session) edit(ctx context.Context, mutate func() (types.EditInfo, error)) (types.Position, error) {
	info, err := mutate()
	if err != nil {
		return types.Position{}, fmt.Errorf("buffer edit failed: %w", err)
	}
	if err := s.cls.Edit(ctx, info); err != nil {
		return types.Position{}, fmt.Errorf("classifier update failed: %w", err)
	}
	s.doc.Refresh()

	end := types.Position{Line: int(info.NewEndPosition.Row)}
	if text, err := s.buf.Line(end.Line); err == nil {
		end.Col = utils.ByteOffsetToRuneIndex(text, int(info.NewEndPosition.Column))
	}
	return end, nil
}

// textRange returns the bytes between two rune positions.
func (s *Session) textRange(start, end types.Position) ([]byte, error) {
	var out []byte
	for line := start.Line; line <= end.Line; line++ {
		text, err := s.buf.Line(line)
		if err != nil {
			return nil, err
		}
		from, to := 0, len(text)
		if line == start.Line {
			from = max(utils.RuneIndexToByteOffset(text, start.Col), 0)
		}
		if line == end.Line {
			if to = utils.RuneIndexToByteOffset(text, end.Col); to < 0 {
				to = len(text)
			}
		}
		if line > start.Line {
			out = append(out, '\n')
		}
		out = append(out, text[from:to]...)
	}
	return out, nil
}
