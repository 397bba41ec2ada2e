// Package indent decides how far a line should be indented as the user
// types. It is parameterized by a grammar.Descriptor and recomputes every
// decision from the buffer text and the classifier; nothing is carried over
// between calls.
package indent

import (
	"fmt"
	"log/slog"

	"github.com/bethropolis/tide-indent/internal/grammar"
	"github.com/bethropolis/tide-indent/internal/types"
)

// Options configures an Engine.
type Options struct {
	// TabWidth is the indent unit used when a caller passes a width <= 0.
	TabWidth int
	// ScanLimit caps how many lines a backward scan may cover. Zero uses
	// the grammar's limit.
	ScanLimit int
	Logger    *slog.Logger
}

// Engine resolves indentation for one grammar. Safe for concurrent use as
// long as each goroutine works on its own Document.
type Engine struct {
	g        *grammar.Descriptor
	tabWidth int
	limit    int
	log      *slog.Logger
}

// New creates an engine for g.
func New(g *grammar.Descriptor, opts Options) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil descriptor", grammar.ErrInvalidGrammar)
	}
	if opts.ScanLimit < 0 {
		return nil, fmt.Errorf("negative scan limit %d", opts.ScanLimit)
	}
	limit := opts.ScanLimit
	if limit == 0 {
		limit = g.ScanLimit
	}
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		g:        g,
		tabWidth: tab,
		limit:    limit,
		log:      log.With("grammar", g.Name),
	}, nil
}

func (e *Engine) Grammar() *grammar.Descriptor { return e.g }

// IsTrigger reports whether typing typed may change indentation.
func (e *Engine) IsTrigger(typed string) bool {
	return e.g.IsTrigger(typed)
}

// Indent is the keystroke entry point. typed is the character just
// inserted; "\n" means line was just opened and line-1 completed. Without
// a cursor column a keyword trigger fires whenever typed matches the
// keyword's last letter; hosts that know the cursor use IndentAt.
func (e *Engine) Indent(doc *Document, line, unit int, typed string) Decision {
	return e.IndentAt(doc, types.Position{Line: line, Col: -1}, unit, typed)
}

// IndentAt is Indent for a host that knows the cursor: pos is the
// position just after the typed character. A keyword or closer trigger
// only fires when that character completed the line's leading token.
func (e *Engine) IndentAt(doc *Document, pos types.Position, unit int, typed string) (d Decision) {
	line := pos.Line
	defer e.recoverTo(&d, line)
	if !e.g.IsTrigger(typed) {
		return NoChange
	}
	doc.Refresh()
	unit = e.unitWidth(unit)
	if typed == "\n" {
		prev, cur := e.reflow(doc, line, unit)
		// A host given -1 copies line-1 as it stands, so hand back the
		// corrected width when line-1 is the reference and was misindented.
		if cur == KeepPrevious && prev.Kind == KindColumns &&
			doc.PrevCodeLine(line) == line-1 && doc.Indent(line-1) != prev.Columns {
			return prev
		}
		return cur
	}
	if !e.electric(doc, line, pos.Col, typed) {
		return NoChange
	}
	return e.compute(doc, line, unit)
}

// IndentCode is Indent in the integer form: columns, -1 or -2.
func (e *Engine) IndentCode(doc *Document, line, unit int, typed string) int {
	return e.Indent(doc, line, unit, typed).Code()
}

// Compute resolves line without trigger gating, for explicit reindent
// commands.
func (e *Engine) Compute(doc *Document, line, unit int) (d Decision) {
	defer e.recoverTo(&d, line)
	doc.Refresh()
	return e.compute(doc, line, e.unitWidth(unit))
}

// Reflow handles a newline: it re-resolves the completed line-1 and then
// resolves line as though line-1 already had its corrected indent.
func (e *Engine) Reflow(doc *Document, line, unit int) (prev, cur Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("reflow panicked", "line", line, "panic", rec)
			prev, cur = NoChange, NoChange
		}
	}()
	doc.Refresh()
	return e.reflow(doc, line, e.unitWidth(unit))
}

// ReferenceLine returns the line whose indent KeepPrevious copies, or -1.
func (e *Engine) ReferenceLine(doc *Document, line int) int {
	doc.Refresh()
	return doc.PrevCodeLine(line)
}

// MatchBracket returns the span from an opener to its closer when pos is
// one of the two. Brackets inside strings and comments never match.
func (e *Engine) MatchBracket(doc *Document, pos types.Position) (span types.Span, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("bracket match panicked", "pos", pos, "panic", rec)
			span, ok = types.Span{}, false
		}
	}()
	doc.Refresh()
	r := &resolver{g: e.g, doc: doc, limit: e.limit}
	at := func(p bracketPos) types.Position {
		return types.Position{Line: p.line, Col: doc.info(p.line).view[p.cell].col}
	}
	for i, c := range doc.info(pos.Line).view {
		if c.col != pos.Col {
			continue
		}
		if closer, isOpen := e.g.CloserFor(c.r); isOpen {
			if m, found := r.matchCloser(pos.Line, i, closer); found {
				end := at(m)
				end.Col++
				return types.Span{Start: pos, End: end}, true
			}
		} else if open, isClose := e.g.OpenerFor(c.r); isClose {
			if m, found := r.matchOpener(pos.Line, i, open); found {
				return types.Span{Start: at(m), End: types.Position{Line: pos.Line, Col: pos.Col + 1}}, true
			}
		}
		break
	}
	return types.Span{}, false
}

func (e *Engine) reflow(doc *Document, line, unit int) (prev, cur Decision) {
	defer doc.clearOverrides()
	prev = NoChange
	if line > 0 {
		prev = e.compute(doc, line-1, unit)
		if prev.Kind == KindColumns {
			doc.setOverride(line-1, prev.Columns)
		}
	}
	cur = e.compute(doc, line, unit)
	return prev, cur
}

func (e *Engine) compute(doc *Document, line, unit int) Decision {
	if line < 0 || line >= doc.LineCount() {
		return NoChange
	}
	r := &resolver{g: e.g, doc: doc, unit: unit, limit: e.limit}
	d := r.resolve(line)
	if r.capped {
		e.log.Debug("scan limit reached", "line", line, "limit", e.limit)
	}
	e.log.Debug("indent resolved", "line", line, "decision", d.String())
	return d
}

func (e *Engine) unitWidth(unit int) int {
	if unit <= 0 {
		return e.tabWidth
	}
	return unit
}

func (e *Engine) recoverTo(d *Decision, line int) {
	if rec := recover(); rec != nil {
		e.log.Error("indent panicked", "line", line, "panic", rec)
		*d = NoChange
	}
}
