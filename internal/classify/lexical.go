package classify

import (
	"context"

	"github.com/bethropolis/tide-indent/internal/grammar"
	"github.com/bethropolis/tide-indent/internal/types"
)

type delim struct {
	open, close, escape []rune
	multiLine, nested   bool
}

// scanState is the lexical state at a line boundary.
type scanState struct {
	kind  types.Class // ClassCode outside any span
	delim int
	depth int
}

var codeState = scanState{kind: types.ClassCode}

type openKind int

const (
	openNone openKind = iota
	openLineComment
	openBlockComment
	openString
)

// Lexical classifies by scanning forward from the top of the document with
// the grammar's comment and string delimiters. Lines are scanned lazily and
// cached until an edit invalidates them.
type Lexical struct {
	src          LineSource
	lineComments [][]rune
	comments     []delim
	strs         []delim

	classes [][]types.Class
	starts  []scanState // starts[i] is the state at the start of line i
}

// NewLexical creates a lexical classifier for src.
func NewLexical(g *grammar.Descriptor, src LineSource) *Lexical {
	l := &Lexical{src: src, starts: []scanState{codeState}}
	for _, c := range g.LineComments {
		l.lineComments = append(l.lineComments, []rune(c))
	}
	for _, c := range g.BlockComments {
		l.comments = append(l.comments, delim{open: []rune(c.Open), close: []rune(c.Close), multiLine: true, nested: c.Nested})
	}
	for _, s := range g.Strings {
		l.strs = append(l.strs, delim{open: []rune(s.Open), close: []rune(s.Close), escape: []rune(s.Escape), multiLine: s.MultiLine})
	}
	return l
}

// Class implements Classifier.
func (l *Lexical) Class(pos types.Position) types.Class {
	if pos.Line < 0 || pos.Line >= l.src.LineCount() || pos.Col < 0 {
		return types.ClassOther
	}
	l.ensure(pos.Line)
	cls := l.classes[pos.Line]
	if pos.Col >= len(cls) {
		return types.ClassOther
	}
	return cls[pos.Col]
}

// InVerbatim implements Classifier.
func (l *Lexical) InVerbatim(line int) bool {
	if line < 0 || line >= l.src.LineCount() {
		return false
	}
	l.ensure(line)
	return l.starts[line].kind != types.ClassCode
}

// Edit drops cached lines from the edit's first row onwards.
func (l *Lexical) Edit(_ context.Context, edit types.EditInfo) error {
	l.Invalidate(int(edit.StartPosition.Row))
	return nil
}

// Invalidate forgets every line from line onwards.
func (l *Lexical) Invalidate(line int) {
	if line < 0 {
		line = 0
	}
	if line < len(l.classes) {
		l.classes = l.classes[:line]
		l.starts = l.starts[:line+1]
	}
}

func (l *Lexical) ensure(line int) {
	for len(l.classes) <= line {
		i := len(l.classes)
		text, err := l.src.Line(i)
		if err != nil {
			text = nil
		}
		cls, next := l.scanLine([]rune(string(text)), l.starts[i])
		l.classes = append(l.classes, cls)
		l.starts = append(l.starts, next)
	}
}

func (l *Lexical) scanLine(line []rune, st scanState) ([]types.Class, scanState) {
	out := make([]types.Class, len(line))
	i := 0
	for i < len(line) {
		switch st.kind {
		case types.ClassComment:
			d := l.comments[st.delim]
			if d.nested && hasPrefixAt(line, i, d.open) {
				i = fill(out, i, len(d.open), types.ClassComment)
				st.depth++
				continue
			}
			if hasPrefixAt(line, i, d.close) {
				i = fill(out, i, len(d.close), types.ClassComment)
				if st.depth--; st.depth <= 0 {
					st = codeState
				}
				continue
			}
			out[i] = types.ClassComment
			i++
		case types.ClassString:
			d := l.strs[st.delim]
			if len(d.escape) > 0 && hasPrefixAt(line, i, d.escape) {
				i = fill(out, i, len(d.escape)+1, types.ClassString)
				continue
			}
			if hasPrefixAt(line, i, d.close) {
				i = fill(out, i, len(d.close), types.ClassString)
				st = codeState
				continue
			}
			out[i] = types.ClassString
			i++
		default:
			kind, idx, n := l.openAt(line, i)
			switch kind {
			case openLineComment:
				i = fill(out, i, len(line)-i, types.ClassComment)
			case openBlockComment:
				i = fill(out, i, n, types.ClassComment)
				st = scanState{kind: types.ClassComment, delim: idx, depth: 1}
			case openString:
				i = fill(out, i, n, types.ClassString)
				st = scanState{kind: types.ClassString, delim: idx}
			default:
				out[i] = types.ClassCode
				i++
			}
		}
	}
	if st.kind == types.ClassString && !l.strs[st.delim].multiLine {
		st = codeState
	}
	return out, st
}

// openAt returns the longest delimiter opening at line[i].
func (l *Lexical) openAt(line []rune, i int) (openKind, int, int) {
	kind, idx, best := openNone, -1, 0
	for j, c := range l.lineComments {
		if len(c) > best && hasPrefixAt(line, i, c) {
			kind, idx, best = openLineComment, j, len(c)
		}
	}
	for j, d := range l.comments {
		if len(d.open) > best && hasPrefixAt(line, i, d.open) {
			kind, idx, best = openBlockComment, j, len(d.open)
		}
	}
	for j, d := range l.strs {
		if len(d.open) > best && hasPrefixAt(line, i, d.open) {
			kind, idx, best = openString, j, len(d.open)
		}
	}
	return kind, idx, best
}

func hasPrefixAt(line []rune, i int, p []rune) bool {
	if len(p) == 0 || i+len(p) > len(line) {
		return false
	}
	for k, r := range p {
		if line[i+k] != r {
			return false
		}
	}
	return true
}

// fill marks n runes from i (clamped to the line) and returns the next index.
func fill(out []types.Class, i, n int, c types.Class) int {
	end := i + n
	if end > len(out) {
		end = len(out)
	}
	for ; i < end; i++ {
		out[i] = c
	}
	return end
}
