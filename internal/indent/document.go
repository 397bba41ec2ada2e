package indent

import (
	"github.com/bethropolis/tide-indent/internal/types"
	"github.com/bethropolis/tide-indent/internal/utils"
)

// LineSource gives line text by 0-based index, without the line break.
type LineSource interface {
	LineCount() int
	Line(index int) ([]byte, error)
}

// Classifier is the lexical oracle the engine consults. It must be a pure
// function of the current buffer content.
type Classifier interface {
	Class(pos types.Position) types.Class
	// InVerbatim reports whether the line starts inside a multi-line string
	// or comment.
	InVerbatim(line int) bool
}

// placeholder stands in for a run of string runes in the code view, so a
// literal reads as one opaque operand.
const placeholder = '\uFFFC'

// cell is one rune of the code view together with its raw column.
type cell struct {
	r   rune
	col int
}

type lineInfo struct {
	runes    []rune
	indent   int
	lead     int // rune index of the first non-blank rune, -1 when blank
	hasCode  bool
	realCode bool // has a non-blank rune classified as code
	verbatim bool
	// view is the line with comments collapsed to a single blank and each
	// string literal collapsed to one placeholder.
	view []cell
}

// Document is the read-only view of a buffer the engine works on. Line data
// is cached until Refresh; the engine refreshes on every entry point.
type Document struct {
	src       LineSource
	cls       Classifier
	tabWidth  int
	cache     map[int]*lineInfo
	overrides map[int]int
}

// NewDocument wraps src. A nil classifier treats every position as code.
func NewDocument(src LineSource, cls Classifier, tabWidth int) *Document {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	return &Document{
		src:      src,
		cls:      cls,
		tabWidth: tabWidth,
		cache:    make(map[int]*lineInfo),
	}
}

// Refresh drops cached line data. Call it after editing the source.
func (d *Document) Refresh() {
	clear(d.cache)
}

func (d *Document) TabWidth() int  { return d.tabWidth }
func (d *Document) LineCount() int { return d.src.LineCount() }

// Line returns the text of line, or "" when out of range.
func (d *Document) Line(line int) string {
	return string(d.info(line).runes)
}

// Indent returns the virtual width of the line's leading whitespace.
func (d *Document) Indent(line int) int {
	if w, ok := d.overrides[line]; ok {
		return w
	}
	return d.info(line).indent
}

func (d *Document) IsBlank(line int) bool { return d.info(line).lead < 0 }

// IsCommentOnly reports a non-blank line holding nothing but comments.
func (d *Document) IsCommentOnly(line int) bool {
	li := d.info(line)
	return li.lead >= 0 && !li.hasCode
}

func (d *Document) InVerbatim(line int) bool { return d.info(line).verbatim }

// isCode reports whether line carries a statement: not blank, not
// comment-only, and not the interior of a verbatim span.
func (d *Document) isCode(line int) bool {
	li := d.info(line)
	return li.hasCode && (!li.verbatim || li.realCode)
}

// PrevCodeLine returns the nearest line before line that holds code, or -1.
func (d *Document) PrevCodeLine(line int) int {
	for l := line - 1; l >= 0; l-- {
		if d.isCode(l) {
			return l
		}
	}
	return -1
}

// NextCodeLine returns the nearest line after line that holds code, or -1.
func (d *Document) NextCodeLine(line int) int {
	for l := line + 1; l < d.src.LineCount(); l++ {
		if d.isCode(l) {
			return l
		}
	}
	return -1
}

// VirtualColumn converts a rune column on line to a virtual column.
func (d *Document) VirtualColumn(line, col int) int {
	return utils.VirtualColumn(d.info(line).runes, col, d.tabWidth)
}

// ColumnAt converts a virtual column on line to a rune column.
func (d *Document) ColumnAt(line, vcol int) int {
	return utils.ColumnAtVirtual(d.info(line).runes, vcol, d.tabWidth)
}

// ToVirtual converts a raw position to its virtual form.
func (d *Document) ToVirtual(p types.Position) types.VirtualPosition {
	return types.VirtualPosition{Line: p.Line, VCol: d.VirtualColumn(p.Line, p.Col)}
}

// FromVirtual converts a virtual position back to a rune column. A virtual
// column inside a tab or wide character maps to that character.
func (d *Document) FromVirtual(v types.VirtualPosition) types.Position {
	return types.Position{Line: v.Line, Col: d.ColumnAt(v.Line, v.VCol)}
}

func (d *Document) setOverride(line, width int) {
	if d.overrides == nil {
		d.overrides = make(map[int]int)
	}
	d.overrides[line] = width
}

func (d *Document) clearOverrides() {
	clear(d.overrides)
}

func (d *Document) class(line, col int) types.Class {
	if d.cls == nil {
		return types.ClassCode
	}
	c := d.cls.Class(types.Position{Line: line, Col: col})
	if !c.Valid() {
		return types.ClassString
	}
	return c
}

func (d *Document) info(line int) *lineInfo {
	if li, ok := d.cache[line]; ok {
		return li
	}
	li := &lineInfo{lead: -1}
	if line >= 0 && line < d.src.LineCount() {
		if text, err := d.src.Line(line); err == nil {
			li.runes = []rune(string(text))
		}
		li.verbatim = d.cls != nil && d.cls.InVerbatim(line)
	}

	ws := utils.LeadingWhitespace(li.runes)
	if ws < len(li.runes) {
		li.lead = ws
	}
	li.indent = utils.VirtualColumn(li.runes, ws, d.tabWidth)

	prev := types.ClassCode
	for col, r := range li.runes {
		c := d.class(line, col)
		switch c {
		case types.ClassComment:
			if prev != types.ClassComment {
				li.view = append(li.view, cell{r: ' ', col: col})
			}
		case types.ClassString:
			if prev != types.ClassString {
				li.view = append(li.view, cell{r: placeholder, col: col})
			}
			if !isBlank(r) {
				li.hasCode = true
			}
		default:
			li.view = append(li.view, cell{r: r, col: col})
			if !isBlank(r) {
				li.hasCode = true
				li.realCode = true
			}
		}
		prev = c
	}
	d.cache[line] = li
	return li
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
}
