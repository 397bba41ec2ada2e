package classify

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/tide-indent/internal/grammar"
	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/types"
	"github.com/bethropolis/tide-indent/internal/utils"
)

// lineSpan is a captured extent on one line.
type lineSpan struct {
	start, end int // rune columns, half-open
	class      types.Class
}

// TreeSitter classifies from a tree-sitter parse tree. While the tree has
// syntax errors (an unterminated string being typed, say) it answers from
// a lexical classifier instead, since error recovery can swallow the rest
// of the file into an ERROR node.
type TreeSitter struct {
	src      Source
	parser   *sitter.Parser
	query    *sitter.Query
	tree     *sitter.Tree
	spans    map[int][]lineSpan
	widths   map[int]int // rune length per line, filled on demand
	verbatim map[int]bool
	fallback *Lexical
	broken   bool
}

// NewTreeSitter parses src with the grammar's tree-sitter binding.
func NewTreeSitter(ctx context.Context, g *grammar.Descriptor, src Source) (*TreeSitter, error) {
	b, ok := bindings[g.TreeSitter]
	if !ok {
		return nil, fmt.Errorf("no tree-sitter binding %q", g.TreeSitter)
	}
	lang := b.lang()
	pattern, err := loadQuery(b)
	if err != nil {
		return nil, err
	}
	query, err := sitter.NewQuery(pattern, lang)
	if err != nil {
		return nil, fmt.Errorf("query parse failed for %s: %w", g.TreeSitter, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	ts := &TreeSitter{
		src:      src,
		parser:   parser,
		query:    query,
		fallback: NewLexical(g, src),
	}
	if err := ts.reparse(ctx); err != nil {
		ts.Close()
		return nil, err
	}
	return ts, nil
}

// Close releases the parser, query and tree.
func (t *TreeSitter) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
	t.query.Close()
	t.parser.Close()
}

// Class implements Classifier.
func (t *TreeSitter) Class(pos types.Position) types.Class {
	if t.broken {
		return t.fallback.Class(pos)
	}
	if pos.Line < 0 || pos.Line >= t.src.LineCount() || pos.Col < 0 {
		return types.ClassOther
	}
	if pos.Col >= t.width(pos.Line) {
		return types.ClassOther
	}
	spans := t.spans[pos.Line]
	i := sort.Search(len(spans), func(i int) bool { return spans[i].start > pos.Col })
	if i > 0 && pos.Col < spans[i-1].end {
		return spans[i-1].class
	}
	return types.ClassCode
}

func (t *TreeSitter) width(line int) int {
	if n, ok := t.widths[line]; ok {
		return n
	}
	text, err := t.src.Line(line)
	if err != nil {
		return 0
	}
	n := utf8.RuneCount(text)
	t.widths[line] = n
	return n
}

// InVerbatim implements Classifier.
func (t *TreeSitter) InVerbatim(line int) bool {
	if t.broken {
		return t.fallback.InVerbatim(line)
	}
	return t.verbatim[line]
}

// Edit applies the edit to the old tree and reparses incrementally. The
// source must already hold the edited content.
func (t *TreeSitter) Edit(ctx context.Context, edit types.EditInfo) error {
	if t.tree != nil {
		t.tree.Edit(edit.InputEdit())
	}
	t.fallback.Invalidate(int(edit.StartPosition.Row))
	return t.reparse(ctx)
}

func (t *TreeSitter) reparse(ctx context.Context) error {
	tree, err := t.parser.ParseCtx(ctx, t.tree, t.src.Bytes())
	if err != nil {
		logger.Errorf("Tree-sitter parsing error: %v", err)
		return fmt.Errorf("parsing failed: %w", err)
	}
	if t.tree != nil {
		t.tree.Close()
	}
	t.tree = tree

	root := tree.RootNode()
	t.broken = root.HasError()
	if t.broken {
		logger.DebugTagf("classify", "tree has errors, using lexical classification")
		return nil
	}
	t.collect(root)
	return nil
}

func (t *TreeSitter) collect(root *sitter.Node) {
	t.spans = make(map[int][]lineSpan)
	t.widths = make(map[int]int)
	t.verbatim = make(map[int]bool)

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(t.query, root)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			class := types.ClassString
			if t.query.CaptureNameForId(capture.Index) == "comment" {
				class = types.ClassComment
			}
			t.addNode(capture.Node, class)
		}
	}
	for row, spans := range t.spans {
		t.spans[row] = flatten(spans)
	}
	logger.DebugTagf("classify", "collected spans on %d lines", len(t.spans))
}

// addNode records the node's extent line by line, converting tree-sitter's
// byte columns to rune columns.
func (t *TreeSitter) addNode(n *sitter.Node, class types.Class) {
	start, end := n.StartPoint(), n.EndPoint()
	for row := int(start.Row); row <= int(end.Row); row++ {
		text, err := t.src.Line(row)
		if err != nil {
			logger.Warnf("classify: cannot get line %d: %v", row, err)
			return
		}
		from := 0
		if row == int(start.Row) {
			from = utils.ByteOffsetToRuneIndex(text, int(start.Column))
		}
		to := utf8.RuneCount(text)
		if row == int(end.Row) {
			to = utils.ByteOffsetToRuneIndex(text, int(end.Column))
		}
		if row > int(start.Row) && (row < int(end.Row) || end.Column > 0) {
			t.verbatim[row] = true
		}
		if to > from {
			t.spans[row] = append(t.spans[row], lineSpan{start: from, end: to, class: class})
		}
	}
}

// flatten sorts spans by start and folds nested captures (a string inside a
// template substitution) into the span that encloses them, leaving disjoint
// spans that Class can binary search.
func flatten(spans []lineSpan) []lineSpan {
	slices.SortFunc(spans, func(a, b lineSpan) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.end, a.end)
	})
	out := spans[:0]
	for _, s := range spans {
		if n := len(out); n > 0 && s.start < out[n-1].end {
			out[n-1].end = max(out[n-1].end, s.end)
			continue
		}
		out = append(out, s)
	}
	return out
}
