// Package classify answers "is this position code, string or comment" for
// the indentation engine. Two implementations exist: a lexical scanner
// driven by a grammar's comment/string syntax, and a tree-sitter backed one
// for grammars that name a binding.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/tide-indent/internal/grammar"
	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/types"
)

// LineSource is the read-only view of a document the classifiers need.
type LineSource interface {
	LineCount() int
	Line(index int) ([]byte, error)
}

// Source additionally exposes the whole document, for parsers.
type Source interface {
	LineSource
	Bytes() []byte
}

// Classifier is implemented by Lexical and TreeSitter.
type Classifier interface {
	Class(pos types.Position) types.Class
	// InVerbatim reports whether the line starts inside a string or comment
	// opened on an earlier line.
	InVerbatim(line int) bool
	// Edit tells the classifier the document changed.
	Edit(ctx context.Context, edit types.EditInfo) error
}

// Mode selects the classifier implementation.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeLexical    Mode = "lexical"
	ModeTreeSitter Mode = "treesitter"
)

// ParseMode validates a mode string. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeLexical, ModeTreeSitter:
		return m, nil
	}
	return "", fmt.Errorf("unknown classifier %q (want auto, lexical or treesitter)", s)
}

// New builds the classifier for g. Auto picks tree-sitter when the grammar
// names a supported binding and falls back to lexical otherwise.
func New(ctx context.Context, mode Mode, g *grammar.Descriptor, src Source) (Classifier, error) {
	switch mode {
	case ModeLexical:
		return NewLexical(g, src), nil
	case ModeTreeSitter:
		if !HasBinding(g.TreeSitter) {
			return nil, fmt.Errorf("grammar %s has no tree-sitter binding", g.Name)
		}
		return NewTreeSitter(ctx, g, src)
	case ModeAuto, "":
		if HasBinding(g.TreeSitter) {
			ts, err := NewTreeSitter(ctx, g, src)
			if err == nil {
				return ts, nil
			}
			logger.Warnf("classify: tree-sitter unavailable for %s, using lexical: %v", g.Name, err)
		}
		return NewLexical(g, src), nil
	}
	return nil, fmt.Errorf("unknown classifier mode %q", mode)
}
