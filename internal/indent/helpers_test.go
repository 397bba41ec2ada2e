package indent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide-indent/internal/buffer"
	"github.com/bethropolis/tide-indent/internal/classify"
	"github.com/bethropolis/tide-indent/internal/grammar"
)

// lines is a LineSource over a fixed slice, so tests can end a document
// with an empty line.
type lines []string

func (l lines) LineCount() int { return len(l) }

func (l lines) Line(i int) ([]byte, error) {
	if i < 0 || i >= len(l) {
		return nil, buffer.ErrLineOutOfRange
	}
	return []byte(l[i]), nil
}

var registry *grammar.Registry

func mustGrammar(t testing.TB, name string) *grammar.Descriptor {
	t.Helper()
	if registry == nil {
		r, err := grammar.NewDefaultRegistry()
		require.NoError(t, err)
		registry = r
	}
	g, err := registry.Get(name)
	require.NoError(t, err)
	return g
}

func mustEngine(t testing.TB, name string, opts Options) *Engine {
	t.Helper()
	e, err := New(mustGrammar(t, name), opts)
	require.NoError(t, err)
	return e
}

// lexicalDoc builds a document classified by the grammar's lexical rules.
func lexicalDoc(e *Engine, src lines, tabWidth int) *Document {
	return NewDocument(src, classify.NewLexical(e.Grammar(), src), tabWidth)
}
