package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide-indent/internal/buffer"
	"github.com/bethropolis/tide-indent/internal/classify"
	"github.com/bethropolis/tide-indent/internal/grammar"
	"github.com/bethropolis/tide-indent/internal/indent"
	"github.com/bethropolis/tide-indent/internal/types"
)

func newSession(t *testing.T, lang, content string, opts Options) *Session {
	t.Helper()
	reg, err := grammar.NewDefaultRegistry()
	require.NoError(t, err)
	g, err := reg.Get(lang)
	require.NoError(t, err)
	eng, err := indent.New(g, indent.Options{})
	require.NoError(t, err)
	if opts.Classifier == "" {
		opts.Classifier = classify.ModeLexical
	}
	s, err := New(context.Background(), buffer.NewFromBytes([]byte(content)), eng, opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func text(s *Session) string { return string(s.Buffer().Bytes()) }

func TestType_BraceBlock(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "c", "", Options{})

	require.NoError(t, s.TypeString(ctx, "if (x) {\nfoo();\n}"))
	assert.Equal(t, "if (x) {\n    foo();\n}", text(s))
	assert.Equal(t, types.Position{Line: 2, Col: 1}, s.Cursor())
}

func TestType_OffsideBlock(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "python", "", Options{})

	require.NoError(t, s.TypeString(ctx, "if x:\nreturn 1\n"))
	assert.Equal(t, "if x:\n    return 1\n", text(s))
	assert.Equal(t, types.Position{Line: 2, Col: 0}, s.Cursor())
}

func TestType_UsesTabs(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "c", "", Options{TabWidth: 4, UseTabs: true})

	require.NoError(t, s.TypeString(ctx, "if (x) {\nif (y) {\n"))
	assert.Equal(t, "if (x) {\n\tif (y) {\n\t\t", text(s))
}

func TestUndoRedo_GroupsKeystrokeWithReindent(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "c", "", Options{})
	require.NoError(t, s.TypeString(ctx, "if (x) {\nfoo();\n}"))

	ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "if (x) {\n    foo();\n    ", text(s))

	ok, err = s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "if (x) {\n    foo();", text(s))
	assert.Equal(t, types.Position{Line: 1, Col: 10}, s.Cursor())

	ok, err = s.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "if (x) {\n    foo();\n    ", text(s))
	assert.Equal(t, types.Position{Line: 2, Col: 4}, s.Cursor())
}

func TestUndo_Empty(t *testing.T) {
	s := newSession(t, "c", "x", Options{})
	ok, err := s.Undo()
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReindentAll(t *testing.T) {
	ctx := context.Background()
	src := "int f() {\nif (x) {\nfoo(a,\nb);\n}\n\n}"
	want := "int f() {\n    if (x) {\n        foo(a,\n            b);\n    }\n\n}"

	s := newSession(t, "c", src, Options{})
	changes, err := s.ReindentAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, text(s))
	require.Len(t, changes, 4)
	assert.Equal(t, LineChange{Line: 3, Before: "b);", After: "            b);"}, changes[2])

	again, err := s.ReindentAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, src, text(s))
}

func TestReindentAll_Tabs(t *testing.T) {
	s := newSession(t, "c", "if (x) {\nif (y) {\nz;\n}\n}", Options{UseTabs: true})
	_, err := s.ReindentAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "if (x) {\n\tif (y) {\n\t\tz;\n\t}\n}", text(s))
}

func TestReindentAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSession(t, "c", "if (x) {\ny;\n}", Options{})
	_, err := s.ReindentAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWhitespace(t *testing.T) {
	s := newSession(t, "c", "\t  x = 1;\ny = 2;", Options{})

	ws, ok := s.Whitespace(1, indent.KeepPrevious)
	assert.True(t, ok)
	assert.Equal(t, "\t  ", ws)

	_, ok = s.Whitespace(0, indent.KeepPrevious)
	assert.False(t, ok)

	_, ok = s.Whitespace(1, indent.NoChange)
	assert.False(t, ok)

	ws, ok = s.Whitespace(1, indent.Columns(6))
	assert.True(t, ok)
	assert.Equal(t, "      ", ws)
}

func TestReindentLine_MovesCursorWithText(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "c", "if (x) {\n  foo();\n}", Options{})
	s.SetCursor(types.Position{Line: 1, Col: 5})

	changed, err := s.ReindentLine(ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "if (x) {\n    foo();\n}", text(s))
	assert.Equal(t, types.Position{Line: 1, Col: 7}, s.Cursor())
}

func TestBackspace(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "c", "ab\ncd", Options{})
	s.SetCursor(types.Position{Line: 1, Col: 0})

	require.NoError(t, s.Backspace(ctx))
	assert.Equal(t, "abcd", text(s))
	assert.Equal(t, types.Position{Line: 0, Col: 2}, s.Cursor())

	s.SetCursor(types.Position{Line: 9, Col: 9})
	assert.Equal(t, types.Position{Line: 0, Col: 4}, s.Cursor())
}

func TestNew_TreeSitterClassifier(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, "go", "package main\n\n", Options{Classifier: classify.ModeTreeSitter})
	s.SetCursor(types.Position{Line: 1})

	require.NoError(t, s.TypeString(ctx, "func f() {\nx := `a\n"))
	// the line after the open raw string is verbatim and left alone
	assert.Equal(t, "package main\nfunc f() {\n    x := `a\n", text(s))
}

func TestSession_MatchBracket(t *testing.T) {
	s := newSession(t, "c", "if (a) {\n}", Options{})

	s.SetCursor(types.Position{Line: 0, Col: 7})
	span, ok := s.MatchBracket()
	require.True(t, ok)
	assert.Equal(t, types.Span{Start: types.Position{Line: 0, Col: 7}, End: types.Position{Line: 1, Col: 1}}, span)

	s.SetCursor(types.Position{Line: 0, Col: 6})
	span, ok = s.MatchBracket()
	require.True(t, ok)
	assert.Equal(t, types.Position{Line: 0, Col: 3}, span.Start)

	s.SetCursor(types.Position{Line: 0, Col: 0})
	_, ok = s.MatchBracket()
	assert.False(t, ok)
}
