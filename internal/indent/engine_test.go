package indent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide-indent/internal/types"
)

type indentCase struct {
	name    string
	grammar string
	src     lines
	line    int
	unit    int
	typed   string
	want    int
}

func runCases(t *testing.T, cases []indentCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := mustEngine(t, tc.grammar, Options{})
			doc := lexicalDoc(e, tc.src, 4)
			assert.Equal(t, tc.want, e.IndentCode(doc, tc.line, tc.unit, tc.typed))
		})
	}
}

func TestIndent_Brackets(t *testing.T) {
	runCases(t, []indentCase{
		{"open brace", "c", lines{"if (true) {", ""}, 1, 4, "\n", 4},
		{"align after paren", "c", lines{"foo(argA,", ""}, 1, 4, "\n", 4},
		{"align wins over continuation", "c", lines{"call(a +", ""}, 1, 4, "\n", 5},
		{"empty argument list", "c", lines{"    f(", ""}, 1, 4, "\n", 4},
		{"closing brace", "c", lines{"if (x) {", "    y;", "}"}, 2, 4, "}", 0},
		{"closer under aligned opener", "c", lines{"foo(a,", "    b", ")"}, 2, 4, ")", 3},
		{"net closer returns to statement", "c", lines{"foo(a,", "    b)", ""}, 2, 4, "\n", 0},
		{"else brace", "c", lines{"if (a) {", "    x;", "} else {", ""}, 3, 4, "\n", 4},
		{"close after else", "c", lines{"if (a) {", "    x;", "} else {", "    y;", "}"}, 4, 4, "}", 0},
		{"nested closing", "javascript", lines{"function f() {", "  if (a) {", "    b();", "  }", "}"}, 4, 2, "}", 0},
		{"bracket in string ignored", "c", lines{"x = \"(\" // {", ""}, 1, 4, "\n", KeepPreviousCode},
		{"python list", "python", lines{"x = [1,", ""}, 1, 4, "\n", 5},
		{"python multi-line condition", "python", lines{"if (a and", "        b):", ""}, 2, 4, "\n", 4},
	})
}

func TestIndent_Continuation(t *testing.T) {
	runCases(t, []indentCase{
		{"operator", "c", lines{"x = a +", ""}, 1, 4, "\n", 4},
		{"sibling after reflow", "c", lines{"x = a +", "      b +", ""}, 2, 4, "\n", 4},
		{"statement ends", "c", lines{"x = a +", "    b;", ""}, 2, 4, "\n", 0},
		{"excluded suffix", "c", lines{"i++", ""}, 1, 4, "\n", KeepPreviousCode},
		{"arrow", "javascript", lines{"const f = (x) =>", ""}, 1, 2, "\n", 2},
		{"comma inside object", "javascript", lines{"const o = {", "  a: 1,", ""}, 2, 2, "\n", KeepPreviousCode},
		{"comma outside brackets", "lua", lines{"local a,", ""}, 1, 2, "\n", 2},
		{"word operator", "lua", lines{"x = a and", ""}, 1, 2, "\n", 2},
		{"word operator boundary", "lua", lines{"x = band", ""}, 1, 2, "\n", KeepPreviousCode},
		{"marker", "python", lines{"x = 1 + \\", ""}, 1, 4, "\n", 4},
		{"alignment operator", "ada", lines{"X := A +", ""}, 1, 3, "\n", 5},
	})
}

func TestIndent_BlockKeywords(t *testing.T) {
	runCases(t, []indentCase{
		{"python block colon", "python", lines{"if True:", ""}, 1, 4, "\n", 4},
		{"python return dedents", "python", lines{"if True:", "    return x", ""}, 2, 4, "\n", 0},
		{"python nested return", "python", lines{"def f():", "    if x:", "        return 1", ""}, 3, 4, "\n", 4},
		{"python else", "python", lines{"if x:", "    y = 1", "    else"}, 2, 4, "e", 0},
		{"python else colon", "python", lines{"for i in x:", "    if i:", "        y()", "    else:"}, 3, 4, ":", 4},
		{"python nested else", "python", lines{"if a:", "    if b:", "        x", "    y", "    else"}, 4, 4, "e", 0},
		{"ada else aligns with if", "ada", lines{"if X then", "   Foo;", "   Bar;", "   else"}, 3, 3, "e", 0},
		{"ada upper case", "ada", lines{"IF X THEN", "   Foo;", "   ELSE"}, 2, 3, "E", 0},
		{"ada qualified end skips loop", "ada", lines{"if A then", "   loop", "      X;", "   end if;"}, 3, 3, "d", 0},
		{"ada bare end closes loop", "ada", lines{"if A then", "   loop", "      X;", "end"}, 3, 3, "d", 3},
		{"ada nested qualified ends", "ada", lines{"if A then", "   loop", "      X;", "   end loop;", "   Y;", "   end if;"}, 5, 3, "d", 0},
		{"ruby end", "ruby", lines{"def foo", "  if x", "    y", "  else", "    z", "  end", "  end"}, 6, 2, "d", 0},
		{"ruby inner end", "ruby", lines{"def foo", "  if x", "    y", "  else", "    z", "    end"}, 5, 2, "d", 2},
		{"ruby else", "ruby", lines{"def foo", "  if x", "    y", "    else"}, 3, 2, "e", 2},
		{"ruby when", "ruby", lines{"case x", "when 1", "  a", "  when"}, 3, 2, "n", 0},
		{"ruby do block", "ruby", lines{"items.each do |x|", ""}, 1, 2, "\n", 2},
		{"ruby newline after misindented end", "ruby", lines{"def foo", "  x = 1", "  end", ""}, 3, 2, "\n", 0},
		{"ruby newline after correct end", "ruby", lines{"def foo", "  x = 1", "end", ""}, 3, 2, "\n", KeepPreviousCode},
		{"ruby one-line block", "ruby", lines{"def a; end", ""}, 1, 2, "\n", KeepPreviousCode},
		{"ruby multi-line condition", "ruby", lines{"if a &&", "   b", ""}, 2, 2, "\n", 2},
		{"lua repeat until", "lua", lines{"repeat", "  x = x + 1", "  until"}, 2, 2, "l", 0},
		{"lua until skips then", "lua", lines{"repeat", "  if x then", "  y()", "  until"}, 3, 2, "l", 0},
		{"lua function", "lua", lines{"local function foo()", ""}, 1, 2, "\n", 2},
		{"lua end inside call", "lua", lines{"foo(function()", "  x()", "  end)"}, 2, 2, "d", 0},
		{"lua else beats bracket", "lua", lines{"if foo(x,", "       y) then", "  else"}, 2, 2, "e", 0},
		{"dotted end is not a keyword", "lua", lines{"if x then", "  t.end", ""}, 2, 2, "\n", KeepPreviousCode},
	})
}

func TestCompute_SiblingContinuationKeepsIndent(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	doc := lexicalDoc(e, lines{"x = a +", "      b +", ""}, 4)
	assert.Equal(t, Columns(6), e.Compute(doc, 2, 4))
}

func TestIndent_Gating(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	doc := lexicalDoc(e, lines{"if (x) {", "    foo)"}, 4)

	assert.Equal(t, NoChange, e.Indent(doc, 1, 4, "x"))
	assert.Equal(t, NoChange, e.Indent(doc, 1, 4, ")"), "closer not first on the line")
	assert.True(t, e.IsTrigger("}"))
	assert.False(t, e.IsTrigger("a"))

	py := mustEngine(t, "python", Options{})
	pdoc := lexicalDoc(py, lines{"if x:", "    y", "    elsewhere = 1"}, 4)
	assert.Equal(t, NoChange, py.Indent(pdoc, 2, 4, "e"))
}

func TestIndentAt_OnlyTheCompletingKeystrokeFires(t *testing.T) {
	rb := mustEngine(t, "ruby", Options{})
	doc := lexicalDoc(rb, lines{"def foo", "  x", "  end food"}, 4)
	assert.Equal(t, NoChange, rb.IndentAt(doc, types.Position{Line: 2, Col: 10}, 2, "d"))
	assert.Equal(t, Columns(0), rb.IndentAt(doc, types.Position{Line: 2, Col: 5}, 2, "d"))
	assert.Equal(t, Columns(0), rb.Indent(doc, 2, 2, "d"), "no cursor compares characters only")

	c := mustEngine(t, "c", Options{})
	cdoc := lexicalDoc(c, lines{"if (x) {", "    }"}, 4)
	assert.Equal(t, Columns(0), c.IndentAt(cdoc, types.Position{Line: 1, Col: 5}, 4, "}"))
	assert.Equal(t, NoChange, c.IndentAt(cdoc, types.Position{Line: 1, Col: 3}, 4, "}"))

	py := mustEngine(t, "python", Options{})
	pdoc := lexicalDoc(py, lines{"if x:", "    y", "    else:"}, 4)
	assert.Equal(t, Columns(0), py.IndentAt(pdoc, types.Position{Line: 2, Col: 9}, 4, ":"))
	assert.Equal(t, Columns(0), py.IndentAt(pdoc, types.Position{Line: 2, Col: 8}, 4, "e"))
	assert.Equal(t, NoChange, py.IndentAt(pdoc, types.Position{Line: 2, Col: 5}, 4, ":"))
}

func TestIndent_StringAndCommentImmunity(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	doc := lexicalDoc(e, lines{"/* start (", "   inside {", "   } ) */", "x;"}, 4)
	assert.Equal(t, NoChangeCode, e.IndentCode(doc, 1, 4, "\n"))
	assert.Equal(t, NoChangeCode, e.IndentCode(doc, 2, 4, "}"))
	assert.Equal(t, NoChange, e.Compute(doc, 2, 4))

	py := mustEngine(t, "python", Options{})
	pdoc := lexicalDoc(py, lines{"def f():", "    \"\"\"doc (", "    more [", "    \"\"\""}, 4)
	assert.Equal(t, NoChangeCode, py.IndentCode(pdoc, 2, 4, "\n"))
	assert.Equal(t, NoChange, py.Compute(pdoc, 3, 4))
}

func TestReflow_UsesCorrectedPreviousIndent(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	doc := lexicalDoc(e, lines{"if (x) {", "y +", ""}, 4)

	prev, cur := e.Reflow(doc, 2, 4)
	assert.Equal(t, Columns(4), prev)
	assert.Equal(t, Columns(8), cur)
	assert.Equal(t, 8, e.IndentCode(doc, 2, 4, "\n"))
	// overrides do not leak into later queries
	assert.Equal(t, 0, doc.Indent(1))
}

func TestCompute_Edges(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	doc := lexicalDoc(e, lines{"foo", "", "// note", ""}, 4)

	assert.Equal(t, Columns(0), e.Compute(doc, 0, 4))
	assert.Equal(t, NoChange, e.Compute(doc, 9, 4))
	assert.Equal(t, NoChange, e.Compute(doc, -1, 4))
	assert.Equal(t, KeepPrevious, e.Compute(doc, 3, 4))
	assert.Equal(t, 0, e.ReferenceLine(doc, 3))
	assert.Equal(t, -1, e.ReferenceLine(doc, 0))
}

func TestCompute_TabsAndDefaultUnit(t *testing.T) {
	e := mustEngine(t, "c", Options{TabWidth: 8})
	doc := lexicalDoc(e, lines{"\tif (x) {", ""}, 8)
	assert.Equal(t, Columns(16), e.Compute(doc, 1, 0))
	assert.Equal(t, Columns(12), e.Compute(doc, 1, 4))
}

func TestCompute_ScanLimitDegradesToKeepPrevious(t *testing.T) {
	src := lines{"foo(", "a", "b", "c", "d", "e", ")"}

	capped := mustEngine(t, "c", Options{ScanLimit: 3})
	assert.Equal(t, KeepPrevious, capped.Compute(lexicalDoc(capped, src, 4), 6, 4))

	full := mustEngine(t, "c", Options{})
	assert.Equal(t, Columns(0), full.Compute(lexicalDoc(full, src, 4), 6, 4))
}

type panicky struct{}

func (panicky) Class(types.Position) types.Class { panic("boom") }
func (panicky) InVerbatim(int) bool              { return false }

type garbage struct{}

func (garbage) Class(types.Position) types.Class { return types.Class(99) }
func (garbage) InVerbatim(int) bool              { return false }

func TestIndent_CollaboratorFailures(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	src := lines{"foo(", ""}

	assert.Equal(t, NoChange, e.Indent(NewDocument(src, panicky{}, 4), 1, 4, "\n"))
	assert.Equal(t, NoChange, e.Compute(NewDocument(src, panicky{}, 4), 1, 4))
	prev, cur := e.Reflow(NewDocument(src, panicky{}, 4), 1, 4)
	assert.Equal(t, NoChange, prev)
	assert.Equal(t, NoChange, cur)

	// Unknown classes read as string, so the paren is inert.
	assert.Equal(t, KeepPrevious, e.Compute(NewDocument(src, garbage{}, 4), 1, 4))
	assert.Equal(t, Columns(4), e.Compute(NewDocument(src, nil, 4), 1, 4))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	_, err = New(mustGrammar(t, "c"), Options{ScanLimit: -1})
	assert.Error(t, err)

	e, err := New(mustGrammar(t, "c"), Options{})
	require.NoError(t, err)
	assert.Equal(t, mustGrammar(t, "c").ScanLimit, e.limit)
}
