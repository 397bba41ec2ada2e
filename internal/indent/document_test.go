package indent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/tide-indent/internal/types"
)

func TestDocument_LineQueries(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	src := lines{"\tfoo(", "", "  // only a comment", "  /* a */ bar;", "x"}
	doc := lexicalDoc(e, src, 4)

	assert.Equal(t, 5, doc.LineCount())
	assert.Equal(t, "x", doc.Line(4))
	assert.Equal(t, "", doc.Line(7))
	assert.Equal(t, 4, doc.Indent(0))
	assert.True(t, doc.IsBlank(1))
	assert.True(t, doc.IsCommentOnly(2))
	assert.False(t, doc.IsCommentOnly(3))
	assert.Equal(t, 0, doc.PrevCodeLine(3))
	assert.Equal(t, -1, doc.PrevCodeLine(0))
	assert.Equal(t, 3, doc.NextCodeLine(0))
	assert.Equal(t, -1, doc.NextCodeLine(4))
	assert.False(t, doc.InVerbatim(3))
}

func TestDocument_VirtualColumns(t *testing.T) {
	doc := NewDocument(lines{"\ta\tb", "日本x"}, nil, 4)

	assert.Equal(t, 4, doc.VirtualColumn(0, 1))
	assert.Equal(t, 8, doc.VirtualColumn(0, 3))
	assert.Equal(t, 3, doc.ColumnAt(0, 8))
	assert.Equal(t, 0, doc.ColumnAt(0, 2))
	assert.Equal(t, 4, doc.VirtualColumn(1, 2))
	assert.Equal(t, 2, doc.ColumnAt(1, 4))
}

func TestDocument_CodeView(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	doc := lexicalDoc(e, lines{`f("a(b", x) /* ( */ +`}, 4)
	li := doc.info(0)
	assert.Equal(t, `f(`+string(placeholder)+`, x)   +`, string(li.trimmed()))
	assert.True(t, li.realCode)
}

func TestDocument_RefreshSeesEdits(t *testing.T) {
	src := lines{"a"}
	doc := NewDocument(src, nil, 4)
	assert.Equal(t, 0, doc.Indent(0))
	src[0] = "    a"
	assert.Equal(t, 0, doc.Indent(0))
	doc.Refresh()
	assert.Equal(t, 4, doc.Indent(0))
}

func TestDocument_PositionConversion(t *testing.T) {
	doc := NewDocument(lines{"\tx\ty"}, nil, 4)

	v := doc.ToVirtual(types.Position{Line: 0, Col: 3})
	assert.Equal(t, types.VirtualPosition{Line: 0, VCol: 8}, v)
	assert.Equal(t, types.Position{Line: 0, Col: 3}, doc.FromVirtual(v))
	assert.Equal(t, types.Position{Line: 0, Col: 2}, doc.FromVirtual(types.VirtualPosition{Line: 0, VCol: 6}))
}
