package indent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bethropolis/tide-indent/internal/utils"
)

var fragments = map[string][]string{
	"c": {
		"if (x) {", "}", "} else {", "foo(a,", "b)", "x = y +", "z;", "/* c (", "*/",
		`"s("`, "return;", ")", "]", "[1,", "// {", "i++", "",
	},
	"python": {
		"if x:", "else:", "elif y:", "return 1", "pass", "foo(", ")", "x = [1,", `"""`,
		"# (", "y = 2", "\\", "for i in z:", "",
	},
	"ruby": {
		"def f", "end", "if x", "else", "do |a|", "when 1", "case y", "(", ")", "x +",
		"# end", "a.end", "",
	},
	"ada": {
		"if X then", "else", "end if;", "loop", "end loop;", "end;", "X := 1 +", "Y;", "-- end", "(",
	},
}

func genDoc(frags []string) *rapid.Generator[lines] {
	return rapid.Custom(func(t *rapid.T) lines {
		n := rapid.IntRange(1, 25).Draw(t, "lines")
		out := make(lines, n)
		for i := range out {
			var sb strings.Builder
			sb.WriteString(rapid.SampledFrom([]string{"", "  ", "    ", "\t", "      "}).Draw(t, "ws"))
			k := rapid.IntRange(0, 3).Draw(t, "fragments")
			for j := 0; j < k; j++ {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(rapid.SampledFrom(frags).Draw(t, "fragment"))
			}
			out[i] = sb.String()
		}
		return out
	})
}

func TestProperty_TotalAndIdempotent(t *testing.T) {
	for name, frags := range fragments {
		t.Run(name, func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				src := genDoc(frags).Draw(rt, "doc")
				limit := rapid.IntRange(1, 30).Draw(rt, "scanLimit")
				e := mustEngine(t, name, Options{ScanLimit: limit})

				for line := range src {
					d := e.compute(lexicalDoc(e, src, 4), line, 4)
					if d.Kind == KindColumns && d.Columns < 0 {
						rt.Fatalf("line %d: negative columns %d", line, d.Columns)
					}
					if d.Code() < NoChangeCode {
						rt.Fatalf("line %d: bad code %d", line, d.Code())
					}
					if d.Kind != KindColumns {
						continue
					}

					applied := append(lines(nil), src...)
					applied[line] = utils.MakeIndent(d.Columns, 4, false) + strings.TrimLeft(src[line], " \t")
					again := e.compute(lexicalDoc(e, applied, 4), line, 4)
					if again != d {
						rt.Fatalf("line %d: %v then %v after applying", line, d, again)
					}
				}
			})
		})
	}
}

func TestProperty_CommentInteriorNeverChanges(t *testing.T) {
	e := mustEngine(t, "c", Options{})
	rapid.Check(t, func(rt *rapid.T) {
		prefix := genDoc(fragments["c"]).Draw(rt, "prefix")
		interior := rapid.SliceOfN(
			rapid.StringOf(rapid.SampledFrom([]rune("(){}[] \tabc;+=,"))), 1, 8,
		).Draw(rt, "interior")

		src := append(lines(nil), prefix...)
		src = append(src, "/* open")
		first := len(src)
		src = append(src, interior...)
		src = append(src, "*/")

		doc := lexicalDoc(e, src, 4)
		for line := first; line < first+len(interior); line++ {
			for _, typed := range []string{"\n", "}", ")", "]"} {
				if got := e.IndentCode(doc, line, 4, typed); got != NoChangeCode {
					rt.Fatalf("line %d %q typed %q: got %d", line, src[line], typed, got)
				}
			}
		}
	})
}

// genBlocks emits properly indented nested C/JS blocks and records, for
// each closing line, the indent of the line that opened it.
func genBlocks(t *rapid.T, depth, ind int, out *lines, want map[int]int) {
	pad := strings.Repeat(" ", ind)
	opener := rapid.SampledFrom([]string{"if (x) {", "while (y) {", "void f() {", "foo(function() {"}).Draw(t, "opener")
	*out = append(*out, pad+opener)
	stmts := rapid.IntRange(0, 3).Draw(t, "stmts")
	for i := 0; i < stmts; i++ {
		if depth < 3 && rapid.Bool().Draw(t, "nest") {
			genBlocks(t, depth+1, ind+4, out, want)
		} else {
			*out = append(*out, pad+"    stmt();")
		}
	}
	closer := "}"
	if strings.HasPrefix(opener, "foo(") {
		closer = "});"
	}
	want[len(*out)] = ind
	*out = append(*out, pad+closer)
}

func TestProperty_BalancedBlocksCloseAtOpenerIndent(t *testing.T) {
	e := mustEngine(t, "javascript", Options{})
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.SampledFrom([]int{0, 4, 8}).Draw(rt, "base")
		var src lines
		want := make(map[int]int)
		genBlocks(rt, 0, base, &src, want)

		doc := lexicalDoc(e, src, 4)
		for line, ind := range want {
			require.Equal(rt, Columns(ind), e.Compute(doc, line, 4), "line %d %q", line, src[line])
		}
		require.Equal(rt, base, e.IndentCode(doc, len(src)-1, 4, "}"))
	})
}
