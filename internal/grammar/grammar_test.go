package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Validation(t *testing.T) {
	cases := []struct {
		name string
		file File
	}{
		{"missing name", File{}},
		{"bad bracket", File{Name: "x", Brackets: []string{"((("}}},
		{"same bracket", File{Name: "x", Brackets: []string{"||"}}},
		{"duplicate opener", File{Name: "x", Brackets: []string{"()", "(]"}}},
		{"start and end", File{Name: "x", Blocks: BlocksFile{Starts: []string{"end"}, Ends: []string{"end"}}}},
		{"undeclared continuation", File{Name: "x", Blocks: BlocksFile{ContinuationOf: map[string][]string{"else": {"if"}}}}},
		{"negative scan limit", File{Name: "x", ScanLimit: -1}},
		{"empty string delimiter", File{Name: "x", Syntax: SyntaxFile{Strings: []DelimiterFile{{}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.file)
			assert.ErrorIs(t, err, ErrInvalidGrammar)
		})
	}
}

func TestCompile_DerivedTriggers(t *testing.T) {
	d, err := Compile(File{
		Name:       "mini",
		Brackets:   []string{"()", "{}"},
		BlockColon: true,
		IgnoreCase: true,
		Blocks: BlocksFile{
			Starts:    []string{"IF"},
			Continues: []string{"Else"},
			Ends:      []string{"end"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"\n", ")", ":", "D", "E", "d", "e", "}"}, d.Triggers())
	assert.True(t, d.IsStart("if"))
	assert.True(t, d.IsContinue("ELSE"))
	assert.False(t, d.IsTrigger("x"))
	assert.Equal(t, DefaultScanLimit, d.ScanLimit)
}

func TestCompile_ExplicitTriggersReplaceDerived(t *testing.T) {
	d, err := Compile(File{Name: "mini", Brackets: []string{"()"}, Triggers: []string{"\n"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"\n"}, d.Triggers())
}

func TestDescriptor_KeywordRelations(t *testing.T) {
	d, err := Compile(File{
		Name: "kw",
		Blocks: BlocksFile{
			Starts:         []string{"if", "case", "repeat"},
			Continues:      []string{"else", "when"},
			Ends:           []string{"end", "until"},
			ContinuationOf: map[string][]string{"when": {"case"}},
			EndPairs:       map[string][]string{"until": {"repeat"}},
		},
		Continuation: ContinuationFile{Operators: []string{"+", "&&", "="}, Align: true},
	})
	require.NoError(t, err)

	assert.True(t, d.ContinuationAllows("else", "if"))
	assert.True(t, d.ContinuationAllows("when", "case"))
	assert.False(t, d.ContinuationAllows("when", "if"))
	assert.True(t, d.EndCloses("end", "if"))
	assert.True(t, d.EndCloses("until", "repeat"))
	assert.False(t, d.EndCloses("until", "if"))
	assert.Equal(t, []string{"&&", "+", "="}, d.ContinuationOperators())
	assert.Equal(t, []string{"="}, d.AlignOperators())
	assert.True(t, d.IsBlockKind("case"))
	assert.True(t, d.HasBlocks())
}

func TestBuiltins(t *testing.T) {
	all, err := Builtins()
	require.NoError(t, err)

	names := make(map[string]*Descriptor)
	for _, d := range all {
		names[d.Name] = d
	}
	for _, want := range []string{"ada", "c", "go", "javascript", "lua", "python", "ruby", "rust"} {
		assert.Contains(t, names, want)
	}

	py := names["python"]
	assert.True(t, py.Offside)
	assert.True(t, py.IsTerminator("return"))
	assert.True(t, py.IsTrigger(":"))
	assert.True(t, py.IsTrigger("e"))
	assert.Equal(t, `"""`, py.Strings[0].Open)

	c := names["c"]
	assert.False(t, c.HasBlocks())
	r, ok := c.CloserFor('{')
	assert.True(t, ok)
	assert.Equal(t, '}', r)

	ada := names["ada"]
	assert.True(t, ada.QualifiedEnds)
	assert.True(t, ada.IsEnd("END"))
}

func TestRegistry(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	d, err := r.ForFile("/tmp/main.GO")
	require.NoError(t, err)
	assert.Equal(t, "go", d.Name)

	_, err = r.ForFile("notes.txt")
	assert.ErrorIs(t, err, ErrUnknownGrammar)

	_, err = r.Get("Python")
	assert.NoError(t, err)

	custom, err := Compile(File{Name: "go", Extensions: []string{"go", ".gox"}})
	require.NoError(t, err)
	r.Register(custom)
	d, err = r.ForFile("x.gox")
	require.NoError(t, err)
	assert.Same(t, custom, d)
	assert.Len(t, r.All(), 8)
}

func TestLoadDir_TOMLAndYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shell.yaml"), []byte(`
name: shell
extensions: [".sh"]
brackets: ["()"]
blocks:
  starts: [if, case]
  openers: [do]
  continues: [else, elif]
  ends: [fi, done, esac]
  end_pairs:
    fi: [if]
    done: [do]
    esac: [case]
syntax:
  line_comments: ["#"]
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pas.toml"), []byte(`
name = "pascal"
ignore_case = true
[blocks]
starts = ["begin"]
ends = ["end"]
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	ds, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, ds, 2)

	byName := map[string]*Descriptor{}
	for _, d := range ds {
		byName[d.Name] = d
	}
	sh := byName["shell"]
	require.NotNil(t, sh)
	assert.True(t, sh.EndCloses("fi", "if"))
	assert.False(t, sh.EndCloses("fi", "do"))
	assert.True(t, byName["pascal"].IsStart("BEGIN"))
}

func TestParse_YAMLUnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("name: x\nbogus: 1\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidGrammar)
}
