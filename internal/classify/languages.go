package classify

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

// binding ties a tree-sitter language to its classification query.
type binding struct {
	lang      func() *sitter.Language
	queryPath string
}

var bindings = map[string]binding{
	"go":         {lang: gosrc.GetLanguage, queryPath: "go"},
	"python":     {lang: pythonsrc.GetLanguage, queryPath: "python"},
	"javascript": {lang: jssrc.GetLanguage, queryPath: "javascript"},
	"rust":       {lang: rustsrc.GetLanguage, queryPath: "rust"},
}

// HasBinding reports whether name is a compiled-in tree-sitter binding.
func HasBinding(name string) bool {
	_, ok := bindings[name]
	return ok
}

// Bindings lists the compiled-in tree-sitter bindings.
func Bindings() []string {
	out := make([]string, 0, len(bindings))
	for name := range bindings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func loadQuery(b binding) ([]byte, error) {
	path := fmt.Sprintf("queries/%s/classes.scm", b.queryPath)
	q, err := fs.ReadFile(embeddedQueries, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load query %s: %w", path, err)
	}
	return q, nil
}
