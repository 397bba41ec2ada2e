package grammar

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Builtins compiles the embedded descriptors.
func Builtins() ([]*Descriptor, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("failed to list builtin grammars: %w", err)
	}
	out := make([]*Descriptor, 0, len(entries))
	for _, e := range entries {
		data, err := fs.ReadFile(builtinFS, path.Join("builtin", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read builtin grammar %s: %w", e.Name(), err)
		}
		d, err := Parse(data, FormatTOML)
		if err != nil {
			return nil, fmt.Errorf("builtin grammar %s: %w", e.Name(), err)
		}
		out = append(out, d)
	}
	return out, nil
}
