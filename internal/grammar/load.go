package grammar

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/tide-indent/internal/logger"
)

// Format selects the descriptor file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Parse decodes and compiles a descriptor.
func Parse(data []byte, format Format) (*Descriptor, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGrammar, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			logger.Warnf("Grammar %q: unrecognized keys: %v", f.Name, undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGrammar, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidGrammar, format)
	}
	return Compile(f)
}

// LoadFile reads a TOML or YAML descriptor from disk.
func LoadFile(path string) (*Descriptor, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown descriptor extension", ErrInvalidGrammar, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar '%s': %w", path, err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("grammar '%s': %w", path, err)
	}
	logger.DebugTagf("grammar", "Loaded grammar %s from %s", d.Name, path)
	return d, nil
}

// LoadDir loads every descriptor file in dir. Files with other extensions
// are ignored.
func LoadDir(dir string) ([]*Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar dir '%s': %w", dir, err)
	}
	var out []*Descriptor
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatForPath(e.Name()); !ok {
			continue
		}
		d, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
