package grammar

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/tide-indent/internal/logger"
)

// Registry maps grammar names and file extensions to descriptors.
type Registry struct {
	mu           sync.RWMutex
	byName       map[string]*Descriptor
	extToGrammar map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:       make(map[string]*Descriptor),
		extToGrammar: make(map[string]*Descriptor),
	}
}

// NewDefaultRegistry creates a registry holding the builtin grammars.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	builtins, err := Builtins()
	if err != nil {
		return nil, err
	}
	for _, d := range builtins {
		r.Register(d)
	}
	return r, nil
}

// Register adds a grammar. A later grammar with the same name or extension
// replaces the earlier one.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(d.Name)
	if _, ok := r.byName[name]; ok {
		logger.Warnf("Grammar %s already registered, overriding", d.Name)
	}
	r.byName[name] = d

	for _, ext := range d.Extensions {
		if existing, ok := r.extToGrammar[ext]; ok && existing.Name != d.Name {
			logger.Warnf("Extension %s already registered to %s, overriding with %s", ext, existing.Name, d.Name)
		}
		r.extToGrammar[ext] = d
	}
	logger.DebugTagf("grammar", "Registered grammar: %s with extensions: %v", d.Name, d.Extensions)
}

// Get returns the grammar with the given name.
func (r *Registry) Get(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrammar, name)
	}
	return d, nil
}

// ForFile returns the grammar registered for the file's extension.
func (r *Registry) ForFile(filePath string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext := strings.ToLower(filepath.Ext(filePath))
	d, ok := r.extToGrammar[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no grammar for %q", ErrUnknownGrammar, filePath)
	}
	return d, nil
}

// All returns every registered grammar sorted by name.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
