// Package grammar holds the per-language configuration the indentation
// engine is parameterized by: bracket pairs, block keyword sets,
// continuation operators, comment/string syntax and trigger characters.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrInvalidGrammar wraps every descriptor validation failure.
	ErrInvalidGrammar = errors.New("invalid grammar")
	// ErrUnknownGrammar is returned by registry lookups that find nothing.
	ErrUnknownGrammar = errors.New("unknown grammar")
)

// DefaultScanLimit bounds backward scans when a descriptor sets none.
const DefaultScanLimit = 2000

// BracketPair is one opener/closer pair such as ( and ).
type BracketPair struct {
	Open  rune
	Close rune
}

// Delimiter describes a comment or string literal.
type Delimiter struct {
	Open      string
	Close     string // empty: runs to end of line
	Escape    string
	MultiLine bool
	Nested    bool
}

type set map[string]struct{}

func (s set) has(k string) bool {
	_, ok := s[k]
	return ok
}

// Descriptor is a compiled, read-only grammar. Safe for concurrent use.
type Descriptor struct {
	Name       string
	Extensions []string
	TreeSitter string
	IgnoreCase bool
	Offside    bool
	BlockColon bool
	// QualifiedEnds makes "end if" close only "if" blocks.
	QualifiedEnds bool
	// LineContinuation is an explicit marker such as a trailing backslash.
	LineContinuation  string
	AlignContinuation bool
	ScanLimit         int

	Brackets      []BracketPair
	LineComments  []string
	BlockComments []Delimiter
	Strings       []Delimiter

	wordChars      string
	openToClose    map[rune]rune
	closeToOpen    map[rune]rune
	starts         set
	openers        set
	continues      set
	ends           set
	terminators    set
	continuationOf map[string]set
	endPairs       map[string]set
	contOps        []string
	contExclude    []string
	alignOps       []string
	triggers       set
}

// Compile validates f and builds a Descriptor.
func Compile(f File) (*Descriptor, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidGrammar)
	}
	if f.ScanLimit < 0 {
		return nil, fmt.Errorf("%w: %s: negative scan_limit %d", ErrInvalidGrammar, f.Name, f.ScanLimit)
	}

	d := &Descriptor{
		Name:              f.Name,
		Extensions:        normalizeExtensions(f.Extensions),
		TreeSitter:        f.TreeSitter,
		IgnoreCase:        f.IgnoreCase,
		Offside:           f.Offside,
		BlockColon:        f.BlockColon,
		QualifiedEnds:     f.Blocks.QualifiedEnds,
		LineContinuation:  f.Continuation.Marker,
		AlignContinuation: f.Continuation.Align,
		ScanLimit:         f.ScanLimit,
		wordChars:         f.WordChars,
		openToClose:       make(map[rune]rune),
		closeToOpen:       make(map[rune]rune),
	}
	if d.ScanLimit == 0 {
		d.ScanLimit = DefaultScanLimit
	}

	for _, pair := range f.Brackets {
		runes := []rune(pair)
		if len(runes) != 2 || runes[0] == runes[1] {
			return nil, fmt.Errorf("%w: %s: bracket pair %q must be two distinct characters", ErrInvalidGrammar, f.Name, pair)
		}
		if _, dup := d.openToClose[runes[0]]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate bracket opener %q", ErrInvalidGrammar, f.Name, runes[0])
		}
		d.Brackets = append(d.Brackets, BracketPair{Open: runes[0], Close: runes[1]})
		d.openToClose[runes[0]] = runes[1]
		d.closeToOpen[runes[1]] = runes[0]
	}

	d.starts = d.wordSet(f.Blocks.Starts)
	d.openers = d.wordSet(f.Blocks.Openers)
	d.continues = d.wordSet(f.Blocks.Continues)
	d.ends = d.wordSet(f.Blocks.Ends)
	d.terminators = d.wordSet(f.Blocks.Terminators)

	for w := range d.ends {
		if d.starts.has(w) || d.openers.has(w) {
			return nil, fmt.Errorf("%w: %s: %q is both a block start and a block end", ErrInvalidGrammar, f.Name, w)
		}
	}

	var err error
	if d.continuationOf, err = d.keywordMap(f.Blocks.ContinuationOf, d.continues, "continuation_of"); err != nil {
		return nil, err
	}
	if d.endPairs, err = d.keywordMap(f.Blocks.EndPairs, d.ends, "end_pairs"); err != nil {
		return nil, err
	}

	d.contOps = longestFirst(f.Continuation.Operators)
	d.contExclude = longestFirst(f.Continuation.Exclude)
	d.alignOps = longestFirst(f.Continuation.AlignOperators)
	if d.AlignContinuation && len(d.alignOps) == 0 {
		d.alignOps = []string{"="}
	}

	d.LineComments = longestFirst(f.Syntax.LineComments)
	for _, df := range f.Syntax.BlockComments {
		if df.Open == "" || df.Close == "" {
			return nil, fmt.Errorf("%w: %s: block comment needs open and close", ErrInvalidGrammar, f.Name)
		}
		d.BlockComments = append(d.BlockComments, Delimiter{Open: df.Open, Close: df.Close, Nested: df.Nested, MultiLine: true})
	}
	for _, df := range f.Syntax.Strings {
		if df.Open == "" {
			return nil, fmt.Errorf("%w: %s: string delimiter needs open", ErrInvalidGrammar, f.Name)
		}
		closer := df.Close
		if closer == "" {
			closer = df.Open
		}
		d.Strings = append(d.Strings, Delimiter{Open: df.Open, Close: closer, Escape: df.Escape, MultiLine: df.MultiLine})
	}
	sort.SliceStable(d.BlockComments, func(i, j int) bool { return len(d.BlockComments[i].Open) > len(d.BlockComments[j].Open) })
	sort.SliceStable(d.Strings, func(i, j int) bool { return len(d.Strings[i].Open) > len(d.Strings[j].Open) })

	d.triggers = make(set)
	if len(f.Triggers) > 0 {
		for _, t := range f.Triggers {
			d.triggers[t] = struct{}{}
		}
	} else {
		d.deriveTriggers()
	}
	return d, nil
}

func (d *Descriptor) deriveTriggers() {
	d.triggers["\n"] = struct{}{}
	for _, bp := range d.Brackets {
		d.triggers[string(bp.Close)] = struct{}{}
	}
	if d.BlockColon {
		d.triggers[":"] = struct{}{}
	}
	for _, ws := range []set{d.continues, d.ends} {
		for w := range ws {
			last, _ := utf8.DecodeLastRuneInString(w)
			d.triggers[string(last)] = struct{}{}
			if d.IgnoreCase {
				d.triggers[string(unicode.ToUpper(last))] = struct{}{}
			}
		}
	}
}

func (d *Descriptor) wordSet(words []string) set {
	s := make(set, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s[d.Normalize(w)] = struct{}{}
		}
	}
	return s
}

func (d *Descriptor) keywordMap(raw map[string][]string, keys set, field string) (map[string]set, error) {
	out := make(map[string]set, len(raw))
	for k, vs := range raw {
		nk := d.Normalize(k)
		if !keys.has(nk) {
			return nil, fmt.Errorf("%w: %s: %s key %q is not declared", ErrInvalidGrammar, d.Name, field, k)
		}
		out[nk] = d.wordSet(vs)
	}
	return out, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func longestFirst(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// --- Queries used by the engine ---

// Normalize folds a keyword for lookup.
func (d *Descriptor) Normalize(word string) string {
	if d.IgnoreCase {
		return strings.ToLower(word)
	}
	return word
}

// IsWordRune reports whether r may appear inside a keyword or identifier.
func (d *Descriptor) IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(d.wordChars, r)
}

// CloserFor returns the closer matching opener r.
func (d *Descriptor) CloserFor(r rune) (rune, bool) {
	c, ok := d.openToClose[r]
	return c, ok
}

// OpenerFor returns the opener matching closer r.
func (d *Descriptor) OpenerFor(r rune) (rune, bool) {
	o, ok := d.closeToOpen[r]
	return o, ok
}

func (d *Descriptor) IsStart(word string) bool      { return d.starts.has(d.Normalize(word)) }
func (d *Descriptor) IsOpener(word string) bool     { return d.openers.has(d.Normalize(word)) }
func (d *Descriptor) IsContinue(word string) bool   { return d.continues.has(d.Normalize(word)) }
func (d *Descriptor) IsEnd(word string) bool        { return d.ends.has(d.Normalize(word)) }
func (d *Descriptor) IsTerminator(word string) bool { return d.terminators.has(d.Normalize(word)) }

// HasBlocks reports whether the grammar declares any block keywords.
func (d *Descriptor) HasBlocks() bool {
	return len(d.starts)+len(d.openers)+len(d.continues)+len(d.ends) > 0 || d.Offside
}

// ContinuationAllows reports whether continuation keyword cont may attach to
// a block opened by kind. Unrestricted continuations attach to any block.
func (d *Descriptor) ContinuationAllows(cont, kind string) bool {
	allowed, ok := d.continuationOf[d.Normalize(cont)]
	if !ok {
		return true
	}
	return allowed.has(d.Normalize(kind))
}

// EndCloses reports whether end keyword end closes a block opened by kind.
func (d *Descriptor) EndCloses(end, kind string) bool {
	pairs, ok := d.endPairs[d.Normalize(end)]
	if !ok {
		return true
	}
	return pairs.has(d.Normalize(kind))
}

// IsBlockKind reports whether word can open a block (used to recognise the
// qualifier in "end if").
func (d *Descriptor) IsBlockKind(word string) bool {
	w := d.Normalize(word)
	return d.starts.has(w) || d.openers.has(w)
}

func (d *Descriptor) ContinuationOperators() []string { return d.contOps }
func (d *Descriptor) ContinuationExcludes() []string  { return d.contExclude }
func (d *Descriptor) AlignOperators() []string        { return d.alignOps }

// IsTrigger reports whether typing s may cause a reindent.
func (d *Descriptor) IsTrigger(s string) bool {
	return d.triggers.has(s)
}

// Triggers returns the trigger set, sorted.
func (d *Descriptor) Triggers() []string {
	out := make([]string, 0, len(d.triggers))
	for t := range d.triggers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
