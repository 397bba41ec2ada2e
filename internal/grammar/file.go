package grammar

// File is the on-disk form of a grammar descriptor. It decodes from TOML
// and YAML; Compile turns it into an immutable Descriptor.
type File struct {
	Name       string   `toml:"name" yaml:"name"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	// TreeSitter names a tree-sitter binding used for classification.
	TreeSitter string `toml:"tree_sitter" yaml:"tree_sitter"`
	IgnoreCase bool   `toml:"ignore_case" yaml:"ignore_case"`
	// WordChars lists extra runes allowed inside keywords and identifiers.
	WordChars string   `toml:"word_chars" yaml:"word_chars"`
	Brackets  []string `toml:"brackets" yaml:"brackets"`
	// Offside grammars delimit blocks by indentation instead of end keywords.
	Offside    bool     `toml:"offside" yaml:"offside"`
	BlockColon bool     `toml:"block_colon" yaml:"block_colon"`
	Triggers   []string `toml:"triggers" yaml:"triggers"`
	ScanLimit  int      `toml:"scan_limit" yaml:"scan_limit"`

	Blocks       BlocksFile       `toml:"blocks" yaml:"blocks"`
	Continuation ContinuationFile `toml:"continuation" yaml:"continuation"`
	Syntax       SyntaxFile       `toml:"syntax" yaml:"syntax"`
}

type BlocksFile struct {
	Starts         []string            `toml:"starts" yaml:"starts"`
	Openers        []string            `toml:"openers" yaml:"openers"`
	Continues      []string            `toml:"continues" yaml:"continues"`
	Ends           []string            `toml:"ends" yaml:"ends"`
	Terminators    []string            `toml:"terminators" yaml:"terminators"`
	QualifiedEnds  bool                `toml:"qualified_ends" yaml:"qualified_ends"`
	ContinuationOf map[string][]string `toml:"continuation_of" yaml:"continuation_of"`
	EndPairs       map[string][]string `toml:"end_pairs" yaml:"end_pairs"`
}

type ContinuationFile struct {
	Operators      []string `toml:"operators" yaml:"operators"`
	Exclude        []string `toml:"exclude" yaml:"exclude"`
	Marker         string   `toml:"marker" yaml:"marker"`
	Align          bool     `toml:"align" yaml:"align"`
	AlignOperators []string `toml:"align_operators" yaml:"align_operators"`
}

type SyntaxFile struct {
	LineComments  []string        `toml:"line_comments" yaml:"line_comments"`
	BlockComments []DelimiterFile `toml:"block_comments" yaml:"block_comments"`
	Strings       []DelimiterFile `toml:"strings" yaml:"strings"`
}

type DelimiterFile struct {
	Open      string `toml:"open" yaml:"open"`
	Close     string `toml:"close" yaml:"close"`
	Escape    string `toml:"escape" yaml:"escape"`
	MultiLine bool   `toml:"multiline" yaml:"multiline"`
	Nested    bool   `toml:"nested" yaml:"nested"`
}
