// internal/types/position.go
package types

import "fmt"

// Position is a location in the buffer.
// Line is the 0-based line index.
// Col is the 0-based rune index within the line (the raw character column).
type Position struct {
	Line int
	Col  int // Rune index
}

// VirtualPosition is a location whose column has tabs expanded to the
// configured tab width and wide graphemes counted by display width.
type VirtualPosition struct {
	Line int
	VCol int
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is a half-open range [Start, End) such as a bracket pair or a keyword
// occurrence.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && pos.Before(s.End)
}

// Empty reports whether the span covers nothing.
func (s Span) Empty() bool {
	return !s.Start.Before(s.End)
}
