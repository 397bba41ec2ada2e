package indent

import (
	"fmt"
	"strconv"
)

// Kind tags a Decision.
type Kind uint8

const (
	KindColumns Kind = iota
	KindKeepPrevious
	KindNoChange
)

// Sentinel codes of the integer contract.
const (
	KeepPreviousCode = -1
	NoChangeCode     = -2
)

// Decision is the outcome of one indentation query.
type Decision struct {
	Kind    Kind
	Columns int // valid when Kind is KindColumns
}

var (
	// KeepPrevious copies the reference line's leading whitespace verbatim.
	KeepPrevious = Decision{Kind: KindKeepPrevious}
	// NoChange leaves the line untouched.
	NoChange = Decision{Kind: KindNoChange}
)

// Columns returns a decision to indent to n virtual columns. Negative
// widths clamp to zero.
func Columns(n int) Decision {
	if n < 0 {
		n = 0
	}
	return Decision{Kind: KindColumns, Columns: n}
}

// Code returns the integer form: the column count, -1 or -2.
func (d Decision) Code() int {
	switch d.Kind {
	case KindColumns:
		return d.Columns
	case KindKeepPrevious:
		return KeepPreviousCode
	}
	return NoChangeCode
}

// FromCode is the inverse of Code.
func FromCode(code int) (Decision, error) {
	switch {
	case code >= 0:
		return Columns(code), nil
	case code == KeepPreviousCode:
		return KeepPrevious, nil
	case code == NoChangeCode:
		return NoChange, nil
	}
	return NoChange, fmt.Errorf("invalid indent code %d", code)
}

func (d Decision) String() string {
	switch d.Kind {
	case KindColumns:
		return strconv.Itoa(d.Columns)
	case KindKeepPrevious:
		return "keep-previous"
	}
	return "no-change"
}
