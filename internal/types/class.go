package types

// Class is the lexical classification of a single buffer position.
type Class uint8

const (
	ClassCode Class = iota
	ClassString
	ClassComment
	ClassOther // past the end of a line, or outside the buffer
)

func (c Class) String() string {
	switch c {
	case ClassCode:
		return "code"
	case ClassString:
		return "string"
	case ClassComment:
		return "comment"
	case ClassOther:
		return "other"
	}
	return "invalid"
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	return c <= ClassOther
}
