package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo describes a single buffer edit in the shape tree-sitter's
// incremental reparse expects.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the old text
	NewEndIndex    uint32       // End byte of the new text
	StartPosition  sitter.Point // Start position (row, byte column)
	OldEndPosition sitter.Point
	NewEndPosition sitter.Point
}

// InputEdit converts the edit into the tree-sitter form.
func (e EditInfo) InputEdit() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartIndex,
		OldEndIndex: e.OldEndIndex,
		NewEndIndex: e.NewEndIndex,
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}
