// internal/buffer/buffer.go
package buffer

import (
	"errors"

	"github.com/bethropolis/tide-indent/internal/types"
)

// ErrLineOutOfRange is returned when a line index does not exist.
var ErrLineOutOfRange = errors.New("line index out of range")

// Buffer defines the interface for text buffer operations.
type Buffer interface {
	Load(filePath string) error
	SetContent(content []byte)
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	// Edits report what changed so incremental parsers can follow along.
	Insert(pos types.Position, text []byte) (types.EditInfo, error)
	Delete(start, end types.Position) (types.EditInfo, error)
	Save(filePath string) error
	Bytes() []byte
	FilePath() string
	IsModified() bool
}
