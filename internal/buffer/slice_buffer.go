// internal/buffer/slice_buffer.go
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/types"
)

// SliceBuffer keeps one byte slice per line, without trailing newlines.
type SliceBuffer struct {
	lines    [][]byte
	filePath string
	modified bool
	// trailingNewline remembers whether the loaded content ended with '\n'
	// so Save writes the file back the way it was read.
	trailingNewline bool
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{
		lines: [][]byte{[]byte("")},
	}
}

// NewFromBytes creates a SliceBuffer holding content.
func NewFromBytes(content []byte) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.SetContent(content)
	return sb
}

// Load reads a file into the buffer. Replaces existing content.
// A missing file yields an empty buffer bound to that path.
func (sb *SliceBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sb.SetContent(nil)
			sb.filePath = filePath
			return nil
		}
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	sb.SetContent(data)
	sb.filePath = filePath
	logger.DebugTagf("buffer", "Loaded %s: %d lines", filePath, len(sb.lines))
	return nil
}

// SetContent replaces the buffer content. CRLF line endings are normalised.
func (sb *SliceBuffer) SetContent(content []byte) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	sb.trailingNewline = len(content) > 0 && content[len(content)-1] == '\n'
	if sb.trailingNewline {
		content = content[:len(content)-1]
	}
	parts := bytes.Split(content, []byte("\n"))
	sb.lines = make([][]byte, len(parts))
	for i, p := range parts {
		lineCopy := make([]byte, len(p))
		copy(lineCopy, p)
		sb.lines[i] = lineCopy
	}
	sb.modified = false
}

func (sb *SliceBuffer) Lines() [][]byte {
	return sb.lines
}

func (sb *SliceBuffer) LineCount() int {
	return len(sb.lines)
}

func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	if index < 0 || index >= len(sb.lines) {
		return nil, fmt.Errorf("line %d (0-%d): %w", index, len(sb.lines)-1, ErrLineOutOfRange)
	}
	return sb.lines[index], nil
}

// Bytes joins the lines with '\n'.
func (sb *SliceBuffer) Bytes() []byte {
	var buffer bytes.Buffer
	for i, line := range sb.lines {
		buffer.Write(line)
		if i < len(sb.lines)-1 {
			buffer.WriteByte('\n')
		}
	}
	return buffer.Bytes()
}

// Save writes the buffer content to filePath, or to the stored path when
// filePath is empty.
func (sb *SliceBuffer) Save(filePath string) error {
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}

	content := sb.Bytes()
	if sb.trailingNewline {
		content = append(content, '\n')
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}

	sb.filePath = path
	sb.modified = false
	return nil
}

func (sb *SliceBuffer) IsModified() bool {
	return sb.modified
}

func (sb *SliceBuffer) FilePath() string {
	return sb.filePath
}

// --- Buffer Modification Methods ---

// validatePosition clamps pos into the buffer and returns its byte offset
// within the line.
func (sb *SliceBuffer) validatePosition(pos types.Position) (types.Position, int) {
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(sb.lines) {
		pos.Line = len(sb.lines) - 1
	}
	line := sb.lines[pos.Line]
	byteOff := 0
	runeCount := 0
	for byteOff < len(line) && runeCount < pos.Col {
		_, size := utf8.DecodeRune(line[byteOff:])
		byteOff += size
		runeCount++
	}
	if pos.Col < 0 {
		runeCount = 0
	}
	return types.Position{Line: pos.Line, Col: runeCount}, byteOff
}

// docOffset returns the byte offset of (line, byteCol) in Bytes().
func (sb *SliceBuffer) docOffset(line, byteCol int) uint32 {
	off := 0
	for i := 0; i < line; i++ {
		off += len(sb.lines[i]) + 1
	}
	return uint32(off + byteCol)
}

// Insert inserts text at a given position. Handles single/multiple lines.
func (sb *SliceBuffer) Insert(pos types.Position, text []byte) (types.EditInfo, error) {
	validPos, byteOffset := sb.validatePosition(pos)
	start := sitter.Point{Row: uint32(validPos.Line), Column: uint32(byteOffset)}
	startIndex := sb.docOffset(validPos.Line, byteOffset)
	if len(text) == 0 {
		return types.EditInfo{
			StartIndex: startIndex, OldEndIndex: startIndex, NewEndIndex: startIndex,
			StartPosition: start, OldEndPosition: start, NewEndPosition: start,
		}, nil
	}

	sb.modified = true

	currentLine := sb.lines[validPos.Line]
	insertLines := bytes.Split(text, []byte("\n"))

	tail := make([]byte, len(currentLine)-byteOffset)
	copy(tail, currentLine[byteOffset:])

	head := make([]byte, byteOffset, byteOffset+len(insertLines[0]))
	copy(head, currentLine[:byteOffset])
	sb.lines[validPos.Line] = append(head, insertLines[0]...)

	var end sitter.Point
	if len(insertLines) > 1 {
		newLines := make([][]byte, len(insertLines)-1)
		for i := 1; i < len(insertLines); i++ {
			lineCopy := make([]byte, len(insertLines[i]))
			copy(lineCopy, insertLines[i])
			newLines[i-1] = lineCopy
		}
		last := len(newLines) - 1
		end = sitter.Point{Row: uint32(validPos.Line + len(newLines)), Column: uint32(len(newLines[last]))}
		newLines[last] = append(newLines[last], tail...)

		rest := append([][]byte{}, sb.lines[validPos.Line+1:]...)
		sb.lines = append(append(sb.lines[:validPos.Line+1], newLines...), rest...)
	} else {
		end = sitter.Point{Row: start.Row, Column: uint32(len(sb.lines[validPos.Line]))}
		sb.lines[validPos.Line] = append(sb.lines[validPos.Line], tail...)
	}

	return types.EditInfo{
		StartIndex:     startIndex,
		OldEndIndex:    startIndex,
		NewEndIndex:    startIndex + uint32(len(text)),
		StartPosition:  start,
		OldEndPosition: start,
		NewEndPosition: end,
	}, nil
}

// Delete removes text within a given range (start inclusive, end exclusive).
func (sb *SliceBuffer) Delete(start, end types.Position) (types.EditInfo, error) {
	if end.Before(start) {
		start, end = end, start
	}
	vStart, startOffset := sb.validatePosition(start)
	vEnd, endOffset := sb.validatePosition(end)

	startPoint := sitter.Point{Row: uint32(vStart.Line), Column: uint32(startOffset)}
	endPoint := sitter.Point{Row: uint32(vEnd.Line), Column: uint32(endOffset)}
	startIndex := sb.docOffset(vStart.Line, startOffset)
	oldEndIndex := sb.docOffset(vEnd.Line, endOffset)
	info := types.EditInfo{
		StartIndex:     startIndex,
		OldEndIndex:    oldEndIndex,
		NewEndIndex:    startIndex,
		StartPosition:  startPoint,
		OldEndPosition: endPoint,
		NewEndPosition: startPoint,
	}
	if vStart == vEnd {
		return info, nil
	}

	sb.modified = true

	startLine := sb.lines[vStart.Line]
	endLine := sb.lines[vEnd.Line]
	merged := make([]byte, 0, startOffset+len(endLine)-endOffset)
	merged = append(merged, startLine[:startOffset]...)
	merged = append(merged, endLine[endOffset:]...)
	sb.lines[vStart.Line] = merged

	if vEnd.Line > vStart.Line {
		sb.lines = append(sb.lines[:vStart.Line+1], sb.lines[vEnd.Line+1:]...)
	}
	return info, nil
}

// Ensure SliceBuffer satisfies the Buffer interface
var _ Buffer = (*SliceBuffer)(nil)
