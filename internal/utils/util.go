package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// RuneIndexToByteOffset converts a rune index to a byte offset in a byte slice.
// Returns -1 if runeIndex is out of bounds.
func RuneIndexToByteOffset(line []byte, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	byteOffset := 0
	currentRune := 0
	for byteOffset < len(line) {
		if currentRune == runeIndex {
			return byteOffset
		}
		_, size := utf8.DecodeRune(line[byteOffset:])
		byteOffset += size
		currentRune++
	}
	if currentRune == runeIndex {
		return len(line)
	} // Allow index at the very end
	return -1
}

// ByteOffsetToRuneIndex converts a byte offset to a rune index in a byte slice.
func ByteOffsetToRuneIndex(line []byte, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	runeIndex := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		_, size := utf8.DecodeRune(line[currentOffset:])
		if currentOffset+size > byteOffset {
			break
		} // Don't count rune if offset is within it
		currentOffset += size
		runeIndex++
	}
	return runeIndex
}

// VirtualColumn returns the display column of rune index col in line.
// Tabs advance to the next multiple of tabWidth, other grapheme clusters
// advance by their display width.
func VirtualColumn(line []rune, col, tabWidth int) int {
	if col <= 0 {
		return 0
	}
	if col > len(line) {
		col = len(line)
	}
	if tabWidth <= 0 {
		tabWidth = 1
	}
	vcol := 0
	gr := uniseg.NewGraphemes(string(line[:col]))
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) == 1 && runes[0] == '\t' {
			vcol += tabWidth - vcol%tabWidth
		} else {
			vcol += gr.Width()
		}
	}
	return vcol
}

// ColumnAtVirtual is the inverse of VirtualColumn: it returns the rune index
// of the first grapheme that ends past vcol. A vcol inside a tab or wide
// grapheme maps to that grapheme's start.
func ColumnAtVirtual(line []rune, vcol, tabWidth int) int {
	if vcol <= 0 {
		return 0
	}
	if tabWidth <= 0 {
		tabWidth = 1
	}
	cur := 0
	runeIndex := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		runes := gr.Runes()
		w := gr.Width()
		if len(runes) == 1 && runes[0] == '\t' {
			w = tabWidth - cur%tabWidth
		}
		if cur+w > vcol {
			return runeIndex
		}
		cur += w
		runeIndex += len(runes)
	}
	return runeIndex
}

// LeadingWhitespace returns the number of leading space/tab runes.
func LeadingWhitespace(line []rune) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// IndentWidth returns the virtual width of the leading whitespace.
func IndentWidth(line []rune, tabWidth int) int {
	return VirtualColumn(line, LeadingWhitespace(line), tabWidth)
}

// MakeIndent builds whitespace spanning width virtual columns, using tabs
// for whole tab stops when useTabs is set.
func MakeIndent(width, tabWidth int, useTabs bool) string {
	if width <= 0 {
		return ""
	}
	if !useTabs || tabWidth <= 0 {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/tabWidth) + strings.Repeat(" ", width%tabWidth)
}
