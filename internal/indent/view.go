package indent

import (
	"strings"

	"github.com/bethropolis/tide-indent/internal/grammar"
)

// token is a word in the code view.
type token struct {
	text       string
	start, end int // cell indices, half-open
	dotted     bool
}

// firstCell returns the index of the first non-blank view cell, or -1.
func (li *lineInfo) firstCell() int {
	for i, c := range li.view {
		if !isBlank(c.r) {
			return i
		}
	}
	return -1
}

// lastCell returns the index of the last non-blank view cell, or -1.
func (li *lineInfo) lastCell() int {
	for i := len(li.view) - 1; i >= 0; i-- {
		if !isBlank(li.view[i].r) {
			return i
		}
	}
	return -1
}

// codeAfter reports whether a non-blank cell follows index i.
func (li *lineInfo) codeAfter(i int) (int, bool) {
	for j := i + 1; j < len(li.view); j++ {
		if !isBlank(li.view[j].r) {
			return j, true
		}
	}
	return -1, false
}

// trimmed returns the view runes up to and including the last non-blank.
func (li *lineInfo) trimmed() []rune {
	last := li.lastCell()
	out := make([]rune, last+1)
	for i := 0; i <= last; i++ {
		out[i] = li.view[i].r
	}
	return out
}

// words splits the view into keyword-shaped tokens. A word directly after
// '.' is a member access and is flagged dotted.
func (li *lineInfo) words(g *grammar.Descriptor) []token {
	var out []token
	v := li.view
	for i := 0; i < len(v); {
		if !g.IsWordRune(v[i].r) {
			i++
			continue
		}
		j := i
		var sb strings.Builder
		for j < len(v) && g.IsWordRune(v[j].r) {
			sb.WriteRune(v[j].r)
			j++
		}
		t := token{text: sb.String(), start: i, end: j}
		for k := i - 1; k >= 0; k-- {
			if !isBlank(v[k].r) {
				t.dotted = v[k].r == '.'
				break
			}
		}
		out = append(out, t)
		i = j
	}
	return out
}

// leadingWord returns the word the line starts with, if any.
func (li *lineInfo) leadingWord(g *grammar.Descriptor) (token, bool) {
	first := li.firstCell()
	if first < 0 || !g.IsWordRune(li.view[first].r) {
		return token{}, false
	}
	ws := li.words(g)
	return ws[0], true
}

// hasSuffixRunes reports whether s ends with suffix.
func hasSuffixRunes(s []rune, suffix string) bool {
	sr := []rune(suffix)
	if len(sr) == 0 || len(sr) > len(s) {
		return false
	}
	off := len(s) - len(sr)
	for i, r := range sr {
		if s[off+i] != r {
			return false
		}
	}
	return true
}
