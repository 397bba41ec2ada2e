package indent

import "unicode/utf8"

// electric reports whether typed, a non-newline trigger, completes the
// leading token of line: a closer that is the line's first character, or
// the last letter of a leading end or continuation keyword. In block-colon
// grammars a ':' on a line led by a continuation keyword also counts.
//
// col is the column just after the typed character. When it is negative
// the cursor is unknown and only the characters are compared, so typing
// the keyword's last letter elsewhere on the line also counts.
func (e *Engine) electric(doc *Document, line, col int, typed string) bool {
	li := doc.info(line)
	first := li.firstCell()
	if first < 0 {
		return false
	}
	at := func(cell int) bool { return col < 0 || li.view[cell].col+1 == col }
	if _, ok := e.g.OpenerFor(li.view[first].r); ok {
		return string(li.view[first].r) == typed && at(first)
	}
	w, ok := li.leadingWord(e.g)
	if !ok {
		return false
	}
	switch {
	case e.g.IsEnd(w.text), e.g.IsContinue(w.text):
		last, _ := utf8.DecodeLastRuneInString(w.text)
		if e.g.Normalize(string(last)) == e.g.Normalize(typed) && at(w.end-1) {
			return true
		}
		if !e.g.BlockColon || typed != ":" || !e.g.IsContinue(w.text) {
			return false
		}
		if col < 0 {
			return true
		}
		for i, c := range li.view {
			if c.col+1 == col {
				return c.r == ':' && i >= w.end
			}
		}
	}
	return false
}
