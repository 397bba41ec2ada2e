package indent

// bracketPos is a bracket's line and code-view cell.
type bracketPos struct {
	line, cell int
}

// bracketHit is the Bracket Matcher's opinion. opener is the line of the
// bracket that produced it, used to arbitrate against block keywords.
type bracketHit struct {
	cols   int
	opener int
	ok     bool
}

// brackets implements the Bracket Matcher for line, whose previous code
// line is prev.
func (r *resolver) brackets(line, prev int) bracketHit {
	cur := r.doc.info(line)
	if first := cur.firstCell(); first >= 0 {
		if open, ok := r.g.OpenerFor(cur.view[first].r); ok {
			if pos, found := r.matchOpener(line, first, open); found {
				return bracketHit{cols: r.closerIndent(pos), opener: pos.line, ok: true}
			}
		}
	}

	li := r.doc.info(prev)
	opens, closes := r.unmatched(li)
	if n := len(opens); n > 0 {
		innermost := opens[n-1]
		if j, ok := li.codeAfter(innermost); ok {
			return bracketHit{cols: r.doc.VirtualColumn(prev, li.view[j].col), opener: prev, ok: true}
		}
		st := r.stmtStart(prev)
		return bracketHit{cols: r.doc.Indent(st) + r.unit, opener: prev, ok: true}
	}
	if n := len(closes); n > 0 {
		last := closes[n-1]
		open, _ := r.g.OpenerFor(li.view[last].r)
		pos, found := r.matchOpener(prev, last, open)
		if !found {
			return bracketHit{}
		}
		st := r.stmtStart(prev)
		cols := r.doc.Indent(st)
		if r.opensBlock(st, prev) {
			cols += r.unit
		}
		return bracketHit{cols: cols, opener: pos.line, ok: true}
	}
	return bracketHit{}
}

// closerIndent places a line-leading closer: under its opener when
// arguments follow the opener, else at the opener statement's indent.
func (r *resolver) closerIndent(pos bracketPos) int {
	li := r.doc.info(pos.line)
	if _, ok := li.codeAfter(pos.cell); ok {
		return r.doc.VirtualColumn(pos.line, li.view[pos.cell].col)
	}
	return r.doc.Indent(r.stmtStart(pos.line))
}

// unmatched returns the cells of the line's unmatched openers and closers,
// left to right. Each bracket kind is balanced independently.
func (r *resolver) unmatched(li *lineInfo) (opens, closes []int) {
	for i, c := range li.view {
		if _, ok := r.g.CloserFor(c.r); ok {
			opens = append(opens, i)
			continue
		}
		open, ok := r.g.OpenerFor(c.r)
		if !ok {
			continue
		}
		matched := false
		for k := len(opens) - 1; k >= 0; k-- {
			if li.view[opens[k]].r == open {
				opens = append(opens[:k], opens[k+1:]...)
				matched = true
				break
			}
		}
		if !matched {
			closes = append(closes, i)
		}
	}
	return opens, closes
}

// matchOpener scans backward from the cell before (line, cell) for the
// opener that balances it.
func (r *resolver) matchOpener(line, cell int, open rune) (bracketPos, bool) {
	closer, _ := r.g.CloserFor(open)
	depth := 0
	for l := line; l >= 0; l-- {
		if !r.reach(line, l) {
			return bracketPos{}, false
		}
		v := r.doc.info(l).view
		i := len(v) - 1
		if l == line {
			i = cell - 1
		}
		for ; i >= 0; i-- {
			switch v[i].r {
			case closer:
				depth++
			case open:
				if depth == 0 {
					return bracketPos{line: l, cell: i}, true
				}
				depth--
			}
		}
	}
	return bracketPos{}, false
}

// insideBracket reports whether the end of line sits inside an unclosed
// bracket.
func (r *resolver) insideBracket(line int) bool {
	depth := make(map[rune]int)
	for l := line; l >= 0; l-- {
		if !r.reach(line, l) {
			return false
		}
		v := r.doc.info(l).view
		for i := len(v) - 1; i >= 0; i-- {
			c := v[i].r
			if open, ok := r.g.OpenerFor(c); ok {
				depth[open]++
				continue
			}
			if _, ok := r.g.CloserFor(c); ok {
				if depth[c] == 0 {
					return true
				}
				depth[c]--
			}
		}
	}
	return false
}

// matchCloser scans forward from the cell after (line, cell) for the
// closer that balances it.
func (r *resolver) matchCloser(line, cell int, closer rune) (bracketPos, bool) {
	open, _ := r.g.OpenerFor(closer)
	depth := 0
	for l := line; l < r.doc.LineCount(); l++ {
		if l-line > r.limit {
			r.capped = true
			return bracketPos{}, false
		}
		v := r.doc.info(l).view
		i := 0
		if l == line {
			i = cell + 1
		}
		for ; i < len(v); i++ {
			switch v[i].r {
			case open:
				depth++
			case closer:
				if depth == 0 {
					return bracketPos{line: l, cell: i}, true
				}
				depth--
			}
		}
	}
	return bracketPos{}, false
}
