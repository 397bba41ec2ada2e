package indent

import (
	"github.com/bethropolis/tide-indent/internal/grammar"
)

// resolver holds the state of one indentation query. It is discarded when
// the query returns.
type resolver struct {
	g      *grammar.Descriptor
	doc    *Document
	unit   int
	limit  int
	capped bool
}

// reach reports whether line l is within the scan cap of origin. Exceeding
// the cap marks the query capped, which degrades it to KeepPrevious.
func (r *resolver) reach(origin, l int) bool {
	if origin-l > r.limit {
		r.capped = true
		return false
	}
	return true
}

func (r *resolver) prevCode(line int) int {
	for l := line - 1; l >= 0; l-- {
		if !r.reach(line, l) {
			return -1
		}
		if r.doc.isCode(l) {
			return l
		}
	}
	return -1
}

// settle replaces d with KeepPrevious when a scan hit the cap on the way.
func (r *resolver) settle(d Decision) Decision {
	if r.capped {
		return KeepPrevious
	}
	return d
}

// resolve runs the components in precedence order: brackets, block
// keywords on the line itself, continuation, then the enclosing block.
func (r *resolver) resolve(line int) Decision {
	if r.doc.InVerbatim(line) {
		return NoChange
	}
	prev := r.prevCode(line)
	if r.capped {
		return KeepPrevious
	}
	if prev < 0 {
		return Columns(0)
	}

	br := r.brackets(line, prev)
	if kw, ok := r.leadingKeyword(line); ok {
		if blk := r.keywordIndent(line, kw); blk.ok && (!br.ok || blk.anchor >= br.opener) {
			return r.settle(Columns(blk.cols))
		}
		if br.ok {
			return r.settle(Columns(br.cols))
		}
		return KeepPrevious
	}
	if br.ok {
		return r.settle(Columns(br.cols))
	}
	if r.capped {
		return KeepPrevious
	}
	if cols, ok := r.continuation(prev); ok {
		return r.settle(Columns(cols))
	}
	if cols, ok := r.enclosing(prev); ok {
		return r.settle(Columns(cols))
	}
	return KeepPrevious
}

// stmtStart walks from ln to the first line of the statement it belongs to:
// across unmatched closers to their openers, across continued lines, and
// out of verbatim spans.
func (r *resolver) stmtStart(ln int) int {
	origin := ln
	for {
		if !r.reach(origin, ln) {
			return ln
		}
		if r.doc.InVerbatim(ln) {
			if o := r.verbatimOrigin(ln); o < ln {
				ln = o
				continue
			}
		}
		li := r.doc.info(ln)
		if _, closes := r.unmatched(li); len(closes) > 0 {
			last := closes[len(closes)-1]
			open, _ := r.g.OpenerFor(li.view[last].r)
			if pos, ok := r.matchOpener(ln, last, open); ok && pos.line < ln {
				ln = pos.line
				continue
			}
		}
		if pp := r.prevCode(ln); pp >= 0 && r.continues(pp) {
			ln = pp
			continue
		}
		return ln
	}
}

// verbatimOrigin returns the line on which the verbatim span covering the
// start of ln was opened.
func (r *resolver) verbatimOrigin(ln int) int {
	l := ln
	for l > 0 && r.doc.InVerbatim(l) {
		if !r.reach(ln, l-1) {
			return ln
		}
		l--
	}
	return l
}
