package indent

import "math"

// endsWithColon reports whether line's code ends with ':'.
func (r *resolver) endsWithColon(line int) bool {
	tail := r.doc.info(line).trimmed()
	return len(tail) > 0 && tail[len(tail)-1] == ':'
}

// offsideIndent handles an ordinary line in an indentation-delimited
// grammar. st..prev is the statement above it.
func (r *resolver) offsideIndent(st, prev int) (int, bool) {
	if r.g.BlockColon && r.endsWithColon(prev) {
		return r.doc.Indent(st) + r.unit, true
	}
	if w, ok := r.doc.info(st).leadingWord(r.g); ok && r.g.IsTerminator(w.text) {
		return r.parentIndent(st), true
	}
	if st != prev {
		return r.doc.Indent(st), true
	}
	return 0, false
}

// parentIndent returns the indent of the nearest statement above st that
// is indented less than st, i.e. the header of st's block.
func (r *resolver) parentIndent(st int) int {
	ind := r.doc.Indent(st)
	for l := r.prevCode(st); l >= 0; l = r.prevCode(l) {
		if !r.reach(st, l) {
			break
		}
		l = r.stmtStart(l)
		if r.doc.Indent(l) < ind {
			return r.doc.Indent(l)
		}
	}
	return max(ind-r.unit, 0)
}

// offsideContinue aligns a continuation keyword (else, except, ...) with
// the nearest header above it that is less indented than everything in
// between and that the keyword may continue.
func (r *resolver) offsideContinue(line int, kw string) keywordHit {
	lowest := math.MaxInt
	for l := r.prevCode(line); l >= 0; l = r.prevCode(l) {
		last := l
		l = r.stmtStart(l)
		if r.capped {
			return keywordHit{}
		}
		ind := r.doc.Indent(l)
		if ind >= lowest {
			continue
		}
		lowest = ind
		if w, ok := r.doc.info(l).leadingWord(r.g); ok && r.endsWithColon(last) && r.g.ContinuationAllows(kw, w.text) {
			return keywordHit{cols: ind, anchor: l, ok: true}
		}
		if ind == 0 {
			break
		}
	}
	return keywordHit{}
}
