package indent

import "strings"

// operatorRunes may combine with an alignment operator into a longer one,
// e.g. "=" inside "==" or "<=".
const operatorRunes = "=!<>:+-*/%&|^~?."

// trailingOperator returns the continuation token that ends line, if any.
// Excluded tokens such as "++" are checked first so their suffixes do not
// count.
func (r *resolver) trailingOperator(line int) (string, bool) {
	tail := r.doc.info(line).trimmed()
	if len(tail) == 0 {
		return "", false
	}
	if m := r.g.LineContinuation; m != "" && hasSuffixRunes(tail, m) {
		return m, true
	}
	for _, ex := range r.g.ContinuationExcludes() {
		if hasSuffixRunes(tail, ex) {
			return "", false
		}
	}
	for _, op := range r.g.ContinuationOperators() {
		if !hasSuffixRunes(tail, op) {
			continue
		}
		if r.isWordOp(op) {
			before := len(tail) - len([]rune(op)) - 1
			if before >= 0 && r.g.IsWordRune(tail[before]) {
				continue
			}
		}
		if op == ":" && r.g.BlockColon {
			continue
		}
		return op, true
	}
	return "", false
}

func (r *resolver) isWordOp(op string) bool {
	for _, c := range op {
		if !r.g.IsWordRune(c) {
			return false
		}
	}
	return true
}

// continues reports whether the statement on line carries on to the next
// line. A trailing comma only counts outside brackets.
func (r *resolver) continues(line int) bool {
	op, ok := r.trailingOperator(line)
	if !ok {
		return false
	}
	if op == "," && r.insideBracket(line) {
		return false
	}
	return true
}

// continuation implements the Continuation Detector for the line after
// prev. An existing sibling continuation line keeps its indent.
func (r *resolver) continuation(prev int) (int, bool) {
	if !r.continues(prev) {
		return 0, false
	}
	if pp := r.prevCode(prev); pp >= 0 && r.continues(pp) {
		return r.doc.Indent(prev), true
	}
	st := r.stmtStart(prev)
	if r.g.AlignContinuation {
		if col, ok := r.alignColumn(st); ok {
			return col, true
		}
	}
	return r.doc.Indent(st) + r.unit, true
}

// alignColumn finds the first alignment operator outside brackets on line
// and returns the column where its right operand starts.
func (r *resolver) alignColumn(line int) (int, bool) {
	li := r.doc.info(line)
	v := li.view
	depth := 0
	for i := 0; i < len(v); i++ {
		c := v[i].r
		if _, ok := r.g.CloserFor(c); ok {
			depth++
			continue
		}
		if _, ok := r.g.OpenerFor(c); ok {
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		for _, op := range r.g.AlignOperators() {
			n := len([]rune(op))
			if !cellsHavePrefix(v, i, op) {
				continue
			}
			if i > 0 && strings.ContainsRune(operatorRunes, v[i-1].r) {
				continue
			}
			if i+n < len(v) && (v[i+n].r == '=' || v[i+n].r == '>') {
				continue
			}
			j, ok := li.codeAfter(i + n - 1)
			if !ok {
				return 0, false
			}
			return r.doc.VirtualColumn(line, v[j].col), true
		}
	}
	return 0, false
}

func cellsHavePrefix(v []cell, i int, s string) bool {
	for _, c := range s {
		if i >= len(v) || v[i].r != c {
			return false
		}
		i++
	}
	return true
}
