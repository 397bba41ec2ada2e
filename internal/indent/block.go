package indent

type eventKind uint8

const (
	evStart eventKind = iota
	evOpen
	evCont
	evEnd
)

// event is a block keyword occurrence on a line.
type event struct {
	kind eventKind
	word string // normalized keyword
	qual string // qualifier of a qualified end, e.g. "if" in "end if"
}

// keywordHit is the Block Structure Analyzer's answer for a line led by an
// end or continuation keyword.
type keywordHit struct {
	cols   int
	anchor int
	ok     bool
}

// lineKeyword is the end or continuation keyword leading a line.
type lineKeyword struct {
	word string
	end  bool
	qual string
}

// leadingKeyword reports the end or continuation keyword the line starts
// with.
func (r *resolver) leadingKeyword(line int) (lineKeyword, bool) {
	li := r.doc.info(line)
	w, ok := li.leadingWord(r.g)
	if !ok {
		return lineKeyword{}, false
	}
	switch {
	case r.g.IsEnd(w.text):
		kw := lineKeyword{word: r.g.Normalize(w.text), end: true}
		if r.g.QualifiedEnds {
			ws := li.words(r.g)
			if len(ws) > 1 && r.g.IsBlockKind(ws[1].text) && blanksBetween(li, ws[0].end, ws[1].start) {
				kw.qual = r.g.Normalize(ws[1].text)
			}
		}
		return kw, true
	case r.g.IsContinue(w.text):
		return lineKeyword{word: r.g.Normalize(w.text)}, true
	}
	return lineKeyword{}, false
}

func blanksBetween(li *lineInfo, from, to int) bool {
	for i := from; i < to; i++ {
		if !isBlank(li.view[i].r) {
			return false
		}
	}
	return true
}

// events lists the block keywords of line in order. Starts and
// continuations count only as the leading word; openers count anywhere on
// a line not led by either. A start and its end on one line cancel out in
// every consumer.
func (r *resolver) events(line int) []event {
	li := r.doc.info(line)
	ws := li.words(r.g)
	var out []event
	ledByKeyword := false
	if lw, ok := li.leadingWord(r.g); ok {
		switch {
		case r.g.IsStart(lw.text):
			out = append(out, event{kind: evStart, word: r.g.Normalize(lw.text)})
			ledByKeyword = true
		case r.g.IsContinue(lw.text):
			out = append(out, event{kind: evCont, word: r.g.Normalize(lw.text)})
			ledByKeyword = true
		}
	}
	for i := 0; i < len(ws); i++ {
		w := ws[i]
		if w.dotted || (i == 0 && ledByKeyword) {
			continue
		}
		switch {
		case r.g.IsEnd(w.text):
			e := event{kind: evEnd, word: r.g.Normalize(w.text)}
			if r.g.QualifiedEnds && i+1 < len(ws) && r.g.IsBlockKind(ws[i+1].text) && blanksBetween(li, w.end, ws[i+1].start) {
				e.qual = r.g.Normalize(ws[i+1].text)
				i++
			}
			out = append(out, e)
		case !ledByKeyword && r.g.IsOpener(w.text):
			out = append(out, event{kind: evOpen, word: r.g.Normalize(w.text)})
		}
	}
	return out
}

// opensBlock reports whether the statement spanning lines from..to leaves
// a block open for the following line.
func (r *resolver) opensBlock(from, to int) bool {
	if r.g.Offside {
		return r.g.BlockColon && r.endsWithColon(to)
	}
	if !r.g.HasBlocks() {
		return false
	}
	net := 0
	for l := from; l <= to; l++ {
		for _, e := range r.events(l) {
			if e.kind == evEnd {
				net--
			} else {
				net++
			}
		}
	}
	return net > 0
}

// keywordIndent aligns a line led by an end or continuation keyword with
// the block it closes or continues.
func (r *resolver) keywordIndent(line int, kw lineKeyword) keywordHit {
	if r.g.Offside && !kw.end {
		return r.offsideContinue(line, kw.word)
	}
	anchor, ok := r.blockAnchor(line, kw)
	if !ok {
		return keywordHit{}
	}
	return keywordHit{cols: r.doc.Indent(r.stmtStart(anchor)), anchor: anchor, ok: true}
}

// blockAnchor scans backward for the block start kw belongs to. Ends seen
// on the way raise the nesting depth and starts lower it; at depth zero a
// start of a kind kw may close or continue is the anchor. Starts of other
// kinds are enclosing blocks left open and are skipped.
func (r *resolver) blockAnchor(line int, kw lineKeyword) (int, bool) {
	depth := 0
	for l := line - 1; l >= 0; l-- {
		if !r.reach(line, l) {
			return -1, false
		}
		if !r.doc.isCode(l) {
			continue
		}
		ev := r.events(l)
		for i := len(ev) - 1; i >= 0; i-- {
			e := ev[i]
			switch e.kind {
			case evEnd:
				depth++
			case evStart, evOpen:
				if depth > 0 {
					depth--
					continue
				}
				if kw.end {
					if r.g.EndCloses(kw.word, e.word) && (kw.qual == "" || kw.qual == e.word) {
						return l, true
					}
				} else if r.g.ContinuationAllows(kw.word, e.word) {
					return l, true
				}
			case evCont:
				if depth == 0 && !kw.end && r.g.ContinuationAllows(kw.word, e.word) {
					return l, true
				}
			}
		}
	}
	return -1, false
}

// enclosing handles an ordinary line: one unit inside a statement that
// opens a block, otherwise level with the statement that precedes it.
func (r *resolver) enclosing(prev int) (int, bool) {
	st := r.stmtStart(prev)
	if r.g.Offside {
		return r.offsideIndent(st, prev)
	}
	if r.opensBlock(st, prev) {
		return r.doc.Indent(st) + r.unit, true
	}
	if st != prev {
		return r.doc.Indent(st), true
	}
	return 0, false
}
