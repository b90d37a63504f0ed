package patch

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Document is a scanned view of configuration source. It is immutable;
// edits produce new text which is parsed again when needed.
type Document struct {
	src  string
	toks []token
	pair []int // token index of the matching delimiter, -1 otherwise
}

// Parse scans src and pairs its delimiters.
func Parse(src string) (*Document, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	pair := make([]int, len(toks))
	var stack []int
	for i, t := range toks {
		pair[i] = -1
		switch t.kind {
		case tokOpen:
			stack = append(stack, i)
		case tokClose:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformed, t.text, t.start)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !closes(toks[open].text, t.text) {
				return nil, fmt.Errorf("%w: %q at offset %d closes %q at offset %d",
					ErrMalformed, t.text, t.start, toks[open].text, toks[open].start)
			}
			pair[open] = i
			pair[i] = open
		}
	}
	if len(stack) > 0 {
		t := toks[stack[len(stack)-1]]
		return nil, fmt.Errorf("%w: %q at offset %d is never closed", ErrMalformed, t.text, t.start)
	}
	return &Document{src: src, toks: toks, pair: pair}, nil
}

func closes(open, close string) bool {
	switch open {
	case "(":
		return close == ")"
	case "[":
		return close == "]"
	case "{":
		return close == "}"
	}
	return false
}

// Text returns the source the document was parsed from.
func (d *Document) Text() string { return d.src }

func (d *Document) is(i int, kind tokenKind, text string) bool {
	if i < 0 || i >= len(d.toks) {
		return false
	}
	t := d.toks[i]
	return t.kind == kind && (text == "" || t.text == text)
}

// arrayOpen reports the bracket token opening an array literal at i, accepting
// both [ ... ] and array( ... ). It returns -1 when there is none.
func (d *Document) arrayOpen(i int) int {
	if d.is(i, tokOpen, "[") {
		return i
	}
	if d.is(i, tokIdent, "") && strings.EqualFold(d.toks[i].text, "array") && d.is(i+1, tokOpen, "(") {
		return i + 1
	}
	return -1
}

// span is a half-open token index range.
type span struct{ lo, hi int }

func (d *Document) all() span { return span{0, len(d.toks)} }

// Selector locates the opening delimiter of a region.
type Selector interface {
	// find returns the index of the region's opening token within s, or -1.
	find(d *Document, s span) int
	// candidates lists names of the same shape present within s.
	candidates(d *Document, s span) []string
	String() string
}

// Key selects the array introduced by 'name' => [ ... ].
func Key(name string) Selector { return keySelector(name) }

// Property selects the array assigned by $name = [ ... ].
func Property(name string) Selector { return propertySelector(name) }

// Call selects the array passed as the first argument of ->name([ ... ]).
func Call(name string) Selector { return callSelector(name) }

type keySelector string

func (k keySelector) find(d *Document, s span) int {
	for i := s.lo; i < s.hi; i++ {
		if d.toks[i].kind == tokString && unquote(d.toks[i].text) == string(k) && d.is(i+1, tokArrow, "") {
			if open := d.arrayOpen(i + 2); open >= 0 && open < s.hi {
				return open
			}
		}
	}
	return -1
}

func (k keySelector) candidates(d *Document, s span) []string {
	var out []string
	for i := s.lo; i < s.hi; i++ {
		if d.toks[i].kind == tokString && d.is(i+1, tokArrow, "") && d.arrayOpen(i+2) >= 0 {
			out = append(out, unquote(d.toks[i].text))
		}
	}
	return out
}

func (k keySelector) String() string { return quoteKey(string(k)) }

type propertySelector string

func (p propertySelector) find(d *Document, s span) int {
	want := "$" + string(p)
	for i := s.lo; i < s.hi; i++ {
		if d.is(i, tokVariable, want) && d.is(i+1, tokAssign, "") {
			if open := d.arrayOpen(i + 2); open >= 0 && open < s.hi {
				return open
			}
		}
	}
	return -1
}

func (p propertySelector) candidates(d *Document, s span) []string {
	var out []string
	for i := s.lo; i < s.hi; i++ {
		if d.is(i, tokVariable, "") && d.is(i+1, tokAssign, "") && d.arrayOpen(i+2) >= 0 {
			out = append(out, strings.TrimPrefix(d.toks[i].text, "$"))
		}
	}
	return out
}

func (p propertySelector) String() string { return "$" + string(p) }

type callSelector string

func (c callSelector) find(d *Document, s span) int {
	for i := s.lo; i < s.hi; i++ {
		if d.is(i, tokObjectOp, "") && d.is(i+1, tokIdent, string(c)) && d.is(i+2, tokOpen, "(") {
			if open := d.arrayOpen(i + 3); open >= 0 && open < s.hi {
				return open
			}
		}
	}
	return -1
}

func (c callSelector) candidates(d *Document, s span) []string {
	var out []string
	for i := s.lo; i < s.hi; i++ {
		if d.is(i, tokObjectOp, "") && d.is(i+1, tokIdent, "") && d.is(i+2, tokOpen, "(") {
			out = append(out, d.toks[i+1].text)
		}
	}
	return out
}

func (c callSelector) String() string { return "->" + string(c) + "()" }

// Region is a located array literal and its top-level entries.
type Region struct {
	Open    int // byte offset of the opening delimiter
	Close   int // byte offset of the closing delimiter
	Entries []Entry
}

// Entry is one top-level element of a region.
type Entry struct {
	Key   string // unquoted key, empty for positional elements
	Start int    // byte offset of the first token
	End   int    // byte offset just past the value
	Comma bool   // whether a separating comma follows
}

// Region locates the first region matched by sel.
func (d *Document) Region(sel Selector) (*Region, error) {
	return d.regionWithin(sel, d.all())
}

func (d *Document) regionWithin(sel Selector, s span) (*Region, error) {
	open := sel.find(d, s)
	if open < 0 {
		return nil, &NotApplicableError{Region: sel.String(), Hint: closest(sel, sel.candidates(d, s))}
	}
	return d.region(open), nil
}

func (d *Document) region(open int) *Region {
	closeIdx := d.pair[open]
	r := &Region{Open: d.toks[open].start, Close: d.toks[closeIdx].start}

	first := -1
	flush := func(last int, comma bool) {
		if first < 0 {
			return
		}
		e := Entry{Start: d.toks[first].start, End: d.toks[last].end, Comma: comma}
		if d.toks[first].kind == tokString && d.is(first+1, tokArrow, "") {
			e.Key = unquote(d.toks[first].text)
		}
		r.Entries = append(r.Entries, e)
		first = -1
	}

	last := -1
	for i := open + 1; i < closeIdx; i++ {
		t := d.toks[i]
		if t.kind == tokComma {
			flush(last, true)
			continue
		}
		if first < 0 {
			first = i
		}
		if t.kind == tokOpen {
			i = d.pair[i]
		}
		last = i
	}
	flush(last, false)
	return r
}

// closest picks the candidate nearest to the selector's name, if any is
// close enough to be a plausible typo.
func closest(sel Selector, candidates []string) string {
	want := selectorName(sel)
	best, bestDist := "", -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(want), strings.ToLower(c))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	limit := len(want) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit || best == want {
		return ""
	}
	return best
}

func selectorName(sel Selector) string {
	switch s := sel.(type) {
	case keySelector:
		return string(s)
	case propertySelector:
		return string(s)
	case callSelector:
		return string(s)
	}
	return sel.String()
}

// lineStart returns the offset of the first byte of the line holding pos.
func lineStart(src string, pos int) int {
	return strings.LastIndexByte(src[:pos], '\n') + 1
}

// lineIndent returns the leading whitespace of the line holding pos.
func lineIndent(src string, pos int) string {
	ls := lineStart(src, pos)
	end := ls
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[ls:end]
}

// startsLine reports whether only whitespace precedes pos on its line.
func startsLine(src string, pos int) bool {
	return strings.TrimSpace(src[lineStart(src, pos):pos]) == ""
}
