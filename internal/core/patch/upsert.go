package patch

import (
	"fmt"
	"sort"
	"strings"
)

// indentUnit is the nesting step used for new entries in empty regions.
const indentUnit = "    "

// Fragment is a keyed entry to place inside a region. Value is a PHP
// expression; its continuation lines are written relative to column zero
// and are re-indented to match the region.
type Fragment struct {
	Key   string
	Value string
}

// Source renders the fragment as it appears in an array, without the
// trailing comma.
func (f Fragment) Source() string {
	if f.Key == "" {
		return f.Value
	}
	return quoteKey(f.Key) + " => " + f.Value
}

// Outcome describes what an upsert did to the document.
type Outcome int

const (
	Unchanged Outcome = iota
	Inserted
	Replaced
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	default:
		return "unchanged"
	}
}

// Result is the text produced by a patch and what changed.
type Result struct {
	Text    string
	Outcome Outcome
}

// Upsert places frag in the first region matched by sel. An entry with the
// same key is replaced in place; otherwise the fragment is added on a new
// line directly before the region's closing delimiter.
func Upsert(src string, sel Selector, frag Fragment) (Result, error) {
	doc, err := Parse(src)
	if err != nil {
		return Result{}, err
	}
	region, err := doc.Region(sel)
	if err != nil {
		return Result{}, err
	}
	return finish(doc.upsert(region, frag))
}

// upsert applies frag to region and returns the new text.
func (d *Document) upsert(region *Region, frag Fragment) Result {
	src := d.src
	if frag.Key != "" {
		for _, e := range region.Entries {
			if e.Key != frag.Key {
				continue
			}
			indent := lineIndent(src, e.Start)
			replacement := indentLines(frag.Source(), indent, true)
			if sameSource(src[e.Start:e.End], replacement) {
				return Result{Text: src, Outcome: Unchanged}
			}
			return Result{Text: src[:e.Start] + replacement + src[e.End:], Outcome: Replaced}
		}
	}

	indent := entryIndent(src, region)
	edits := []edit{insertBefore(src, region.Open, region.Close, frag.Source()+",", indent)}
	if n := len(region.Entries); n > 0 && !region.Entries[n-1].Comma {
		edits = append(edits, edit{at: region.Entries[n-1].End, end: region.Entries[n-1].End, text: ","})
	}
	return Result{Text: apply(src, edits), Outcome: Inserted}
}

// entryIndent returns the indentation of the region's existing entries, or
// one step past the closing delimiter's line when there are none to copy.
func entryIndent(src string, region *Region) string {
	for _, e := range region.Entries {
		if startsLine(src, e.Start) {
			return lineIndent(src, e.Start)
		}
	}
	return lineIndent(src, region.Close) + indentUnit
}

type edit struct {
	at, end int
	text    string
}

func apply(src string, edits []edit) string {
	// Later edits go first so earlier offsets stay valid; on ties the edit
	// added first lands last in the text.
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].at != edits[j].at {
			return edits[i].at > edits[j].at
		}
		return edits[i].end > edits[j].end
	})
	for _, e := range edits {
		src = src[:e.at] + e.text + src[e.end:]
	}
	return src
}

// insertBefore builds the edit that puts block on its own lines directly in
// front of the delimiter at pos. floor bounds how far back trailing
// whitespace may be trimmed.
func insertBefore(src string, floor, pos int, block, indent string) edit {
	body := indentLines(block, indent, false)
	if ls := lineStart(src, pos); ls > floor && startsLine(src, pos) {
		return edit{at: ls, end: ls, text: body + "\n"}
	}
	tail := pos
	for tail > floor+1 && (src[tail-1] == ' ' || src[tail-1] == '\t') {
		tail--
	}
	return edit{at: tail, end: pos, text: "\n" + body + "\n" + lineIndent(src, pos)}
}

// indentLines prefixes every non-empty line of text with indent.
func indentLines(text, indent string, skipFirst bool) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" || (i == 0 && skipFirst) {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// sameSource compares two snippets ignoring layout and trailing commas.
func sameSource(a, b string) bool {
	return compact(a) == compact(b)
}

func compact(s string) string {
	s = strings.Join(strings.Fields(s), "")
	for _, r := range []string{",]", ",)"} {
		s = strings.ReplaceAll(s, r, r[1:])
	}
	return strings.TrimSuffix(s, ",")
}

// finish re-parses patched text so a broken edit is never handed back.
func finish(res Result) (Result, error) {
	if res.Outcome == Unchanged {
		return res, nil
	}
	if _, err := Parse(res.Text); err != nil {
		return Result{}, fmt.Errorf("patched text failed to parse: %w", err)
	}
	return res, nil
}
