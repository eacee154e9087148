// Package tags locates the inline media tags of a presentation source.
//
// A tag has the form
//
//	#<keyword>-<primary[, key=value, ...]>
//
// where keyword is one of image, table, chart, youtube or script. The primary
// argument is a non-empty run of characters other than ',' and '>'. When a
// comma follows the primary argument, the parameter segment is everything
// after the comma (leading whitespace dropped) up to the next '>', and must
// not be empty. Text that opens like a tag but does not satisfy these rules
// is left alone.
package tags

import (
	"strings"
	"unicode"
)

// Kind identifies the resolver a tag is routed to.
type Kind int

// Tag kinds, declared in resolution order.
const (
	KindImage Kind = iota
	KindTable
	KindChart
	KindVideo
	KindScript
)

// Kinds lists every kind in the order tags are resolved.
var Kinds = []Kind{KindImage, KindTable, KindChart, KindVideo, KindScript}

// Keyword returns the word used in the source syntax.
func (k Kind) Keyword() string {
	switch k {
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	case KindChart:
		return "chart"
	case KindVideo:
		return "youtube"
	case KindScript:
		return "script"
	}
	return ""
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	case KindChart:
		return "chart"
	case KindVideo:
		return "video"
	case KindScript:
		return "script"
	}
	return "unknown"
}

// Occurrence is one matched tag. Start and End are byte offsets into the
// scanned text; text[Start:End] is the complete tag.
type Occurrence struct {
	Kind      Kind
	Primary   string
	Params    string
	HasParams bool
	Start     int
	End       int
}

// Scan returns every tag in src, in document order. Matches never overlap;
// scanning resumes after the closing '>' of each match.
func Scan(src string) []Occurrence {
	var found []Occurrence
	for i := 0; i < len(src); {
		j := strings.IndexByte(src[i:], '#')
		if j < 0 {
			break
		}
		start := i + j
		occ, ok := scanAt(src, start)
		if !ok {
			i = start + 1
			continue
		}
		found = append(found, occ)
		i = occ.End
	}
	return found
}

// Count returns the number of tags of each kind in src.
func Count(src string) map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		counts[k] = 0
	}
	for _, occ := range Scan(src) {
		counts[occ.Kind]++
	}
	return counts
}

// LineOf returns the 1-based line number of the byte offset in src.
func LineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}

// scanAt tries to match a complete tag beginning at src[start], which is '#'.
func scanAt(src string, start int) (Occurrence, bool) {
	kind, openLen, ok := matchOpener(src[start:])
	if !ok {
		return Occurrence{}, false
	}

	pos := start + openLen
	n := strings.IndexAny(src[pos:], ",>")
	if n <= 0 {
		// Unterminated tag or empty primary argument.
		return Occurrence{}, false
	}
	primary := strings.TrimSpace(src[pos : pos+n])
	if primary == "" {
		return Occurrence{}, false
	}

	occ := Occurrence{Kind: kind, Primary: primary, Start: start}
	pos += n
	if src[pos] == '>' {
		occ.End = pos + 1
		return occ, true
	}

	pos++ // past ','
	closeIdx := strings.IndexByte(src[pos:], '>')
	if closeIdx <= 0 {
		return Occurrence{}, false
	}
	occ.Params = strings.TrimLeftFunc(src[pos:pos+closeIdx], unicode.IsSpace)
	occ.HasParams = true
	occ.End = pos + closeIdx + 1
	return occ, true
}

// matchOpener reports which kind's "#keyword-<" opener s starts with.
func matchOpener(s string) (Kind, int, bool) {
	for _, k := range Kinds {
		opener := "#" + k.Keyword() + "-<"
		if strings.HasPrefix(s, opener) {
			return k, len(opener), true
		}
	}
	return 0, 0, false
}
