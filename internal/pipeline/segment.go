package pipeline

import "strings"

// headingPrefix marks a top-level heading: a single '#' and a space at
// column 0.
const headingPrefix = "# "

// Slide is one top-level section of the deck. Lines are kept verbatim,
// without their trailing newline.
type Slide struct {
	Lines []string
}

// Heading returns the slide's top-level heading line, if it starts with one.
// Only a slide holding content that precedes the document's first heading
// lacks one.
func (s Slide) Heading() (string, bool) {
	if len(s.Lines) == 0 || !isTopLevelHeading(s.Lines[0]) {
		return "", false
	}
	return s.Lines[0], true
}

// Text returns the slide content joined with newlines.
func (s Slide) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Deck is the ordered slide sequence of one build plus its title.
type Deck struct {
	Title  string
	Slides []Slide
}

// Segment splits content into slides. Every line starting with "# " opens a
// new slide, except inside fenced code blocks where '#' is usually a shell
// or Python comment. Content before the first heading forms a leading slide
// unless it is blank. Slides after a heading are kept even when the rest of
// their lines are blank.
func Segment(content string) []Slide {
	if content == "" {
		return nil
	}

	var (
		slides  []Slide
		current []string
		fence   fenceState
		headed  bool
	)

	flush := func() {
		if headed || !isBlank(current) {
			slides = append(slides, Slide{Lines: current})
		}
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if !fence.open() && isTopLevelHeading(line) {
			flush()
			headed = true
		}
		fence.update(line)
		current = append(current, line)
	}
	flush()

	return slides
}

func isTopLevelHeading(line string) bool {
	return strings.HasPrefix(line, headingPrefix)
}

func isBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// fenceState tracks whether the scan is inside a ``` or ~~~ code fence.
// A fence closes on a line using the same character at least as many times
// as the opening line, per CommonMark.
type fenceState struct {
	char byte
	size int
}

func (f *fenceState) open() bool {
	return f.size > 0
}

func (f *fenceState) update(line string) {
	char, size, rest := fenceMarker(line)
	if size == 0 {
		return
	}
	if !f.open() {
		f.char, f.size = char, size
		return
	}
	if char == f.char && size >= f.size && strings.TrimSpace(rest) == "" {
		f.char, f.size = 0, 0
	}
}

// fenceMarker reports the fence character and run length when line opens or
// closes a code fence (up to three spaces of indentation, three or more
// backticks or tildes).
func fenceMarker(line string) (char byte, size int, rest string) {
	indent := 0
	for indent < len(line) && indent < 4 && line[indent] == ' ' {
		indent++
	}
	if indent > 3 || indent >= len(line) {
		return 0, 0, ""
	}
	c := line[indent]
	if c != '`' && c != '~' {
		return 0, 0, ""
	}
	n := indent
	for n < len(line) && line[n] == c {
		n++
	}
	if n-indent < 3 {
		return 0, 0, ""
	}
	return c, n - indent, line[n:]
}
