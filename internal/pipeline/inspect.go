package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Inspection summarizes an assembled deck.
type Inspection struct {
	// Slides is the number of <section> elements.
	Slides int
	// ImageRefs and ScriptRefs list relative img/script sources in document
	// order, without duplicates.
	ImageRefs  []string
	ScriptRefs []string
}

// Inspect parses an assembled deck and reports its slide count and the
// local files it references. The builder uses the references to warn about
// assets that were not copied into the output directory.
func Inspect(htmlContent string) (*Inspection, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}

	in := &Inspection{}
	seen := make(map[string]bool)
	walk(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Section:
			in.Slides++
		case atom.Img:
			if ref, ok := localRef(n, "src"); ok && !seen["img:"+ref] {
				seen["img:"+ref] = true
				in.ImageRefs = append(in.ImageRefs, ref)
			}
		case atom.Script:
			if ref, ok := localRef(n, "src"); ok && !seen["script:"+ref] {
				seen["script:"+ref] = true
				in.ScriptRefs = append(in.ScriptRefs, ref)
			}
		}
	})

	return in, nil
}

// CountSlides returns the number of <section> elements in an assembled deck.
func CountSlides(htmlContent string) (int, error) {
	in, err := Inspect(htmlContent)
	if err != nil {
		return 0, err
	}
	return in.Slides, nil
}

// walk visits n and its descendants depth first.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// localRef returns the attribute value when it is a relative path.
func localRef(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key && isRelativePath(a.Val) {
			return a.Val, true
		}
	}
	return "", false
}

// isRelativePath returns true if the path refers to a file next to the deck.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	if strings.HasPrefix(path, "#") {
		return false
	}

	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}
