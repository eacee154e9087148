package resolve

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2deck/internal/params"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ImageResolver renders #image tags as a figure referencing the copied
// image asset. Parameters: width, height, alt (default: file name), caption.
type ImageResolver struct{}

// Resolve implements Resolver.
func (r *ImageResolver) Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error) {
	var b strings.Builder

	b.WriteString(`<figure class="presentation-image">` + "\n")
	fmt.Fprintf(&b, `  <img src="%s"`, attr(joinURL(rc.ImageURLPrefix, occ.Primary)))
	if w := p.Get("width", ""); w != "" {
		fmt.Fprintf(&b, ` width="%s"`, attr(w))
	}
	if h := p.Get("height", ""); h != "" {
		fmt.Fprintf(&b, ` height="%s"`, attr(h))
	}
	fmt.Fprintf(&b, ` alt="%s" loading="lazy">`, attr(p.Get("alt", occ.Primary)))

	if caption := p.Get("caption", ""); caption != "" {
		fmt.Fprintf(&b, "\n  <figcaption>%s</figcaption>", attr(caption))
	}
	b.WriteString("\n</figure>")

	return b.String(), nil
}
