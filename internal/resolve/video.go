package resolve

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alnah/go-md2deck/internal/params"
	"github.com/alnah/go-md2deck/internal/tags"
)

// Video defaults.
const (
	DefaultVideoWidth  = "800"
	DefaultVideoHeight = "450"
)

const videoAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"

// VideoResolver renders #youtube tags as an embedded player.
// Parameters: width (default 800), height (default 450).
type VideoResolver struct{}

// Resolve implements Resolver.
func (r *VideoResolver) Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error) {
	src := rc.VideoEmbedURL + url.PathEscape(occ.Primary)

	var b strings.Builder
	b.WriteString(`<div class="presentation-video">` + "\n")
	fmt.Fprintf(&b, `  <iframe width="%s" height="%s"`+"\n",
		attr(p.Get("width", DefaultVideoWidth)), attr(p.Get("height", DefaultVideoHeight)))
	fmt.Fprintf(&b, `    src="%s"`+"\n", attr(src))
	b.WriteString(`    frameborder="0"` + "\n")
	fmt.Fprintf(&b, `    allow="%s"`+"\n", videoAllow)
	b.WriteString("    allowfullscreen>\n  </iframe>\n</div>")

	return b.String(), nil
}
