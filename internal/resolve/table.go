package resolve

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2deck/internal/params"
	"github.com/alnah/go-md2deck/internal/tags"
)

// Table defaults.
const (
	DefaultTableStyle = "striped"
)

// TableResolver renders #table tags from a CSV file in the data directory.
// Parameters: style (default "striped"), sortable ("true" enables it),
// caption.
type TableResolver struct{}

// Resolve implements Resolver.
func (r *TableResolver) Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error) {
	table, err := rc.loadTable(occ.Primary)
	if err != nil {
		return "", err
	}

	class := p.Get("style", DefaultTableStyle) + "-table"
	if p.Get("sortable", "") == "true" {
		class += " sortable-table"
	}

	var b strings.Builder
	b.WriteString(`<figure class="presentation-table">` + "\n")
	fmt.Fprintf(&b, `  <table class="%s">`, attr(class))

	if caption := p.Get("caption", ""); caption != "" {
		fmt.Fprintf(&b, "\n    <caption>%s</caption>", attr(caption))
	}

	b.WriteString("\n    <thead>\n      <tr>")
	for _, h := range table.Header {
		fmt.Fprintf(&b, "\n        <th>%s</th>", attr(h))
	}
	b.WriteString("\n      </tr>\n    </thead>\n    <tbody>")

	for _, row := range table.Rows {
		b.WriteString("\n      <tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "\n        <td>%s</td>", attr(cell))
		}
		b.WriteString("\n      </tr>")
	}

	b.WriteString("\n    </tbody>\n  </table>\n</figure>")
	return b.String(), nil
}
