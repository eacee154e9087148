package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alnah/go-md2deck/internal/params"
	"github.com/alnah/go-md2deck/internal/tags"
)

// ScriptEntryPoint is the function a custom script may define; it receives
// the id of the container element created for it.
const ScriptEntryPoint = "render"

const scriptContainerPrefix = "script-container"

// ScriptResolver renders #script tags: a container element, the script
// itself, and a hook calling the script's entry point with the container id.
// Parameters: container (default: generated id).
type ScriptResolver struct{}

// Resolve implements Resolver.
func (r *ScriptResolver) Resolve(rc *Context, occ tags.Occurrence, p params.Set) (string, error) {
	container := p.Get("container", "")
	if container == "" {
		container = rc.IDs.Next(scriptContainerPrefix)
	}
	containerJSON, err := json.Marshal(container)
	if err != nil {
		return "", fmt.Errorf("encoding container id: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="presentation-script"></div>`+"\n", attr(container))
	fmt.Fprintf(&b, `<script src="%s"></script>`+"\n", attr(joinURL(rc.ScriptURLPrefix, occ.Primary)))
	b.WriteString("<script>\n")
	fmt.Fprintf(&b, "  if (typeof %s === 'function') {\n", ScriptEntryPoint)
	fmt.Fprintf(&b, "    %s(%s);\n", ScriptEntryPoint, containerJSON)
	b.WriteString("  }\n</script>")

	return b.String(), nil
}
