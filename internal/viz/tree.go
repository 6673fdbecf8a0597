package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/dtesn/internal/membrane"
)

// RenderTree returns an indented, colored rendering of the hierarchy.
func RenderTree(h *membrane.Hierarchy) string {
	view := h.TreeView()
	if view == nil {
		return "(empty hierarchy)"
	}
	var b strings.Builder
	renderNode(&b, view, 0)
	return b.String()
}

func renderNode(b *strings.Builder, v *membrane.View, indent int) {
	style, ok := typeColors[v.Type]
	if !ok {
		style = typeColors["elementary"]
	}
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(style.Render(fmt.Sprintf("- %s (%s)", v.Label, v.Type)))
	b.WriteString(fmt.Sprintf(" [neurons: %d, objects: %d]\n", v.NeuronCount, v.Objects))
	for _, child := range v.Children {
		renderNode(b, child, indent+1)
	}
}
