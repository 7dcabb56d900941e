package formatter

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// DefaultMarkdownWidth is used when the caller has no terminal width.
const DefaultMarkdownWidth = 88

// planMarkdownStyle is glamour's dark style without the document margin, so
// the plan lines up with the surrounding header and viewport edges.
func planMarkdownStyle() ansi.StyleConfig {
	style := styles.DarkStyleConfig
	var zero uint
	style.Document.Margin = &zero
	return style
}

// RenderMarkdown renders generated plan text for a terminal of the given
// width. Text that cannot be rendered is returned unchanged.
func RenderMarkdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultMarkdownWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(planMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
