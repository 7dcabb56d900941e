package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDays returns a short label for a day count relative to today.
func RelativeDays(days int) string {
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDaysStyled returns RelativeDays with urgency coloring applied.
func RelativeDaysStyled(days int) string {
	text := RelativeDays(days)
	switch {
	case days <= 7:
		return StyleRed.Render(text)
	case days <= 30:
		return StyleYellow.Render(text)
	default:
		return StyleGreen.Render(text)
	}
}

// FormatHours renders an hours value as the user typed it, or a dim dash.
func FormatHours(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Dim("—")
	}
	return v + "h"
}

// ScrollIndicator returns a dim scroll position label.
func ScrollIndicator(atTop, atBottom bool, percent float64) string {
	if atTop {
		return Dim("[TOP]")
	}
	if atBottom {
		return Dim("[END]")
	}
	return Dim(fmt.Sprintf("[%d%%]", int(percent*100)))
}
