package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// plainLines strips styling and the padding glamour adds to each line.
func plainLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(stripANSI(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestRenderMarkdown_Structure(t *testing.T) {
	plan := strings.Join([]string{
		"## Phase 1: Foundations",
		"",
		"- **Theme**: basics with *extra focus* on tax",
		"  - read `chapter 1`",
		"",
		"1. Review notes",
	}, "\n")

	got := strings.Join(plainLines(RenderMarkdown(plan, 60)), "\n")

	assert.Contains(t, got, "Phase 1: Foundations")
	assert.Contains(t, got, "Theme: basics with extra focus on tax")
	assert.Contains(t, got, "chapter 1")
	assert.Contains(t, got, "1. Review notes")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "*extra")
	assert.NotContains(t, got, "`")
}

func TestRenderMarkdown_Tables(t *testing.T) {
	plan := "| Week | Hours |\n|------|-------|\n| 1 | 10 |\n| 2 | 12 |"

	got := strings.Join(plainLines(RenderMarkdown(plan, 60)), "\n")

	assert.Contains(t, got, "Week")
	assert.Contains(t, got, "Hours")
	assert.Contains(t, got, "12")
	assert.NotContains(t, got, "|------|")
}

func TestRenderMarkdown_WrapsToWidth(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 10)

	lines := plainLines(RenderMarkdown(text, 30))

	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 30, line)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown("", 10))
	assert.Equal(t, "", RenderMarkdown(" \n ", 10))
	assert.Equal(t, []string{"just text"}, plainLines(RenderMarkdown("just text", 0)))
}

func TestHeader_UnderlineMatchesWidth(t *testing.T) {
	got := stripANSI(Header("学習計画"))

	assert.Equal(t, "学習計画\n────────", got)
}
