package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/autopr/autopr/internal/gh"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))

	long := strings.Repeat("x", 50)
	truncated := Truncate(long, 20)
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.LessOrEqual(t, lipgloss.Width(truncated), 20)
}

func TestFormatPRFinderLine_FitsTerminal(t *testing.T) {
	pr := gh.PR{
		Number: 42,
		Title:  strings.Repeat("long title ", 30),
		Head:   "master",
		Base:   "dev",
	}

	line := FormatPRFinderLine(pr)
	assert.Contains(t, line, "#42")
	assert.Contains(t, line, "(master → dev)")
	assert.Contains(t, line, "...")
	// The list half of the finder must fit the terminal.
	assert.LessOrEqual(t, lipgloss.Width(line), GetTerminalWidth())
}

func TestFormatPRFinderLine_ShortTitleUntouched(t *testing.T) {
	pr := gh.PR{Number: 1, Title: "Pulling master into dev", Head: "master", Base: "dev"}
	assert.Contains(t, FormatPRFinderLine(pr), "Pulling master into dev")
}

func TestFormatPRPreview_LinesFitWidth(t *testing.T) {
	pr := gh.PR{
		Number:    7,
		Title:     strings.Repeat("y", 120),
		State:     "open",
		Head:      "master",
		Base:      "dev",
		Labels:    []string{"auto-pr", strings.Repeat("l", 80)},
		URL:       "https://github.com/steven-murray/hmf/pull/7?" + strings.Repeat("q", 80),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	preview := FormatPRPreview(pr, 40)
	for _, line := range strings.Split(preview, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40, "line %q", line)
	}
	assert.Contains(t, preview, "State:    open")
	assert.Contains(t, preview, "Updated:  2024-01-01 00:00")
}

func TestFormatPRPreview_DefaultWidth(t *testing.T) {
	pr := gh.PR{Number: 1, Title: "t", State: "open", Head: "master", Base: "dev"}

	preview := FormatPRPreview(pr, 0)
	half := GetTerminalWidth() / 2
	for _, line := range strings.Split(preview, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), half)
	}
}
