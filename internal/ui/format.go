package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/autopr/autopr/internal/gh"
)

// Truncate truncates text to maxLen with an ellipsis if needed.
// Uses lipgloss for proper ANSI-aware width handling.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	width := lipgloss.Width(text)
	if width <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}

	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

// FormatPRFinderLine renders a single PR line for the fuzzy finder list.
// The finder splits the terminal with the preview pane, so the title is
// truncated to fit the list half.
func FormatPRFinderLine(pr gh.PR) string {
	maxTitle := GetTerminalWidth()/2 - 24
	if maxTitle < 20 {
		maxTitle = 20
	}
	title := Truncate(pr.Title, maxTitle)
	return fmt.Sprintf("#%-5d %s  (%s → %s)", pr.Number, title, pr.Head, pr.Base)
}

// FormatPRPreview renders the preview pane content for a PR, with each line
// fitted to the pane width.
func FormatPRPreview(pr gh.PR, width int) string {
	if width <= 0 {
		width = GetTerminalWidth() / 2
	}

	var b strings.Builder
	write := func(line string) {
		b.WriteString(Truncate(line, width))
		b.WriteString("\n")
	}

	write(fmt.Sprintf("PR #%d: %s", pr.Number, pr.Title))
	write(fmt.Sprintf("State:    %s", pr.State))
	write(fmt.Sprintf("Branches: %s → %s", pr.Head, pr.Base))
	if len(pr.Labels) > 0 {
		write(fmt.Sprintf("Labels:   %s", strings.Join(pr.Labels, ", ")))
	}
	if !pr.UpdatedAt.IsZero() {
		write(fmt.Sprintf("Updated:  %s", pr.UpdatedAt.Format("2006-01-02 15:04")))
	}
	b.WriteString("\n")
	b.WriteString(Truncate(pr.URL, width))

	return b.String()
}
