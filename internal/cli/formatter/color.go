package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style used for a task status.
func StatusColor(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen
	case domain.StatusInProgress:
		return StyleYellowBold
	case domain.StatusBlocked:
		return StyleRed
	case domain.StatusBackLog:
		return StylePurple
	case domain.StatusPending:
		return StyleBlue
	default:
		return StyleDim
	}
}

// StatusGlyph returns the single-character marker for a task status.
func StatusGlyph(status domain.TaskStatus) string {
	switch status {
	case domain.StatusCompleted:
		return "✔"
	case domain.StatusInProgress:
		return "▶"
	case domain.StatusBlocked:
		return "■"
	case domain.StatusCancelled:
		return "✖"
	case domain.StatusBackLog:
		return "◌"
	default:
		return "○"
	}
}

// StatusPill returns a colored status indicator such as "▶ In Progress".
func StatusPill(status domain.TaskStatus) string {
	if !status.Valid() {
		return StyleDim.Render(fmt.Sprintf("? %s", status))
	}
	return StatusColor(status).Render(StatusGlyph(status) + " " + statusLabel(status))
}

// statusLabel turns IN_PROGRESS into "In Progress".
func statusLabel(status domain.TaskStatus) string {
	words := strings.Split(strings.ToLower(string(status)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
