package formatter

import (
	"fmt"
	"strings"
	"time"

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
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TaskRef renders a task id as a dimmed "#12".
func TaskRef(id int) string {
	return StyleDim.Render(fmt.Sprintf("#%d", id))
}

// ParentRef describes a parent id, naming the root sentinel explicitly.
func ParentRef(parentID int) string {
	if parentID == 0 {
		return "root"
	}
	return fmt.Sprintf("#%d", parentID)
}

// Percent renders an integer percentage colored by how far along it is.
func Percent(pct int) string {
	text := fmt.Sprintf("%d%%", pct)
	switch {
	case pct >= 100:
		return StyleGreen.Render(text)
	case pct >= 33:
		return StyleYellow.Render(text)
	default:
		return StyleRed.Render(text)
	}
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom is HumanTimestamp measured from a reference time.
func HumanTimestampFrom(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Format("Jan 2, 2006")
	}
}
