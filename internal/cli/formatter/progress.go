package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampRatio(pct)
	return fmt.Sprintf("[%s] %3.0f%%", RenderCompactBar(pct, width, false), pct*100)
}

// RenderCompactBar renders only the blocks of a progress bar. dim renders the
// bar in the muted color regardless of percentage.
func RenderCompactBar(pct float64, width int, dim bool) string {
	pct = clampRatio(pct)
	if width < 2 {
		width = 2
	}
	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	switch {
	case dim:
		return StyleDim.Render(bar)
	case pct < 0.33:
		return StyleRed.Render(bar)
	case pct < 0.66:
		return StyleYellow.Render(bar)
	default:
		return StyleGreen.Render(bar)
	}
}

func clampRatio(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
