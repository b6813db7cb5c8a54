package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  45% for a
// percentage in [0,100]. Green from 66%, yellow from 33%, red below.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	return fmt.Sprintf("[%s] %3d%%", progressStyle(pct).Render(bar(pct, width)), pct)
}

// RenderCompactBar renders only the blocks, for tab strips and tight rows.
// dim renders the bar without the progress color.
func RenderCompactBar(pct int, width int, dim bool) string {
	pct = min(max(pct, 0), 100)
	if dim {
		return StyleDim.Render(bar(pct, width))
	}
	return progressStyle(pct).Render(bar(pct, width))
}

func bar(pct, width int) string {
	width = max(width, 2)
	filled := min(pct*width/100, width)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func progressStyle(pct int) lipgloss.Style {
	switch {
	case pct < 33:
		return StyleRed
	case pct < 66:
		return StyleYellow
	default:
		return StyleGreen
	}
}
