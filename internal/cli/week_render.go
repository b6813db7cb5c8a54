package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvas is a fixed-size grid of runes with one style per cell. The week
// view draws into it so overlays like the context menu can land anywhere.
type canvas struct {
	w, h   int
	runes  [][]rune
	styles [][]int

	palette []lipgloss.Style
}

// styleNone marks unstyled cells.
const styleNone = 0

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, palette: []lipgloss.Style{lipgloss.NewStyle()}}
	c.runes = make([][]rune, h)
	c.styles = make([][]int, h)
	for y := range c.runes {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		c.runes[y] = row
		c.styles[y] = make([]int, w)
	}
	return c
}

// style registers s and returns its index for put and fill.
func (c *canvas) style(s lipgloss.Style) int {
	c.palette = append(c.palette, s)
	return len(c.palette) - 1
}

// put writes s at (x,y), clipped to the canvas.
func (c *canvas) put(x, y int, s string, style int) {
	if y < 0 || y >= c.h {
		return
	}
	for _, r := range s {
		if x >= c.w {
			return
		}
		if x >= 0 {
			c.runes[y][x] = r
			c.styles[y][x] = style
		}
		x++
	}
}

// fill paints n cells from (x,y) with r.
func (c *canvas) fill(x, y, n int, r rune, style int) {
	c.put(x, y, strings.Repeat(string(r), max(n, 0)), style)
}

// String renders the canvas, styling runs of equal style together.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row, styles := c.runes[y], c.styles[y]
		end := len(row)
		for end > 0 && row[end-1] == ' ' && styles[end-1] == styleNone {
			end--
		}
		for x := 0; x < end; {
			st := styles[x]
			j := x
			for j < end && styles[j] == st {
				j++
			}
			run := string(row[x:j])
			if st == styleNone {
				b.WriteString(run)
			} else {
				b.WriteString(c.palette[st].Render(run))
			}
			x = j
		}
	}
	return b.String()
}

// boxLines draws a bordered box around items, padded to width w.
func boxLines(items []string, w int) []string {
	inner := max(w-2, 0)
	lines := make([]string, 0, len(items)+2)
	lines = append(lines, "┌"+strings.Repeat("─", inner)+"┐")
	for _, it := range items {
		pad := max(inner-1-len([]rune(it)), 0)
		lines = append(lines, "│ "+it+strings.Repeat(" ", pad)+"│")
	}
	lines = append(lines, "└"+strings.Repeat("─", inner)+"┘")
	return lines
}
