package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// shades run from lowest to highest value.
var shades = []rune{' ', '░', '▒', '▓', '█'}

// palette is a dark-blue to yellow ramp in 256-colour codes.
var palette = []lipgloss.Color{"17", "19", "25", "31", "37", "43", "78", "114", "149", "184", "226"}

type HeatmapOptions struct {
	Caption string

	// CellWidth is the number of characters per cell. Defaults to 1.
	CellWidth int

	// Lo and Hi fix the colour range; when both are zero the range of the
	// data is used.
	Lo, Hi float64

	// Labels prefixes each row with its index.
	Labels bool
}

// Heatmap renders rows as a shaded image, first row at the top.
func Heatmap(rows [][]float64, opts HeatmapOptions) string {
	if len(rows) == 0 {
		return ""
	}
	cw := opts.CellWidth
	if cw < 1 {
		cw = 1
	}

	lo, hi := opts.Lo, opts.Hi
	if lo == 0 && hi == 0 {
		lo, hi = Range(rows)
	}
	rng := hi - lo

	labelWidth := len(fmt.Sprint(len(rows) - 1))

	var sb strings.Builder
	for r, row := range rows {
		if opts.Labels {
			sb.WriteString(Subtle.Render(fmt.Sprintf("%*d ", labelWidth, r)))
		}
		for _, v := range row {
			level := 0.0
			if rng > 0 {
				level = (v - lo) / rng
			}
			sb.WriteString(cell(level, cw))
		}
		if r < len(rows)-1 {
			sb.WriteByte('\n')
		}
	}

	if opts.Caption != "" {
		sb.WriteByte('\n')
		sb.WriteString(Subtle.Render(fmt.Sprintf("%s  [%.3g, %.3g]", opts.Caption, lo, hi)))
	}
	return sb.String()
}

func cell(level float64, width int) string {
	if math.IsNaN(level) {
		level = 0
	}
	level = math.Max(0, math.Min(1, level))

	shade := shades[int(math.Round(level*float64(len(shades)-1)))]
	color := palette[int(math.Round(level*float64(len(palette)-1)))]

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(string(shade), width))
}

// Range returns the smallest and largest finite values in rows.
func Range(rows [][]float64) (lo, hi float64) {
	first := true
	for _, row := range rows {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// Transpose swaps rows and columns, so a step × neuron trajectory becomes
// neuron × step. Ragged input is truncated to the shortest row.
func Transpose(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) < cols {
			cols = len(row)
		}
	}

	out := make([][]float64, cols)
	for c := range out {
		out[c] = make([]float64, len(rows))
		for r := range rows {
			out[c][r] = rows[r][c]
		}
	}
	return out
}
