package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ringsim/internal/network"
)

// LinePlot draws data with asciigraph. Empty data renders as "".
func LinePlot(data []float64, caption string, height, width int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// MultiPlot overlays several series of equal length.
func MultiPlot(series [][]float64, caption string, height, width int) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Green}
	seriesColors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		seriesColors[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors...),
	)
}

// ActivationCurve samples the activation function at n evenly spaced inputs
// over [lo, hi]. It returns the inputs and outputs.
func ActivationCurve(threshold, beta, lo, hi float64, n int) (xs, ys []float64, err error) {
	h := make(network.Vector, n)
	for i := range h {
		if n == 1 {
			h[i] = lo
			break
		}
		h[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	out, err := network.ActivationFilter(h, threshold, beta)
	if err != nil {
		return nil, nil, err
	}
	return h, out, nil
}
