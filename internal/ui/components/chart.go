package components

import (
	"github.com/guptarohit/asciigraph"

	"blazectl/internal/ui/theme"
)

// RenderHoursChart plots daily hours with the trend curve resampled onto the
// same day grid as a second series.
func RenderHoursChart(daily, trend []float64, width, height int, caption string) string {
	if len(daily) == 0 {
		return theme.Muted.Render("No data available")
	}
	width = max(width, 20)
	height = max(height, 3)

	series := [][]float64{daily}
	if len(trend) == len(daily) {
		series = append(series, trend)
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Orange),
	)
}

// ResampleTrend maps a curve with fractional X onto integer day indexes
// 0..days-1 by linear interpolation between neighbouring samples.
func ResampleTrend(xs, ys []float64, days int) []float64 {
	if len(xs) < 2 || len(xs) != len(ys) || days <= 0 {
		return nil
	}
	out := make([]float64, days)
	j := 0
	for d := range days {
		x := float64(d)
		for j < len(xs)-2 && xs[j+1] < x {
			j++
		}
		x0, x1 := xs[j], xs[j+1]
		if x1 == x0 {
			out[d] = ys[j]
			continue
		}
		t := (x - x0) / (x1 - x0)
		t = min(max(t, 0), 1)
		out[d] = ys[j] + t*(ys[j+1]-ys[j])
	}
	return out
}
