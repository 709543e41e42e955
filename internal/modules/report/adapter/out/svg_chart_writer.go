package out

import (
	"bytes"
	"context"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"blazectl/internal/modules/report/domain"
	reportout "blazectl/internal/modules/report/port/out"
	"blazectl/internal/platform/atomicfile"
	apperrors "blazectl/internal/platform/errors"
)

const (
	chartWidth   = 800
	chartHeight  = 240
	marginLeft   = 48
	marginRight  = 16
	marginTop    = 20
	marginBottom = 32
	domainPad    = 0.10
)

type SVGChartWriter struct {
	path string
}

func NewSVGChartWriter(path string) reportout.ChartWriter {
	return &SVGChartWriter{path: path}
}

func (w *SVGChartWriter) WriteChart(_ context.Context, summary domain.Summary) (string, error) {
	var buf bytes.Buffer
	if err := DrawChart(&buf, summary); err != nil {
		return "", err
	}
	if err := atomicfile.WriteFile(w.path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w: %w", apperrors.ErrIO, err)
	}
	return w.path, nil
}

// YDomain returns the plotted hour range for the given series. The range is
// padded by ten percent, never starts below zero, and is one hour tall for
// flat data.
func YDomain(series ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, values := range series {
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if hi-lo < 1e-9 {
		lo = math.Max(0, lo-0.5)
		return lo, lo + 1
	}
	pad := (hi - lo) * domainPad
	return math.Max(0, lo-pad), hi + pad
}

type plotArea struct {
	lo, hi float64
	days   int
}

func (p plotArea) x(day float64) int {
	span := float64(max(p.days-1, 1))
	width := float64(chartWidth - marginLeft - marginRight)
	return marginLeft + int(math.Round(day/span*width))
}

func (p plotArea) y(hours float64) int {
	height := float64(chartHeight - marginTop - marginBottom)
	ratio := (hours - p.lo) / (p.hi - p.lo)
	return chartHeight - marginBottom - int(math.Round(ratio*height))
}

// DrawChart renders daily hours as a filled area with the trend curve on top.
func DrawChart(buf *bytes.Buffer, s domain.Summary) error {
	if len(s.Daily) == 0 {
		return fmt.Errorf("draw chart: no daily series")
	}
	trendY := make([]float64, len(s.Trend))
	for i, p := range s.Trend {
		trendY[i] = p.Y
	}
	lo, hi := YDomain(s.Daily, trendY)
	area := plotArea{lo: lo, hi: hi, days: len(s.Daily)}
	base := area.y(lo)

	canvas := svg.New(buf)
	canvas.Start(chartWidth, chartHeight)
	canvas.Rect(0, 0, chartWidth, chartHeight, "fill:#1e1e2e")
	canvas.Line(marginLeft, base, chartWidth-marginRight, base, "stroke:#6c7086;stroke-width:1")
	canvas.Line(marginLeft, marginTop, marginLeft, base, "stroke:#6c7086;stroke-width:1")

	xs := make([]int, 0, len(s.Daily)+2)
	ys := make([]int, 0, len(s.Daily)+2)
	xs = append(xs, area.x(0))
	ys = append(ys, base)
	for i, h := range s.Daily {
		xs = append(xs, area.x(float64(i)))
		ys = append(ys, area.y(h))
	}
	xs = append(xs, area.x(float64(len(s.Daily)-1)))
	ys = append(ys, base)
	canvas.Polygon(xs, ys, "fill:#89b4fa;fill-opacity:0.25;stroke:none")
	canvas.Polyline(xs[1:len(xs)-1], ys[1:len(ys)-1], "fill:none;stroke:#89b4fa;stroke-width:1.5")

	if len(s.Trend) > 1 {
		tx := make([]int, len(s.Trend))
		ty := make([]int, len(s.Trend))
		for i, p := range s.Trend {
			tx[i] = area.x(p.X)
			ty[i] = area.y(p.Y)
		}
		canvas.Polyline(tx, ty, "fill:none;stroke:#fab387;stroke-width:2.5")
	}

	label := "font-family:monospace;font-size:11px;fill:#cdd6f4"
	canvas.Text(marginLeft-6, marginTop+4, fmt.Sprintf("%.1fh", hi), label+";text-anchor:end")
	canvas.Text(marginLeft-6, base, fmt.Sprintf("%.1fh", lo), label+";text-anchor:end")
	first := s.Today.AddDays(-(len(s.Daily) - 1))
	canvas.Text(marginLeft, chartHeight-10, first.String(), label+";text-anchor:start")
	canvas.Text(chartWidth-marginRight, chartHeight-10, s.Today.String(), label+";text-anchor:end")
	canvas.Text(chartWidth/2, chartHeight-10, "daily hours (blue) and trend (orange)", label+";text-anchor:middle")
	canvas.End()
	return nil
}
