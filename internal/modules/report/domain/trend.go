package domain

import "math"

const (
	TrendWindowDays    = 75
	BucketDays         = 8
	FallbackBucketDays = 4
	minBuckets         = 3
)

// Point is a chart coordinate: X is the day index within the trend window
// (0 oldest, TrendWindowDays-1 today) and Y is hours.
type Point struct {
	X float64
	Y float64
}

// DailyHours returns total hours per day over the trend window, oldest first.
func (l *Ledger) DailyHours(today Date) []float64 {
	days := DaysBack(today, TrendWindowDays)
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = float64(l.PerDay[d].Total()) / 3600
	}
	return out
}

// TrendControlPoints buckets daily hours into bucket means and extends the
// first and last points to the window edges. The span starts at the first
// active day; an inactive window yields no points.
func TrendControlPoints(daily []float64) []Point {
	first := -1
	for i, v := range daily {
		if v > 0 {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}

	points := bucketMeans(daily, first, BucketDays)
	if len(points) < minBuckets {
		if fallback := bucketMeans(daily, first, FallbackBucketDays); len(fallback) > len(points) {
			points = fallback
		}
	}
	return extendToEdges(points, float64(len(daily)-1))
}

func bucketMeans(daily []float64, from, size int) []Point {
	var points []Point
	for start := from; start < len(daily); start += size {
		end := min(start+size, len(daily))
		minutes := 0.0
		for _, h := range daily[start:end] {
			minutes += h * 60
		}
		mean := minutes / float64(end-start)
		points = append(points, Point{
			X: float64(start+end-1) / 2,
			Y: mean / 60,
		})
	}
	return points
}

func extendToEdges(points []Point, right float64) []Point {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		p := points[0]
		out := make([]Point, 0, 3)
		if p.X > 0 {
			out = append(out, Point{X: 0, Y: p.Y})
		}
		out = append(out, p)
		if p.X < right {
			out = append(out, Point{X: right, Y: p.Y})
		}
		return out
	}

	out := make([]Point, 0, len(points)+2)
	if p0, p1 := points[0], points[1]; p0.X > 0 {
		out = append(out, Point{X: 0, Y: clampZero(lineAt(p0, p1, 0))})
	}
	out = append(out, points...)
	n := len(points)
	if pa, pb := points[n-2], points[n-1]; pb.X < right {
		out = append(out, Point{X: right, Y: clampZero(lineAt(pa, pb, right))})
	}
	return out
}

func lineAt(a, b Point, x float64) float64 {
	if b.X == a.X {
		return a.Y
	}
	slope := (b.Y - a.Y) / (b.X - a.X)
	return a.Y + slope*(x-a.X)
}

func clampZero(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
