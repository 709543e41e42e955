package domain

import "math"

const (
	SplineAlpha       = 0.5
	SamplesPerSegment = 16
	knotEpsilon       = 1e-9
)

// CatmullRom samples a centripetal Catmull-Rom curve through points. Ghost
// endpoints are mirrored from the first and last pair, coincident points are
// dropped, and sampled Y values never go below zero.
func CatmullRom(points []Point, samples int) []Point {
	pts := dedupe(points)
	if len(pts) < 2 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}
	if samples < 1 {
		samples = 1
	}

	n := len(pts)
	ext := make([]Point, 0, n+2)
	ext = append(ext, mirror(pts[0], pts[1]))
	ext = append(ext, pts...)
	ext = append(ext, mirror(pts[n-1], pts[n-2]))

	out := make([]Point, 0, (n-1)*samples+1)
	for i := 1; i < n; i++ {
		p0, p1, p2, p3 := ext[i-1], ext[i], ext[i+1], ext[i+2]
		t0 := 0.0
		t1 := t0 + knot(p0, p1)
		t2 := t1 + knot(p1, p2)
		t3 := t2 + knot(p2, p3)
		for s := range samples {
			t := t1 + (t2-t1)*float64(s)/float64(samples)
			out = append(out, clampY(segmentAt(p0, p1, p2, p3, t0, t1, t2, t3, t)))
		}
	}
	return append(out, clampY(pts[n-1]))
}

// Trend is the smoothed curve drawn over the daily series.
func Trend(daily []float64) []Point {
	return CatmullRom(TrendControlPoints(daily), SamplesPerSegment)
}

func segmentAt(p0, p1, p2, p3 Point, t0, t1, t2, t3, t float64) Point {
	a1 := lerp(p0, p1, t0, t1, t)
	a2 := lerp(p1, p2, t1, t2, t)
	a3 := lerp(p2, p3, t2, t3, t)
	b1 := lerp(a1, a2, t0, t2, t)
	b2 := lerp(a2, a3, t1, t3, t)
	return lerp(b1, b2, t1, t2, t)
}

func lerp(a, b Point, ta, tb, t float64) Point {
	span := tb - ta
	if span < knotEpsilon {
		return a
	}
	wa := (tb - t) / span
	wb := (t - ta) / span
	return Point{X: wa*a.X + wb*b.X, Y: wa*a.Y + wb*b.Y}
}

func knot(a, b Point) float64 {
	d := math.Pow(math.Hypot(b.X-a.X, b.Y-a.Y), SplineAlpha)
	if d < knotEpsilon {
		return knotEpsilon
	}
	return d
}

func mirror(edge, inner Point) Point {
	return Point{X: 2*edge.X - inner.X, Y: 2*edge.Y - inner.Y}
}

func dedupe(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Abs(last.X-p.X) < knotEpsilon && math.Abs(last.Y-p.Y) < knotEpsilon {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func clampY(p Point) Point {
	p.Y = clampZero(p.Y)
	return p
}
