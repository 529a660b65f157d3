package stroke

import "math"

// offsetScale compensates for the compressed coordinate range the sampler
// emits; it applies to offsets, not integrated coordinates, so it scales
// glyph size without moving the segment.
const offsetScale = 1.5

// Transform turns a raw offset sequence into positioned path geometry:
// scale offsets by offsetScale×scale, integrate into absolute coordinates,
// denoise, align to a horizontal baseline, flip the vertical axis (the
// model's y grows upward, the page's downward) and translate so the
// bounding-box minimum lands exactly on anchor. Every step is a pure
// function of its input, so identical sequences produce identical paths.
func Transform(seq Sequence, scale float64, anchor Point) Path {
	if len(seq) == 0 {
		return nil
	}
	if scale <= 0 {
		scale = 1
	}
	pts := integrate(seq, offsetScale*scale)
	pts = denoise(pts)
	pts = align(pts)
	for i := range pts {
		pts[i].Y = -pts[i].Y
	}
	return translateToAnchor(pts, anchor)
}

// integrate converts relative offsets into absolute coordinates via a
// running sum, scaling each offset first. Pen state is copied through.
func integrate(seq Sequence, k float64) Path {
	pts := make(Path, len(seq))
	var x, y float64
	for i, o := range seq {
		x += o.DX * k
		y += o.DY * k
		pts[i] = Point{X: x, Y: y, PenUp: o.PenUp}
	}
	return pts
}

// savgol7 holds Savitzky-Golay coefficients for window 7, polynomial
// order 3, normalized by 21.
var savgol7 = [7]float64{-2, 3, 6, 7, 6, 3, -2}

// denoise removes exact duplicate consecutive points and smooths each
// pen-down stroke with a 7-tap Savitzky-Golay filter using nearest-edge
// padding. Pen states are preserved so stroke boundaries never move.
func denoise(pts Path) Path {
	deduped := make(Path, 0, len(pts))
	for i, p := range pts {
		if i > 0 {
			prev := deduped[len(deduped)-1]
			if p.X == prev.X && p.Y == prev.Y && p.PenUp == prev.PenUp {
				continue
			}
		}
		deduped = append(deduped, p)
	}

	out := make(Path, 0, len(deduped))
	start := 0
	for i, p := range deduped {
		if p.PenUp || i == len(deduped)-1 {
			out = append(out, smooth(deduped[start:i+1])...)
			start = i + 1
		}
	}
	return out
}

// smooth applies the filter to one connected stroke.
func smooth(strokePts Path) Path {
	n := len(strokePts)
	if n < 3 {
		out := make(Path, n)
		copy(out, strokePts)
		return out
	}
	at := func(i int) Point {
		// nearest padding
		if i < 0 {
			return strokePts[0]
		}
		if i >= n {
			return strokePts[n-1]
		}
		return strokePts[i]
	}
	out := make(Path, n)
	for i := 0; i < n; i++ {
		var sx, sy float64
		for j := -3; j <= 3; j++ {
			w := savgol7[j+3]
			p := at(i + j)
			sx += w * p.X
			sy += w * p.Y
		}
		out[i] = Point{X: sx / 21, Y: sy / 21, PenUp: strokePts[i].PenUp}
	}
	return out
}

// align corrects global slant: fit y = a + b·x by least squares over all
// points, rotate the cloud by -atan(b) and subtract the intercept. The
// result sits on a canonical horizontal baseline regardless of the
// sampler's writing angle.
func align(pts Path) Path {
	n := float64(len(pts))
	if n < 2 {
		return pts
	}
	var sumX, sumY, sumXX, sumXY float64
	for _, p := range pts {
		sumX += p.X
		sumY += p.Y
		sumXX += p.X * p.X
		sumXY += p.X * p.Y
	}
	det := n*sumXX - sumX*sumX
	if det == 0 {
		return pts
	}
	slope := (n*sumXY - sumX*sumY) / det
	intercept := (sumY - slope*sumX) / n

	theta := math.Atan(slope)
	cos, sin := math.Cos(theta), math.Sin(theta)
	out := make(Path, len(pts))
	for i, p := range pts {
		// row-vector times rotation matrix [[cos,-sin],[sin,cos]]
		x := p.X*cos + p.Y*sin
		y := -p.X*sin + p.Y*cos
		out[i] = Point{X: x, Y: y - intercept, PenUp: p.PenUp}
	}
	return out
}

// translateToAnchor shifts the path so its bounding-box minimum equals
// anchor exactly, whatever the internal geometry looks like.
func translateToAnchor(pts Path, anchor Point) Path {
	minX, minY, _, _ := pts.Bounds()
	out := make(Path, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X - minX + anchor.X, Y: p.Y - minY + anchor.Y, PenUp: p.PenUp}
	}
	return out
}
