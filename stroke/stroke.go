// Package stroke holds the pen-stroke geometry types, the sampler
// capability interface and the transform that turns raw sampler output
// into positioned path geometry.
package stroke

import "context"

// Offset is one raw sampler step: a pen movement relative to the previous
// point, plus the pen state after the move. PenUp marks the end of a
// connected stroke; the next offset starts a new one.
type Offset struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	PenUp bool    `json:"penUp"`
}

// Sequence is ordered raw sampler output for one segment. The first offset
// is relative to the origin.
type Sequence []Offset

// Point is an absolute coordinate with the pen state carried through from
// the offset it was integrated from.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	PenUp bool    `json:"penUp"`
}

// Path is positioned, drawable geometry: absolute points in page
// coordinates. It is derived per render and never persisted.
type Path []Point

// Bounds returns the minimum and maximum coordinates of the path. A nil
// path reports zero bounds.
func (p Path) Bounds() (minX, minY, maxX, maxY float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = p[0].X, p[0].Y
	maxX, maxY = p[0].X, p[0].Y
	for _, pt := range p[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return minX, minY, maxX, maxY
}

// Sampler produces raw offset sequences for a batch of texts. Arguments
// correspond positionally and the result has exactly one sequence per
// input text. Implementations must resolve an unknown style id internally
// (falling back to unconditioned synthesis), must not return partial
// results, and must be safe for concurrent batched calls.
type Sampler interface {
	SampleBatch(ctx context.Context, texts []string, biases []float64, styles []int) ([]Sequence, error)
}
