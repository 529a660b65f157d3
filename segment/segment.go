package segment

import "github.com/kalamhq/kalam/stroke"

// This file defines the segment model shared by the segmenter, the layout
// engine and the render pipeline.

// Color uses 0-255 RGB values.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Style groups the sampling and drawing parameters a segment starts from.
type Style struct {
	StyleID     int     `json:"styleId"`
	Bias        float64 `json:"bias"` // sampling smoothness knob, 0..1
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	Scale       float64 `json:"scale"`
}

// DefaultStyle mirrors the defaults the original service applied when a
// request omitted biases, styles, colors or widths.
func DefaultStyle() Style {
	return Style{
		StyleID:     0,
		Bias:        0.5,
		StrokeColor: Color{R: 0, G: 0, B: 0},
		StrokeWidth: 2,
		Scale:       1,
	}
}

// TextSegment is a unit of text with independent styling. Strokes is nil
// until the sampling stage attaches a sequence; after that the segment is
// treated as immutable.
type TextSegment struct {
	Text        string          `json:"text"`
	StyleID     int             `json:"styleId"`
	Bias        float64         `json:"bias"`
	StrokeColor Color           `json:"strokeColor"`
	StrokeWidth float64         `json:"strokeWidth"`
	Scale       float64         `json:"scale"`
	Strokes     stroke.Sequence `json:"-"`
}

// NewSegment builds a segment for text with the given base style.
func NewSegment(text string, style Style) TextSegment {
	return TextSegment{
		Text:        text,
		StyleID:     style.StyleID,
		Bias:        style.Bias,
		StrokeColor: style.StrokeColor,
		StrokeWidth: style.StrokeWidth,
		Scale:       style.Scale,
	}
}

// WithStrokes returns a copy of the segment carrying the sampled sequence.
func (s TextSegment) WithStrokes(seq stroke.Sequence) TextSegment {
	s.Strokes = seq
	return s
}

// Line is an ordered sequence of segments; insertion order is reading
// order. An empty Line contributes vertical space but no ink.
type Line struct {
	Segments []TextSegment `json:"segments"`
}

// Empty reports whether the line has no segments.
func (l Line) Empty() bool { return len(l.Segments) == 0 }
