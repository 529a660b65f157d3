package segment

// Override reassigns selected style fields of one segment, addressed by its
// (line, segment) coordinates. Nil fields keep the segment's current value.
type Override struct {
	Line    int      `json:"line"`
	Segment int      `json:"segment"`
	StyleID *int     `json:"styleId,omitempty"`
	Bias    *float64 `json:"bias,omitempty"`
	Color   *Color   `json:"strokeColor,omitempty"`
	Width   *float64 `json:"strokeWidth,omitempty"`
	Scale   *float64 `json:"scale,omitempty"`
}

// ApplyOverrides returns a new line collection with the overrides applied.
// The input is never mutated, so segmentation output can be shared with the
// caller while the pipeline works on its own copy. Overrides addressing
// coordinates that do not exist are ignored, not errors.
func ApplyOverrides(lines []Line, overrides []Override) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		if len(line.Segments) == 0 {
			continue
		}
		segs := make([]TextSegment, len(line.Segments))
		copy(segs, line.Segments)
		out[i] = Line{Segments: segs}
	}
	for _, ov := range overrides {
		if ov.Line < 0 || ov.Line >= len(out) {
			continue
		}
		segs := out[ov.Line].Segments
		if ov.Segment < 0 || ov.Segment >= len(segs) {
			continue
		}
		seg := &segs[ov.Segment]
		if ov.StyleID != nil {
			seg.StyleID = *ov.StyleID
		}
		if ov.Bias != nil {
			seg.Bias = *ov.Bias
		}
		if ov.Color != nil {
			seg.StrokeColor = *ov.Color
		}
		if ov.Width != nil {
			seg.StrokeWidth = *ov.Width
		}
		if ov.Scale != nil {
			seg.Scale = *ov.Scale
		}
	}
	return out
}
