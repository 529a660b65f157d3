// Package layout computes on-page positions for styled text segments:
// per-segment width estimates, horizontal slot placement under alignment
// and spacing rules, and the vertical baseline per line.
package layout

import "github.com/kalamhq/kalam/segment"

// Base metrics in page units. Widths are estimates: the true extent of a
// segment is only known after sampling, so the engine works from a fixed
// per-character advance the same way the original service did.
const (
	// CharWidth is the estimated advance of one glyph at scale 1.
	CharWidth = 18.0
	// SpaceWidth is the gap inserted between sibling segments on a line.
	SpaceWidth = 18.0
	// LineHeight is the vertical extent of one line at spacing 1.
	LineHeight = 60.0
	// DefaultPageWidth is used when the caller supplies no page size.
	DefaultPageWidth = 1000.0
)

// Alignment selects how a line's segments are positioned inside the usable
// width.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	// AlignJustify is accepted but currently positions like AlignLeft; the
	// upstream behavior never distinguished it.
	AlignJustify Alignment = "justify"
)

// Config carries the page-level typesetting rules, shared read-only by all
// lines of one render. Zero-valued multipliers are treated as 1.
type Config struct {
	LineSpacing float64   `json:"lineSpacing"`
	WordSpacing float64   `json:"wordSpacing"`
	CharSpacing float64   `json:"charSpacing"`
	Align       Alignment `json:"alignment"`
	// MaxWidth bounds the usable line width; 0 means the page decides.
	MaxWidth float64 `json:"maxWidth,omitempty"`
}

// DefaultConfig returns left-aligned single spacing.
func DefaultConfig() Config {
	return Config{LineSpacing: 1, WordSpacing: 1, CharSpacing: 1, Align: AlignLeft}
}

// Normalized returns a copy with zero multipliers replaced by 1 so callers
// can leave fields unset.
func (c Config) Normalized() Config {
	if c.LineSpacing <= 0 {
		c.LineSpacing = 1
	}
	if c.WordSpacing <= 0 {
		c.WordSpacing = 1
	}
	if c.CharSpacing <= 0 {
		c.CharSpacing = 1
	}
	if c.Align == "" {
		c.Align = AlignLeft
	}
	return c
}

// Margin is the page inset in page units.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform returns a margin with the same inset on all sides.
func Uniform(v float64) Margin {
	return Margin{Top: v, Right: v, Bottom: v, Left: v}
}

// PageSize is the page extent in page units. A zero value asks the renderer
// to derive the size from the content.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// pagePresets map named paper sizes onto the unit space, keeping the
// original 1000-unit page width as the A4 reference.
var pagePresets = map[string]PageSize{
	"A4": {Width: 1000, Height: 1414},
	"A5": {Width: 707, Height: 1000},
}

// Preset resolves a named page size.
func Preset(name string) (PageSize, bool) {
	ps, ok := pagePresets[name]
	return ps, ok
}

// Slot is one segment's computed horizontal placement, in line-local
// coordinates (the renderer adds the left margin).
type Slot struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// SegmentWidth estimates the natural width of a segment.
func SegmentWidth(seg segment.TextSegment, cfg Config) float64 {
	cfg = cfg.Normalized()
	return float64(len([]rune(seg.Text))) * CharWidth * cfg.CharSpacing * seg.Scale
}

// PlaceLine assigns an x position and natural width to every segment of one
// line, in input order. It is a pure function: identical inputs yield
// identical slots. Segments keep their slot even when they end up with no
// drawable strokes, so siblings never shift to fill a gap.
func PlaceLine(segs []segment.TextSegment, usableWidth float64, cfg Config) []Slot {
	cfg = cfg.Normalized()
	if len(segs) == 0 {
		return nil
	}

	space := SpaceWidth * cfg.WordSpacing
	widths := make([]float64, len(segs))
	total := 0.0
	for i, seg := range segs {
		widths[i] = SegmentWidth(seg, cfg)
		total += widths[i]
	}
	total += space * float64(len(segs)-1)

	x := startOffset(usableWidth, total, cfg.Align)
	slots := make([]Slot, len(segs))
	for i, w := range widths {
		slots[i] = Slot{X: x, Width: w}
		x += w + space
	}
	return slots
}

func startOffset(usable, total float64, align Alignment) float64 {
	switch align {
	case AlignCenter:
		return (usable - total) / 2
	case AlignRight:
		return usable - total
	default: // left, justify
		return 0
	}
}

// Baseline returns the y position of a line's anchor. The 0.75 factor
// places the first baseline below the ascent instead of at the page top.
func Baseline(lineIndex int, lineSpacing, top float64) float64 {
	if lineSpacing <= 0 {
		lineSpacing = 1
	}
	return top + LineHeight*lineSpacing*(float64(lineIndex)+0.75)
}
