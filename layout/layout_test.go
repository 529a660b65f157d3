package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/kalamhq/kalam/segment"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func seg(text string, scale float64) segment.TextSegment {
	style := segment.DefaultStyle()
	style.Scale = scale
	return segment.NewSegment(text, style)
}

func TestPlaceLineAlignmentSymmetry(t *testing.T) {
	cfg := DefaultConfig()
	s := seg("word", 1)
	w := SegmentWidth(s, cfg)
	usable := 900.0

	cases := []struct {
		align Alignment
		want  float64
	}{
		{AlignLeft, 0},
		{AlignCenter, (usable - w) / 2},
		{AlignRight, usable - w},
	}
	for _, tc := range cases {
		cfg.Align = tc.align
		slots := PlaceLine([]segment.TextSegment{s}, usable, cfg)
		if len(slots) != 1 {
			t.Fatalf("%s: want 1 slot, got %d", tc.align, len(slots))
		}
		if !almost(slots[0].X, tc.want) {
			t.Fatalf("%s: x=%g want %g", tc.align, slots[0].X, tc.want)
		}
	}
}

func TestPlaceLineIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Align = AlignCenter
	segs := []segment.TextSegment{seg("one", 1), seg("two", 1.5), seg("three", 0.8)}

	a := PlaceLine(segs, 1000, cfg)
	b := PlaceLine(segs, 1000, cfg)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlaceLineInterleavesSpaces(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WordSpacing = 2
	segs := []segment.TextSegment{seg("ab", 1), seg("c", 1)}

	slots := PlaceLine(segs, 1000, cfg)
	space := SpaceWidth * cfg.WordSpacing
	wantX1 := slots[0].Width + space
	if !almost(slots[1].X, wantX1) {
		t.Fatalf("second slot x=%g want %g", slots[1].X, wantX1)
	}
}

func TestPlaceLineNoTrailingSpace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Align = AlignRight
	segs := []segment.TextSegment{seg("ab", 1), seg("cd", 1)}
	usable := 500.0

	slots := PlaceLine(segs, usable, cfg)
	end := slots[1].X + slots[1].Width
	if !almost(end, usable) {
		t.Fatalf("right-aligned line should end at usable width: end=%g want %g", end, usable)
	}
}

func TestJustifyPositionsLikeLeft(t *testing.T) {
	segs := []segment.TextSegment{seg("a", 1), seg("b", 1)}
	left := DefaultConfig()
	left.Align = AlignLeft
	justify := DefaultConfig()
	justify.Align = AlignJustify

	a := PlaceLine(segs, 800, left)
	b := PlaceLine(segs, 800, justify)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d: justify %+v differs from left %+v", i, b[i], a[i])
		}
	}
}

func TestSegmentWidthEstimate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CharSpacing = 1.5
	s := seg("abcd", 2)
	want := 4 * CharWidth * 1.5 * 2
	if got := SegmentWidth(s, cfg); !almost(got, want) {
		t.Fatalf("width=%g want %g", got, want)
	}
}

func TestBaselinePlacesFirstLineBelowAscent(t *testing.T) {
	if got := Baseline(0, 1, 0); !almost(got, LineHeight*0.75) {
		t.Fatalf("first baseline=%g want %g", got, LineHeight*0.75)
	}
	if got := Baseline(2, 1.5, 10); !almost(got, 10+LineHeight*1.5*2.75) {
		t.Fatalf("third baseline=%g", got)
	}
}

func TestWrapGreedyFill(t *testing.T) {
	cfg := DefaultConfig()
	// width for exactly two 3-char words plus one space
	width := 2*3*CharWidth + SpaceWidth
	lines := Wrap("abc def ghi jkl", width, cfg)
	want := []string{"abc def", "ghi jkl"}
	if len(lines) != len(want) {
		t.Fatalf("want %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: %q want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapKeepsHardBreaks(t *testing.T) {
	lines := Wrap("first\n\nsecond", 10000, DefaultConfig())
	want := []string{"first", "", "second"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v want %v", lines, want)
	}
}

func TestWrapOverlongWordGetsOwnLine(t *testing.T) {
	lines := Wrap("a extraordinarily b", 4*CharWidth, DefaultConfig())
	want := []string{"a", "extraordinarily", "b"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v want %v", lines, want)
	}
}

func TestPresets(t *testing.T) {
	a4, ok := Preset("A4")
	if !ok || a4.Width != 1000 {
		t.Fatalf("A4 preset missing or wrong: %+v ok=%v", a4, ok)
	}
	if _, ok := Preset("B2"); ok {
		t.Fatalf("unknown preset should not resolve")
	}
}
