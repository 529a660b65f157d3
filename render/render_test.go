package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kalamhq/kalam/layout"
	"github.com/kalamhq/kalam/segment"
	"github.com/kalamhq/kalam/stroke"
)

// stubSampler is a minimal Sampler for exercising the pipeline without the
// procedural model: a short two-stroke glyph per non-empty text. It records
// its calls so tests can assert the batching contract.
type stubSampler struct {
	calls   int
	texts   []string
	biases  []float64
	styles  []int
	perText map[string]stroke.Sequence
}

func (s *stubSampler) SampleBatch(ctx context.Context, texts []string, biases []float64, styleIDs []int) ([]stroke.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.calls++
	s.texts = append([]string(nil), texts...)
	s.biases = append([]float64(nil), biases...)
	s.styles = append([]int(nil), styleIDs...)

	out := make([]stroke.Sequence, len(texts))
	for i, text := range texts {
		if text == "" {
			continue
		}
		if s.perText != nil {
			out[i] = s.perText[text]
			continue
		}
		out[i] = stroke.Sequence{
			{DX: 1, DY: 1},
			{DX: 2, DY: -1, PenUp: true},
			{DX: 1, DY: 2},
			{DX: 1, DY: -2, PenUp: true},
		}
	}
	return out, nil
}

func renderLines(t *testing.T, s stroke.Sampler, lines []segment.Line, cfg layout.Config) ([]byte, *layout.Plan) {
	t.Helper()
	engine := New(s, Options{})
	data, plan, err := engine.RenderPlan(context.Background(), lines, cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return data, plan
}

func pathCount(data []byte) int {
	return bytes.Count(data, []byte("<path"))
}

func TestRenderEndToEnd(t *testing.T) {
	sampler := &stubSampler{}
	lines := segment.Split("Hi", segment.ModeLine, segment.DefaultStyle())

	empty, _ := renderLines(t, &stubSampler{}, nil, layout.DefaultConfig())
	background := pathCount(empty)

	data, plan := renderLines(t, sampler, lines, layout.DefaultConfig())
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("output is not an SVG document")
	}
	if got := pathCount(data); got != background+1 {
		t.Fatalf("want background plus one path, got %d (background %d)", got, background)
	}
	if plan.PageWidth != layout.DefaultPageWidth {
		t.Fatalf("default page width: %g", plan.PageWidth)
	}
}

func TestRenderEmptyLineAdvancesHeight(t *testing.T) {
	sampler := &stubSampler{}
	lines := []segment.Line{
		{},
		{Segments: []segment.TextSegment{segment.NewSegment("hello", segment.DefaultStyle())}},
	}

	empty, _ := renderLines(t, &stubSampler{}, nil, layout.DefaultConfig())
	background := pathCount(empty)

	data, plan := renderLines(t, sampler, lines, layout.DefaultConfig())
	if plan.PageHeight != 2*layout.LineHeight {
		t.Fatalf("two lines should span two line heights, got %g", plan.PageHeight)
	}
	if got := pathCount(data); got != background+1 {
		t.Fatalf("only one visible path expected, got %d (background %d)", got, background)
	}
}

func TestRenderZeroLinesKeepsMinimumHeight(t *testing.T) {
	_, plan := renderLines(t, &stubSampler{}, nil, layout.DefaultConfig())
	if plan.PageHeight != layout.LineHeight {
		t.Fatalf("empty document should keep one line of height, got %g", plan.PageHeight)
	}
}

func TestRenderBatchesAllSegmentsOnce(t *testing.T) {
	sampler := &stubSampler{}
	style := segment.DefaultStyle()
	lines := []segment.Line{
		{Segments: []segment.TextSegment{segment.NewSegment("a", style), segment.NewSegment("b", style)}},
		{},
		{Segments: []segment.TextSegment{segment.NewSegment("c", style)}},
	}

	renderLines(t, sampler, lines, layout.DefaultConfig())
	if sampler.calls != 1 {
		t.Fatalf("sampler must be called exactly once, got %d", sampler.calls)
	}
	want := []string{"a", "b", "c"}
	if strings.Join(sampler.texts, ",") != strings.Join(want, ",") {
		t.Fatalf("flattening order: got %v want %v", sampler.texts, want)
	}
}

func TestRenderValidatesBeforeSampling(t *testing.T) {
	sampler := &stubSampler{}
	lines := []segment.Line{
		{Segments: []segment.TextSegment{segment.NewSegment("bad€", segment.DefaultStyle())}},
	}

	engine := New(sampler, Options{})
	_, err := engine.Render(context.Background(), lines, layout.DefaultConfig())
	var verr *segment.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *segment.ValidationError, got %v", err)
	}
	if sampler.calls != 0 {
		t.Fatalf("validation failure must abort before sampling")
	}
}

func TestRenderSkipsStrokelessSegmentsButKeepsSlots(t *testing.T) {
	// middle word gets no strokes back; its siblings must not shift
	sampler := &stubSampler{perText: map[string]stroke.Sequence{
		"one":   {{DX: 1, DY: 1, PenUp: true}, {DX: 1, DY: -1, PenUp: true}},
		"two":   nil,
		"three": {{DX: 1, DY: 1, PenUp: true}, {DX: 1, DY: -1, PenUp: true}},
	}}
	lines := segment.Split("one two three", segment.ModeWord, segment.DefaultStyle())

	empty, _ := renderLines(t, &stubSampler{}, nil, layout.DefaultConfig())
	background := pathCount(empty)

	data, plan := renderLines(t, sampler, lines, layout.DefaultConfig())
	if got := pathCount(data); got != background+2 {
		t.Fatalf("want two visible paths, got %d (background %d)", got, background)
	}
	if len(plan.Lines[0].Slots) != 3 {
		t.Fatalf("all three segments keep their slots, got %d", len(plan.Lines[0].Slots))
	}

	cfg := layout.DefaultConfig()
	want := layout.PlaceLine(lines[0].Segments, layout.DefaultPageWidth, cfg)
	for i, slot := range plan.Lines[0].Slots {
		if slot != want[i] {
			t.Fatalf("slot %d moved: got %+v want %+v", i, slot, want[i])
		}
	}
}

func TestRenderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := New(&stubSampler{}, Options{})
	lines := segment.Split("Hi", segment.ModeLine, segment.DefaultStyle())
	if _, err := engine.Render(ctx, lines, layout.DefaultConfig()); err == nil {
		t.Fatalf("cancelled context should abort the render")
	}
}

func TestRenderPDFFormat(t *testing.T) {
	engine := New(&stubSampler{}, Options{Format: FormatPDF})
	lines := segment.Split("Hi", segment.ModeLine, segment.DefaultStyle())
	data, err := engine.Render(context.Background(), lines, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestRenderToBuffersBeforeWriting(t *testing.T) {
	engine := New(&stubSampler{}, Options{})
	lines := segment.Split("Hi", segment.ModeLine, segment.DefaultStyle())
	var buf bytes.Buffer
	if err := engine.RenderTo(context.Background(), &buf, lines, layout.DefaultConfig()); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("no document bytes written")
	}
}

func TestRenderUsesMarginsAndMaxWidth(t *testing.T) {
	sampler := &stubSampler{}
	engine := New(sampler, Options{Margin: layout.Uniform(50)})
	lines := segment.Split("hello", segment.ModeLine, segment.DefaultStyle())

	cfg := layout.DefaultConfig()
	cfg.Align = layout.AlignRight
	_, plan, err := engine.RenderPlan(context.Background(), lines, cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	usable := layout.DefaultPageWidth - 100
	slots := layout.PlaceLine(lines[0].Segments, usable, cfg)
	if plan.Lines[0].Slots[0] != slots[0] {
		t.Fatalf("margins not applied to usable width: %+v vs %+v", plan.Lines[0].Slots[0], slots[0])
	}
	if plan.Lines[0].Baseline != layout.Baseline(0, 1, 50) {
		t.Fatalf("top margin not applied to baseline: %g", plan.Lines[0].Baseline)
	}
}
