// Package render composes sampled stroke geometry into a vector document:
// one batched sampler call, per-line layout, per-segment geometry transform
// and canvas drawing, emitted as SVG or PDF bytes.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/kalamhq/kalam/layout"
	"github.com/kalamhq/kalam/segment"
	"github.com/kalamhq/kalam/stroke"
)

// Format selects the document encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// Options configures a render engine. The zero value renders SVG on an
// auto-sized page with no margins.
type Options struct {
	Format Format
	// Page fixes the page size; a zero value derives the width from
	// layout.DefaultPageWidth and the height from the line count.
	Page   layout.PageSize
	Margin layout.Margin
}

// Engine drives the render pipeline. The sampler is an explicit handle
// constructed once by the caller and injected; the engine itself keeps no
// state between renders, so one Engine may serve concurrent requests as
// long as the sampler is safe for concurrent batched calls.
type Engine struct {
	sampler stroke.Sampler
	opts    Options
}

// New builds an engine around a sampler.
func New(sampler stroke.Sampler, opts Options) *Engine {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	return &Engine{sampler: sampler, opts: opts}
}

// Render validates, samples and draws the given lines into document bytes.
// The caller receives either a complete document or an error; no partial
// output is ever produced.
func (e *Engine) Render(ctx context.Context, lines []segment.Line, cfg layout.Config) ([]byte, error) {
	data, _, err := e.render(ctx, lines, cfg)
	return data, err
}

// RenderPlan renders and also returns the resolved layout plan for
// debugging.
func (e *Engine) RenderPlan(ctx context.Context, lines []segment.Line, cfg layout.Config) ([]byte, *layout.Plan, error) {
	return e.render(ctx, lines, cfg)
}

// RenderTo renders into w. The document is buffered first so a write
// failure never leaves a truncated document behind.
func (e *Engine) RenderTo(ctx context.Context, w io.Writer, lines []segment.Line, cfg layout.Config) error {
	data, err := e.Render(ctx, lines, cfg)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (e *Engine) render(ctx context.Context, lines []segment.Line, cfg layout.Config) ([]byte, *layout.Plan, error) {
	if e.sampler == nil {
		return nil, nil, fmt.Errorf("render: no sampler configured")
	}
	cfg = cfg.Normalized()

	if err := segment.Validate(lines); err != nil {
		return nil, nil, err
	}

	sampled, err := e.sampleAll(ctx, lines)
	if err != nil {
		return nil, nil, err
	}

	page := e.pageSize(len(lines), cfg)
	margin := e.opts.Margin
	usable := page.Width - margin.Left - margin.Right
	if cfg.MaxWidth > 0 && cfg.MaxWidth < usable {
		usable = cfg.MaxWidth
	}

	c := canvas.New(page.Width, page.Height)
	cc := canvas.NewContext(c)
	cc.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the layout

	// opaque background before any ink
	cc.SetFillColor(canvas.White)
	cc.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))

	plan := &layout.Plan{PageWidth: page.Width, PageHeight: page.Height}
	for i, line := range sampled {
		y := layout.Baseline(i, cfg.LineSpacing, margin.Top)
		slots := layout.PlaceLine(line.Segments, usable, cfg)
		placement := layout.Placement{Baseline: y, Slots: slots}
		for si, seg := range line.Segments {
			placement.Texts = append(placement.Texts, seg.Text)
			if seg.Text == "" || len(seg.Strokes) == 0 {
				continue // keeps its slot, emits no path
			}
			anchor := stroke.Point{X: margin.Left + slots[si].X, Y: y}
			path := stroke.Transform(seg.Strokes, seg.Scale, anchor)
			drawPath(cc, path, seg)
		}
		plan.Lines = append(plan.Lines, placement)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	data, err := e.encode(c, page)
	if err != nil {
		return nil, nil, err
	}
	return data, plan, nil
}

// sampleAll flattens every segment across all lines into one batched
// sampler call and scatters the results back in the same order, returning
// new lines so the caller's segments stay untouched.
func (e *Engine) sampleAll(ctx context.Context, lines []segment.Line) ([]segment.Line, error) {
	var texts []string
	var biases []float64
	var styleIDs []int
	for _, line := range lines {
		for _, seg := range line.Segments {
			texts = append(texts, seg.Text)
			biases = append(biases, seg.Bias)
			styleIDs = append(styleIDs, seg.StyleID)
		}
	}

	out := make([]segment.Line, len(lines))
	if len(texts) == 0 {
		copy(out, lines)
		return out, nil
	}

	sequences, err := e.sampler.SampleBatch(ctx, texts, biases, styleIDs)
	if err != nil {
		return nil, fmt.Errorf("sample strokes: %w", err)
	}
	if len(sequences) != len(texts) {
		return nil, fmt.Errorf("sample strokes: got %d sequences for %d segments", len(sequences), len(texts))
	}

	idx := 0
	for li, line := range lines {
		if line.Empty() {
			continue
		}
		segs := make([]segment.TextSegment, len(line.Segments))
		for si, seg := range line.Segments {
			segs[si] = seg.WithStrokes(sequences[idx])
			idx++
		}
		out[li] = segment.Line{Segments: segs}
	}
	return out, nil
}

func (e *Engine) pageSize(lineCount int, cfg layout.Config) layout.PageSize {
	page := e.opts.Page
	if page.Width <= 0 {
		page.Width = layout.DefaultPageWidth
	}
	if page.Height <= 0 {
		n := lineCount
		if n < 1 {
			n = 1
		}
		page.Height = float64(n)*layout.LineHeight*cfg.LineSpacing +
			e.opts.Margin.Top + e.opts.Margin.Bottom
	}
	return page
}

// drawPath emits one segment's geometry as a single vector path: a pen-up
// point ends the current sub-path, so the following point opens a new one
// with a move.
func drawPath(cc *canvas.Context, path stroke.Path, seg segment.TextSegment) {
	if len(path) == 0 {
		return
	}
	p := &canvas.Path{}
	lifted := true
	for _, pt := range path {
		if lifted {
			p.MoveTo(pt.X, pt.Y)
		} else {
			p.LineTo(pt.X, pt.Y)
		}
		lifted = pt.PenUp
	}

	width := seg.StrokeWidth
	if width <= 0 {
		width = 2
	}
	cc.SetFillColor(canvas.Transparent)
	cc.SetStrokeColor(colorFrom(seg.StrokeColor))
	cc.SetStrokeWidth(width)
	cc.SetStrokeCapper(canvas.RoundCap)
	cc.SetStrokeJoiner(canvas.RoundJoin)
	cc.DrawPath(0, 0, p)
}

func (e *Engine) encode(c *canvas.Canvas, page layout.PageSize) ([]byte, error) {
	var buf bytes.Buffer
	switch e.opts.Format {
	case FormatPDF:
		writer := pdf.New(&buf, page.Width, page.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("write PDF: %w", err)
		}
	default:
		writer := svg.New(&buf, page.Width, page.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("write SVG: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func colorFrom(c segment.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
