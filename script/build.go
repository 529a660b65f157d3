package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kalamhq/kalam/binding"
	"github.com/kalamhq/kalam/layout"
	"github.com/kalamhq/kalam/segment"
)

// Request is everything a render engine needs, resolved from a script:
// the styled lines, the typesetting config and the page geometry.
type Request struct {
	Title  string
	Author string
	Lines  []segment.Line
	Config layout.Config
	Page   layout.PageSize
	Margin layout.Margin
}

// Build resolves a parsed document against optional caller data into a
// render request. Text literals are interpolated with binding before
// segmentation; overrides declared in the script are applied as a final
// pass so they see the same coordinates the caller would.
func Build(doc *Document, data any) (*Request, error) {
	if doc == nil {
		return nil, fmt.Errorf("script: empty document")
	}

	req := &Request{Config: layout.DefaultConfig()}
	styles, err := collectStyles(doc)
	if err != nil {
		return nil, err
	}
	collectMeta(doc, req)

	page := firstPage(doc)
	if page == nil {
		return nil, fmt.Errorf("script: document has no page section")
	}
	if err := resolvePageSpec(page.Spec, req); err != nil {
		return nil, err
	}

	var overrides []segment.Override
	for _, stmt := range page.Block.Statements {
		if stmt.Assignment != nil {
			applyConfigKey(&req.Config, stmt.Assignment)
			continue
		}
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "line", "wrap":
			lines, err := buildTextCommand(cmd, styles, data, req.Config)
			if err != nil {
				return nil, err
			}
			req.Lines = append(req.Lines, lines...)
		case "blank":
			req.Lines = append(req.Lines, segment.Line{})
		case "override":
			ov, err := parseOverride(cmd)
			if err != nil {
				return nil, err
			}
			overrides = append(overrides, ov)
		default:
			return nil, fmt.Errorf("script: unknown page command %q at %s", cmd.Name, cmd.Pos)
		}
	}

	if len(overrides) > 0 {
		req.Lines = segment.ApplyOverrides(req.Lines, overrides)
	}
	return req, nil
}

func collectMeta(doc *Document, req *Request) {
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				req.Title = valueToString(stmt.Assignment.Value)
			case "author":
				req.Author = valueToString(stmt.Assignment.Value)
			}
		}
	}
}

func collectStyles(doc *Document) (map[string]segment.Style, error) {
	styles := map[string]segment.Style{}
	for _, section := range doc.Sections {
		if section.Styles == nil || section.Styles.Block == nil {
			continue
		}
		for _, stmt := range section.Styles.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "style" {
				continue
			}
			if len(stmt.Command.Args) == 0 {
				return nil, fmt.Errorf("script: style definition needs a name at %s", stmt.Command.Pos)
			}
			name := stmt.Command.Args[0].Value
			style := segment.DefaultStyle()
			if stmt.Command.Block != nil {
				for _, st := range stmt.Command.Block.Statements {
					if st.Assignment == nil {
						continue
					}
					if err := applyStyleKey(&style, st.Assignment.Key, valueToString(st.Assignment.Value)); err != nil {
						return nil, fmt.Errorf("script: style %s: %w", name, err)
					}
				}
			}
			styles[name] = style
		}
	}
	return styles, nil
}

func applyStyleKey(style *segment.Style, key, value string) error {
	switch strings.ToLower(key) {
	case "style":
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("style id %q is not an integer", value)
		}
		style.StyleID = id
	case "bias":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("bias %q must be a number in [0,1]", value)
		}
		style.Bias = f
	case "color":
		c, err := parseColor(value)
		if err != nil {
			return err
		}
		style.StrokeColor = c
	case "width":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("width %q must be a positive number", value)
		}
		style.StrokeWidth = f
	case "scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("scale %q must be a positive number", value)
		}
		style.Scale = f
	default:
		return fmt.Errorf("unknown style key %q", key)
	}
	return nil
}

// buildTextCommand handles line and wrap commands. Both accept an optional
// leading style name followed by key/value pairs; wrap refills the text
// against the configured max width before segmentation.
func buildTextCommand(cmd *Command, styles map[string]segment.Style, data any, cfg layout.Config) ([]segment.Line, error) {
	styleName, attrs := parseArgs(cmd.Args)
	style := segment.DefaultStyle()
	if styleName != "" {
		named, ok := styles[styleName]
		if !ok {
			return nil, fmt.Errorf("script: style %q is not defined at %s", styleName, cmd.Pos)
		}
		style = named
	}
	mode := segment.ModeLine
	for key, value := range attrs {
		if key == "mode" {
			switch segment.Mode(value) {
			case segment.ModeLine, segment.ModeWord, segment.ModeChar:
				mode = segment.Mode(value)
			default:
				return nil, fmt.Errorf("script: unknown segmentation mode %q at %s", value, cmd.Pos)
			}
			continue
		}
		if err := applyStyleKey(&style, key, value); err != nil {
			return nil, fmt.Errorf("script: %w at %s", err, cmd.Pos)
		}
	}

	text := extractText(cmd.Block)
	if text == "" {
		return nil, fmt.Errorf("script: %s command has no text at %s", cmd.Name, cmd.Pos)
	}
	text = binding.Interpolate(text, data)

	if cmd.Name == "wrap" {
		maxWidth := cfg.MaxWidth
		if maxWidth <= 0 {
			maxWidth = layout.DefaultPageWidth
		}
		text = strings.Join(layout.Wrap(text, maxWidth, cfg), "\n")
	}
	return segment.Split(text, mode, style), nil
}

func parseOverride(cmd *Command) (segment.Override, error) {
	if len(cmd.Args) < 2 {
		return segment.Override{}, fmt.Errorf("script: override needs line and segment indices at %s", cmd.Pos)
	}
	li, err1 := strconv.Atoi(cmd.Args[0].Value)
	si, err2 := strconv.Atoi(cmd.Args[1].Value)
	if err1 != nil || err2 != nil {
		return segment.Override{}, fmt.Errorf("script: override indices must be integers at %s", cmd.Pos)
	}
	ov := segment.Override{Line: li, Segment: si}

	args := cmd.Args[2:]
	for i := 0; i+1 < len(args); i += 2 {
		key, value := args[i].Value, args[i+1].Value
		var style segment.Style
		if err := applyStyleKey(&style, key, value); err != nil {
			return segment.Override{}, fmt.Errorf("script: override: %w at %s", err, cmd.Pos)
		}
		switch strings.ToLower(key) {
		case "style":
			ov.StyleID = &style.StyleID
		case "bias":
			ov.Bias = &style.Bias
		case "color":
			ov.Color = &style.StrokeColor
		case "width":
			ov.Width = &style.StrokeWidth
		case "scale":
			ov.Scale = &style.Scale
		}
	}
	return ov, nil
}

// resolvePageSpec handles the page header: a size preset or "auto", then
// optional "margin" values (CSS shorthand order) and an "align" keyword.
func resolvePageSpec(spec PageSpec, req *Request) error {
	switch strings.ToLower(spec.Size) {
	case "auto", "":
		// derived from content
	default:
		ps, ok := layout.Preset(strings.ToUpper(spec.Size))
		if !ok {
			return fmt.Errorf("script: unsupported page size %q", spec.Size)
		}
		req.Page = ps
	}

	for i := 0; i < len(spec.Params); i++ {
		switch spec.Params[i].Value {
		case "margin":
			var vals []float64
			for j := i + 1; j < len(spec.Params) && len(vals) < 4; j++ {
				f, err := strconv.ParseFloat(spec.Params[j].Value, 64)
				if err != nil {
					break
				}
				vals = append(vals, f)
			}
			switch len(vals) {
			case 1:
				req.Margin = layout.Uniform(vals[0])
			case 2:
				req.Margin = layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
			case 3:
				req.Margin = layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2]}
			case 4:
				req.Margin = layout.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
			}
			i += len(vals)
		case "align":
			if i+1 < len(spec.Params) {
				req.Config.Align = normalizeAlign(spec.Params[i+1].Value)
				i++
			}
		}
	}
	return nil
}

func applyConfigKey(cfg *layout.Config, a *Assignment) {
	value := valueToString(a.Value)
	switch strings.ToLower(a.Key) {
	case "line-spacing":
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			cfg.LineSpacing = f
		}
	case "word-spacing":
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			cfg.WordSpacing = f
		}
	case "char-spacing":
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			cfg.CharSpacing = f
		}
	case "max-width":
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			cfg.MaxWidth = f
		}
	case "align":
		cfg.Align = normalizeAlign(value)
	}
}

func normalizeAlign(v string) layout.Alignment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return layout.AlignCenter
	case "right", "end":
		return layout.AlignRight
	case "justify":
		return layout.AlignJustify
	default:
		return layout.AlignLeft
	}
}

func firstPage(doc *Document) *PageSection {
	for _, section := range doc.Sections {
		if section.Page != nil && section.Page.Block != nil {
			return section.Page
		}
	}
	return nil
}

func parseArgs(args []*Lexeme) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if len(args)%2 == 1 && args[0].Type == "Ident" {
		style = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func extractText(block *Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text == nil {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(string(stmt.Text.Value))
	}
	return builder.String()
}

func valueToString(val *Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

func parseColor(value string) (segment.Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		return segment.Color{
			R: mustHex(strings.Repeat(string(value[0]), 2)),
			G: mustHex(strings.Repeat(string(value[1]), 2)),
			B: mustHex(strings.Repeat(string(value[2]), 2)),
		}, nil
	case 6, 8:
		return segment.Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return segment.Color{}, fmt.Errorf("cannot parse color value %q", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
