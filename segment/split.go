package segment

import "strings"

// Mode selects how raw text is cut into segments.
type Mode string

const (
	// ModeLine produces one segment per non-empty line.
	ModeLine Mode = "line"
	// ModeWord produces one segment per whitespace-delimited token.
	ModeWord Mode = "word"
	// ModeChar produces one segment per alphabet rune; runes outside the
	// alphabet are dropped silently in this mode only.
	ModeChar Mode = "character"
)

// Split cuts text into styled lines. Newlines are honored first and empty
// lines are preserved as empty Line entries so they still advance the
// vertical cursor downstream. Every produced segment inherits def.
func Split(text string, mode Mode, def Style) []Line {
	rawLines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]Line, 0, len(rawLines))
	for _, raw := range rawLines {
		out = append(out, splitLine(raw, mode, def))
	}
	return out
}

func splitLine(raw string, mode Mode, def Style) Line {
	switch mode {
	case ModeWord:
		tokens := strings.Fields(raw)
		segs := make([]TextSegment, 0, len(tokens))
		for _, tok := range tokens {
			segs = append(segs, NewSegment(tok, def))
		}
		return Line{Segments: segs}
	case ModeChar:
		var segs []TextSegment
		for _, r := range raw {
			if !Supported(r) {
				continue
			}
			segs = append(segs, NewSegment(string(r), def))
		}
		return Line{Segments: segs}
	default: // ModeLine
		if strings.TrimSpace(raw) == "" {
			return Line{}
		}
		return Line{Segments: []TextSegment{NewSegment(raw, def)}}
	}
}
