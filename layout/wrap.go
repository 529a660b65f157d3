package layout

import "strings"

// Wrap splits paragraph text into lines that fit maxWidth under the fixed
// width estimate, filling each line greedily with whole words. Explicit
// newlines are hard breaks. A single word wider than maxWidth gets a line
// of its own rather than being split mid-word.
func Wrap(text string, maxWidth float64, cfg Config) []string {
	cfg = cfg.Normalized()
	if maxWidth <= 0 {
		maxWidth = DefaultPageWidth
	}
	charW := CharWidth * cfg.CharSpacing
	spaceW := SpaceWidth * cfg.WordSpacing

	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var line []string
		lineW := 0.0
		for _, word := range words {
			w := float64(len([]rune(word))) * charW
			if len(line) > 0 && lineW+spaceW+w > maxWidth {
				out = append(out, strings.Join(line, " "))
				line = line[:0]
				lineW = 0
			}
			if len(line) > 0 {
				lineW += spaceW
			}
			line = append(line, word)
			lineW += w
		}
		if len(line) > 0 {
			out = append(out, strings.Join(line, " "))
		}
	}
	return out
}
