package segment

import "fmt"

// MaxSegmentLen is the longest text a single segment may carry. The stroke
// model was trained on sequences capped at this length, so longer inputs
// must be wrapped before segmentation.
const MaxSegmentLen = 75

// alphabet is the fixed character set the stroke model understands.
const alphabet = ` !"#'(),-.0123456789:;?ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz`

var supported = func() map[rune]bool {
	m := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		m[r] = true
	}
	return m
}()

// Supported reports whether r belongs to the model alphabet.
func Supported(r rune) bool { return supported[r] }

// Alphabet returns the supported character set in a stable order.
func Alphabet() string { return alphabet }

// ValidationError reports the first segment that cannot be sampled, with
// its (line, segment) coordinates. Exactly one of Char/Length is set:
// Char for an unsupported rune, Length for an over-long segment.
type ValidationError struct {
	Line    int
	Segment int
	Char    rune
	Length  int
}

func (e *ValidationError) Error() string {
	if e.Length > 0 {
		return fmt.Sprintf("line %d segment %d: text is %d characters, at most %d allowed",
			e.Line, e.Segment, e.Length, MaxSegmentLen)
	}
	return fmt.Sprintf("line %d segment %d: unsupported character %q",
		e.Line, e.Segment, e.Char)
}

// Validate scans every segment of every line before any sampling happens
// and returns a *ValidationError for the first violation found: a segment
// longer than MaxSegmentLen runes, or one containing a rune outside the
// alphabet. A nil return means the whole request is sampleable.
func Validate(lines []Line) error {
	for li, line := range lines {
		for si, seg := range line.Segments {
			runes := []rune(seg.Text)
			if len(runes) > MaxSegmentLen {
				return &ValidationError{Line: li, Segment: si, Length: len(runes)}
			}
			for _, r := range runes {
				if !supported[r] {
					return &ValidationError{Line: li, Segment: si, Char: r}
				}
			}
		}
	}
	return nil
}
