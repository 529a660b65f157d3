package layout

import (
	"encoding/json"
	"os"
)

// Plan records the positions a render resolved to, for debugging or
// visualisation. It mirrors what ends up in the document without the
// stroke geometry.
type Plan struct {
	PageWidth  float64     `json:"pageWidth"`
	PageHeight float64     `json:"pageHeight"`
	Lines      []Placement `json:"lines"`
}

// Placement is one line's resolved baseline and per-segment slots.
type Placement struct {
	Baseline float64  `json:"baseline"`
	Texts    []string `json:"texts,omitempty"`
	Slots    []Slot   `json:"slots,omitempty"`
}

// WriteDebugJSON dumps a plan as indented JSON.
func WriteDebugJSON(p *Plan, path string) error {
	if p == nil {
		return nil
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
