// Package styles ships the embedded handwriting style seeds. A seed
// parametrizes the procedural sampler the way the original style assets
// primed the stroke model.
package styles

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed assets/*.json
var styleFS embed.FS

// Seed describes one handwriting style.
type Seed struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Slant   float64 `json:"slant"`   // baseline slope in model units per x unit
	Jitter  float64 `json:"jitter"`  // pen wobble amplitude before bias damping
	Cadence float64 `json:"cadence"` // horizontal advance per sampling step
	Loop    float64 `json:"loop"`    // vertical amplitude of the letterforms
}

// Load returns the seed for a style id, resolved to
// "assets/style-<id>.json".
func Load(id int) (Seed, error) {
	return loadFile(fmt.Sprintf("assets/style-%d.json", id))
}

// LoadPath loads a seed by asset path, accepting an optional embed: prefix.
func LoadPath(path string) (Seed, error) {
	path = strings.TrimPrefix(path, "embed:")
	if !strings.HasPrefix(path, "assets/") {
		path = "assets/" + path
	}
	return loadFile(path)
}

func loadFile(path string) (Seed, error) {
	data, err := styleFS.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read embedded style %s: %w", path, err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode embedded style %s: %w", path, err)
	}
	return seed, nil
}
