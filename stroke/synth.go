package stroke

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/kalamhq/kalam/styles"
)

// stepsPerRune is how many pen movements the synth emits per character.
const stepsPerRune = 8

// fallbackSeed is the unconditioned style used when a requested style id
// has no embedded asset. The sampler contract requires tolerating unknown
// ids, so a missing asset degrades the output instead of failing the call.
var fallbackSeed = styles.Seed{Name: "fallback", Jitter: 0.4, Cadence: 1, Loop: 1}

// Synth is a deterministic procedural Sampler. It draws a waveform skeleton
// per character, shaped by the style seed and damped by bias, and exists so
// the pipeline, the CLI and the tests run without the neural stroke model.
// Synth is stateless and safe for concurrent batched calls.
type Synth struct{}

// NewSynth returns a procedural sampler.
func NewSynth() *Synth { return &Synth{} }

var _ Sampler = (*Synth)(nil)

// SampleBatch produces one sequence per input text. Biases and styles
// correspond positionally; a shorter bias or style slice is an error since
// the caller is expected to flatten all segments into same-length arrays.
func (s *Synth) SampleBatch(ctx context.Context, texts []string, biases []float64, styleIDs []int) ([]Sequence, error) {
	if len(biases) != len(texts) || len(styleIDs) != len(texts) {
		return nil, fmt.Errorf("sample batch: got %d texts, %d biases, %d styles",
			len(texts), len(biases), len(styleIDs))
	}
	out := make([]Sequence, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = synthesize(text, biases[i], styleIDs[i])
	}
	return out, nil
}

func synthesize(text string, bias float64, styleID int) Sequence {
	if text == "" {
		return nil
	}
	seed, err := styles.Load(styleID)
	if err != nil {
		seed = fallbackSeed
	}

	bias = math.Min(math.Max(bias, 0), 1)
	jitter := seed.Jitter * (1 - bias)
	rng := rand.New(rand.NewSource(int64(seedFor(text, styleID))))

	var seq Sequence
	for _, r := range text {
		if r == ' ' {
			// spaces advance the pen without ink
			seq = append(seq, Offset{DX: 3 * seed.Cadence, PenUp: true})
			continue
		}
		phase := rng.Float64() * 2 * math.Pi
		prevY := 0.0
		for step := 0; step < stepsPerRune; step++ {
			t := float64(step) / float64(stepsPerRune-1)
			dx := seed.Cadence * (0.8 + 0.4*rng.Float64())
			y := seed.Loop*math.Sin(phase+t*2*math.Pi) + jitter*(rng.Float64()-0.5)
			dy := y - prevY + seed.Slant*dx
			prevY = y
			seq = append(seq, Offset{DX: dx, DY: dy, PenUp: step == stepsPerRune-1})
		}
	}
	return seq
}

// seedFor derives a stable RNG seed so identical (text, style) inputs yield
// identical strokes across runs.
func seedFor(text string, styleID int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	fmt.Fprintf(h, "|%d", styleID)
	return h.Sum64()
}
