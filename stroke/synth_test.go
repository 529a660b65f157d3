package stroke

import (
	"context"
	"testing"
)

func TestSynthSampleBatchPositional(t *testing.T) {
	s := NewSynth()
	texts := []string{"abc", "", "hello"}
	biases := []float64{0.5, 0.5, 0.9}
	styleIDs := []int{0, 1, 2}

	seqs, err := s.SampleBatch(context.Background(), texts, biases, styleIDs)
	if err != nil {
		t.Fatalf("SampleBatch: %v", err)
	}
	if len(seqs) != len(texts) {
		t.Fatalf("want %d sequences, got %d", len(texts), len(seqs))
	}
	if len(seqs[0]) == 0 || len(seqs[2]) == 0 {
		t.Fatalf("non-empty texts should produce strokes")
	}
	if len(seqs[1]) != 0 {
		t.Fatalf("empty text should produce no strokes, got %d offsets", len(seqs[1]))
	}
}

func TestSynthDeterministic(t *testing.T) {
	s := NewSynth()
	args := func() ([]string, []float64, []int) {
		return []string{"same text"}, []float64{0.7}, []int{1}
	}
	t1, b1, st1 := args()
	a, err := s.SampleBatch(context.Background(), t1, b1, st1)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	t2, b2, st2 := args()
	b, err := s.SampleBatch(context.Background(), t2, b2, st2)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(a[0]) != len(b[0]) {
		t.Fatalf("lengths differ: %d vs %d", len(a[0]), len(b[0]))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("offset %d differs: %+v vs %+v", i, a[0][i], b[0][i])
		}
	}
}

func TestSynthUnknownStyleFallsBack(t *testing.T) {
	s := NewSynth()
	seqs, err := s.SampleBatch(context.Background(), []string{"hi"}, []float64{0.5}, []int{9999})
	if err != nil {
		t.Fatalf("unknown style must fall back, not fail: %v", err)
	}
	if len(seqs[0]) == 0 {
		t.Fatalf("fallback synthesis produced no strokes")
	}
}

func TestSynthRejectsMismatchedBatch(t *testing.T) {
	s := NewSynth()
	if _, err := s.SampleBatch(context.Background(), []string{"a", "b"}, []float64{0.5}, []int{0, 0}); err == nil {
		t.Fatalf("mismatched batch lengths should error")
	}
}

func TestSynthHonorsCancellation(t *testing.T) {
	s := NewSynth()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SampleBatch(ctx, []string{"a"}, []float64{0.5}, []int{0}); err == nil {
		t.Fatalf("cancelled context should abort sampling")
	}
}
