//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package randstream

import "testing"

func TestIndexSamplerDistribution(t *testing.T) {
	sampler := NewIndexSampler([]float64{1, 3, 6})
	s := New(42)

	counts := make([]int, 3)
	n := 30000
	for i := 0; i < n; i++ {
		counts[sampler.Pick(s)]++
	}

	// Expected proportions 0.1, 0.3, 0.6 within loose tolerance.
	for i, want := range []float64{0.1, 0.3, 0.6} {
		got := float64(counts[i]) / float64(n)
		if got < want-0.03 || got > want+0.03 {
			t.Errorf("index %d frequency = %.3f, want ~%.1f", i, got, want)
		}
	}
}

func TestIndexSamplerSkipsNonPositive(t *testing.T) {
	sampler := NewIndexSampler([]float64{0, 5, -1, 5})
	s := New(42)

	for i := 0; i < 5000; i++ {
		idx := sampler.Pick(s)
		if idx != 1 && idx != 3 {
			t.Fatalf("selected non-positive-weight index %d", idx)
		}
	}
}

func TestIndexSamplerDeterminism(t *testing.T) {
	weights := []float64{2, 1, 4, 0.5}
	sampler := NewIndexSampler(weights)

	s1 := New(99)
	s2 := New(99)
	for i := 0; i < 1000; i++ {
		if sampler.Pick(s1) != sampler.Pick(s2) {
			t.Fatal("same seed produced different picks")
		}
	}
}

func TestIndexSamplerDegenerate(t *testing.T) {
	s := New(1)

	if idx := NewIndexSampler(nil).Pick(s); idx != 0 {
		t.Errorf("empty sampler returned %d", idx)
	}
	if idx := NewIndexSampler([]float64{0, 0}).Pick(s); idx != 0 {
		t.Errorf("all-zero sampler returned %d", idx)
	}

	if total := NewIndexSampler([]float64{1, -2, 3}).Total(); total != 4 {
		t.Errorf("Total = %v, want 4", total)
	}
}
