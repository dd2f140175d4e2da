//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package randstream

import (
	"testing"
	"time"
)

func TestSameSeedSameSequence(t *testing.T) {
	s1 := New(42)
	s2 := New(42)

	for i := 0; i < 100; i++ {
		v1 := s1.Int(0, 1000000)
		v2 := s2.Int(0, 1000000)
		if v1 != v2 {
			t.Fatalf("draw %d: same seed produced different values: %d != %d", i, v1, v2)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	s1 := New(42)
	s2 := New(43)

	same := 0
	for i := 0; i < 100; i++ {
		if s1.Int(0, 1000000) == s2.Int(0, 1000000) {
			same++
		}
	}
	if same > 5 {
		t.Errorf("different seeds agreed on %d/100 draws", same)
	}
}

func TestDeriveIsReproducible(t *testing.T) {
	root := New(7)
	a := root.Derive(3)
	b := New(7).Derive(3)

	for i := 0; i < 50; i++ {
		if a.Float64(0, 1) != b.Float64(0, 1) {
			t.Fatal("derived stream not reproducible from (seed, partition)")
		}
	}
}

func TestDeriveDecorrelatesPartitions(t *testing.T) {
	root := New(7)
	seen := make(map[uint64]bool)
	for p := 0; p < 64; p++ {
		seed := root.Derive(p).Seed()
		if seen[seed] {
			t.Fatalf("partition %d reuses a sub-seed", p)
		}
		seen[seed] = true
	}
}

func TestBool(t *testing.T) {
	s := New(1)
	trues := 0
	for i := 0; i < 10000; i++ {
		if s.Bool(0.7) {
			trues++
		}
	}
	frac := float64(trues) / 10000
	if frac < 0.65 || frac > 0.75 {
		t.Errorf("Bool(0.7) frequency = %.3f", frac)
	}

	if s.Bool(0) {
		t.Error("Bool(0) returned true")
	}
}

func TestDateRange(t *testing.T) {
	s := New(1)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := s.Date(start, end)
		if d.Before(start) || d.After(end) {
			t.Fatalf("Date out of range: %v", d)
		}
	}
}

func TestLogNormalPositive(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		if v := s.LogNormal(3, 0.6); v <= 0 {
			t.Fatalf("LogNormal produced %v", v)
		}
	}
}

func TestParetoMinimum(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		if v := s.Pareto(1.0, 1.5); v < 1.0 {
			t.Fatalf("Pareto below minimum: %v", v)
		}
	}
}

func TestParetoHeavyTail(t *testing.T) {
	s := New(1)
	over5 := 0
	for i := 0; i < 10000; i++ {
		if s.Pareto(1.0, 1.5) > 5 {
			over5++
		}
	}
	// P(X > 5) = 5^-1.5 ≈ 0.089
	if over5 < 500 || over5 > 1400 {
		t.Errorf("tail mass over 5x minimum: %d/10000", over5)
	}
}

func TestGeometricSupport(t *testing.T) {
	s := New(1)
	counts := make(map[int]int)
	for i := 0; i < 10000; i++ {
		k := s.Geometric(0.55, 5)
		if k < 1 || k > 5 {
			t.Fatalf("Geometric out of support: %d", k)
		}
		counts[k]++
	}
	if counts[1] <= counts[2] || counts[2] <= counts[3] {
		t.Errorf("Geometric not decreasing: %v", counts)
	}
}

func TestNormalMoments(t *testing.T) {
	s := New(1)
	n := 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := s.Normal()
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	if mean < -0.05 || mean > 0.05 {
		t.Errorf("Normal mean = %.4f", mean)
	}
	if variance < 0.9 || variance > 1.1 {
		t.Errorf("Normal variance = %.4f", variance)
	}
}

func TestChooseWeightedSkipsNonPositive(t *testing.T) {
	s := New(1)
	weights := []float64{0, 1, 0, -2, 3}
	for i := 0; i < 1000; i++ {
		idx := s.ChooseWeighted(weights)
		if idx != 1 && idx != 4 {
			t.Fatalf("selected zero-weight index %d", idx)
		}
	}
}

func TestChoose(t *testing.T) {
	s := New(1)
	items := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[Choose(s, items)] = true
	}
	if len(seen) != 3 {
		t.Errorf("Choose covered %d/3 items", len(seen))
	}

	if v := Choose(s, []string{}); v != "" {
		t.Errorf("Choose on empty slice = %q", v)
	}
}
