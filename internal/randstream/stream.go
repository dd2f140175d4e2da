//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package randstream provides the deterministic pseudo-random stream that
// every sampling decision in a generation run draws from. A Stream is an
// owned, ordered sequence: it is threaded explicitly through the generators
// and never shared through global state, so two runs with the same seed and
// configuration consume draws in the same order and produce identical
// datasets.
package randstream

import (
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Stream wraps a seeded gofakeit faker as an ordered draw sequence.
type Stream struct {
	faker *gofakeit.Faker
	seed  uint64
}

// New creates a Stream seeded for full-run reproducibility.
func New(seed uint64) *Stream {
	return &Stream{
		faker: gofakeit.New(seed),
		seed:  seed,
	}
}

// Derive returns an independent sub-stream for a fact partition. The
// sub-seed is a pure function of (seed, partition), so each partition is
// reproducible on its own and partitions can be regenerated in any order.
func (s *Stream) Derive(partition int) *Stream {
	return New(splitmix64(s.seed ^ (uint64(partition+1) * 0x9e3779b97f4a7c15)))
}

// splitmix64 is the finalizer from the SplitMix64 generator; one round is
// enough to decorrelate adjacent partition seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Seed returns the seed this stream was created with.
func (s *Stream) Seed() uint64 {
	return s.seed
}

// Int draws a random integer between min and max (inclusive).
func (s *Stream) Int(min, max int) int {
	return s.faker.IntRange(min, max)
}

// Int64 draws a random int64 between min and max (inclusive).
func (s *Stream) Int64(min, max int64) int64 {
	return int64(s.faker.IntRange(int(min), int(max)))
}

// Float64 draws a random float64 between min and max.
func (s *Stream) Float64(min, max float64) float64 {
	return s.faker.Float64Range(min, max)
}

// Bool draws true with probability p.
func (s *Stream) Bool(p float64) bool {
	return s.faker.Float64Range(0, 1) < p
}

// Date draws a random date between start and end.
func (s *Stream) Date(start, end time.Time) time.Time {
	return s.faker.DateRange(start, end)
}

// Normal draws from a standard normal distribution via Box-Muller. It
// consumes exactly two uniform draws.
func (s *Stream) Normal() float64 {
	u1 := s.faker.Float64Range(math.SmallestNonzeroFloat64, 1)
	u2 := s.faker.Float64Range(0, 1)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// LogNormal draws from a log-normal distribution with the given location
// and scale of the underlying normal. Always positive and right-skewed,
// which suits unit costs and monetary scales.
func (s *Stream) LogNormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*s.Normal())
}

// Pareto draws from a Pareto distribution with minimum xm and shape alpha.
// Small alpha gives the heavy tail needed for a minority of high-value
// customers.
func (s *Stream) Pareto(xm, alpha float64) float64 {
	u := s.faker.Float64Range(math.SmallestNonzeroFloat64, 1)
	return xm / math.Pow(u, 1/alpha)
}

// Geometric draws from a geometric-like distribution on {1..max}: P(k) is
// proportional to (1-p)^(k-1). Values past max are clamped so the support
// stays bounded.
func (s *Stream) Geometric(p float64, max int) int {
	u := s.faker.Float64Range(math.SmallestNonzeroFloat64, 1)
	k := 1 + int(math.Floor(math.Log(u)/math.Log(1-p)))
	if k < 1 {
		k = 1
	}
	if k > max {
		k = max
	}
	return k
}

// Choose returns a random element from the given slice.
func Choose[T any](s *Stream, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[s.Int(0, len(items)-1)]
}

// ChooseWeighted returns the index of a weighted categorical draw. Weights
// need not sum to 1; non-positive weights select nothing.
func (s *Stream) ChooseWeighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}

	r := s.faker.Float64Range(0, total)
	var cumulative float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if r <= cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// City draws a random city name.
func (s *Stream) City() string {
	return s.faker.City()
}

// Name draws a random full name.
func (s *Stream) Name() string {
	return s.faker.Name()
}

// Letter draws a random single letter.
func (s *Stream) Letter() string {
	return s.faker.Letter()
}

// Color draws a random color name.
func (s *Stream) Color() string {
	return s.faker.Color()
}
