//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package randstream

import "sort"

// IndexSampler draws weighted indices in O(log n) per draw. The prefix sums
// are built once; the fact sampler draws from the same weight vectors
// millions of times.
type IndexSampler struct {
	prefix []float64
	total  float64
}

// NewIndexSampler builds a sampler over the given weights. Non-positive
// weights keep their index but are never selected.
func NewIndexSampler(weights []float64) *IndexSampler {
	prefix := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		prefix[i] = total
	}
	return &IndexSampler{prefix: prefix, total: total}
}

// Pick draws one index from the stream. It consumes exactly one uniform
// draw regardless of the number of weights.
func (is *IndexSampler) Pick(s *Stream) int {
	if len(is.prefix) == 0 || is.total <= 0 {
		return 0
	}
	r := s.Float64(0, is.total)
	idx := sort.SearchFloat64s(is.prefix, r)
	if idx >= len(is.prefix) {
		idx = len(is.prefix) - 1
	}
	return idx
}

// Total returns the sum of positive weights.
func (is *IndexSampler) Total() float64 {
	return is.total
}
