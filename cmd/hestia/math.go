package main

import (
	"math"

	"golang.org/x/exp/constraints"
)

// rampIndex maps v onto one of n buckets spanning [low, high). Values
// outside the range saturate on the first or last bucket.
func rampIndex[F constraints.Float](v, low, high F, n int) int {
	idx := math.Floor(float64((v - low) / (high - low) * F(n)))
	if idx < 0 {
		return 0
	}
	if idx >= float64(n) {
		return n - 1
	}
	return int(idx)
}
