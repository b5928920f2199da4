package sim

import "math"

// Rand is the source of uniform randomness for the simulation.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Walk returns the next value of a bounded random walk: prev plus a uniform
// perturbation in [-variance/2, +variance/2], clamped into [lo, hi] and
// rounded to one decimal. It draws exactly once from rnd.
func Walk(prev, variance, lo, hi float64, rnd Rand) float64 {
	if math.IsNaN(prev) {
		prev = lo
	}
	next := prev + (rnd.Float64()-0.5)*variance
	next = round1(clamp(next, lo, hi))
	// bounds with more than one decimal can round outside themselves
	return clamp(next, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// uniform returns a value in [lo, hi).
func uniform(rnd Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}

// pick returns an index in [0, n).
func pick(rnd Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return min(int(rnd.Float64()*float64(n)), n-1)
}
