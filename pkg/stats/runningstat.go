package stats

import "math"

// RunningStat accumulates the mean and variance of a series in a single pass.
// The zero value is ready to use. RunningStat is not safe for concurrent use;
// the Aggregator serialises access to its series.
type RunningStat struct {
	n    uint64
	mean float64
	m2   float64 // sum of squared deviations from the running mean
}

// Push adds x to the series.
func (r *RunningStat) Push(x float64) {
	r.n++
	if r.n == 1 {
		r.mean = x
		r.m2 = 0
		return
	}

	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
}

// Clear resets the series.
func (r *RunningStat) Clear() {
	*r = RunningStat{}
}

// Count returns the number of values pushed.
func (r RunningStat) Count() uint64 {
	return r.n
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func (r RunningStat) Mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.mean
}

// Variance returns the sample variance (n-1 denominator). It is 0 until at
// least two values have been pushed.
func (r RunningStat) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

// StdDev returns the sample standard deviation.
func (r RunningStat) StdDev() float64 {
	return math.Sqrt(r.Variance())
}
