package analysis

import (
	"math"

	"github.com/san-kum/ballsim/internal/sim"
)

type Histogram struct {
	Edges  []float64
	Counts []int
}

// NewHistogram bins values into equal-width bins spanning [min, max].
func NewHistogram(values []float64, bins int) *Histogram {
	if bins < 1 {
		bins = 1
	}
	h := &Histogram{
		Edges:  make([]float64, bins+1),
		Counts: make([]int, bins),
	}
	if len(values) == 0 {
		return h
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// Centres returns the midpoint of every bin.
func (h *Histogram) Centres() []float64 {
	c := make([]float64, len(h.Counts))
	for i := range c {
		c[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return c
}

func (h *Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Speeds returns |v| of every body in one recorded frame.
func Speeds(samples []sim.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		sum := 0.0
		for _, v := range s.Velocity {
			sum += v * v
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

// SpeedHistogram bins body speeds at a recorded frame; a negative frame
// counts from the end.
func SpeedHistogram(result *sim.Result, frame, bins int) *Histogram {
	if len(result.Samples) == 0 {
		return NewHistogram(nil, bins)
	}
	if frame < 0 {
		frame += len(result.Samples)
	}
	frame = max(0, min(frame, len(result.Samples)-1))
	return NewHistogram(Speeds(result.Samples[frame]), bins)
}
