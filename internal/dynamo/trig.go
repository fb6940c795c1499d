package dynamo

import "math"

// TrigTable provides precomputed sin/cos values for outline drawing.
// Uses linear interpolation for values between table entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// DefaultTrigTable has 1024 entries (~0.006 rad resolution), plenty for
// disc outlines a few hundred cells across.
var DefaultTrigTable = NewTrigTable(1024)

// NewTrigTable creates a precomputed trig lookup table with n entries.
func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}

	return t
}

// SinCos returns approximate sin and cos of x.
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// Ring returns segments points on the unit circle, counter-clockwise from
// angle zero. It is the 2D analogue of a triangle-fan disc mesh.
func (t *TrigTable) Ring(segments int) [][2]float64 {
	if segments < 3 {
		segments = 3
	}
	pts := make([][2]float64, segments)
	step := 2 * math.Pi / float64(segments)
	for i := range pts {
		s, c := t.SinCos(float64(i) * step)
		pts[i] = [2]float64{c, s}
	}
	return pts
}
