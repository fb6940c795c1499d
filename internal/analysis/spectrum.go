package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first len(data)/2 FFT bins.
// The mean is removed first so bin 0 only carries residual offset.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Frequencies returns the centre frequency of each PowerSpectrum bin for n
// samples taken dt seconds apart.
func Frequencies(n int, dt float64) []float64 {
	freqs := make([]float64, n/2)
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return freqs
}

// DominantFrequency returns the frequency and magnitude of the strongest
// non-DC bin.
func DominantFrequency(data []float64, dt float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(data)) * dt), ps[best]
}

// Hann applies a Hann window in place and returns data.
func Hann(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return data
	}
	for i := range data {
		data[i] *= 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return data
}
