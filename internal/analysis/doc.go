// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a series (kinetic energy,
//     momentum) via FFT
//   - [DominantFrequency]: strongest non-DC component of a series
//   - [NewHistogram], [SpeedHistogram]: speed distribution at one frame
//   - [Summarize]: scalar summary of a run
//   - [PhasePortrait]: position/velocity trajectory of one body on one axis
//   - [PlaneCrossings]: Poincaré-style section of one body crossing a plane
//
// # Spectra
//
// A body bouncing between two walls with no gravity and no damping has a
// period of 2*(2h-2r)/|v|; the kinetic energy of a damped run decays in
// steps at that rate:
//
//	freq, _ := analysis.DominantFrequency(result.Energy, dt)
package analysis
