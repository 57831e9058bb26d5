// Package tempo estimates the dominant tempo (or tempi) of a piece of music
// from a beat activation function: a per-frame scalar signal describing how
// likely each audio frame is to contain a beat.
//
// The package intentionally does not compute activation functions itself. Any
// producer (a beat-tracking model, a hand-tuned onset detector) that yields a
// non-negative per-frame signal at a known frame rate can feed the estimator.
//
// # Usage
//
// For one-shot estimation with defaults:
//
//	est, err := tempo.New()
//	estimates, err := est.Estimate(act)
//
// Configuration uses functional options:
//
//	est, err := tempo.New(
//		tempo.WithMethod(tempo.MethodAutocorrelation),
//		tempo.WithBPMRange(60, 180),
//	)
//
// # Algorithm
//
// Estimation runs in five stages: the activation is pre-smoothed with a short
// moving average; periodicity evidence is gathered per candidate beat period,
// either by resonating comb filters or by FFT autocorrelation; evidence is
// accumulated into a [Histogram] indexed by beat period; the histogram is
// smoothed with an explicit moving-average pass; and strict local maxima are
// ranked by accumulated strength into [Estimate] values.
//
// Octave-related peaks (double/half tempo) are deliberately not merged: both
// hypotheses may appear in the ranked output, and reporting policy is left to
// the output layer (see the sibling format package).
package tempo
