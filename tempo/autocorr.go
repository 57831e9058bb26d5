package tempo

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// autocorrelate computes the autocorrelation of x for lags 0..maxLag using
// the Wiener-Khinchin route: IFFT of the power spectrum. The result is
// normalized by the zero-lag value, so a lag with perfect periodicity scores
// close to one. Lags beyond the signal length are zero.
func autocorrelate(x []float64, maxLag int) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty signal", ErrInvalidActivation)
	}
	if maxLag < 0 {
		maxLag = 0
	}

	// Zero-pad to at least twice the signal length so the circular
	// correlation of the FFT does not wrap into the lags of interest.
	fftSize := nextPowerOf2(2 * len(x))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("tempo: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range x {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("tempo: forward FFT failed: %w", err)
	}

	// Power spectrum: X * conj(X) is purely real.
	for i, c := range freq {
		re, im := real(c), imag(c)
		freq[i] = complex(re*re+im*im, 0)
	}

	corr := make([]complex128, fftSize)
	if err := plan.Inverse(corr, freq); err != nil {
		return nil, fmt.Errorf("tempo: inverse FFT failed: %w", err)
	}

	// Only lags up to len(x)-1 carry linear correlation; the upper half of
	// the circular result mirrors the negative lags and must not leak in.
	acf := make([]float64, maxLag+1)
	limit := maxLag
	if limit > len(x)-1 {
		limit = len(x) - 1
	}
	for i := 0; i <= limit; i++ {
		acf[i] = real(corr[i])
	}

	if zeroLag := acf[0]; zeroLag != 0 {
		vecmath.ScaleBlock(acf, acf, 1/zeroLag)
	}

	return acf, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
