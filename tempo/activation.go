package tempo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidActivation indicates an activation function that violates the
// input contract (negative frame rate, NaN samples).
var ErrInvalidActivation = errors.New("tempo: invalid activation")

// Activation is a beat activation function: one non-negative value per audio
// frame, sampled at a fixed frame rate. It is treated as immutable by every
// consumer in this package; Smooth returns a new Activation.
type Activation struct {
	// Data holds one activation value per frame.
	Data []float64
	// FrameRate is the number of frames per second. A zero frame rate means
	// "unknown"; the estimator then falls back to its configured rate.
	FrameRate float64
}

// NewActivation copies data into a fresh Activation. Negative samples are
// clamped to zero to uphold the non-negativity invariant; NaN samples are
// rejected.
func NewActivation(data []float64, frameRate float64) (Activation, error) {
	if frameRate < 0 {
		return Activation{}, fmt.Errorf("%w: frame rate %f", ErrInvalidActivation, frameRate)
	}

	out := make([]float64, len(data))
	for i, v := range data {
		if math.IsNaN(v) {
			return Activation{}, fmt.Errorf("%w: NaN at frame %d", ErrInvalidActivation, i)
		}
		if v < 0 {
			v = 0
		}
		out[i] = v
	}

	return Activation{Data: out, FrameRate: frameRate}, nil
}

// Len returns the number of frames.
func (a Activation) Len() int {
	return len(a.Data)
}

// Seconds returns the signal duration. Zero when the frame rate is unknown.
func (a Activation) Seconds() float64 {
	if a.FrameRate <= 0 {
		return 0
	}
	return float64(len(a.Data)) / a.FrameRate
}

// Smooth applies a centered moving average of the given length in seconds and
// returns the result as a new Activation. The window is rounded to frames and
// forced odd so the average stays centered; windows of one frame or less
// return an unchanged copy. Edges average over the available frames only, so
// total mass is approximately preserved without zero-padding artifacts.
func (a Activation) Smooth(seconds float64) Activation {
	window := 0
	if a.FrameRate > 0 {
		window = int(math.Round(seconds * a.FrameRate))
	}
	return Activation{Data: movingAverage(a.Data, window), FrameRate: a.FrameRate}
}

// movingAverage smooths x with a centered window of the given length using a
// prefix-sum, truncating the window at the edges. window <= 1 copies x.
func movingAverage(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if window <= 1 || len(x) == 0 {
		copy(out, x)
		return out
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	prefix := make([]float64, len(x)+1)
	for i, v := range x {
		prefix[i+1] = prefix[i] + v
	}

	for i := range x {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(x) {
			hi = len(x)
		}
		out[i] = (prefix[hi] - prefix[lo]) / float64(hi-lo)
	}

	return out
}

// movingAverageZeroPad is movingAverage with zero-padding semantics: edge
// positions still divide by the full window length, as if x continued with
// zeros. Edges are damped rather than boosted, so smoothing can only ever
// flatten local structure, never sharpen a boundary value past its
// neighbours. window <= 1 copies x.
func movingAverageZeroPad(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if window <= 1 || len(x) == 0 {
		copy(out, x)
		return out
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	prefix := make([]float64, len(x)+1)
	for i, v := range x {
		prefix[i+1] = prefix[i] + v
	}

	for i := range x {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(x) {
			hi = len(x)
		}
		out[i] = (prefix[hi] - prefix[lo]) / float64(window)
	}

	return out
}
