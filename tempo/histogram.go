package tempo

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Histogram accumulates periodicity evidence per tempo bucket. Buckets are
// created once from the candidate bank and carry a fixed BPM label; Add only
// ever accumulates, smoothing is a separate explicit pass so the raw
// histogram stays inspectable.
type Histogram struct {
	bpms []float64
	bins []float64
}

// NewHistogram creates an empty histogram with one zero-valued bin per BPM
// label. Labels are copied.
func NewHistogram(bpms []float64) *Histogram {
	labels := make([]float64, len(bpms))
	copy(labels, bpms)
	return &Histogram{
		bpms: labels,
		bins: make([]float64, len(bpms)),
	}
}

// Len returns the number of buckets.
func (h *Histogram) Len() int {
	return len(h.bins)
}

// BPM returns the tempo label of bucket i.
func (h *Histogram) BPM(i int) float64 {
	return h.bpms[i]
}

// Add accumulates strength into bucket i. Out-of-range buckets and negative
// strengths are ignored; evidence only ever adds up.
func (h *Histogram) Add(i int, strength float64) {
	if i < 0 || i >= len(h.bins) || strength < 0 {
		return
	}
	h.bins[i] += strength
}

// Counts returns a copy of the raw accumulated bin values.
func (h *Histogram) Counts() []float64 {
	out := make([]float64, len(h.bins))
	copy(out, h.bins)
	return out
}

// Mass returns the total accumulated strength across all buckets.
func (h *Histogram) Mass() float64 {
	return floats.Sum(h.bins)
}

// Smoothed returns a new histogram whose bins are the moving average of the
// receiver's bins over the given window, merging near-duplicate buckets that
// only differ by quantization noise. The average uses zero-padding at the
// boundaries, so edge bins are damped and smoothing cannot promote an edge
// bucket into a peak it was not before. A window of one or less returns an
// unchanged copy. The receiver is never modified.
func (h *Histogram) Smoothed(window int) *Histogram {
	return &Histogram{
		bpms: h.bpms,
		bins: movingAverageZeroPad(h.bins, window),
	}
}

// Peaks returns up to topK estimates at the strict local maxima of the
// histogram, sorted by descending strength. At the edges a bucket qualifies
// against its single neighbour. Equal strengths are ordered by lower BPM
// first, so the ranking is deterministic. Strengths are the raw accumulated
// bin values; callers normalize.
func (h *Histogram) Peaks(topK int) []Estimate {
	if topK <= 0 {
		return nil
	}

	var peaks []Estimate
	for i, v := range h.bins {
		if v <= 0 {
			continue
		}
		if i > 0 && h.bins[i-1] >= v {
			continue
		}
		if i < len(h.bins)-1 && h.bins[i+1] >= v {
			continue
		}
		peaks = append(peaks, Estimate{BPM: h.bpms[i], Strength: v})
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Strength != peaks[j].Strength {
			return peaks[i].Strength > peaks[j].Strength
		}
		return peaks[i].BPM < peaks[j].BPM
	})

	if len(peaks) > topK {
		peaks = peaks[:topK]
	}
	return peaks
}

// normalizeStrengths divides estimate strengths by mass so they become
// relative shares of it.
func normalizeStrengths(estimates []Estimate, mass float64) {
	if mass <= 0 {
		return
	}
	for i := range estimates {
		estimates[i].Strength /= mass
	}
}
