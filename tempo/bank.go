package tempo

import "math"

// bank is the fixed, ordered set of candidate beat periods for one
// estimation run, derived from the configured BPM range at a given frame
// rate. One candidate per integer period; periods ascend, so BPM labels
// descend. Immutable during use.
type bank struct {
	periods []int     // beat period in frames
	bpms    []float64 // 60 * frameRate / period
}

// newBank builds the candidate set. Period bounds are rounded inward
// (ceil/floor) so every BPM label stays within [minBPM, maxBPM]. A range too
// narrow to contain an integer period yields an empty bank, which the
// estimator treats as degenerate input.
func newBank(minBPM, maxBPM, frameRate float64) bank {
	minPeriod := int(math.Ceil(60 * frameRate / maxBPM))
	if minPeriod < 1 {
		minPeriod = 1
	}
	maxPeriod := int(math.Floor(60 * frameRate / minBPM))

	var b bank
	for period := minPeriod; period <= maxPeriod; period++ {
		b.periods = append(b.periods, period)
		b.bpms = append(b.bpms, 60*frameRate/float64(period))
	}
	return b
}

// len returns the number of candidates.
func (b bank) len() int {
	return len(b.periods)
}
