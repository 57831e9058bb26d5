package tempo

import (
	"math"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// Estimate is one ranked tempo hypothesis. Strength is the hypothesis' share
// of the total periodicity evidence, in [0, 1]; the strengths of one
// estimation run sum to at most one. It expresses estimator confidence, not
// a probability distribution.
type Estimate struct {
	BPM      float64
	Strength float64
}

// Estimator turns a beat activation function into a ranked list of tempo
// hypotheses. It is stateless between calls and safe for concurrent use; the
// configuration is read-only after New.
type Estimator struct {
	cfg Config
}

// New creates an Estimator, validating the configuration before any
// processing happens.
func New(opts ...Option) (*Estimator, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Estimator{cfg: cfg}, nil
}

// Config returns the estimator configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Estimate analyses the activation and returns tempo hypotheses sorted by
// descending strength, at most MaxEstimates of them, all within the
// configured BPM range.
//
// Degenerate input never fails: an empty or all-zero activation, or one that
// yields a massless histogram, returns the single fallback estimate at
// [DefaultFallbackBPM] (clamped into the BPM range) with strength zero.
// The estimation is fully deterministic for a given activation and
// configuration.
func (e *Estimator) Estimate(act Activation) ([]Estimate, error) {
	fps := act.FrameRate
	if fps <= 0 {
		fps = e.cfg.FrameRate
	}

	candidates := newBank(e.cfg.MinBPM, e.cfg.MaxBPM, fps)
	if candidates.len() == 0 || act.Len() == 0 || vecmath.MaxAbs(act.Data) == 0 {
		return e.fallback(), nil
	}

	window := int(math.Round(e.cfg.ActSmooth * fps))
	smoothed := movingAverage(act.Data, window)

	hist := NewHistogram(candidates.bpms)
	switch e.cfg.Method {
	case MethodAutocorrelation:
		if err := e.accumulateAutocorr(hist, candidates, smoothed); err != nil {
			return nil, err
		}
	default:
		e.accumulateComb(hist, candidates, smoothed, fps)
	}

	final := hist.Smoothed(e.cfg.HistSmooth)
	peaks := final.Peaks(final.Len())
	if len(peaks) == 0 {
		return e.fallback(), nil
	}

	// Normalize over the full peak set before truncating, so the retained
	// strengths sum to at most one and express each hypothesis' share of
	// the total periodicity evidence.
	var total float64
	for _, p := range peaks {
		total += p.Strength
	}
	normalizeStrengths(peaks, total)
	if len(peaks) > e.cfg.MaxEstimates {
		peaks = peaks[:e.cfg.MaxEstimates]
	}
	return peaks, nil
}

// accumulateAutocorr adds the normalized autocorrelation at each candidate
// lag to the histogram. The full ACF is computed once via FFT and sampled
// per candidate.
func (e *Estimator) accumulateAutocorr(hist *Histogram, candidates bank, x []float64) error {
	maxLag := candidates.periods[candidates.len()-1]
	acf, err := autocorrelate(x, maxLag)
	if err != nil {
		return err
	}
	for i, period := range candidates.periods {
		hist.Add(i, acf[period])
	}
	return nil
}

// accumulateComb adds the windowed comb resonance energy of each candidate
// to the histogram. Candidates are independent, so the filter runs fan out
// across GOMAXPROCS goroutines; each candidate owns its filter state and its
// evidence slot, merged into the histogram afterwards in candidate order to
// keep the result deterministic.
func (e *Estimator) accumulateComb(hist *Histogram, candidates bank, x []float64, fps float64) {
	window := int(math.Round(e.cfg.HistBuffer * fps))
	evidence := make([]float64, candidates.len())

	workers := runtime.GOMAXPROCS(0)
	if workers > candidates.len() {
		workers = candidates.len()
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < candidates.len(); i += workers {
				evidence[i] = combEvidence(x, candidates.periods[i], e.cfg.Alpha, window)
			}
		}(w)
	}
	wg.Wait()

	for i, v := range evidence {
		hist.Add(i, v)
	}
}

// fallback is the deterministic result for degenerate input.
func (e *Estimator) fallback() []Estimate {
	bpm := DefaultFallbackBPM
	if bpm < e.cfg.MinBPM {
		bpm = e.cfg.MinBPM
	}
	if bpm > e.cfg.MaxBPM {
		bpm = e.cfg.MaxBPM
	}
	return []Estimate{{BPM: bpm, Strength: 0}}
}
