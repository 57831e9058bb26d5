package tempo

// combFilter is a resonating feedback comb at a fixed beat period:
//
//	y[t] = x[t] + alpha * y[t-period]
//
// The delay line is a period-sized ring buffer, so processing one frame is a
// single read-modify-write regardless of period length. A signal periodic at
// the filter's period keeps reinforcing its own echo and the output energy
// grows toward 1/(1-alpha) per beat; off-period signals do not accumulate.
type combFilter struct {
	alpha  float64
	buffer []float64
	index  int
}

func newCombFilter(period int, alpha float64) *combFilter {
	if period < 1 {
		period = 1
	}
	return &combFilter{
		alpha:  alpha,
		buffer: make([]float64, period),
	}
}

func (c *combFilter) process(input float64) float64 {
	out := input + c.alpha*c.buffer[c.index]
	c.buffer[c.index] = out
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return out
}

func (c *combFilter) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.index = 0
}

// windowedSum keeps a running sum of the most recent values. Capacity zero
// means an unbounded plain sum.
type windowedSum struct {
	ring  []float64
	index int
	sum   float64
}

func newWindowedSum(capacity int) *windowedSum {
	w := &windowedSum{}
	if capacity > 0 {
		w.ring = make([]float64, capacity)
	}
	return w
}

func (w *windowedSum) add(v float64) {
	if w.ring != nil {
		w.sum -= w.ring[w.index]
		w.ring[w.index] = v
		w.index++
		if w.index >= len(w.ring) {
			w.index = 0
		}
	}
	w.sum += v
}

// combEvidence runs one comb filter over the whole activation and returns
// the output energy summed over the trailing window (in frames). A window of
// zero, or one longer than the signal, sums the whole signal; short inputs
// therefore still produce best-effort evidence.
func combEvidence(x []float64, period int, alpha float64, window int) float64 {
	filter := newCombFilter(period, alpha)
	acc := newWindowedSum(window)
	for _, v := range x {
		y := filter.process(v)
		acc.add(y * y)
	}
	return acc.sum
}
