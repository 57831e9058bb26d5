package tempo

import (
	"errors"
	"fmt"
)

// Method selects the periodicity analysis strategy.
type Method int

const (
	// MethodCombFilter analyses periodicity with a bank of resonating
	// feedback comb filters, one per candidate beat period.
	MethodCombFilter Method = iota
	// MethodAutocorrelation analyses periodicity with the normalized
	// autocorrelation of the smoothed activation.
	MethodAutocorrelation
)

// String returns the method name as accepted by ParseMethod.
func (m Method) String() string {
	switch m {
	case MethodCombFilter:
		return "comb-filter"
	case MethodAutocorrelation:
		return "autocorrelation"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "comb-filter", "comb":
		return MethodCombFilter, nil
	case "autocorrelation", "acf":
		return MethodAutocorrelation, nil
	default:
		return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, s)
	}
}

// ErrInvalidConfig indicates an estimator configuration that fails
// validation. It is reported by New before any processing happens.
var ErrInvalidConfig = errors.New("tempo: invalid config")

const (
	defaultMinBPM       = 40.0
	defaultMaxBPM       = 250.0
	defaultActSmooth    = 0.14
	defaultHistSmooth   = 9
	defaultHistBuffer   = 10.0
	defaultAlpha        = 0.79
	defaultFrameRate    = 100.0
	defaultMaxEstimates = 2

	// DefaultFallbackBPM is reported (clamped into the configured BPM range,
	// with strength zero) when the activation carries no periodicity evidence
	// at all: empty input, all-zero input, or a massless histogram.
	DefaultFallbackBPM = 120.0
)

// Config holds estimator parameters. Construct one through New and options;
// the zero value is not valid.
type Config struct {
	Method       Method
	MinBPM       float64 // lower bound of the candidate tempo search
	MaxBPM       float64 // upper bound of the candidate tempo search
	ActSmooth    float64 // activation pre-smoothing window in seconds
	HistSmooth   int     // histogram smoothing window in buckets
	HistBuffer   float64 // comb evidence accumulation window in seconds
	Alpha        float64 // comb feedback decay factor in [0, 1]
	FrameRate    float64 // assumed frame rate for activations that carry none
	MaxEstimates int     // maximum number of ranked estimates returned
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		Method:       MethodCombFilter,
		MinBPM:       defaultMinBPM,
		MaxBPM:       defaultMaxBPM,
		ActSmooth:    defaultActSmooth,
		HistSmooth:   defaultHistSmooth,
		HistBuffer:   defaultHistBuffer,
		Alpha:        defaultAlpha,
		FrameRate:    defaultFrameRate,
		MaxEstimates: defaultMaxEstimates,
	}
}

// WithMethod selects the periodicity analysis strategy.
func WithMethod(m Method) Option {
	return func(cfg *Config) {
		cfg.Method = m
	}
}

// WithBPMRange sets the candidate tempo search bounds.
func WithBPMRange(minBPM, maxBPM float64) Option {
	return func(cfg *Config) {
		cfg.MinBPM = minBPM
		cfg.MaxBPM = maxBPM
	}
}

// WithActSmooth sets the activation pre-smoothing window in seconds.
// Zero disables pre-smoothing.
func WithActSmooth(seconds float64) Option {
	return func(cfg *Config) {
		cfg.ActSmooth = seconds
	}
}

// WithHistSmooth sets the histogram smoothing window in buckets.
// A window of one or less leaves the histogram unchanged.
func WithHistSmooth(buckets int) Option {
	return func(cfg *Config) {
		cfg.HistSmooth = buckets
	}
}

// WithHistBuffer sets the comb evidence accumulation window in seconds.
// Evidence is summed over the trailing window; signals shorter than the
// window are summed whole. Zero disables the window entirely.
func WithHistBuffer(seconds float64) Option {
	return func(cfg *Config) {
		cfg.HistBuffer = seconds
	}
}

// WithAlpha sets the comb feedback decay factor. Must lie in [0, 1].
func WithAlpha(alpha float64) Option {
	return func(cfg *Config) {
		cfg.Alpha = alpha
	}
}

// WithFrameRate sets the frame rate assumed for activations that do not
// carry their own.
func WithFrameRate(fps float64) Option {
	return func(cfg *Config) {
		cfg.FrameRate = fps
	}
}

// WithMaxEstimates sets how many ranked estimates Estimate returns at most.
func WithMaxEstimates(n int) Option {
	return func(cfg *Config) {
		cfg.MaxEstimates = n
	}
}

func (cfg Config) validate() error {
	if cfg.MinBPM <= 0 || cfg.MaxBPM <= 0 {
		return fmt.Errorf("%w: bpm bounds must be > 0, got [%f, %f]", ErrInvalidConfig, cfg.MinBPM, cfg.MaxBPM)
	}
	if cfg.MinBPM >= cfg.MaxBPM {
		return fmt.Errorf("%w: min bpm %f >= max bpm %f", ErrInvalidConfig, cfg.MinBPM, cfg.MaxBPM)
	}
	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		return fmt.Errorf("%w: alpha %f outside [0, 1]", ErrInvalidConfig, cfg.Alpha)
	}
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate %f must be > 0", ErrInvalidConfig, cfg.FrameRate)
	}
	if cfg.ActSmooth < 0 {
		return fmt.Errorf("%w: activation smoothing %f must be >= 0", ErrInvalidConfig, cfg.ActSmooth)
	}
	if cfg.HistBuffer < 0 {
		return fmt.Errorf("%w: histogram buffer %f must be >= 0", ErrInvalidConfig, cfg.HistBuffer)
	}
	if cfg.MaxEstimates < 1 {
		return fmt.Errorf("%w: max estimates %d must be >= 1", ErrInvalidConfig, cfg.MaxEstimates)
	}
	switch cfg.Method {
	case MethodCombFilter, MethodAutocorrelation:
	default:
		return fmt.Errorf("%w: unknown method %d", ErrInvalidConfig, int(cfg.Method))
	}
	return nil
}
