package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Item is one unit of work flowing through the pipeline: a named input and
// the output path its results go to. An empty output means standard output.
type Item struct {
	Input  string
	Output string
}

// ItemResult records the outcome of one item. Items succeed or fail
// independently of each other.
type ItemResult struct {
	Item Item
	Err  error
}

var (
	// ErrNoSource indicates a Runner constructed without a source stage.
	ErrNoSource = errors.New("pipeline: no source")
	// ErrNoSinks indicates a Runner constructed without any output stage.
	ErrNoSinks = errors.New("pipeline: no sinks")
)

const defaultSuffix = ".bpm.txt"

type runnerConfig struct {
	workers     int
	itemTimeout time.Duration
	outputDir   string
	suffix      string
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		workers: runtime.GOMAXPROCS(0),
		suffix:  defaultSuffix,
	}
}

// RunnerOption mutates a runnerConfig.
type RunnerOption func(*runnerConfig)

// WithWorkers bounds the number of items processed concurrently in Batch.
func WithWorkers(n int) RunnerOption {
	return func(cfg *runnerConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithItemTimeout bounds the wall-clock time one item may take. The timeout
// covers the source stage and is checked between stages; a pathological
// item times out without stalling the rest of the batch.
func WithItemTimeout(d time.Duration) RunnerOption {
	return func(cfg *runnerConfig) {
		if d > 0 {
			cfg.itemTimeout = d
		}
	}
}

// WithOutputDir redirects derived batch output paths into dir, keeping the
// input's base name.
func WithOutputDir(dir string) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.outputDir = dir
	}
}

// WithSuffix sets the suffix appended to input names when deriving batch
// output paths. Defaults to ".bpm.txt".
func WithSuffix(s string) RunnerOption {
	return func(cfg *runnerConfig) {
		if s != "" {
			cfg.suffix = s
		}
	}
}

// Runner composes one source stage with one or more sinks and applies the
// composition per item, either once (Single) or over a collection (Batch).
// Orchestration lives here; the estimation algorithm stays a pure function
// of its inputs in the tempo package.
type Runner struct {
	source Source
	sinks  []Sink
	cfg    runnerConfig
}

// NewRunner creates a Runner. Both a source and at least one sink are
// required.
func NewRunner(source Source, sinks []Sink, opts ...RunnerOption) (*Runner, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	if len(sinks) == 0 {
		return nil, ErrNoSinks
	}

	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Runner{source: source, sinks: sinks, cfg: cfg}, nil
}

// Single runs the pipeline once on one named input, writing to the named
// output (empty for standard output).
func (r *Runner) Single(ctx context.Context, input, output string) error {
	return r.runItem(ctx, Item{Input: input, Output: output})
}

// Batch runs the pipeline independently over the inputs on a bounded worker
// pool. Every input gets a result; a failed item is logged and recorded but
// does not abort the remaining items. The result order matches the input
// order.
func (r *Runner) Batch(ctx context.Context, inputs []string) []ItemResult {
	results := make([]ItemResult, len(inputs))

	var g errgroup.Group
	g.SetLimit(r.cfg.workers)
	for i, input := range inputs {
		item := Item{Input: input, Output: r.OutputPath(input)}
		results[i] = ItemResult{Item: item}
		g.Go(func() error {
			if err := r.runItem(ctx, item); err != nil {
				Logf("pipeline: item %s failed: %v", item.Input, err)
				results[i].Err = err
			}
			return nil
		})
	}
	g.Wait()

	return results
}

// OutputPath derives the batch output path for an input name: the input
// plus the configured suffix, relocated into the output directory when one
// is set.
func (r *Runner) OutputPath(input string) string {
	out := input + r.cfg.suffix
	if r.cfg.outputDir != "" {
		out = filepath.Join(r.cfg.outputDir, filepath.Base(out))
	}
	return out
}

func (r *Runner) runItem(ctx context.Context, item Item) error {
	if r.cfg.itemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.itemTimeout)
		defer cancel()
	}

	act, err := r.source.Activation(ctx, item.Input)
	if err != nil {
		return fmt.Errorf("pipeline: source %s: %w", item.Input, err)
	}

	for _, sink := range r.sinks {
		if err := sink.Process(ctx, item, act); err != nil {
			return err
		}
	}
	return nil
}
