package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/algo-tempo/tempo"
	"github.com/cwbudde/algo-tempo/tempo/format"
)

// ErrNoOutput indicates a sink that needs an output path was given none.
var ErrNoOutput = errors.New("pipeline: item has no output path")

// Sink consumes the activation produced for one item.
type Sink interface {
	Process(ctx context.Context, item Item, act tempo.Activation) error
}

// EstimateSink runs tempo estimation on the activation and writes the
// formatted result to the item's output path, or to standard output when
// the item has none.
type EstimateSink struct {
	Estimator *tempo.Estimator
	Mode      format.Mode
}

// Process estimates and writes. Estimation itself runs to completion once
// started; the context is honoured before the work begins.
func (s *EstimateSink) Process(ctx context.Context, item Item, act tempo.Activation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	estimates, err := s.Estimator.Estimate(act)
	if err != nil {
		return fmt.Errorf("pipeline: estimate %s: %w", item.Input, err)
	}

	if item.Output == "" || item.Output == "-" {
		return format.Format(os.Stdout, estimates, s.Mode)
	}

	f, err := os.Create(item.Output)
	if err != nil {
		return fmt.Errorf("pipeline: create output %s: %w", item.Output, err)
	}

	w := bufio.NewWriter(f)
	if err := format.Format(w, estimates, s.Mode); err != nil {
		f.Close()
		return fmt.Errorf("pipeline: format %s: %w", item.Output, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("pipeline: write output %s: %w", item.Output, err)
	}
	return f.Close()
}

// CacheSink persists the activation to the item's output path instead of
// estimating, so later runs can skip recomputation.
type CacheSink struct{}

// Process writes the activation cache file.
func (CacheSink) Process(ctx context.Context, item Item, act tempo.Activation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item.Output == "" {
		return ErrNoOutput
	}
	return SaveActivation(item.Output, act)
}
