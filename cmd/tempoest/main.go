// Command tempoest estimates musical tempo from beat activation cache files.
//
// Usage:
//
//	tempoest [flags] single <input>
//	tempoest [flags] batch <input ...>
//
// Inputs are activation cache files as written by the pipeline package (or
// by tempoest -save). Single mode writes to -o or standard output; batch
// mode derives one output path per input from -o (directory) and -s
// (suffix), and one input's failure does not abort the rest.
//
// Examples:
//
//	tempoest single song.act
//	tempoest -format mirex -o song.bpm single song.act
//	tempoest -method autocorrelation -min-bpm 60 -max-bpm 180 batch *.act
//	tempoest -o results -s .txt -workers 4 batch *.act
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-tempo/pipeline"
	"github.com/cwbudde/algo-tempo/tempo"
	"github.com/cwbudde/algo-tempo/tempo/format"
)

func main() {
	var (
		output     = flag.String("o", "", "output file (single) or directory (batch); empty writes single-mode results to stdout")
		suffix     = flag.String("s", ".bpm.txt", "output suffix appended to input names in batch mode")
		method     = flag.String("method", "comb-filter", "periodicity analysis: comb-filter or autocorrelation")
		minBPM     = flag.Float64("min-bpm", 40, "lower bound of the tempo search")
		maxBPM     = flag.Float64("max-bpm", 250, "upper bound of the tempo search")
		actSmooth  = flag.Float64("act-smooth", 0.14, "activation smoothing window in seconds")
		histSmooth = flag.Int("hist-smooth", 9, "histogram smoothing window in buckets")
		histBuffer = flag.Float64("hist-buffer", 10, "comb evidence window in seconds")
		alpha      = flag.Float64("alpha", 0.79, "comb feedback decay factor in [0,1]")
		frameRate  = flag.Float64("frame-rate", 100, "frame rate assumed for caches without one")
		outFormat  = flag.String("format", "normal", "output format: normal, mirex or raw")
		workers    = flag.Int("workers", 0, "concurrent items in batch mode (0 = number of CPUs)")
		save       = flag.Bool("save", false, "copy activations to the output instead of estimating")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(2)
	}
	mode, inputs := flag.Arg(0), flag.Args()[1:]

	parsedMethod, err := tempo.ParseMethod(*method)
	if err != nil {
		fatal(err)
	}
	parsedFormat, err := format.ParseMode(*outFormat)
	if err != nil {
		fatal(err)
	}

	est, err := tempo.New(
		tempo.WithMethod(parsedMethod),
		tempo.WithBPMRange(*minBPM, *maxBPM),
		tempo.WithActSmooth(*actSmooth),
		tempo.WithHistSmooth(*histSmooth),
		tempo.WithHistBuffer(*histBuffer),
		tempo.WithAlpha(*alpha),
		tempo.WithFrameRate(*frameRate),
	)
	if err != nil {
		fatal(err)
	}

	var sinks []pipeline.Sink
	if *save {
		sinks = append(sinks, pipeline.CacheSink{})
	} else {
		sinks = append(sinks, &pipeline.EstimateSink{Estimator: est, Mode: parsedFormat})
	}

	opts := []pipeline.RunnerOption{pipeline.WithSuffix(*suffix)}
	if *workers > 0 {
		opts = append(opts, pipeline.WithWorkers(*workers))
	}
	if mode == "batch" && *output != "" {
		opts = append(opts, pipeline.WithOutputDir(*output))
	}

	runner, err := pipeline.NewRunner(pipeline.CacheSource{}, sinks, opts...)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	switch mode {
	case "single":
		if len(inputs) != 1 {
			fatal(fmt.Errorf("single mode takes exactly one input, got %d", len(inputs)))
		}
		if err := runner.Single(ctx, inputs[0], *output); err != nil {
			fatal(err)
		}
	case "batch":
		failed := 0
		for _, res := range runner.Batch(ctx, inputs) {
			if res.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			fatal(fmt.Errorf("%d of %d items failed", failed, len(inputs)))
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tempoest [flags] single <input>\n")
	fmt.Fprintf(os.Stderr, "       tempoest [flags] batch <input ...>\n\nflags:\n")
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "tempoest:", err)
	os.Exit(1)
}
