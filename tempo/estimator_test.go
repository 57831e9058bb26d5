package tempo

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func mustActivation(t *testing.T, data []float64, fps float64) Activation {
	t.Helper()
	act, err := NewActivation(data, fps)
	if err != nil {
		t.Fatalf("NewActivation: %v", err)
	}
	return act
}

func TestEstimate_ImpulseTrain(t *testing.T) {
	// 2000 frames at 100 fps with a beat every 50 frames is 120 BPM.
	const (
		frames = 2000
		period = 50
		fps    = 100.0
		want   = 60 * fps / period
	)

	for _, method := range []Method{MethodCombFilter, MethodAutocorrelation} {
		t.Run(method.String(), func(t *testing.T) {
			est, err := New(WithMethod(method))
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			act := mustActivation(t, impulseTrain(frames, period), fps)
			estimates, err := est.Estimate(act)
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}
			if len(estimates) == 0 {
				t.Fatal("no estimates")
			}

			if math.Abs(estimates[0].BPM-want) > 0.5 {
				t.Errorf("top estimate %.2f BPM, want %.2f", estimates[0].BPM, want)
			}
			if estimates[0].Strength <= 0 || estimates[0].Strength > 1 {
				t.Errorf("top strength %f outside (0, 1]", estimates[0].Strength)
			}
		})
	}
}

func TestEstimate_StrengthsSortedAndBounded(t *testing.T) {
	est, err := New(WithMaxEstimates(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	act := mustActivation(t, impulseTrain(2000, 50), 100)
	estimates, err := est.Estimate(act)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	var sum float64
	for i, e := range estimates {
		if e.BPM < est.Config().MinBPM || e.BPM > est.Config().MaxBPM {
			t.Errorf("estimate %d: %.2f BPM outside configured range", i, e.BPM)
		}
		if i > 0 && e.Strength > estimates[i-1].Strength {
			t.Errorf("strengths not descending at %d", i)
		}
		sum += e.Strength
	}
	if sum > 1+1e-9 {
		t.Errorf("strengths sum to %f, want <= 1", sum)
	}
}

func TestEstimate_EmptyInputFallsBack(t *testing.T) {
	est, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	estimates, err := est.Estimate(Activation{FrameRate: 100})
	if err != nil {
		t.Fatalf("Estimate on empty input: %v", err)
	}

	want := []Estimate{{BPM: DefaultFallbackBPM, Strength: 0}}
	if !reflect.DeepEqual(estimates, want) {
		t.Errorf("got %v, want %v", estimates, want)
	}
}

func TestEstimate_AllZeroInputFallsBack(t *testing.T) {
	est, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	act := mustActivation(t, make([]float64, 1000), 100)
	estimates, err := est.Estimate(act)
	if err != nil {
		t.Fatalf("Estimate on all-zero input: %v", err)
	}
	if len(estimates) != 1 || estimates[0].Strength != 0 {
		t.Fatalf("got %v, want single zero-strength fallback", estimates)
	}
}

func TestEstimate_FallbackClampedIntoRange(t *testing.T) {
	est, err := New(WithBPMRange(130, 200))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	estimates, err := est.Estimate(Activation{FrameRate: 100})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimates[0].BPM != 130 {
		t.Errorf("fallback BPM %f, want clamped to 130", estimates[0].BPM)
	}
}

func TestEstimate_ShortSignalBestEffort(t *testing.T) {
	// Much shorter than the default ten-second evidence window.
	est, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	act := mustActivation(t, impulseTrain(120, 50), 100)
	estimates, err := est.Estimate(act)
	if err != nil {
		t.Fatalf("Estimate on short signal: %v", err)
	}
	if len(estimates) == 0 {
		t.Fatal("no estimates for short signal")
	}
}

func TestEstimate_UsesConfigFrameRateWhenUnknown(t *testing.T) {
	est, err := New(WithFrameRate(100))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	act := Activation{Data: impulseTrain(2000, 50)}
	estimates, err := est.Estimate(act)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if math.Abs(estimates[0].BPM-120) > 0.5 {
		t.Errorf("top estimate %.2f BPM, want 120 from configured frame rate", estimates[0].BPM)
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	data := impulseTrain(3000, 50)
	// Deterministic clutter so the histogram has competing mass.
	for i := range data {
		data[i] += 0.05 * float64(i%13) / 13
	}

	for _, method := range []Method{MethodCombFilter, MethodAutocorrelation} {
		t.Run(method.String(), func(t *testing.T) {
			est, err := New(WithMethod(method), WithMaxEstimates(5))
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			act := mustActivation(t, data, 100)
			first, err := est.Estimate(act)
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}
			second, err := est.Estimate(act)
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}

			if !reflect.DeepEqual(first, second) {
				t.Errorf("runs differ:\n first: %v\nsecond: %v", first, second)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"min above max", []Option{WithBPMRange(200, 100)}},
		{"min equals max", []Option{WithBPMRange(120, 120)}},
		{"zero min", []Option{WithBPMRange(0, 100)}},
		{"alpha below zero", []Option{WithAlpha(-0.1)}},
		{"alpha above one", []Option{WithAlpha(1.1)}},
		{"zero frame rate", []Option{WithFrameRate(0)}},
		{"negative act smooth", []Option{WithActSmooth(-1)}},
		{"negative hist buffer", []Option{WithHistBuffer(-1)}},
		{"zero max estimates", []Option{WithMaxEstimates(0)}},
		{"unknown method", []Option{WithMethod(Method(99))}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts...); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"comb-filter", MethodCombFilter, false},
		{"comb", MethodCombFilter, false},
		{"autocorrelation", MethodAutocorrelation, false},
		{"acf", MethodAutocorrelation, false},
		{"fourier", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseMethod(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseMethod(%q): got %v, want ErrInvalidConfig", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseMethod(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestNewBank_LabelsWithinRange(t *testing.T) {
	b := newBank(40, 250, 100)
	if b.len() == 0 {
		t.Fatal("empty bank for default range")
	}

	for i, bpm := range b.bpms {
		if bpm < 40-1e-9 || bpm > 250+1e-9 {
			t.Errorf("candidate %d: %.3f BPM outside [40, 250]", i, bpm)
		}
	}
	for i := 1; i < b.len(); i++ {
		if b.periods[i] != b.periods[i-1]+1 {
			t.Errorf("periods not consecutive at %d", i)
		}
	}
}

func TestNewBank_EmptyForBarrenRange(t *testing.T) {
	// No integer period maps into (201, 203) BPM at 100 fps.
	if b := newBank(201, 203, 100); b.len() != 0 {
		t.Errorf("got %d candidates, want 0", b.len())
	}
}
