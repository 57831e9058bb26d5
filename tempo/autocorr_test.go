package tempo

import (
	"errors"
	"math"
	"testing"
)

func TestAutocorrelate_ZeroLagIsOne(t *testing.T) {
	x := impulseTrain(200, 10)

	acf, err := autocorrelate(x, 50)
	if err != nil {
		t.Fatalf("autocorrelate: %v", err)
	}
	if math.Abs(acf[0]-1) > 1e-9 {
		t.Errorf("acf[0] = %f, want 1", acf[0])
	}
}

func TestAutocorrelate_PeaksAtSignalPeriod(t *testing.T) {
	x := impulseTrain(400, 10)

	acf, err := autocorrelate(x, 50)
	if err != nil {
		t.Fatalf("autocorrelate: %v", err)
	}

	for _, offLag := range []int{3, 7, 13, 17} {
		if acf[10] <= acf[offLag] {
			t.Errorf("acf[10] = %f not above acf[%d] = %f", acf[10], offLag, acf[offLag])
		}
	}
	// Multiples of the period correlate too, but lose overlap with each
	// extra period.
	if acf[10] <= acf[20] || acf[20] <= acf[30] {
		t.Errorf("multiples not decreasing: acf[10]=%f acf[20]=%f acf[30]=%f",
			acf[10], acf[20], acf[30])
	}
}

func TestAutocorrelate_LagsBeyondSignalAreZero(t *testing.T) {
	x := []float64{1, 0.5, 0.25}

	acf, err := autocorrelate(x, 10)
	if err != nil {
		t.Fatalf("autocorrelate: %v", err)
	}
	if len(acf) != 11 {
		t.Fatalf("got %d lags, want 11", len(acf))
	}
	for lag := 3; lag <= 10; lag++ {
		if math.Abs(acf[lag]) > 1e-9 {
			t.Errorf("acf[%d] = %f, want 0", lag, acf[lag])
		}
	}
}

func TestAutocorrelate_EmptyInput(t *testing.T) {
	_, err := autocorrelate(nil, 10)
	if !errors.Is(err, ErrInvalidActivation) {
		t.Fatalf("got %v, want ErrInvalidActivation", err)
	}
}
