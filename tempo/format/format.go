package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-tempo/tempo"
)

// Mode selects an output encoding.
type Mode int

const (
	// ModeNormal writes one line per estimate, "<bpm> <strength>",
	// in descending-strength order as ranked by the estimator.
	ModeNormal Mode = iota
	// ModeMIREX writes a single line "<slower_bpm> <faster_bpm> <strength>"
	// where strength is the relative strength of the slower tempo.
	ModeMIREX
	// ModeRaw writes every estimate as "<bpm> <strength>" in estimator
	// order, without any reordering or rounding policy.
	ModeRaw
)

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMIREX:
		return "mirex"
	case ModeRaw:
		return "raw"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode. "all" is accepted as an alias
// for raw.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "normal", "":
		return ModeNormal, nil
	case "mirex":
		return ModeMIREX, nil
	case "raw", "all":
		return ModeRaw, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

var (
	// ErrUnknownMode indicates an unrecognized output mode name.
	ErrUnknownMode = errors.New("format: unknown mode")
	// ErrNoEstimates indicates an empty estimate list, which no encoding
	// can represent.
	ErrNoEstimates = errors.New("format: no estimates")
)

// Format writes the estimates to w in the given encoding.
func Format(w io.Writer, estimates []tempo.Estimate, mode Mode) error {
	if len(estimates) == 0 {
		return ErrNoEstimates
	}

	switch mode {
	case ModeNormal:
		for _, e := range estimates {
			if _, err := fmt.Fprintf(w, "%.2f\t%.2f\n", e.BPM, e.Strength); err != nil {
				return err
			}
		}
		return nil
	case ModeMIREX:
		return formatMIREX(w, estimates)
	case ModeRaw:
		for _, e := range estimates {
			if _, err := fmt.Fprintf(w, "%f\t%f\n", e.BPM, e.Strength); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
}

// formatMIREX writes the two strongest estimates with the slower tempo
// first, regardless of strength ranking, followed by the relative strength
// of the slower one.
//
// A single-estimate input duplicates its tempo as both values with relative
// strength one; this keeps the encoding total instead of failing on sparse
// estimator output. When both strengths are zero the relative strength is
// reported as 0.5, as neither hypothesis carries evidence.
func formatMIREX(w io.Writer, estimates []tempo.Estimate) error {
	if len(estimates) == 1 {
		e := estimates[0]
		_, err := fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\n", e.BPM, e.BPM, 1.0)
		return err
	}

	slow, fast := estimates[0], estimates[1]
	if fast.BPM < slow.BPM {
		slow, fast = fast, slow
	}

	relative := 0.5
	if total := slow.Strength + fast.Strength; total > 0 {
		relative = slow.Strength / total
	}

	_, err := fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\n", slow.BPM, fast.BPM, relative)
	return err
}
