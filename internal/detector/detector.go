// Package detector decides whether a typing submission came from an
// unassisted human. Every check is a pure function of the submission and
// the server-measured elapsed time.
package detector

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	models "github.com/CodeAndHammer/typeproof/internal/models"
)

const (
	MaxCharsPerSecond = 18.0
	MinIntervals      = 5
	MinVariance       = 5.0
)

var ErrInvalidKeystrokes = errors.New("invalid keystroke data")

// Result carries the verdict plus the figure that tripped it, for logging.
type Result struct {
	Verdict        models.Verdict
	CharsPerSecond float64
	Variance       float64
	Intervals      int
}

// Evaluate runs the throughput check and then the regularity check; the
// first one that trips decides the verdict.
func Evaluate(typedText string, keystrokes []int64, elapsed time.Duration) Result {
	res := Result{Verdict: models.CleanVerdict()}

	res.CharsPerSecond = CharsPerSecond(typedText, elapsed)
	if res.CharsPerSecond > MaxCharsPerSecond {
		res.Verdict = models.SuspiciousVerdict(constants.ReasonSpeed)
		return res
	}

	intervals := Intervals(keystrokes)
	res.Intervals = len(intervals)
	if len(intervals) > MinIntervals {
		_, res.Variance = MeanVariance(intervals)
		if res.Variance < MinVariance {
			res.Verdict = models.SuspiciousVerdict(constants.ReasonRobotic)
			return res
		}
	}

	return res
}

// CharsPerSecond divides by at least one second so an instant submission
// is still measured.
func CharsPerSecond(typedText string, elapsed time.Duration) float64 {
	seconds := max(elapsed.Seconds(), 1)
	return float64(utf8.RuneCountInString(typedText)) / seconds
}

func Intervals(keystrokes []int64) []float64 {
	if len(keystrokes) < 2 {
		return nil
	}
	return lo.Map(keystrokes[1:], func(ts int64, i int) float64 {
		return float64(ts - keystrokes[i])
	})
}

// MeanVariance returns the population mean and variance.
func MeanVariance(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := lo.Mean(values)
	sq := lo.SumBy(values, func(v float64) float64 {
		d := v - mean
		return d * d
	})
	return mean, sq / float64(len(values))
}

// ValidateKeystrokes rejects data no browser could have produced. Short or
// empty sequences are valid; the regularity check just skips them.
func ValidateKeystrokes(keystrokes []int64) error {
	if len(keystrokes) > constants.MaxKeystrokes {
		return fmt.Errorf("%w: %d timestamps exceeds limit of %d", ErrInvalidKeystrokes, len(keystrokes), constants.MaxKeystrokes)
	}
	for i, ts := range keystrokes {
		if ts < 0 {
			return fmt.Errorf("%w: negative timestamp at index %d", ErrInvalidKeystrokes, i)
		}
		if i > 0 && ts < keystrokes[i-1] {
			return fmt.Errorf("%w: timestamp at index %d goes backwards", ErrInvalidKeystrokes, i)
		}
	}
	return nil
}
