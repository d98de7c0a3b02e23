// Package scoring computes the authoritative result of a typing exercise.
//
// Characters are Unicode code points. Rounding is math.Round (half away from
// zero); every input is non-negative, so halves always round up.
package scoring

import (
	"math"
	"time"

	models "github.com/CodeAndHammer/typeproof/internal/models"
)

const (
	DateLayout   = "2006-01-02 15:04:05"
	CharsPerWord = 5.0
	// MinElapsed keeps wpm finite for instant submissions. It matches the
	// floor the detector applies to throughput.
	MinElapsed = time.Second
)

func Score(playerName, targetText, typedText string, elapsed time.Duration, at time.Time) models.ScoreRecord {
	typed := []rune(typedText)
	correct := CorrectChars(targetText, typedText)
	accuracy := Accuracy(correct, len(typed))
	wpm := WPM(correct, elapsed)
	return models.ScoreRecord{
		Name:         playerName,
		Score:        FinalScore(wpm, accuracy),
		WPM:          wpm,
		Accuracy:     accuracy,
		CorrectChars: correct,
		Date:         at.UTC().Format(DateLayout),
	}
}

// CorrectChars counts strict positional matches over the common prefix
// length of both strings.
func CorrectChars(targetText, typedText string) int {
	target := []rune(targetText)
	typed := []rune(typedText)
	n := min(len(target), len(typed))
	correct := 0
	for i := 0; i < n; i++ {
		if target[i] == typed[i] {
			correct++
		}
	}
	return correct
}

func Accuracy(correct, typedLen int) int {
	if typedLen <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(typedLen) * 100))
}

func WPM(correct int, elapsed time.Duration) int {
	minutes := max(elapsed, MinElapsed).Minutes()
	return int(math.Round((float64(correct) / CharsPerWord) / minutes))
}

func FinalScore(wpm, accuracy int) int {
	return int(math.Round(float64(wpm) * (float64(accuracy) / 100) * 10))
}
