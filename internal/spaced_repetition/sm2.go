// Package spaced_repetition implements the SM-2 variant used for
// review scheduling.
package spaced_repetition

import (
	"fmt"
	"math"
	"time"
)

// Grade is the user's self-assessment of recall difficulty.
type Grade int

const (
	Forgot Grade = iota
	Hard
	Good
	Easy
)

// Score maps a grade to its SM-2 quality score.
func (g Grade) Score() int {
	switch g {
	case Forgot:
		return 0
	case Hard:
		return 3
	case Good:
		return 4
	case Easy:
		return 5
	}
	// Closed set; anything else is a programming error.
	panic(fmt.Sprintf("spaced_repetition: invalid grade %d", int(g)))
}

func (g Grade) String() string {
	switch g {
	case Forgot:
		return "Forgot"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	}
	panic(fmt.Sprintf("spaced_repetition: invalid grade %d", int(g)))
}

// MinEasiness is the absolute floor for the easiness factor.
const MinEasiness = 1.3

// ScheduleNext computes the next SRS state for a word after one review.
// It is pure: no I/O, no hidden state, same inputs always give the same
// outputs. The constants are the application's historical SM-2 variant
// and are kept as-is rather than normalized to the textbook formula.
//
// Forgot resets the interval to one day and leaves easiness untouched.
// For passing grades the easiness factor moves by
// 0.1 - (5-q)*(0.08 + (5-q)*0.02), floored at MinEasiness, and the
// interval grows by a grade-dependent multiplier: 1.2 for Hard, the
// new easiness for Good, and easiness*1.3 for Easy. An interval that
// rounds to zero clamps to one. The due date is today plus the new
// interval in days.
func ScheduleNext(easiness float64, interval int, grade Grade, today time.Time) (float64, int, time.Time) {
	quality := grade.Score()

	if quality < 3 {
		interval = 1
	} else {
		q := float64(quality)
		easiness = math.Max(MinEasiness, easiness+0.1-(5-q)*(0.08+(5-q)*0.02))
		switch quality {
		case 3:
			interval = int(math.Round(float64(interval) * 1.2))
		case 4:
			interval = int(math.Round(float64(interval) * easiness))
		case 5:
			interval = int(math.Round(float64(interval) * easiness * 1.3))
		}
		if interval == 0 {
			interval = 1
		}
	}

	return easiness, interval, today.AddDate(0, 0, interval)
}
