package models

// DateFormat is the calendar-date layout used for next_review_date.
const DateFormat = "2006-01-02"

// Default SRS state for a freshly added word
const (
	DefaultEasiness = 2.5
	MinEasiness     = 1.3
	DefaultInterval = 1
)

// Word represents a learnable word pair inside a dictionary
type Word struct {
	ID           int64  `json:"id" db:"id"`
	NativeWord   string `json:"native_word" db:"native_word"`
	LearnedWord  string `json:"learned_word" db:"learned_word"`
	Notes        string `json:"notes" db:"notes"`
	DictionaryID int64  `json:"dictionary_id" db:"dictionary_id"`
	// SM-2 state. Easiness never drops below MinEasiness, Interval is a
	// day count >= 1, NextReviewDate is an ISO calendar date.
	Easiness       float64 `json:"easiness" db:"easiness"`
	Interval       int     `json:"interval" db:"interval"`
	NextReviewDate string  `json:"next_review_date" db:"next_review_date"`
}
