// Package review drives a spaced-repetition review sitting over a
// snapshot of due words.
package review

import (
	"fmt"
	"log"
	"time"

	"github.com/example/powerlang/internal/spaced_repetition"
	"github.com/example/powerlang/pkg/models"
)

// Store is the storage collaborator a session needs. The repository in
// internal/database satisfies it.
type Store interface {
	GetDueWords(today time.Time) ([]models.Word, error)
	UpdateSRS(wordID int64, easiness float64, interval int, nextReview time.Time) error
}

// State of the session with respect to the current word.
type State int

const (
	// AwaitingAnswer: the native word is shown, the answer is hidden.
	AwaitingAnswer State = iota
	// AwaitingGrade: the answer has been revealed, a grade is expected.
	AwaitingGrade
	// Complete: the working set is exhausted.
	Complete
)

// Session is one bounded review sitting. The due set is snapshotted at
// start; words becoming due mid-session are not added. Only per-word
// SRS updates are persisted, never the session itself.
type Session struct {
	store Store
	queue []models.Word
	pos   int
	state State
	today time.Time
}

// Start snapshots the due words for today and begins a session. The
// store returns them already shuffled.
func Start(store Store, today time.Time) (*Session, error) {
	due, err := store.GetDueWords(today)
	if err != nil {
		return nil, fmt.Errorf("failed to load due words: %w", err)
	}
	s := &Session{store: store, queue: due, today: today}
	if len(due) == 0 {
		s.state = Complete
	}
	return s, nil
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Remaining returns how many words are left, including the current one.
func (s *Session) Remaining() int {
	if s.state == Complete {
		return 0
	}
	return len(s.queue) - s.pos
}

// Current returns the word being reviewed. Valid until the session is
// Complete.
func (s *Session) Current() *models.Word {
	if s.state == Complete {
		return nil
	}
	return &s.queue[s.pos]
}

// Reveal transitions from AwaitingAnswer to AwaitingGrade.
func (s *Session) Reveal() error {
	if s.state != AwaitingAnswer {
		return fmt.Errorf("cannot reveal in state %d", s.state)
	}
	s.state = AwaitingGrade
	return nil
}

// Grade applies the scheduler to the current word, persists the result
// and advances to the next word. A persistence failure loses that one
// word's update for this sitting but never blocks the rest of the
// session.
func (s *Session) Grade(grade spaced_repetition.Grade) error {
	if s.state != AwaitingGrade {
		return fmt.Errorf("cannot grade in state %d", s.state)
	}

	word := &s.queue[s.pos]
	easiness, interval, due := spaced_repetition.ScheduleNext(word.Easiness, word.Interval, grade, s.today)
	if err := s.store.UpdateSRS(word.ID, easiness, interval, due); err != nil {
		log.Printf("Failed to save review of %q, skipping: %v", word.NativeWord, err)
	} else {
		word.Easiness = easiness
		word.Interval = interval
		word.NextReviewDate = due.Format(models.DateFormat)
	}

	s.pos++
	if s.pos >= len(s.queue) {
		s.state = Complete
	} else {
		s.state = AwaitingAnswer
	}
	return nil
}
