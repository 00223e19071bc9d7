// Package quiz implements the practice quiz and flashcard sessions.
package quiz

import (
	"math/rand"
	"strings"

	"github.com/example/powerlang/pkg/models"
)

// DefaultQuizSize is how many words a practice quiz draws.
const DefaultQuizSize = 20

// Phase of a quiz session.
type Phase int

const (
	// PhaseQuiz is the initial pass over the drawn words.
	PhaseQuiz Phase = iota
	// PhaseRetry re-asks the words missed during the initial pass.
	PhaseRetry
	// PhaseDone is terminal.
	PhaseDone
)

// Question is one prompt shown to the user. PromptIsNative tells the
// caller which language to use for speech.
type Question struct {
	Prompt         string
	Answer         string
	PromptIsNative bool
}

// Quiz is a two-phase practice session: every word once, then one
// retry pass over the misses. Question direction is a coin flip per
// word.
type Quiz struct {
	rnd       *rand.Rand
	questions []Question
	incorrect []Question
	phase     Phase
	pos       int
}

// New builds a quiz over the given words. The slice is shuffled and
// capped at size; a size of zero or less means DefaultQuizSize.
func New(words []models.Word, size int, rnd *rand.Rand) *Quiz {
	if size <= 0 {
		size = DefaultQuizSize
	}
	rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > size {
		words = words[:size]
	}

	q := &Quiz{rnd: rnd}
	for _, w := range words {
		q.questions = append(q.questions, makeQuestion(w, rnd))
	}
	if len(q.questions) == 0 {
		q.phase = PhaseDone
	}
	return q
}

func makeQuestion(w models.Word, rnd *rand.Rand) Question {
	if rnd.Intn(2) == 0 {
		return Question{Prompt: w.NativeWord, Answer: w.LearnedWord, PromptIsNative: true}
	}
	return Question{Prompt: w.LearnedWord, Answer: w.NativeWord, PromptIsNative: false}
}

// Phase returns the current phase.
func (q *Quiz) Phase() Phase {
	return q.phase
}

// Current returns the question being asked, or nil when the session is
// over.
func (q *Quiz) Current() *Question {
	switch q.phase {
	case PhaseQuiz:
		return &q.questions[q.pos]
	case PhaseRetry:
		return &q.incorrect[q.pos]
	}
	return nil
}

// Position returns the 1-based question number and the total for the
// current phase.
func (q *Quiz) Position() (int, int) {
	switch q.phase {
	case PhaseQuiz:
		return q.pos + 1, len(q.questions)
	case PhaseRetry:
		return q.pos + 1, len(q.incorrect)
	}
	return 0, 0
}

// MissedCount returns how many words were missed in the initial pass.
func (q *Quiz) MissedCount() int {
	return len(q.incorrect)
}

// Submit checks the answer against the current question and advances
// the session. Comparison ignores case and surrounding whitespace.
// Misses during the initial pass are queued for the retry phase.
func (q *Quiz) Submit(answer string) bool {
	current := q.Current()
	if current == nil {
		return false
	}

	correct := strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(current.Answer))
	if !correct && q.phase == PhaseQuiz {
		q.incorrect = append(q.incorrect, *current)
	}

	q.pos++
	switch q.phase {
	case PhaseQuiz:
		if q.pos >= len(q.questions) {
			if len(q.incorrect) == 0 {
				q.phase = PhaseDone
			} else {
				q.phase = PhaseRetry
			}
			q.pos = 0
		}
	case PhaseRetry:
		if q.pos >= len(q.incorrect) {
			q.phase = PhaseDone
			q.pos = 0
		}
	}

	return correct
}
