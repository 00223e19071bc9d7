package quiz

import (
	"math/rand"

	"github.com/example/powerlang/pkg/models"
)

// DefaultFlashcardSize is how many cards a flashcard session draws.
const DefaultFlashcardSize = 15

// Flashcards is a reveal-only pass over a random draw of words.
type Flashcards struct {
	cards []Question
	pos   int
}

// NewFlashcards builds a session over the given words, shuffled and
// capped at size; a size of zero or less means DefaultFlashcardSize.
// Direction is a coin flip per card.
func NewFlashcards(words []models.Word, size int, rnd *rand.Rand) *Flashcards {
	if size <= 0 {
		size = DefaultFlashcardSize
	}
	rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > size {
		words = words[:size]
	}

	f := &Flashcards{}
	for _, w := range words {
		f.cards = append(f.cards, makeQuestion(w, rnd))
	}
	return f
}

// Current returns the card being shown, or nil when the session is
// over.
func (f *Flashcards) Current() *Question {
	if f.pos >= len(f.cards) {
		return nil
	}
	return &f.cards[f.pos]
}

// Position returns the 1-based card number and the session total.
func (f *Flashcards) Position() (int, int) {
	return f.pos + 1, len(f.cards)
}

// Advance moves to the next card and reports whether one is available.
func (f *Flashcards) Advance() bool {
	f.pos++
	return f.pos < len(f.cards)
}
