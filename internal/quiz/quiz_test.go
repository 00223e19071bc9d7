package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/powerlang/pkg/models"
)

func sampleWords(n int) []models.Word {
	words := make([]models.Word, n)
	for i := range words {
		words[i] = models.Word{
			ID:          int64(i + 1),
			NativeWord:  "native" + string(rune('a'+i)),
			LearnedWord: "learned" + string(rune('a'+i)),
		}
	}
	return words
}

func TestQuizEmptyIsDone(t *testing.T) {
	q := New(nil, 0, rand.New(rand.NewSource(1)))
	assert.Equal(t, PhaseDone, q.Phase())
	assert.Nil(t, q.Current())
}

func TestQuizCapsAtDefaultSize(t *testing.T) {
	q := New(sampleWords(50), 0, rand.New(rand.NewSource(1)))
	_, total := q.Position()
	assert.Equal(t, DefaultQuizSize, total)
}

func TestQuizHonorsRequestedSize(t *testing.T) {
	q := New(sampleWords(30), 30, rand.New(rand.NewSource(1)))
	_, total := q.Position()
	assert.Equal(t, 30, total)

	small := New(sampleWords(30), 5, rand.New(rand.NewSource(1)))
	_, total = small.Position()
	assert.Equal(t, 5, total)
}

func TestQuizAllCorrectSkipsRetry(t *testing.T) {
	q := New(sampleWords(5), 0, rand.New(rand.NewSource(7)))
	for q.Phase() == PhaseQuiz {
		ok := q.Submit(q.Current().Answer)
		assert.True(t, ok)
	}
	assert.Equal(t, PhaseDone, q.Phase())
	assert.Equal(t, 0, q.MissedCount())
}

func TestQuizAnswerComparisonIsForgiving(t *testing.T) {
	words := []models.Word{{ID: 1, NativeWord: "House", LearnedWord: "Hus"}}
	q := New(words, 0, rand.New(rand.NewSource(3)))
	answer := "  " + q.Current().Answer + "  "
	assert.True(t, q.Submit(answer))
}

func TestQuizMissedWordsGetRetried(t *testing.T) {
	q := New(sampleWords(4), 0, rand.New(rand.NewSource(11)))

	var missed []string
	for i := 0; q.Phase() == PhaseQuiz; i++ {
		if i%2 == 0 {
			missed = append(missed, q.Current().Prompt)
			assert.False(t, q.Submit("wrong"))
		} else {
			assert.True(t, q.Submit(q.Current().Answer))
		}
	}

	require.Equal(t, PhaseRetry, q.Phase())
	require.Equal(t, len(missed), q.MissedCount())

	var retried []string
	for q.Phase() == PhaseRetry {
		retried = append(retried, q.Current().Prompt)
		// A second miss must not loop forever.
		q.Submit("wrong again")
	}
	assert.Equal(t, PhaseDone, q.Phase())
	assert.Equal(t, missed, retried)
	assert.Nil(t, q.Current())
}

func TestQuizQuestionDirectionIsConsistent(t *testing.T) {
	words := sampleWords(10)
	q := New(append([]models.Word{}, words...), 0, rand.New(rand.NewSource(5)))

	byNative := map[string]string{}
	byLearned := map[string]string{}
	for _, w := range words {
		byNative[w.NativeWord] = w.LearnedWord
		byLearned[w.LearnedWord] = w.NativeWord
	}

	for q.Phase() == PhaseQuiz {
		cur := q.Current()
		if cur.PromptIsNative {
			assert.Equal(t, byNative[cur.Prompt], cur.Answer)
		} else {
			assert.Equal(t, byLearned[cur.Prompt], cur.Answer)
		}
		q.Submit(cur.Answer)
	}
}

func TestFlashcardsWalkAndCap(t *testing.T) {
	f := NewFlashcards(sampleWords(40), 0, rand.New(rand.NewSource(2)))
	_, total := f.Position()
	require.Equal(t, DefaultFlashcardSize, total)

	seen := 0
	for f.Current() != nil {
		seen++
		f.Advance()
	}
	assert.Equal(t, DefaultFlashcardSize, seen)
}

func TestFlashcardsHonorRequestedSize(t *testing.T) {
	f := NewFlashcards(sampleWords(25), 25, rand.New(rand.NewSource(2)))
	_, total := f.Position()
	assert.Equal(t, 25, total)
}

func TestFlashcardsEmpty(t *testing.T) {
	f := NewFlashcards(nil, 0, rand.New(rand.NewSource(2)))
	assert.Nil(t, f.Current())
	assert.False(t, f.Advance())
}
