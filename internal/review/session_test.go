package review

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/powerlang/internal/spaced_repetition"
	"github.com/example/powerlang/pkg/models"
)

type fakeStore struct {
	due      []models.Word
	updates  map[int64][3]interface{}
	failIDs  map[int64]bool
	getErr   error
	getCalls int
}

func newFakeStore(due ...models.Word) *fakeStore {
	return &fakeStore{
		due:     due,
		updates: map[int64][3]interface{}{},
		failIDs: map[int64]bool{},
	}
}

func (f *fakeStore) GetDueWords(today time.Time) ([]models.Word, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.due, nil
}

func (f *fakeStore) UpdateSRS(wordID int64, easiness float64, interval int, nextReview time.Time) error {
	if f.failIDs[wordID] {
		return errors.New("disk full")
	}
	f.updates[wordID] = [3]interface{}{easiness, interval, nextReview}
	return nil
}

func word(id int64, native, learned string) models.Word {
	return models.Word{
		ID:          id,
		NativeWord:  native,
		LearnedWord: learned,
		Easiness:    models.DefaultEasiness,
		Interval:    models.DefaultInterval,
	}
}

func TestSessionEmptyIsCompleteImmediately(t *testing.T) {
	s, err := Start(newFakeStore(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, Complete, s.State())
	assert.Equal(t, 0, s.Remaining())
	assert.Nil(t, s.Current())
}

func TestSessionStartErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("db gone")
	_, err := Start(store, time.Now())
	require.Error(t, err)
}

func TestSessionWalksQueueAndPersists(t *testing.T) {
	today := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	store := newFakeStore(word(1, "hello", "hej"), word(2, "house", "hus"))

	s, err := Start(store, today)
	require.NoError(t, err)
	require.Equal(t, AwaitingAnswer, s.State())
	assert.Equal(t, 2, s.Remaining())
	assert.Equal(t, "hello", s.Current().NativeWord)

	require.NoError(t, s.Reveal())
	require.Equal(t, AwaitingGrade, s.State())
	require.NoError(t, s.Grade(spaced_repetition.Good))

	assert.Equal(t, AwaitingAnswer, s.State())
	assert.Equal(t, "house", s.Current().NativeWord)
	assert.Equal(t, 1, s.Remaining())

	require.NoError(t, s.Reveal())
	require.NoError(t, s.Grade(spaced_repetition.Forgot))
	assert.Equal(t, Complete, s.State())

	require.Len(t, store.updates, 2)
	// grade=Good from defaults: easiness 2.6, interval round(1*2.6)=3
	got := store.updates[1]
	assert.InDelta(t, 2.6, got[0].(float64), 1e-9)
	assert.Equal(t, 3, got[1].(int))
	assert.Equal(t, today.AddDate(0, 0, 3), got[2].(time.Time))
}

func TestSessionSnapshotSemantics(t *testing.T) {
	store := newFakeStore(word(1, "one", "ett"))
	s, err := Start(store, time.Now())
	require.NoError(t, err)

	// More words becoming due after start must not join the session.
	store.due = append(store.due, word(2, "two", "tva"))
	require.NoError(t, s.Reveal())
	require.NoError(t, s.Grade(spaced_repetition.Easy))
	assert.Equal(t, Complete, s.State())
	assert.Equal(t, 1, store.getCalls)
}

func TestSessionContinuesPastPersistenceFailure(t *testing.T) {
	store := newFakeStore(word(1, "one", "ett"), word(2, "two", "tva"))
	store.failIDs[1] = true

	s, err := Start(store, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Reveal())
	require.NoError(t, s.Grade(spaced_repetition.Good))
	// The failed word is skipped, the session moves on.
	require.Equal(t, AwaitingAnswer, s.State())

	require.NoError(t, s.Reveal())
	require.NoError(t, s.Grade(spaced_repetition.Good))
	assert.Equal(t, Complete, s.State())

	_, failedSaved := store.updates[1]
	assert.False(t, failedSaved)
	_, okSaved := store.updates[2]
	assert.True(t, okSaved)
}

func TestSessionTransitionGuards(t *testing.T) {
	store := newFakeStore(word(1, "one", "ett"))
	s, err := Start(store, time.Now())
	require.NoError(t, err)

	assert.Error(t, s.Grade(spaced_repetition.Good), "grading before reveal")
	require.NoError(t, s.Reveal())
	assert.Error(t, s.Reveal(), "double reveal")
	require.NoError(t, s.Grade(spaced_repetition.Good))
	assert.Error(t, s.Reveal(), "reveal after complete")
	assert.Error(t, s.Grade(spaced_repetition.Good), "grade after complete")
}
