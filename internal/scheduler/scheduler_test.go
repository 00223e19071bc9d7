package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count int
	err   error
	calls int
}

func (f *fakeCounter) CountDue(today time.Time) (int, error) {
	f.calls++
	return f.count, f.err
}

type fakeNotifier struct {
	counts []int
	err    error
}

func (f *fakeNotifier) RemindDue(count int) error {
	f.counts = append(f.counts, count)
	return f.err
}

func at(day string, hour int) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func TestCheckRemindsOncePerDay(t *testing.T) {
	counter := &fakeCounter{count: 5}
	notifier := &fakeNotifier{}
	s := New(counter, notifier)

	s.checkAt(at("2026-03-01", 10))
	s.checkAt(at("2026-03-01", 11))
	s.checkAt(at("2026-03-01", 12))

	assert.Equal(t, []int{5}, notifier.counts)

	// A new day resets the reminder.
	s.checkAt(at("2026-03-02", 10))
	assert.Equal(t, []int{5, 5}, notifier.counts)
}

func TestCheckRespectsHourWindow(t *testing.T) {
	counter := &fakeCounter{count: 3}
	notifier := &fakeNotifier{}
	s := New(counter, notifier)

	s.checkAt(at("2026-03-01", 6))
	s.checkAt(at("2026-03-01", 23))
	assert.Empty(t, notifier.counts)
	assert.Zero(t, counter.calls)

	s.checkAt(at("2026-03-01", DefaultReminderStartHour))
	assert.Equal(t, []int{3}, notifier.counts)
}

func TestCheckHourWindowFromEnv(t *testing.T) {
	t.Setenv("REMINDER_START_HOUR", "6")
	t.Setenv("REMINDER_END_HOUR", "7")

	counter := &fakeCounter{count: 2}
	notifier := &fakeNotifier{}
	s := New(counter, notifier)

	s.checkAt(at("2026-03-01", 6))
	assert.Equal(t, []int{2}, notifier.counts)

	s2 := New(counter, notifier)
	s2.checkAt(at("2026-03-02", 12))
	assert.Equal(t, []int{2}, notifier.counts)
}

func TestCheckSkipsWhenNothingDue(t *testing.T) {
	counter := &fakeCounter{count: 0}
	notifier := &fakeNotifier{}
	s := New(counter, notifier)

	s.checkAt(at("2026-03-01", 10))
	assert.Empty(t, notifier.counts)
	assert.Equal(t, 1, counter.calls)

	// Not marked as reminded, so the next check tries again.
	counter.count = 4
	s.checkAt(at("2026-03-01", 11))
	assert.Equal(t, []int{4}, notifier.counts)
}

func TestCheckRetriesAfterNotifyError(t *testing.T) {
	counter := &fakeCounter{count: 7}
	notifier := &fakeNotifier{err: errors.New("speaker unplugged")}
	s := New(counter, notifier)

	s.checkAt(at("2026-03-01", 10))
	assert.Equal(t, []int{7}, notifier.counts)

	notifier.err = nil
	s.checkAt(at("2026-03-01", 11))
	assert.Equal(t, []int{7, 7}, notifier.counts)

	s.checkAt(at("2026-03-01", 12))
	assert.Equal(t, []int{7, 7}, notifier.counts)
}

func TestRunManualCheck(t *testing.T) {
	counter := &fakeCounter{count: 9}
	notifier := &fakeNotifier{}
	s := New(counter, notifier)

	require.NoError(t, s.RunManualCheck())
	assert.Equal(t, []int{9}, notifier.counts)

	counter.count = 0
	require.NoError(t, s.RunManualCheck())
	assert.Equal(t, []int{9}, notifier.counts)

	counter.err = errors.New("db closed")
	assert.Error(t, s.RunManualCheck())
}
