// Package scheduler runs the periodic due-words reminder.
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
)

// Default quiet-hours boundaries for reminders
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// DueCounter reports how many words are due for review right now.
type DueCounter interface {
	CountDue(today time.Time) (int, error)
}

// Notifier delivers a reminder to the user.
type Notifier interface {
	RemindDue(count int) error
}

// Scheduler manages the hourly reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	due       DueCounter
	notifier  Notifier
	reminded  bool
	lastDay   string
}

// New creates a new scheduler instance
func New(due DueCounter, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		due:       due,
		notifier:  notifier,
	}
}

// Start begins the hourly reminder checks in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndRemind)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunManualCheck forces an immediate reminder check.
func (s *Scheduler) RunManualCheck() error {
	count, err := s.due.CountDue(time.Now())
	if err != nil {
		return err
	}
	if count > 0 {
		return s.notifier.RemindDue(count)
	}
	return nil
}

func (s *Scheduler) checkAndRemind() {
	s.checkAt(time.Now())
}

// checkAt sends at most one reminder per day, inside the configured
// hour window.
func (s *Scheduler) checkAt(now time.Time) {
	day := now.Format("2006-01-02")
	if day != s.lastDay {
		s.lastDay = day
		s.reminded = false
	}
	if s.reminded {
		return
	}

	startHour := hourFromEnv("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := hourFromEnv("REMINDER_END_HOUR", DefaultReminderEndHour)
	if now.Hour() < startHour || now.Hour() > endHour {
		return
	}

	count, err := s.due.CountDue(now)
	if err != nil {
		log.Printf("Error counting due words: %v", err)
		return
	}
	if count == 0 {
		return
	}

	if err := s.notifier.RemindDue(count); err != nil {
		log.Printf("Error sending reminder: %v", err)
		return
	}
	s.reminded = true
}

func hourFromEnv(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
