// Package reminders keeps a daily reminder time per habit template and
// notifies once a day when that time has passed.
package reminders

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

type Notifier interface {
	Notify(text string) error
}

// Templates lists the habit templates reminders can be attached to.
type Templates interface {
	Templates() []models.Habit
}

type Reminder struct {
	Habit   models.Habit
	Time    string
	FiredOn string
}

type Manager struct {
	kv        *kv.Store
	templates Templates
	notifier  Notifier
	clock     clock.Clock
}

func NewManager(store *kv.Store, templates Templates, notifier Notifier, c clock.Clock) *Manager {
	return &Manager{kv: store, templates: templates, notifier: notifier, clock: c}
}

// ParseTime validates an HH:MM time of day and returns it normalized.
func ParseTime(hhmm string) (string, error) {
	t, err := time.Parse(constants.TimeFormat, hhmm)
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTime, hhmm)
	}
	return t.Format(constants.TimeFormat), nil
}

func (m *Manager) find(habitID string) (models.Habit, error) {
	for _, h := range m.templates.Templates() {
		if h.ID == habitID {
			return h, nil
		}
	}
	return models.Habit{}, apperrors.ErrHabitNotFound
}

func (m *Manager) Set(habitID, hhmm string) error {
	normalized, err := ParseTime(hhmm)
	if err != nil {
		return err
	}
	if _, err := m.find(habitID); err != nil {
		return err
	}
	return m.kv.SetReminderTime(habitID, normalized)
}

func (m *Manager) Clear(habitID string) error {
	if _, ok := m.kv.ReminderTime(habitID); !ok {
		return fmt.Errorf("no reminder set for habit %s", habitID)
	}
	return m.kv.ClearReminderTime(habitID)
}

// List returns every template that has a reminder, ordered by time of day.
func (m *Manager) List() []Reminder {
	var out []Reminder
	for _, h := range m.templates.Templates() {
		hhmm, ok := m.kv.ReminderTime(h.ID)
		if !ok {
			continue
		}
		out = append(out, Reminder{Habit: h, Time: hhmm, FiredOn: m.kv.ReminderFiredOn(h.ID)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Due returns reminders whose time has passed today and that have not fired today.
func (m *Manager) Due(now time.Time) []Reminder {
	day := m.clock.StartOfDay(now)
	today := day.Format(constants.DateFormat)

	var due []Reminder
	for _, r := range m.List() {
		if r.FiredOn == today {
			continue
		}
		t, err := time.Parse(constants.TimeFormat, r.Time)
		if err != nil {
			logger.Warn("Ignoring malformed reminder time", "habit", r.Habit.Name, "time", r.Time)
			continue
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
		if !now.Before(at) {
			due = append(due, r)
		}
	}
	return due
}

// Fire notifies every due reminder and marks it fired for today. Delivery
// failures are logged and do not prevent the reminder from being marked.
func (m *Manager) Fire(now time.Time) []Reminder {
	today := m.clock.StartOfDay(now).Format(constants.DateFormat)
	due := m.Due(now)
	for i, r := range due {
		if err := m.notifier.Notify(fmt.Sprintf("Time to %s", r.Habit.Name)); err != nil {
			logger.Warn("Failed to deliver reminder", "habit", r.Habit.Name, "error", err)
		}
		if err := m.kv.SetReminderFiredOn(r.Habit.ID, today); err != nil {
			logger.Error("Failed to record reminder", "habit", r.Habit.Name, "error", err)
		}
		due[i].FiredOn = today
	}
	return due
}
