package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/models"
)

// HabitService is the business logic over the ledger, the clock and the
// key-value settings.
type HabitService struct {
	ledger *ledger.Ledger
	clock  clock.Clock
	kv     *kv.Store
}

func NewHabitService(l *ledger.Ledger, c clock.Clock, store *kv.Store) *HabitService {
	return &HabitService{
		ledger: l,
		clock:  c,
		kv:     store,
	}
}

func (s *HabitService) Clock() clock.Clock {
	return s.clock
}

// AddCompletion records a completion at the current time.
func (s *HabitService) AddCompletion(h models.Habit) {
	s.ledger.RecordCompletion(h, s.clock.Now())
}

// AddCompletionAt records a completion at a specific time.
func (s *HabitService) AddCompletionAt(h models.Habit, at time.Time) {
	s.ledger.RecordCompletion(h, at)
}

func (s *HabitService) RemoveCompletion(h models.Habit) {
	s.ledger.DeleteCompletion(h)
}

func (s *HabitService) CompletionTime(h models.Habit) (time.Time, bool) {
	return s.ledger.CompletionTime(h)
}

func (s *HabitService) Completions() map[models.Habit]time.Time {
	return s.ledger.Completions()
}

// TotalPointsToday sums the points of completions recorded since the start
// of today. It is recomputed on every call because "today" moves.
func (s *HabitService) TotalPointsToday() int {
	start := s.clock.StartOfDay(s.clock.Now())
	total := 0
	for h, at := range s.ledger.Completions() {
		if !at.Before(start) {
			total += h.Points
		}
	}
	return total
}

func (s *HabitService) TotalPointsAllTime() int {
	total := 0
	for h := range s.ledger.Completions() {
		total += h.Points
	}
	return total
}

// DailyProgress is today's points over the daily target, capped at 1.0.
// It is not clamped below zero.
func (s *HabitService) DailyProgress() float64 {
	return math.Min(float64(s.TotalPointsToday())/float64(s.DailyTarget()), 1.0)
}

// DailyHistory groups completions by calendar day, newest day first. Within
// a day habits are ordered by completion time.
func (s *HabitService) DailyHistory() []models.DayHistory {
	type entry struct {
		habit models.Habit
		at    time.Time
	}
	groups := make(map[time.Time][]entry)
	for h, at := range s.ledger.Completions() {
		day := s.clock.StartOfDay(at)
		groups[day] = append(groups[day], entry{habit: h, at: at})
	}

	history := make([]models.DayHistory, 0, len(groups))
	for day, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].at.Equal(entries[j].at) {
				return entries[i].at.Before(entries[j].at)
			}
			return entries[i].habit.ID < entries[j].habit.ID
		})
		habits := make([]models.Habit, len(entries))
		for i, e := range entries {
			habits[i] = e.habit
		}
		history = append(history, models.DayHistory{Day: day, Habits: habits})
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Day.After(history[j].Day)
	})
	return history
}

// Categories returns "All" followed by the sorted, distinct template categories.
func (s *HabitService) Categories() []string {
	seen := make(map[string]struct{})
	for _, h := range s.ledger.Templates() {
		seen[h.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return append([]string{constants.CategoryAll}, categories...)
}

func (s *HabitService) DailyTarget() int {
	return s.kv.DailyTarget()
}

// UpdateDailyTarget persists a new daily target immediately.
func (s *HabitService) UpdateDailyTarget(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", apperrors.ErrInvalidTarget, n)
	}
	return s.kv.SetDailyTarget(n)
}

func (s *HabitService) Templates() []models.Habit {
	return s.ledger.Templates()
}

// TemplatesInCategory filters templates by category; "All" or "" matches everything.
func (s *HabitService) TemplatesInCategory(category string) []models.Habit {
	templates := s.ledger.Templates()
	if category == "" || category == constants.CategoryAll {
		return templates
	}
	var out []models.Habit
	for _, h := range templates {
		if h.Category == category {
			out = append(out, h)
		}
	}
	return out
}

// FindTemplate looks up a template by name, ignoring case.
func (s *HabitService) FindTemplate(name string) (models.Habit, error) {
	for _, h := range s.ledger.Templates() {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("%w: %q", apperrors.ErrHabitNotFound, name)
}

// CompletionsNamed returns recorded completions whose habit has the given
// name (ignoring case), newest first.
func (s *HabitService) CompletionsNamed(name string) []models.Completion {
	var out []models.Completion
	for h, at := range s.ledger.Completions() {
		if strings.EqualFold(h.Name, name) {
			out = append(out, models.Completion{Habit: h, At: at})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].At.After(out[j].At)
	})
	return out
}

func (s *HabitService) AddTemplate(h models.Habit) error {
	if _, err := s.FindTemplate(h.Name); err == nil {
		return fmt.Errorf("%w: %q", apperrors.ErrHabitExists, h.Name)
	}
	s.ledger.AddTemplate(h)
	return nil
}

func (s *HabitService) UpdateTemplate(h models.Habit) error {
	if !s.ledger.UpdateTemplate(h) {
		return fmt.Errorf("%w: id %s", apperrors.ErrHabitNotFound, h.ID)
	}
	return nil
}

func (s *HabitService) RemoveTemplate(id string) error {
	if !s.ledger.RemoveTemplate(id) {
		return fmt.Errorf("%w: id %s", apperrors.ErrHabitNotFound, id)
	}
	return nil
}
