// Package tracker owns one tally session: the ledger, the habit service and
// the achievement evaluator, re-evaluated after every mutation.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/service"
)

// Store is everything a session persists to.
type Store interface {
	ledger.Persister
	kv.Backend
}

// Outcome reports the rewards a mutation earned.
type Outcome struct {
	Unlocked    []models.Achievement
	GemsAwarded int
}

// Earned reports whether anything was awarded.
func (o Outcome) Earned() bool {
	return len(o.Unlocked) > 0 || o.GemsAwarded > 0
}

func (o *Outcome) merge(other Outcome) {
	o.Unlocked = append(o.Unlocked, other.Unlocked...)
	o.GemsAwarded += other.GemsAwarded
}

type Tracker struct {
	mu sync.Mutex

	clock     clock.Clock
	ledger    *ledger.Ledger
	kv        *kv.Store
	service   *service.HabitService
	evaluator *achievements.Evaluator
	pending   Outcome
}

// New loads the ledger from store, seeding templates when it has none, and
// evaluates rewards once so state earned while offline is paid out.
func New(store Store, c clock.Clock, seed func() []models.Habit) *Tracker {
	l := ledger.New(store)
	l.Load(seed)
	settings := kv.New(store)
	t := &Tracker{
		clock:     c,
		ledger:    l,
		kv:        settings,
		service:   service.NewHabitService(l, c, settings),
		evaluator: achievements.NewEvaluator(c, settings),
	}
	t.pending = t.refresh()
	return t
}

func (t *Tracker) Service() *service.HabitService {
	return t.service
}

func (t *Tracker) Clock() clock.Clock {
	return t.clock
}

func (t *Tracker) Achievements() []models.Achievement {
	return t.evaluator.Achievements()
}

func (t *Tracker) Profile() models.Profile {
	return t.kv.Profile()
}

// Register stores the user's name and email. Both are required.
func (t *Tracker) Register(name, email string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return errors.New("name and email are both required")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address %q", email)
	}
	return t.kv.Register(name, email)
}

// refresh is the pull-based re-evaluation that follows every mutation.
func (t *Tracker) refresh() Outcome {
	history := t.service.DailyHistory()
	out := Outcome{
		Unlocked: t.evaluator.Evaluate(history, t.clock.Now()),
	}
	out.GemsAwarded = len(out.Unlocked)*constants.GemsPerAchievement +
		t.evaluator.EvaluateMilestones(t.service.TotalPointsAllTime())
	return out
}

func (t *Tracker) mutated() Outcome {
	out := t.refresh()
	t.pending.merge(out)
	return out
}

// TakeOutcome returns and clears everything earned since the last call,
// including rewards from completions recorded through AddCompletionAt.
func (t *Tracker) TakeOutcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.pending
	t.pending = Outcome{}
	return out
}

// Complete records h as done now.
func (t *Tracker) Complete(h models.Habit) Outcome {
	return t.CompleteAt(h, t.clock.Now())
}

// CompleteAt records h as done at the given time, replacing any earlier
// timestamp for the same habit value.
func (t *Tracker) CompleteAt(h models.Habit, at time.Time) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.service.AddCompletionAt(h, at)
	return t.mutated()
}

// AddCompletionAt lets a timer record its synthetic completion.
func (t *Tracker) AddCompletionAt(h models.Habit, at time.Time) {
	t.CompleteAt(h, at)
}

// Remove deletes h's completion and remembers it for Undo.
func (t *Tracker) Remove(h models.Habit) (models.Completion, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.service.CompletionTime(h)
	if !ok {
		return models.Completion{}, fmt.Errorf("%w: %s", apperrors.ErrCompletionAbsent, h.Name)
	}
	removed := models.Completion{Habit: h, At: at}
	if err := t.kv.SetLastDeletion(removed); err != nil {
		logger.Warn("Failed to remember deletion for undo", "habit", h.Name, "error", err)
	}
	t.service.RemoveCompletion(h)
	t.mutated()
	return removed, nil
}

// Undo restores the most recently removed completion at its original time.
func (t *Tracker) Undo() (models.Completion, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.kv.LastDeletion()
	if !ok {
		return models.Completion{}, apperrors.ErrNothingToUndo
	}
	t.service.AddCompletionAt(last.Habit, last.At)
	if err := t.kv.ClearLastDeletion(); err != nil {
		logger.Warn("Failed to clear undo entry", "error", err)
	}
	t.mutated()
	return last, nil
}

// LastDeletion returns the completion Undo would restore.
func (t *Tracker) LastDeletion() (models.Completion, bool) {
	return t.kv.LastDeletion()
}

func (t *Tracker) AddTemplate(h models.Habit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.service.AddTemplate(h); err != nil {
		return err
	}
	t.mutated()
	return nil
}

func (t *Tracker) UpdateTemplate(h models.Habit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.service.UpdateTemplate(h); err != nil {
		return err
	}
	t.mutated()
	return nil
}

// RemoveTemplate deletes a template and the completion keyed by its value.
func (t *Tracker) RemoveTemplate(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.service.RemoveTemplate(id); err != nil {
		return err
	}
	t.mutated()
	return nil
}

func (t *Tracker) UpdateDailyTarget(n int) error {
	return t.service.UpdateDailyTarget(n)
}
