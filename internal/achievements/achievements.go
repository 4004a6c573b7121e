// Package achievements evaluates streak-based achievements and point
// milestones, awarding gems through the key-value store.
package achievements

import (
	"time"

	"github.com/julianstephens/tally/internal/analytics"
	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// BuiltIn returns the fixed achievement list, all locked.
func BuiltIn() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "streak80",
			Title:       "80% Daily Streak",
			Description: "Achieve at least 80% daily progress for 7 days",
			Rule:        models.Rule{Kind: models.RuleProgressStreak, Days: 7, Threshold: 0.8},
		},
		{
			ID:          "water7",
			Title:       "7-Day Water Streak",
			Description: "Drink water every day for a week",
			Rule:        models.Rule{Kind: models.RuleHabitStreak, Days: 7, HabitName: "Drink Water"},
		},
	}
}

// Holds reports whether rule is satisfied by history as of today.
func Holds(rule models.Rule, history []models.DayHistory, c clock.Clock) bool {
	switch rule.Kind {
	case models.RuleProgressStreak:
		return ProgressStreak(history, c, rule.Days, rule.Threshold)
	case models.RuleHabitStreak:
		return HabitStreak(history, c, rule.HabitName, rule.Days)
	default:
		logger.Warn("Unknown achievement rule", "kind", rule.Kind)
		return false
	}
}

// ProgressStreak reports whether each of the last days days, ending today,
// reached threshold progress against the fixed achievement target.
func ProgressStreak(history []models.DayHistory, c clock.Clock, days int, threshold float64) bool {
	return streak(history, c, days, func(entry models.DayHistory) bool {
		return analytics.Progress(entry.Points(), constants.AchievementProgressTarget) >= threshold
	})
}

// HabitStreak reports whether a habit named name was completed on each of
// the last days days, ending today.
func HabitStreak(history []models.DayHistory, c clock.Clock, name string, days int) bool {
	return streak(history, c, days, func(entry models.DayHistory) bool {
		return entry.HasHabitNamed(name)
	})
}

// streak walks back one calendar day at a time from today. A missing day or
// a day failing ok ends the walk.
func streak(history []models.DayHistory, c clock.Clock, days int, ok func(models.DayHistory) bool) bool {
	if days <= 0 {
		return false
	}
	byDay := make(map[time.Time]models.DayHistory, len(history))
	for _, entry := range history {
		byDay[c.StartOfDay(entry.Day)] = entry
	}

	day := clock.Today(c)
	for count := 0; count < days; count++ {
		entry, found := byDay[day]
		if !found || !ok(entry) {
			return false
		}
		day = clock.AddDays(c, day, -1)
	}
	return true
}

// Evaluator tracks which achievements are unlocked and pays out gems.
type Evaluator struct {
	clock        clock.Clock
	store        *kv.Store
	achievements []models.Achievement
}

// NewEvaluator builds an evaluator over the built-in achievements, restoring
// unlock times already persisted in store.
func NewEvaluator(c clock.Clock, store *kv.Store) *Evaluator {
	list := BuiltIn()
	for i := range list {
		if at, ok := store.AchievementUnlockedAt(list[i].ID); ok {
			list[i].UnlockedAt = &at
		}
	}
	return &Evaluator{clock: c, store: store, achievements: list}
}

// Achievements returns a copy of the current achievement list.
func (e *Evaluator) Achievements() []models.Achievement {
	out := make([]models.Achievement, len(e.achievements))
	copy(out, e.achievements)
	return out
}

// Evaluate unlocks every locked achievement whose rule now holds, stamping it
// with now and awarding one gem each. It returns the newly unlocked ones.
func (e *Evaluator) Evaluate(history []models.DayHistory, now time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for i := range e.achievements {
		a := &e.achievements[i]
		if a.Unlocked() || !Holds(a.Rule, history, e.clock) {
			continue
		}
		at := now
		a.UnlockedAt = &at
		if err := e.store.SetAchievementUnlockedAt(a.ID, at); err != nil {
			logger.Warn("Failed to persist achievement unlock", "achievement", a.ID, "error", err)
		}
		e.awardGems(constants.GemsPerAchievement)
		logger.Info("Achievement unlocked", "achievement", a.ID)
		unlocked = append(unlocked, *a)
	}
	return unlocked
}

// EvaluateMilestones awards one gem per milestone interval crossed since the
// last stored level. Levels never go down. It returns the gems awarded.
func (e *Evaluator) EvaluateMilestones(totalAllTime int) int {
	level := milestoneLevel(totalAllTime)
	stored := e.store.MilestoneLevel()
	if level <= stored {
		return 0
	}
	diff := level - stored
	if err := e.store.SetMilestoneLevel(level); err != nil {
		logger.Warn("Failed to persist milestone level", "level", level, "error", err)
	}
	e.awardGems(diff)
	return diff
}

// milestoneLevel floors total over the interval; negative totals are level zero.
func milestoneLevel(total int) int {
	if total <= 0 {
		return 0
	}
	return total / constants.MilestoneInterval
}

func (e *Evaluator) awardGems(n int) {
	if _, err := e.store.AddGems(n); err != nil {
		logger.Warn("Failed to persist gems", "amount", n, "error", err)
	}
}
