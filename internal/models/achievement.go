package models

import "time"

type RuleKind string

const (
	RuleProgressStreak RuleKind = "progress_streak"
	RuleHabitStreak    RuleKind = "habit_streak"
)

// Rule describes the condition that unlocks an achievement.
// ProgressStreak uses Days and Threshold; HabitStreak uses HabitName and Days.
type Rule struct {
	Kind      RuleKind `json:"kind"`
	Days      int      `json:"days"`
	Threshold float64  `json:"threshold,omitempty"`
	HabitName string   `json:"habit_name,omitempty"`
}

type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Rule        Rule       `json:"rule"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}
