package models

import (
	"strings"
	"time"
)

type HabitKind string

const (
	HabitKindBeneficial  HabitKind = "beneficial"
	HabitKindDetrimental HabitKind = "detrimental"
)

// Valid reports whether k is one of the known habit kinds.
func (k HabitKind) Valid() bool {
	return k == HabitKindBeneficial || k == HabitKindDetrimental
}

// Quantity is an optional amount attached to a habit, e.g. 30 "minutes".
// The zero value means the habit has no quantity.
type Quantity struct {
	Value int    `json:"value,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// IsZero reports whether no quantity is set.
func (q Quantity) IsZero() bool {
	return q.Value == 0 && q.Unit == ""
}

// Seconds converts the quantity to seconds. Units containing "hour" count
// as hours, units containing "minute" as minutes, anything else as seconds.
func (q Quantity) Seconds() int {
	unit := strings.ToLower(q.Unit)
	switch {
	case strings.Contains(unit, "hour"):
		return q.Value * 3600
	case strings.Contains(unit, "minute"):
		return q.Value * 60
	default:
		return q.Value
	}
}

// Habit is a reusable habit template. It is a comparable value type: the
// ledger keys completions by the full habit value.
type Habit struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Points   int       `json:"points"`
	Kind     HabitKind `json:"kind"`
	Category string    `json:"category"`
	Quantity Quantity  `json:"quantity,omitzero"`
}

// Completion is a recorded instance of performing a habit.
type Completion struct {
	Habit Habit     `json:"habit"`
	At    time.Time `json:"date"`
}

// DayHistory groups the habits completed on one calendar day.
type DayHistory struct {
	Day    time.Time
	Habits []Habit
}

// Points returns the sum of points of all habits completed that day.
func (d DayHistory) Points() int {
	total := 0
	for _, h := range d.Habits {
		total += h.Points
	}
	return total
}

// HasHabitNamed reports whether a habit with the given name was completed that day.
func (d DayHistory) HasHabitNamed(name string) bool {
	for _, h := range d.Habits {
		if h.Name == name {
			return true
		}
	}
	return false
}
