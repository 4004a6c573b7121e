// Package analytics derives insight series from the daily completion history.
// Every function is pure: the same history and clock give the same result.
package analytics

import (
	"math"
	"time"

	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

// DayPoints is the point total of one calendar day.
type DayPoints struct {
	Day    time.Time
	Points int
}

// DayAverage is a trailing mean ending on Day.
type DayAverage struct {
	Day     time.Time
	Average float64
}

// MonthPoints is the point total of one calendar month keyed by its first day.
type MonthPoints struct {
	Month  time.Time
	Points int
}

// WeekCount is the number of completion events in the ISO week starting on WeekStart.
type WeekCount struct {
	WeekStart time.Time
	Count     int
}

// DayProgress is a day's completion fraction of the daily target.
type DayProgress struct {
	Day      time.Time
	Progress float64
}

// totalsByDay indexes day totals by start of day.
func totalsByDay(history []models.DayHistory, c clock.Clock) map[time.Time]int {
	totals := make(map[time.Time]int, len(history))
	for _, entry := range history {
		totals[c.StartOfDay(entry.Day)] += entry.Points()
	}
	return totals
}

// PointsLast30Days returns one entry per day for the 30 days ending today,
// oldest first. Days without completions have zero points.
func PointsLast30Days(history []models.DayHistory, c clock.Clock) []DayPoints {
	totals := totalsByDay(history, c)
	today := clock.Today(c)
	out := make([]DayPoints, constants.RecentDaysWindow)
	for i := range out {
		day := clock.AddDays(c, today, i-(constants.RecentDaysWindow-1))
		out[i] = DayPoints{Day: day, Points: totals[day]}
	}
	return out
}

// Rolling7DayAverage computes the trailing 7-day mean for every position of
// series that has six predecessors.
func Rolling7DayAverage(series []DayPoints) []DayAverage {
	window := constants.RollingAverageDays
	if len(series) < window {
		return nil
	}
	out := make([]DayAverage, 0, len(series)-window+1)
	for i := window - 1; i < len(series); i++ {
		sum := 0
		for _, p := range series[i-window+1 : i+1] {
			sum += p.Points
		}
		out = append(out, DayAverage{Day: series[i].Day, Average: float64(sum) / float64(window)})
	}
	return out
}

// MonthlyTotals sums points for the current month and the five before it,
// oldest first.
func MonthlyTotals(history []models.DayHistory, c clock.Clock) []MonthPoints {
	today := clock.Today(c)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	n := constants.MonthlyTotalsMonths
	out := make([]MonthPoints, n)
	for i := range out {
		out[i].Month = first.AddDate(0, i-(n-1), 0)
	}
	for _, entry := range history {
		day := c.StartOfDay(entry.Day)
		for i := range out {
			if day.Year() == out[i].Month.Year() && day.Month() == out[i].Month.Month() {
				out[i].Points += entry.Points()
				break
			}
		}
	}
	return out
}

// BestDay returns the day with the highest total. Ties resolve to the entry
// that comes first in history.
func BestDay(history []models.DayHistory) (DayPoints, bool) {
	return extremeDay(history, func(candidate, best int) bool { return candidate > best })
}

// WorstDay returns the day with the lowest total. Ties resolve to the entry
// that comes first in history.
func WorstDay(history []models.DayHistory) (DayPoints, bool) {
	return extremeDay(history, func(candidate, worst int) bool { return candidate < worst })
}

func extremeDay(history []models.DayHistory, better func(candidate, current int) bool) (DayPoints, bool) {
	if len(history) == 0 {
		return DayPoints{}, false
	}
	result := DayPoints{Day: history[0].Day, Points: history[0].Points()}
	for _, entry := range history[1:] {
		if p := entry.Points(); better(p, result.Points) {
			result = DayPoints{Day: entry.Day, Points: p}
		}
	}
	return result, true
}

// AveragePointsPerDay is the mean day total over days that have completions.
func AveragePointsPerDay(history []models.DayHistory) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0
	for _, entry := range history {
		sum += entry.Points()
	}
	return float64(sum) / float64(len(history))
}

// CurrentStreak counts consecutive days with at least one completion,
// walking back from today. A day without completions today means zero.
func CurrentStreak(history []models.DayHistory, c clock.Clock) int {
	active := activeDays(history, c)
	streak := 0
	for day := clock.Today(c); active[day]; day = clock.AddDays(c, day, -1) {
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive active days anywhere in history.
func LongestStreak(history []models.DayHistory, c clock.Clock) int {
	active := activeDays(history, c)
	longest := 0
	for day := range active {
		if active[clock.AddDays(c, day, -1)] {
			continue
		}
		run := 0
		for d := day; active[d]; d = clock.AddDays(c, d, 1) {
			run++
		}
		longest = max(longest, run)
	}
	return longest
}

func activeDays(history []models.DayHistory, c clock.Clock) map[time.Time]bool {
	active := make(map[time.Time]bool, len(history))
	for _, entry := range history {
		if len(entry.Habits) > 0 {
			active[c.StartOfDay(entry.Day)] = true
		}
	}
	return active
}

// WeekStart returns the Monday that starts the ISO week containing t.
func WeekStart(c clock.Clock, t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return clock.AddDays(c, day, -offset)
}

// WeeklyCompletionCounts counts completion events in the current ISO week
// and the seven before it, oldest first.
func WeeklyCompletionCounts(history []models.DayHistory, c clock.Clock) []WeekCount {
	current := WeekStart(c, c.Now())
	n := constants.WeeklyCountsWeeks
	out := make([]WeekCount, n)
	index := make(map[time.Time]int, n)
	for i := range out {
		start := clock.AddDays(c, current, 7*(i-(n-1)))
		out[i].WeekStart = start
		index[start] = i
	}
	for _, entry := range history {
		if i, ok := index[WeekStart(c, entry.Day)]; ok {
			out[i].Count += len(entry.Habits)
		}
	}
	return out
}

// Progress is a day total over target, capped at 1.0 and not clamped below zero.
func Progress(total int, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(float64(total)/target, 1.0)
}

// ProgressHistory returns one entry per day from the earliest recorded day
// through today, oldest first.
func ProgressHistory(history []models.DayHistory, c clock.Clock, target int) []DayProgress {
	if len(history) == 0 {
		return nil
	}
	totals := totalsByDay(history, c)
	today := clock.Today(c)
	first := today
	for day := range totals {
		if day.Before(first) {
			first = day
		}
	}
	var out []DayProgress
	for day := first; !day.After(today); day = clock.AddDays(c, day, 1) {
		out = append(out, DayProgress{Day: day, Progress: Progress(totals[day], float64(target))})
	}
	return out
}
