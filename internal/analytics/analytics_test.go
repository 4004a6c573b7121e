package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/models"
)

// 2025-07-16 is a Wednesday.
var now = time.Date(2025, 7, 16, 15, 30, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(d time.Time, points ...int) models.DayHistory {
	habits := make([]models.Habit, len(points))
	for i, p := range points {
		habits[i] = models.Habit{ID: fmt.Sprintf("%s-%d", d.Format("0102"), i), Name: "h", Points: p}
	}
	return models.DayHistory{Day: d, Habits: habits}
}

func TestPointsLast30Days(t *testing.T) {
	c := clock.NewManual(now)

	tests := []struct {
		name    string
		history []models.DayHistory
		checks  map[int]int
	}{
		{name: "empty history", history: nil, checks: map[int]int{0: 0, 29: 0}},
		{
			name: "fills known days",
			history: []models.DayHistory{
				entry(day(7, 16), 5, 3),
				entry(day(7, 10), 20),
				entry(day(6, 17), 7),
				entry(day(6, 16), 100),
			},
			checks: map[int]int{29: 8, 23: 20, 0: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointsLast30Days(tt.history, c)
			if len(got) != 30 {
				t.Fatalf("len = %d, want 30", len(got))
			}
			if !got[0].Day.Equal(day(6, 17)) || !got[29].Day.Equal(day(7, 16)) {
				t.Errorf("range = %v..%v, want Jun 17..Jul 16", got[0].Day, got[29].Day)
			}
			for i, want := range tt.checks {
				if got[i].Points != want {
					t.Errorf("got[%d].Points = %d, want %d", i, got[i].Points, want)
				}
			}
		})
	}
}

func TestRolling7DayAverage(t *testing.T) {
	series := make([]DayPoints, 30)
	for i := range series {
		series[i] = DayPoints{Day: day(6, 17).AddDate(0, 0, i), Points: 7}
	}
	series[6].Points = 14

	got := Rolling7DayAverage(series)
	if len(got) != 24 {
		t.Fatalf("len = %d, want 24", len(got))
	}
	if !got[0].Day.Equal(series[6].Day) {
		t.Errorf("first day = %v, want %v", got[0].Day, series[6].Day)
	}
	if got[0].Average != 8 {
		t.Errorf("got[0].Average = %v, want 8", got[0].Average)
	}
	if got[7].Average != 7 {
		t.Errorf("got[7].Average = %v, want 7", got[7].Average)
	}

	if short := Rolling7DayAverage(series[:5]); len(short) != 0 {
		t.Errorf("short series produced %d entries", len(short))
	}
}

func TestMonthlyTotals(t *testing.T) {
	c := clock.NewManual(now)
	history := []models.DayHistory{
		entry(day(7, 2), 10),
		entry(day(7, 1), 5),
		entry(day(5, 31), -3),
		entry(day(2, 1), 40),
		entry(day(1, 31), 99),
	}

	got := MonthlyTotals(history, c)
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	want := []struct {
		month  time.Month
		points int
	}{
		{time.February, 40}, {time.March, 0}, {time.April, 0}, {time.May, -3}, {time.June, 0}, {time.July, 15},
	}
	for i, w := range want {
		if !got[i].Month.Equal(day(w.month, 1)) || got[i].Points != w.points {
			t.Errorf("got[%d] = %v/%d, want %s/%d", i, got[i].Month, got[i].Points, w.month, w.points)
		}
	}
}

func TestBestAndWorstDay(t *testing.T) {
	if _, ok := BestDay(nil); ok {
		t.Error("BestDay(nil) reported a result")
	}
	if _, ok := WorstDay(nil); ok {
		t.Error("WorstDay(nil) reported a result")
	}

	history := []models.DayHistory{
		entry(day(7, 16), 10),
		entry(day(7, 15), 30),
		entry(day(7, 14), -5),
		entry(day(7, 13), 30),
		entry(day(7, 12), -5),
	}

	best, _ := BestDay(history)
	if !best.Day.Equal(day(7, 15)) || best.Points != 30 {
		t.Errorf("BestDay = %+v, want Jul 15 with 30", best)
	}
	worst, _ := WorstDay(history)
	if !worst.Day.Equal(day(7, 14)) || worst.Points != -5 {
		t.Errorf("WorstDay = %+v, want Jul 14 with -5", worst)
	}
}

func TestAveragePointsPerDay(t *testing.T) {
	if got := AveragePointsPerDay(nil); got != 0 {
		t.Errorf("AveragePointsPerDay(nil) = %v", got)
	}
	history := []models.DayHistory{entry(day(7, 16), 10, 5), entry(day(7, 1), 0)}
	if got := AveragePointsPerDay(history); got != 7.5 {
		t.Errorf("AveragePointsPerDay = %v, want 7.5", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	c := clock.NewManual(now)

	tests := []struct {
		name    string
		history []models.DayHistory
		want    int
	}{
		{name: "empty", want: 0},
		{name: "today only", history: []models.DayHistory{entry(day(7, 16), 1)}, want: 1},
		{
			name:    "three consecutive",
			history: []models.DayHistory{entry(day(7, 16), 1), entry(day(7, 15), 1), entry(day(7, 14), 1)},
			want:    3,
		},
		{
			name:    "gap resets",
			history: []models.DayHistory{entry(day(7, 16), 1), entry(day(7, 15), 1), entry(day(7, 13), 1)},
			want:    2,
		},
		{
			name:    "nothing today",
			history: []models.DayHistory{entry(day(7, 15), 1), entry(day(7, 14), 1)},
			want:    0,
		},
		{
			name:    "negative day still counts",
			history: []models.DayHistory{entry(day(7, 16), -10)},
			want:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.history, c); got != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	c := clock.NewManual(now)
	history := []models.DayHistory{
		entry(day(7, 16), 1),
		entry(day(7, 10), 1), entry(day(7, 9), 1), entry(day(7, 8), 1), entry(day(7, 7), 1),
		entry(day(6, 30), 1), entry(day(7, 1), 1),
	}
	if got := LongestStreak(history, c); got != 4 {
		t.Errorf("LongestStreak = %d, want 4", got)
	}
	if got := LongestStreak(nil, c); got != 0 {
		t.Errorf("LongestStreak(nil) = %d", got)
	}
}

func TestWeeklyCompletionCounts(t *testing.T) {
	c := clock.NewManual(now)
	history := []models.DayHistory{
		entry(day(7, 16), 1, 2),
		entry(day(7, 14), 1),
		entry(day(7, 13), 1, 1, 1),
		entry(day(5, 26), 1),
		entry(day(5, 25), 1),
	}

	got := WeeklyCompletionCounts(history, c)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	if !got[7].WeekStart.Equal(day(7, 14)) {
		t.Errorf("current week start = %v, want Monday Jul 14", got[7].WeekStart)
	}
	if !got[0].WeekStart.Equal(day(5, 26)) {
		t.Errorf("oldest week start = %v, want May 26", got[0].WeekStart)
	}
	if got[7].Count != 3 {
		t.Errorf("current week count = %d, want 3", got[7].Count)
	}
	if got[6].Count != 3 {
		t.Errorf("previous week count = %d, want 3", got[6].Count)
	}
	if got[0].Count != 1 {
		t.Errorf("oldest week count = %d, want 1 (May 25 is outside the window)", got[0].Count)
	}
}

func TestWeekStartOnSunday(t *testing.T) {
	c := clock.NewManual(now)
	sunday := time.Date(2025, 7, 20, 23, 0, 0, 0, time.UTC)
	if got := WeekStart(c, sunday); !got.Equal(day(7, 14)) {
		t.Errorf("WeekStart(Sunday) = %v, want Jul 14", got)
	}
}

func TestProgressHistory(t *testing.T) {
	c := clock.NewManual(now)
	if got := ProgressHistory(nil, c, 100); got != nil {
		t.Errorf("ProgressHistory(nil) = %v", got)
	}

	history := []models.DayHistory{entry(day(7, 16), 150), entry(day(7, 13), 40, -60)}
	got := ProgressHistory(history, c, 100)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	want := []float64{-0.2, 0, 0, 1.0}
	for i, w := range want {
		if got[i].Progress != w {
			t.Errorf("got[%d].Progress = %v, want %v", i, got[i].Progress, w)
		}
	}
}
