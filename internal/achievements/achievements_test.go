package achievements

import (
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/models"
)

var now = time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

// daysBack builds one history entry per day for n days ending today, newest
// first, each containing the given habits.
func daysBack(n int, habits ...models.Habit) []models.DayHistory {
	out := make([]models.DayHistory, n)
	today := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.DayHistory{Day: today.AddDate(0, 0, -i), Habits: habits}
	}
	return out
}

var (
	water = models.Habit{ID: "w", Name: "Drink Water", Points: 2}
	big   = models.Habit{ID: "b", Name: "Workout", Points: 80}
)

func TestProgressStreak(t *testing.T) {
	c := clock.NewManual(now)

	tests := []struct {
		name    string
		history []models.DayHistory
		want    bool
	}{
		{name: "seven full days", history: daysBack(7, big), want: true},
		{name: "six days", history: daysBack(6, big), want: false},
		{name: "below threshold", history: daysBack(7, water), want: false},
		{
			name: "gap in the middle",
			history: func() []models.DayHistory {
				h := daysBack(8, big)
				return append(h[:3], h[4:]...)
			}(),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressStreak(tt.history, c, 7, 0.8); got != tt.want {
				t.Errorf("ProgressStreak = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHabitStreak(t *testing.T) {
	c := clock.NewManual(now)

	if !HabitStreak(daysBack(7, water), c, "Drink Water", 7) {
		t.Error("seven days of water should hold")
	}
	if HabitStreak(daysBack(7, big), c, "Drink Water", 7) {
		t.Error("no water should not hold")
	}

	history := daysBack(7, water)
	history[2] = models.DayHistory{Day: history[2].Day, Habits: []models.Habit{big}}
	if HabitStreak(history, c, "Drink Water", 7) {
		t.Error("a day without water should break the streak")
	}
}

func TestHolds(t *testing.T) {
	c := clock.NewManual(now)
	if Holds(models.Rule{Kind: "bogus", Days: 1}, daysBack(1, big), c) {
		t.Error("unknown rule kind should not hold")
	}
	if !Holds(models.Rule{Kind: models.RuleHabitStreak, Days: 1, HabitName: "Workout"}, daysBack(1, big), c) {
		t.Error("one-day habit streak should hold")
	}
}

func TestEvaluateUnlocksOnce(t *testing.T) {
	c := clock.NewManual(now)
	store := kv.New(kv.NewMemoryBackend())
	e := NewEvaluator(c, store)
	history := daysBack(7, big)

	unlocked := e.Evaluate(history, now)
	if len(unlocked) != 1 || unlocked[0].ID != "streak80" {
		t.Fatalf("Evaluate unlocked %+v, want streak80", unlocked)
	}
	if store.Gems() != 1 {
		t.Errorf("Gems = %d, want 1", store.Gems())
	}

	if again := e.Evaluate(history, now.Add(time.Hour)); len(again) != 0 {
		t.Errorf("second Evaluate unlocked %+v", again)
	}
	if store.Gems() != 1 {
		t.Errorf("Gems after re-evaluation = %d, want 1", store.Gems())
	}

	for _, a := range e.Achievements() {
		if a.ID == "streak80" && (a.UnlockedAt == nil || !a.UnlockedAt.Equal(now)) {
			t.Errorf("streak80 UnlockedAt = %v, want %v", a.UnlockedAt, now)
		}
	}
}

func TestEvaluatorRestoresUnlocks(t *testing.T) {
	c := clock.NewManual(now)
	store := kv.New(kv.NewMemoryBackend())
	NewEvaluator(c, store).Evaluate(daysBack(7, big, water), now)
	if store.Gems() != 2 {
		t.Fatalf("Gems = %d, want 2", store.Gems())
	}

	restored := NewEvaluator(c, store)
	for _, a := range restored.Achievements() {
		if !a.Unlocked() {
			t.Errorf("%s not restored as unlocked", a.ID)
		}
	}
	if got := restored.Evaluate(daysBack(7, big, water), now); len(got) != 0 {
		t.Errorf("restored evaluator unlocked %+v again", got)
	}
	if store.Gems() != 2 {
		t.Errorf("Gems = %d, want 2", store.Gems())
	}
}

func TestEvaluateMilestones(t *testing.T) {
	c := clock.NewManual(now)
	store := kv.New(kv.NewMemoryBackend())
	e := NewEvaluator(c, store)

	steps := []struct {
		total     int
		wantGems  int
		wantLevel int
	}{
		{total: 95, wantGems: 0, wantLevel: 0},
		{total: 105, wantGems: 1, wantLevel: 1},
		{total: 150, wantGems: 0, wantLevel: 1},
		{total: 420, wantGems: 3, wantLevel: 4},
		{total: 50, wantGems: 0, wantLevel: 4},
		{total: -30, wantGems: 0, wantLevel: 4},
	}
	for _, s := range steps {
		if got := e.EvaluateMilestones(s.total); got != s.wantGems {
			t.Errorf("EvaluateMilestones(%d) = %d, want %d", s.total, got, s.wantGems)
		}
		if got := store.MilestoneLevel(); got != s.wantLevel {
			t.Errorf("level after %d = %d, want %d", s.total, got, s.wantLevel)
		}
	}
	if store.Gems() != 4 {
		t.Errorf("Gems = %d, want 4", store.Gems())
	}
}
