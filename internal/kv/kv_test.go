package kv

import (
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

func TestDailyTargetFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		set    bool
		want   int
	}{
		{"absent", "", false, 100},
		{"zero", "0", true, 100},
		{"negative", "-20", true, 100},
		{"garbage", "lots", true, 100},
		{"valid", "250", true, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			if tt.set {
				backend.SetValue(constants.SettingDailyTarget, tt.stored)
			}
			if got := New(backend).DailyTarget(); got != tt.want {
				t.Errorf("DailyTarget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddGemsAccumulates(t *testing.T) {
	store := New(NewMemoryBackend())

	if _, err := store.AddGems(2); err != nil {
		t.Fatalf("AddGems() error: %v", err)
	}
	total, err := store.AddGems(3)
	if err != nil {
		t.Fatalf("AddGems() error: %v", err)
	}
	if total != 5 || store.Gems() != 5 {
		t.Errorf("gems = %d (returned %d), want 5", store.Gems(), total)
	}
}

func TestProfileRegistration(t *testing.T) {
	store := New(NewMemoryBackend())
	if store.Profile().Registered() {
		t.Fatal("empty profile reports registered")
	}

	if err := store.Register("Ada", "ada@example.com"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	p := store.Profile()
	if !p.Registered() || p.Name != "Ada" || p.Email != "ada@example.com" {
		t.Errorf("Profile() = %+v after registration", p)
	}
}

func TestReminderTimeLifecycle(t *testing.T) {
	store := New(NewMemoryBackend())

	if _, ok := store.ReminderTime("h1"); ok {
		t.Fatal("reminder present before being set")
	}
	store.SetReminderTime("h1", "07:30")
	store.SetReminderFiredOn("h1", "2025-01-02")

	if got, ok := store.ReminderTime("h1"); !ok || got != "07:30" {
		t.Errorf("ReminderTime() = %q, %v", got, ok)
	}

	if err := store.ClearReminderTime("h1"); err != nil {
		t.Fatalf("ClearReminderTime() error: %v", err)
	}
	if _, ok := store.ReminderTime("h1"); ok {
		t.Error("reminder still present after clear")
	}
	if store.ReminderFiredOn("h1") != "" {
		t.Error("fired marker still present after clear")
	}
}

func TestAchievementUnlockRoundTrip(t *testing.T) {
	store := New(NewMemoryBackend())
	at := time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

	store.SetAchievementUnlockedAt("streak80", at)
	got, ok := store.AchievementUnlockedAt("streak80")
	if !ok || !got.Equal(at) {
		t.Errorf("AchievementUnlockedAt() = %v, %v; want %v", got, ok, at)
	}
}

func TestLastDeletion(t *testing.T) {
	store := New(NewMemoryBackend())
	if _, ok := store.LastDeletion(); ok {
		t.Fatal("LastDeletion() present on empty store")
	}

	c := models.Completion{
		Habit: models.Habit{ID: "a", Name: "Read", Points: 5, Kind: models.HabitKindBeneficial, Category: "Mind"},
		At:    time.Date(2025, 4, 1, 21, 0, 0, 0, time.UTC),
	}
	if err := store.SetLastDeletion(c); err != nil {
		t.Fatalf("SetLastDeletion() error: %v", err)
	}
	got, ok := store.LastDeletion()
	if !ok || got.Habit != c.Habit || !got.At.Equal(c.At) {
		t.Errorf("LastDeletion() = %+v, %v", got, ok)
	}

	store.ClearLastDeletion()
	if _, ok := store.LastDeletion(); ok {
		t.Error("LastDeletion() present after clear")
	}
}
