package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

var (
	water = models.Habit{ID: "water", Name: "Drink Water", Points: 2, Kind: models.HabitKindBeneficial, Category: "Health"}
	junk  = models.Habit{ID: "junk", Name: "Junk Food", Points: -10, Kind: models.HabitKindDetrimental, Category: "Diet"}
)

type failingPersister struct {
	MemoryPersister
}

func (f *failingPersister) LoadTemplates() ([]models.Habit, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingPersister) LoadCompletions() ([]models.Completion, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingPersister) SaveCompletions([]models.Completion) error {
	return errors.New("read-only filesystem")
}

func sumPoints(m map[models.Habit]time.Time) int {
	total := 0
	for h := range m {
		total += h.Points
	}
	return total
}

func TestRecordCompletionUpsertsByValue(t *testing.T) {
	l := New(NewMemoryPersister())
	first := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(3 * time.Hour)

	l.RecordCompletion(water, first)
	l.RecordCompletion(water, second)

	completions := l.Completions()
	if len(completions) != 1 {
		t.Fatalf("len(Completions()) = %d, want 1", len(completions))
	}
	if at, _ := l.CompletionTime(water); !at.Equal(second) {
		t.Errorf("CompletionTime() = %v, want %v (second timestamp wins)", at, second)
	}
}

func TestDistinctIDIsDistinctKey(t *testing.T) {
	l := New(NewMemoryPersister())
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	synthetic := water
	synthetic.ID = "synthetic"
	l.RecordCompletion(water, now)
	l.RecordCompletion(synthetic, now)

	if got := len(l.Completions()); got != 2 {
		t.Errorf("len(Completions()) = %d, want 2", got)
	}
}

func TestTotalsTrackMutations(t *testing.T) {
	l := New(NewMemoryPersister())
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	steps := []struct {
		record bool
		habit  models.Habit
		want   int
	}{
		{true, water, 2},
		{true, junk, -8},
		{true, water, -8},
		{false, junk, 2},
		{false, junk, 2},
		{false, water, 0},
	}

	for i, step := range steps {
		if step.record {
			l.RecordCompletion(step.habit, now.Add(time.Duration(i)*time.Minute))
		} else {
			l.DeleteCompletion(step.habit)
		}
		if got := sumPoints(l.Completions()); got != step.want {
			t.Errorf("step %d: total = %d, want %d", i, got, step.want)
		}
	}
}

func TestTemplateLifecycle(t *testing.T) {
	store := NewMemoryPersister()
	l := New(store)

	l.AddTemplate(water)
	l.AddTemplate(junk)
	l.RecordCompletion(water, time.Now())

	renamed := water
	renamed.Name = "Hydrate"
	if !l.UpdateTemplate(renamed) {
		t.Fatal("UpdateTemplate() = false for existing id")
	}
	if l.UpdateTemplate(models.Habit{ID: "missing"}) {
		t.Error("UpdateTemplate() = true for unknown id")
	}
	if got := l.Templates()[0].Name; got != "Hydrate" {
		t.Errorf("Templates()[0].Name = %q, want Hydrate", got)
	}

	// The recorded completion keeps the original value after the edit
	if _, ok := l.CompletionTime(water); !ok {
		t.Error("completion of original habit value lost after template update")
	}

	if !l.RemoveTemplate(junk.ID) {
		t.Fatal("RemoveTemplate() = false for existing id")
	}
	if got := len(l.Templates()); got != 1 {
		t.Errorf("len(Templates()) = %d, want 1", got)
	}

	saved, _ := store.LoadTemplates()
	if len(saved) != 1 || saved[0].ID != water.ID {
		t.Errorf("persisted templates = %+v", saved)
	}
}

func TestRemoveTemplateCascadesCompletion(t *testing.T) {
	store := NewMemoryPersister()
	l := New(store)
	l.AddTemplate(junk)
	l.RecordCompletion(junk, time.Now())

	l.RemoveTemplate(junk.ID)

	if _, ok := l.CompletionTime(junk); ok {
		t.Error("completion survived template removal")
	}
	saved, _ := store.LoadCompletions()
	if len(saved) != 0 {
		t.Errorf("persisted completions = %d, want 0", len(saved))
	}
}

func TestLoadSeedsEmptyTemplates(t *testing.T) {
	store := NewMemoryPersister()
	l := New(store)
	l.Load(func() []models.Habit { return []models.Habit{water, junk} })

	if got := len(l.Templates()); got != 2 {
		t.Fatalf("len(Templates()) = %d, want 2", got)
	}
	saved, _ := store.LoadTemplates()
	if len(saved) != 2 {
		t.Errorf("seeded templates not persisted: %d", len(saved))
	}

	// A second load keeps existing templates and does not reseed
	l2 := New(store)
	l2.Load(func() []models.Habit {
		t.Error("seed called although templates exist")
		return nil
	})
}

func TestLoadRestoresCompletions(t *testing.T) {
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	store := NewMemoryPersister(water)
	store.SaveCompletions([]models.Completion{{Habit: water, At: at}})

	l := New(store)
	l.Load(nil)

	if got, ok := l.CompletionTime(water); !ok || !got.Equal(at) {
		t.Errorf("CompletionTime() = %v, %v; want %v", got, ok, at)
	}
}

func TestPersistenceFailuresAreNotFatal(t *testing.T) {
	l := New(&failingPersister{})
	l.Load(func() []models.Habit { return []models.Habit{water} })

	l.RecordCompletion(water, time.Now())
	if _, ok := l.CompletionTime(water); !ok {
		t.Error("in-memory completion lost after write failure")
	}
}

func TestSavedCompletionsAreOrdered(t *testing.T) {
	store := NewMemoryPersister()
	l := New(store)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	l.RecordCompletion(junk, base.Add(2*time.Hour))
	l.RecordCompletion(water, base.Add(time.Hour))

	saved, _ := store.LoadCompletions()
	if len(saved) != 2 || saved[0].Habit != water || saved[1].Habit != junk {
		t.Errorf("saved completions not oldest first: %+v", saved)
	}
}
