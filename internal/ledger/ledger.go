// Package ledger holds habit templates and the completion mapping.
//
// Completions are keyed by the full habit value: recording the same habit
// value twice keeps a single entry with the latest timestamp, while a habit
// with a distinct ID (such as a timer-derived synthetic habit) is its own key.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// Persister stores the two ledger documents. Each save replaces the whole document.
type Persister interface {
	LoadTemplates() ([]models.Habit, error)
	SaveTemplates([]models.Habit) error
	LoadCompletions() ([]models.Completion, error)
	SaveCompletions([]models.Completion) error
}

type Ledger struct {
	mu        sync.Mutex
	store     Persister
	templates []models.Habit
	completed map[models.Habit]time.Time
}

func New(store Persister) *Ledger {
	return &Ledger{
		store:     store,
		completed: make(map[models.Habit]time.Time),
	}
}

// Load reads both documents from the persister. Read failures are logged and
// leave the ledger empty. When no templates exist, seed supplies the initial
// list, which is persisted immediately.
func (l *Ledger) Load(seed func() []models.Habit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	completions, err := l.store.LoadCompletions()
	if err != nil {
		logger.Warn("Failed to load completions", "error", err)
	}
	l.completed = make(map[models.Habit]time.Time, len(completions))
	for _, c := range completions {
		l.completed[c.Habit] = c.At
	}

	templates, err := l.store.LoadTemplates()
	if err != nil {
		logger.Warn("Failed to load habit templates", "error", err)
	}
	l.templates = templates

	if len(l.templates) == 0 && seed != nil {
		l.templates = seed()
		logger.Info("Seeded habit templates", "count", len(l.templates))
		l.saveTemplates()
	}
}

// Templates returns the habit templates in their stored order.
func (l *Ledger) Templates() []models.Habit {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Habit, len(l.templates))
	copy(out, l.templates)
	return out
}

// Completions returns a copy of the habit to timestamp mapping.
func (l *Ledger) Completions() map[models.Habit]time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[models.Habit]time.Time, len(l.completed))
	for h, at := range l.completed {
		out[h] = at
	}
	return out
}

// CompletionTime returns the timestamp recorded for a habit value.
func (l *Ledger) CompletionTime(h models.Habit) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.completed[h]
	return at, ok
}

// RecordCompletion upserts the completion timestamp for h.
func (l *Ledger) RecordCompletion(h models.Habit, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.completed[h] = at
	l.saveCompletions()
}

// DeleteCompletion removes the completion keyed by h, if any.
func (l *Ledger) DeleteCompletion(h models.Habit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.completed, h)
	l.saveCompletions()
}

func (l *Ledger) AddTemplate(h models.Habit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates = append(l.templates, h)
	l.saveTemplates()
}

// UpdateTemplate replaces the template with the same ID. Unknown IDs are ignored.
func (l *Ledger) UpdateTemplate(h models.Habit) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.templates {
		if l.templates[i].ID == h.ID {
			l.templates[i] = h
			l.saveTemplates()
			return true
		}
	}
	return false
}

// RemoveTemplate removes the template with the given ID together with the
// completion keyed by that template value.
func (l *Ledger) RemoveTemplate(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.templates[:0]
	var removed []models.Habit
	for _, h := range l.templates {
		if h.ID == id {
			removed = append(removed, h)
			continue
		}
		kept = append(kept, h)
	}
	if len(removed) == 0 {
		return false
	}
	l.templates = kept
	for _, h := range removed {
		delete(l.completed, h)
	}
	l.saveTemplates()
	l.saveCompletions()
	return true
}

// saveTemplates and saveCompletions must be called with l.mu held.
// Write failures are logged; the in-memory state stays authoritative.
func (l *Ledger) saveTemplates() {
	out := make([]models.Habit, len(l.templates))
	copy(out, l.templates)
	if err := l.store.SaveTemplates(out); err != nil {
		logger.Warn("Failed to save habit templates", "error", err)
	}
}

func (l *Ledger) saveCompletions() {
	if err := l.store.SaveCompletions(sortedCompletions(l.completed)); err != nil {
		logger.Warn("Failed to save completions", "error", err)
	}
}

// sortedCompletions flattens the mapping oldest first so documents are stable.
func sortedCompletions(m map[models.Habit]time.Time) []models.Completion {
	out := make([]models.Completion, 0, len(m))
	for h, at := range m {
		out = append(out, models.Completion{Habit: h, At: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		if out[i].Habit.ID != out[j].Habit.ID {
			return out[i].Habit.ID < out[j].Habit.ID
		}
		return out[i].Habit.Name < out[j].Habit.Name
	})
	return out
}

// MemoryPersister keeps ledger documents in memory.
type MemoryPersister struct {
	mu          sync.Mutex
	templates   []models.Habit
	completions []models.Completion
}

func NewMemoryPersister(templates ...models.Habit) *MemoryPersister {
	return &MemoryPersister{templates: templates}
}

func (m *MemoryPersister) LoadTemplates() ([]models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Habit, len(m.templates))
	copy(out, m.templates)
	return out, nil
}

func (m *MemoryPersister) SaveTemplates(templates []models.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = templates
	return nil
}

func (m *MemoryPersister) LoadCompletions() ([]models.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Completion, len(m.completions))
	copy(out, m.completions)
	return out, nil
}

func (m *MemoryPersister) SaveCompletions(completions []models.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = completions
	return nil
}
