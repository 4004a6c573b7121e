package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

var water = models.Habit{ID: "w", Name: "Drink Water", Points: 2, Kind: models.HabitKindBeneficial, Category: "Health"}

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tally.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if err := store.SaveTemplates([]models.Habit{water}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func loadTemplates(t *testing.T, dbPath string) []models.Habit {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	defer store.Close()
	templates, err := store.LoadTemplates()
	if err != nil {
		t.Fatal(err)
	}
	return templates
}

func fixedClock(m *Manager, start time.Time) {
	next := start
	m.now = func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	path, err := m.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if filepath.Dir(path) != m.Dir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(path), m.Dir())
	}
	if got := loadTemplates(t, path); len(got) != 1 || got[0] != water {
		t.Errorf("backup templates = %+v", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.Create(); err == nil {
		t.Error("expected an error backing up a missing database")
	}
}

func TestSameSecondBackupsGetDistinctNames(t *testing.T) {
	m := NewManager(setupTestDB(t))
	stamp := time.Date(2025, 7, 16, 9, 0, 0, 0, time.Local)
	m.now = func() time.Time { return stamp }

	first, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("both backups written to %s", first)
	}
	if filepath.Base(second) != constants.BackupFilePrefix+"20250716-090000-1"+constants.BackupFileSuffix {
		t.Errorf("second backup name = %s", filepath.Base(second))
	}
	backups, err := m.List()
	if err != nil || len(backups) != 2 {
		t.Fatalf("List() = %+v, %v", backups, err)
	}
}

func TestRotationKeepsNewest(t *testing.T) {
	m := NewManager(setupTestDB(t))
	fixedClock(m, time.Date(2025, 7, 1, 8, 0, 0, 0, time.Local))

	var newest string
	for i := 0; i < constants.MaxBackups+3; i++ {
		path, err := m.Create()
		if err != nil {
			t.Fatal(err)
		}
		newest = path
	}

	backups, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	if backups[0].Path != newest {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, newest)
	}
	if !backups[0].Timestamp.After(backups[len(backups)-1].Timestamp) {
		t.Error("backups are not sorted newest first")
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	m := NewManager(setupTestDB(t))
	if err := os.MkdirAll(m.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage" + constants.BackupFileSuffix} {
		if err := os.WriteFile(filepath.Join(m.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err := m.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = %+v, %v", backups, err)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)
	fixedClock(m, time.Date(2025, 7, 16, 9, 0, 0, 0, time.Local))

	saved, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTemplates(nil); err != nil {
		t.Fatal(err)
	}
	store.Close()

	safety, err := m.Restore(saved)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the current database")
	}
	if got := loadTemplates(t, dbPath); len(got) != 1 || got[0] != water {
		t.Errorf("restored templates = %+v", got)
	}
	if got := loadTemplates(t, safety); len(got) != 0 {
		t.Errorf("safety backup templates = %+v, want empty", got)
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	if _, err := m.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected an error for a missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Restore(bogus); err == nil {
		t.Error("expected an error for a corrupt backup")
	}
	if got := loadTemplates(t, dbPath); len(got) != 1 {
		t.Errorf("database changed after a rejected restore: %+v", got)
	}
}
