// Package config resolves where tally keeps its data and which habit
// templates a fresh ledger starts with.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// KeyringSentinel as the --config value reads the connection string from the OS keyring.
const KeyringSentinel = "keyring"

// LoadEnv reads dir/.env into the process environment. Variables already set
// win. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, constants.EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("Loaded environment file", "path", path)
	return nil
}

// StoreSource is the resolved storage location. Secret is true when the value
// came from the environment or the keyring and may carry a password.
type StoreSource struct {
	Value  string
	Secret bool
}

// ResolveStore applies the precedence environment, then keyring (when the
// flag asks for it), then the --config flag value.
func ResolveStore(flagValue string) (StoreSource, error) {
	if v := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); v != "" {
		return StoreSource{Value: v, Secret: true}, nil
	}
	if flagValue == KeyringSentinel {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return StoreSource{}, fmt.Errorf("reading connection string from keyring: %w", err)
		}
		return StoreSource{Value: connStr, Secret: true}, nil
	}
	return StoreSource{Value: flagValue}, nil
}

// ConfigDir is the directory holding logs, backups and the .env file for a
// store location. Database stores fall back to the default config directory.
func ConfigDir(store string) string {
	if store == "" || strings.Contains(store, "://") || store == KeyringSentinel {
		return ExpandHome(filepath.Dir(constants.DefaultConfigPath))
	}
	return filepath.Dir(ExpandHome(store))
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// BuiltInTemplates is the starter template list used when no bootstrap file exists.
func BuiltInTemplates() []models.Habit {
	seed := []struct {
		name     string
		points   int
		category string
	}{
		{"Drink Water", 2, "Health"},
		{"Meditate", 10, "Mindfulness"},
		{"Workout", 15, "Fitness"},
		{"Junk Food", -10, "Diet"},
		{"Procrastinate", -5, "Productivity"},
	}
	out := make([]models.Habit, len(seed))
	for i, s := range seed {
		out[i] = normalize(models.Habit{Name: s.name, Points: s.points, Category: s.category})
	}
	return out
}

// LoadTemplates reads a JSON list of templates from path. Any read or decode
// failure is logged and the built-in templates are returned instead.
func LoadTemplates(path string) []models.Habit {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read bootstrap habits", "path", path, "error", err)
		}
		return BuiltInTemplates()
	}

	var templates []models.Habit
	if err := json.Unmarshal(data, &templates); err != nil {
		logger.Warn("Failed to decode bootstrap habits", "path", path, "error", err)
		return BuiltInTemplates()
	}

	out := make([]models.Habit, 0, len(templates))
	for _, h := range templates {
		if strings.TrimSpace(h.Name) == "" {
			logger.Warn("Skipping bootstrap habit without a name", "path", path)
			continue
		}
		out = append(out, normalize(h))
	}
	if len(out) == 0 {
		return BuiltInTemplates()
	}
	return out
}

// normalize fills a missing id and derives a missing kind from the point sign.
func normalize(h models.Habit) models.Habit {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if !h.Kind.Valid() {
		h.Kind = KindForPoints(h.Points)
	}
	return h
}

// KindForPoints classifies negative point values as detrimental.
func KindForPoints(points int) models.HabitKind {
	if points < 0 {
		return models.HabitKindDetrimental
	}
	return models.HabitKindBeneficial
}
