// Package jsonfile stores tally's documents as plain JSON files: the
// configured path holds settings, and the template and completion documents
// sit beside it.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/models"
)

const (
	TemplatesFileName   = "habit_templates.json"
	CompletionsFileName = "habit_completions.json"
)

type Store struct {
	path string

	mu       sync.Mutex
	settings map[string]string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) dir() string {
	return filepath.Dir(s.path)
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = make(map[string]string)
	return writeJSON(s.path, s.settings)
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings != nil {
		return nil
	}
	settings := make(map[string]string)
	if err := readJSON(s.path, &settings); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.ErrNotInitialized
		}
		return fmt.Errorf("failed to read settings: %w", err)
	}
	s.settings = settings
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// LoadTemplates returns nil without error when the document does not exist yet.
func (s *Store) LoadTemplates() ([]models.Habit, error) {
	var templates []models.Habit
	err := readJSON(filepath.Join(s.dir(), TemplatesFileName), &templates)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return templates, err
}

func (s *Store) SaveTemplates(templates []models.Habit) error {
	if templates == nil {
		templates = []models.Habit{}
	}
	return writeJSON(filepath.Join(s.dir(), TemplatesFileName), templates)
}

func (s *Store) LoadCompletions() ([]models.Completion, error) {
	var completions []models.Completion
	err := readJSON(filepath.Join(s.dir(), CompletionsFileName), &completions)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return completions, err
}

func (s *Store) SaveCompletions(completions []models.Completion) error {
	if completions == nil {
		completions = []models.Completion{}
	}
	return writeJSON(filepath.Join(s.dir(), CompletionsFileName), completions)
}

func (s *Store) GetValue(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return "", false, errors.New("storage not loaded")
	}
	v, ok := s.settings[key]
	return v, ok, nil
}

func (s *Store) SetValue(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return errors.New("storage not loaded")
	}
	s.settings[key] = value
	return writeJSON(s.path, s.settings)
}

func (s *Store) DeleteValue(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return errors.New("storage not loaded")
	}
	if _, ok := s.settings[key]; !ok {
		return nil
	}
	delete(s.settings, key)
	return writeJSON(s.path, s.settings)
}

// Settings returns a copy of every stored setting.
func (s *Store) Settings() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, errors.New("storage not loaded")
	}
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path atomically: the document is written to a temp file
// in the same directory and renamed over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
