// Package kv provides typed access to the small scalars tally keeps in the
// settings key-value table.
package kv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// Backend is the raw string key-value collaborator implemented by storage providers.
type Backend interface {
	GetValue(key string) (string, bool, error)
	SetValue(key, value string) error
	DeleteValue(key string) error
}

// Store wraps a Backend with typed accessors. Read failures resolve to defaults
// and are logged; write failures are returned so callers can decide.
type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

func (s *Store) get(key string) (string, bool) {
	value, ok, err := s.backend.GetValue(key)
	if err != nil {
		logger.Warn("Failed to read setting", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

func (s *Store) getInt(key string) (int, bool) {
	value, ok := s.get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("Ignoring non-integer setting", "key", key, "value", value)
		return 0, false
	}
	return n, true
}

func (s *Store) setInt(key string, n int) error {
	return s.backend.SetValue(key, strconv.Itoa(n))
}

// DailyTarget returns the persisted daily target, or the default when the
// stored value is missing, unparsable or not positive.
func (s *Store) DailyTarget() int {
	n, ok := s.getInt(constants.SettingDailyTarget)
	if !ok || n <= 0 {
		return constants.DefaultDailyTarget
	}
	return n
}

func (s *Store) SetDailyTarget(n int) error {
	return s.setInt(constants.SettingDailyTarget, n)
}

func (s *Store) MilestoneLevel() int {
	n, _ := s.getInt(constants.SettingMilestoneLevel)
	return n
}

func (s *Store) SetMilestoneLevel(n int) error {
	return s.setInt(constants.SettingMilestoneLevel, n)
}

func (s *Store) Gems() int {
	n, _ := s.getInt(constants.SettingGems)
	return n
}

// AddGems increments the gem balance and returns the new total.
func (s *Store) AddGems(amount int) (int, error) {
	total := s.Gems() + amount
	if err := s.setInt(constants.SettingGems, total); err != nil {
		return s.Gems(), err
	}
	return total, nil
}

// Profile assembles the user's registration details and rewards.
func (s *Store) Profile() models.Profile {
	name, _ := s.get(constants.SettingUserName)
	email, _ := s.get(constants.SettingUserEmail)
	return models.Profile{
		Name:           name,
		Email:          email,
		Gems:           s.Gems(),
		MilestoneLevel: s.MilestoneLevel(),
	}
}

func (s *Store) Register(name, email string) error {
	if err := s.backend.SetValue(constants.SettingUserName, name); err != nil {
		return err
	}
	return s.backend.SetValue(constants.SettingUserEmail, email)
}

// ReminderTime returns the HH:MM reminder time for a habit, if one is set.
func (s *Store) ReminderTime(habitID string) (string, bool) {
	return s.get(constants.SettingReminderPrefix + habitID)
}

func (s *Store) SetReminderTime(habitID, hhmm string) error {
	return s.backend.SetValue(constants.SettingReminderPrefix+habitID, hhmm)
}

func (s *Store) ClearReminderTime(habitID string) error {
	if err := s.backend.DeleteValue(constants.SettingReminderPrefix + habitID); err != nil {
		return err
	}
	return s.backend.DeleteValue(constants.SettingReminderFiredPrefix + habitID)
}

// ReminderFiredOn returns the day (YYYY-MM-DD) a habit's reminder last fired.
func (s *Store) ReminderFiredOn(habitID string) string {
	day, _ := s.get(constants.SettingReminderFiredPrefix + habitID)
	return day
}

func (s *Store) SetReminderFiredOn(habitID, day string) error {
	return s.backend.SetValue(constants.SettingReminderFiredPrefix+habitID, day)
}

// AchievementUnlockedAt returns when an achievement was unlocked, if ever.
func (s *Store) AchievementUnlockedAt(id string) (time.Time, bool) {
	value, ok := s.get(constants.SettingAchievementPrefix + id)
	if !ok {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		logger.Warn("Ignoring malformed achievement unlock time", "achievement", id, "value", value)
		return time.Time{}, false
	}
	return at, true
}

func (s *Store) SetAchievementUnlockedAt(id string, at time.Time) error {
	return s.backend.SetValue(constants.SettingAchievementPrefix+id, at.Format(time.RFC3339))
}

// LastDeletion returns the most recently removed completion, if any.
func (s *Store) LastDeletion() (models.Completion, bool) {
	value, ok := s.get(constants.SettingLastDeletion)
	if !ok || value == "" {
		return models.Completion{}, false
	}
	var c models.Completion
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		logger.Warn("Ignoring malformed last deletion", "error", err)
		return models.Completion{}, false
	}
	return c, true
}

func (s *Store) SetLastDeletion(c models.Completion) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode last deletion: %w", err)
	}
	return s.backend.SetValue(constants.SettingLastDeletion, string(data))
}

func (s *Store) ClearLastDeletion() error {
	return s.backend.DeleteValue(constants.SettingLastDeletion)
}

// MemoryBackend is an in-process Backend.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) GetValue(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) SetValue(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) DeleteValue(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
