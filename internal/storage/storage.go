// Package storage selects and describes the persistence backends.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/storage/jsonfile"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

// Provider is a persistence backend: the two ledger documents plus the
// settings key-value table.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	ledger.Persister
	kv.Backend
	Settings() (map[string]string, error)

	// GetConfigPath returns the file path, or a non-sensitive label for databases.
	GetConfigPath() string
}

// Kind names a backend.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindJSON     Kind = "json"
)

// Detect picks the backend for a --config value: PostgreSQL connection
// strings, .json files, and everything else as a sqlite path.
func Detect(config string) Kind {
	switch {
	case postgres.IsConnString(config):
		return KindPostgres
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open constructs the backend for config without touching it. Callers run
// Init or Load next. PostgreSQL connection strings given on the command line
// must not embed a password; secret sources (environment, keyring) may.
func Open(config string, secret bool) (Provider, error) {
	switch Detect(config) {
	case KindPostgres:
		if err := postgres.ValidateConnString(config); err != nil {
			if !secret || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
		}
		return postgres.New(config), nil
	case KindJSON:
		return jsonfile.NewStore(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}

// CopyStats counts what Copy moved.
type CopyStats struct {
	Templates   int
	Completions int
	Settings    int
}

// Copy replaces dst's documents with src's and copies every setting. Both
// providers must already be loaded.
func Copy(dst, src Provider) (CopyStats, error) {
	var stats CopyStats

	templates, err := src.LoadTemplates()
	if err != nil {
		return stats, fmt.Errorf("failed to read templates from source: %w", err)
	}
	if err := dst.SaveTemplates(templates); err != nil {
		return stats, fmt.Errorf("failed to save templates: %w", err)
	}
	stats.Templates = len(templates)

	completions, err := src.LoadCompletions()
	if err != nil {
		return stats, fmt.Errorf("failed to read completions from source: %w", err)
	}
	if err := dst.SaveCompletions(completions); err != nil {
		return stats, fmt.Errorf("failed to save completions: %w", err)
	}
	stats.Completions = len(completions)

	settings, err := src.Settings()
	if err != nil {
		return stats, fmt.Errorf("failed to read settings from source: %w", err)
	}
	for key, value := range settings {
		if err := dst.SetValue(key, value); err != nil {
			return stats, fmt.Errorf("failed to save setting %s: %w", key, err)
		}
		stats.Settings++
	}
	return stats, nil
}
