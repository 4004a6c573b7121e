// Package sqldoc reads and writes the template and completion documents and
// the settings table over database/sql. The sqlite and postgres stores share it.
package sqldoc

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/migration"
	"github.com/julianstephens/tally/internal/models"
)

// Documents implements the ledger and key-value collaborators on one database.
type Documents struct {
	DB      *sql.DB
	Dialect migration.Dialect
}

// placeholders returns "p1, p2, ..., pn" for the dialect.
func (d Documents) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.Dialect.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

func (d Documents) ready() error {
	if d.DB == nil {
		return errors.New("storage not loaded")
	}
	return nil
}

func (d Documents) LoadTemplates() ([]models.Habit, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.DB.Query(`SELECT id, name, points, kind, category, quantity_value, quantity_unit
		FROM habits ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var templates []models.Habit
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Points, &h.Kind, &h.Category, &h.Quantity.Value, &h.Quantity.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		templates = append(templates, h)
	}
	return templates, rows.Err()
}

// SaveTemplates replaces the whole template list in one transaction.
func (d Documents) SaveTemplates(templates []models.Habit) error {
	if err := d.ready(); err != nil {
		return err
	}
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO habits (position, id, name, points, kind, category, quantity_value, quantity_unit)
		VALUES (` + d.placeholders(8) + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range templates {
		if _, err := stmt.Exec(i, h.ID, h.Name, h.Points, string(h.Kind), h.Category, h.Quantity.Value, h.Quantity.Unit); err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

func (d Documents) LoadCompletions() ([]models.Completion, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.DB.Query(`SELECT habit_id, name, points, kind, category, quantity_value, quantity_unit, completed_at
		FROM completions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		h := &c.Habit
		var at any
		if err := rows.Scan(&h.ID, &h.Name, &h.Points, &h.Kind, &h.Category, &h.Quantity.Value, &h.Quantity.Unit, &at); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		if c.At, err = decodeTime(at); err != nil {
			return nil, fmt.Errorf("completion of %s: %w", h.ID, err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// SaveCompletions replaces the whole completion list in one transaction.
func (d Documents) SaveCompletions(completions []models.Completion) error {
	if err := d.ready(); err != nil {
		return err
	}
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO completions (habit_id, name, points, kind, category, quantity_value, quantity_unit, completed_at)
		VALUES (` + d.placeholders(8) + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range completions {
		h := c.Habit
		if _, err := stmt.Exec(h.ID, h.Name, h.Points, string(h.Kind), h.Category, h.Quantity.Value, h.Quantity.Unit, d.encodeTime(c.At)); err != nil {
			return fmt.Errorf("failed to insert completion of %s: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

// encodeTime stores text in sqlite and a native timestamp in postgres.
func (d Documents) encodeTime(t time.Time) any {
	if d.Dialect == migration.Postgres {
		return t
	}
	return t.Format(time.RFC3339Nano)
}

func decodeTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

func (d Documents) GetValue(key string) (string, bool, error) {
	if err := d.ready(); err != nil {
		return "", false, err
	}
	var value string
	err := d.DB.QueryRow("SELECT value FROM settings WHERE key = "+d.Dialect.Placeholder(1), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (d Documents) SetValue(key, value string) error {
	if err := d.ready(); err != nil {
		return err
	}
	_, err := d.DB.Exec(`INSERT INTO settings (key, value) VALUES (`+d.placeholders(2)+`)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (d Documents) DeleteValue(key string) error {
	if err := d.ready(); err != nil {
		return err
	}
	_, err := d.DB.Exec("DELETE FROM settings WHERE key = "+d.Dialect.Placeholder(1), key)
	return err
}

// Settings returns every stored key-value pair.
func (d Documents) Settings() (map[string]string, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.DB.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}
