// Package state persists UI state across restarts in a local SQLite
// key-value namespace.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/artkel/gcp-guru/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Persisted keys. One row per key, JSON-encoded values.
const (
	keyTheme           = "theme"
	keyScreen          = "current_screen"
	keyStats           = "session_stats"
	keyDomains         = "selected_domains"
	keyShuffleAnswers  = "shuffle_answers"
	keyMasteryFilter   = "mastery_filter"
	keyCurrentQuestion = "current_question"
	keySelectedAnswers = "selected_answers"
)

// Snapshot is the subset of UI state that survives a restart. Zero-value
// fields fall back to defaults on load, never to a startup failure.
type Snapshot struct {
	Theme           model.Theme
	Screen          model.Screen
	Stats           model.SessionStats
	SelectedDomains []string // nil means all topics
	ShuffleAnswers  bool
	MasteryFilter   string
	Question        *model.Question
	SelectedAnswers []string // ordered encoding of the selection set
}

// DefaultSnapshot returns the documented fallback state.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Theme:          model.ThemeLight,
		Screen:         model.ScreenStart,
		ShuffleAnswers: true,
		MasteryFilter:  "all",
	}
}

// Store wraps SQLite access for persisted UI state.
type Store struct {
	db *sql.DB
}

// Open opens or creates the state database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Save writes the full snapshot in one transaction.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	entries := []struct {
		key   string
		value any
	}{
		{keyTheme, snap.Theme},
		{keyScreen, snap.Screen},
		{keyStats, snap.Stats},
		{keyDomains, snap.SelectedDomains},
		{keyShuffleAnswers, snap.ShuffleAnswers},
		{keyMasteryFilter, snap.MasteryFilter},
		{keyCurrentQuestion, snap.Question},
		{keySelectedAnswers, snap.SelectedAnswers},
	}
	for _, entry := range entries {
		encoded, merr := json.Marshal(entry.value)
		if merr != nil {
			err = merr
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO app_state (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			entry.key, string(encoded)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load rehydrates the snapshot. Missing or undecodable keys fall back to
// the provided defaults; only database-level failures are reported.
func (s *Store) Load(ctx context.Context, defaults Snapshot) (Snapshot, error) {
	snap := defaults

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_state`)
	if err != nil {
		return snap, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return snap, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	if theme, ok := decodeField[model.Theme](values, keyTheme); ok {
		if theme == model.ThemeLight || theme == model.ThemeDark {
			snap.Theme = theme
		}
	}
	if screen, ok := decodeField[model.Screen](values, keyScreen); ok && model.ValidScreen(screen) {
		snap.Screen = screen
	}
	if stats, ok := decodeField[model.SessionStats](values, keyStats); ok {
		snap.Stats = stats
	}
	if domains, ok := decodeField[[]string](values, keyDomains); ok {
		snap.SelectedDomains = domains
	}
	if shuffle, ok := decodeField[bool](values, keyShuffleAnswers); ok {
		snap.ShuffleAnswers = shuffle
	}
	if filter, ok := decodeField[string](values, keyMasteryFilter); ok && filter != "" {
		snap.MasteryFilter = filter
	}
	if q, ok := decodeField[*model.Question](values, keyCurrentQuestion); ok {
		snap.Question = q
	}
	if selected, ok := decodeField[[]string](values, keySelectedAnswers); ok {
		snap.SelectedAnswers = selected
	}
	return snap, nil
}

func decodeField[T any](values map[string]string, key string) (T, bool) {
	var out T
	raw, ok := values[key]
	if !ok {
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, false
	}
	return out, true
}
