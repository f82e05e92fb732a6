package state

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/artkel/gcp-guru/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("failed to close store: %v", err)
		}
	})
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := Snapshot{
		Theme:           model.ThemeDark,
		Screen:          model.ScreenTraining,
		Stats:           model.SessionStats{Total: 4, Correct: 3, Accuracy: 75.0, SessionStart: time.Unix(5000, 0).UTC()},
		SelectedDomains: []string{"Storage", "Networking"},
		ShuffleAnswers:  false,
		MasteryFilter:   "mistakes",
		Question: &model.Question{
			Number: 12,
			Text:   "which bucket class",
			Answers: map[string]model.Answer{
				"a": {Text: "nearline", Status: model.AnswerIncorrect},
				"b": {Text: "coldline", Status: model.AnswerCorrect},
			},
			Tags: []string{"Storage"},
		},
		SelectedAnswers: []string{"b"},
	}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := store.Load(ctx, DefaultSnapshot())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !got.Stats.SessionStart.Equal(snap.Stats.SessionStart) {
		t.Fatalf("session start mismatch: saved %s, loaded %s", snap.Stats.SessionStart, got.Stats.SessionStart)
	}
	got.Stats.SessionStart = snap.Stats.SessionStart
	if !reflect.DeepEqual(got, snap) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", snap, got)
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := DefaultSnapshot()
	first.Theme = model.ThemeDark
	first.SelectedDomains = []string{"Security"}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	second := DefaultSnapshot()
	second.Theme = model.ThemeLight
	second.SelectedDomains = nil
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := store.Load(ctx, DefaultSnapshot())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got.Theme != model.ThemeLight {
		t.Fatalf("expected latest theme, got %q", got.Theme)
	}
	if len(got.SelectedDomains) != 0 {
		t.Fatalf("expected cleared domains, got %v", got.SelectedDomains)
	}
}

func TestLoadEmptyStoreReturnsDefaults(t *testing.T) {
	store := openTestStore(t)

	defaults := DefaultSnapshot()
	got, err := store.Load(context.Background(), defaults)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !reflect.DeepEqual(got, defaults) {
		t.Fatalf("expected defaults %+v, got %+v", defaults, got)
	}
}

func TestLoadFailSoftOnCorruptValues(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := DefaultSnapshot()
	snap.MasteryFilter = "mastered"
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	// Corrupt a couple of rows by hand. Load must fall back to defaults
	// for those keys without failing the whole snapshot.
	corrupt := map[string]string{
		keyTheme:           `"neon"`,
		keyScreen:          `{{not json`,
		keyCurrentQuestion: `42`,
	}
	for key, value := range corrupt {
		if _, err := store.db.ExecContext(ctx,
			`INSERT INTO app_state (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value); err != nil {
			t.Fatalf("failed to corrupt key %q: %v", key, err)
		}
	}

	got, err := store.Load(ctx, DefaultSnapshot())
	if err != nil {
		t.Fatalf("load must not fail on corrupt values: %v", err)
	}
	if got.Theme != model.ThemeLight {
		t.Fatalf("unknown theme must fall back to default, got %q", got.Theme)
	}
	if got.Screen != model.ScreenStart {
		t.Fatalf("undecodable screen must fall back to default, got %q", got.Screen)
	}
	if got.MasteryFilter != "mastered" {
		t.Fatalf("intact keys must still load, got %q", got.MasteryFilter)
	}
}

func TestLoadRejectsUnknownScreen(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)`,
		keyScreen, `"settings"`); err != nil {
		t.Fatalf("failed to seed screen: %v", err)
	}

	got, err := store.Load(ctx, DefaultSnapshot())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got.Screen != model.ScreenStart {
		t.Fatalf("unknown screen must fall back to start, got %q", got.Screen)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store in missing directory: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}
