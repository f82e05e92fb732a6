package session

import (
	"testing"
	"time"

	"github.com/artkel/gcp-guru/internal/model"
)

func TestRecordAnswerAccuracy(t *testing.T) {
	s := New()
	s.StartSession(nil)

	cases := []struct {
		correct  bool
		accuracy float64
	}{
		{true, 100.0},
		{false, 50.0},
		{true, 66.7},
		{true, 75.0},
	}
	for i, tc := range cases {
		s.RecordAnswer(tc.correct)
		stats := s.Stats()
		if stats.Total != i+1 {
			t.Fatalf("expected total %d, got %d", i+1, stats.Total)
		}
		if stats.Accuracy != tc.accuracy {
			t.Fatalf("after %d answers expected accuracy %.1f, got %.1f", i+1, tc.accuracy, stats.Accuracy)
		}
	}
}

func TestAccuracyZeroWithoutAnswers(t *testing.T) {
	s := New()
	s.StartSession(nil)
	if acc := s.Stats().Accuracy; acc != 0 {
		t.Fatalf("expected accuracy 0, got %.1f", acc)
	}
}

func TestPauseResumeExcludesPausedSpan(t *testing.T) {
	now := time.Unix(1000, 0)
	s := New()
	s.now = func() time.Time { return now }

	s.StartSession(nil)
	now = now.Add(5 * time.Second)
	s.Pause()
	now = now.Add(10 * time.Second)
	s.Resume()
	now = now.Add(2 * time.Second)

	if got := s.Elapsed(); got != 7*time.Second {
		t.Fatalf("expected elapsed 7s, got %s", got)
	}
}

func TestRepeatedPauseResumeDoesNotDrift(t *testing.T) {
	now := time.Unix(1000, 0)
	s := New()
	s.now = func() time.Time { return now }

	s.StartSession(nil)
	for i := 0; i < 100; i++ {
		now = now.Add(time.Second)
		s.Pause()
		now = now.Add(time.Minute)
		s.Resume()
	}
	if got := s.Elapsed(); got != 100*time.Second {
		t.Fatalf("expected elapsed 100s, got %s", got)
	}
}

func TestEndSessionKeepsStatsUntilReset(t *testing.T) {
	s := New()
	s.StartSession(nil)
	s.RecordAnswer(true)
	s.EndSession()

	stats := s.Stats()
	if stats.Total != 1 || stats.Correct != 1 {
		t.Fatalf("stats must survive EndSession for the summary: %+v", stats)
	}

	s.ResetStats()
	stats = s.Stats()
	if stats.Total != 0 || stats.Correct != 0 || stats.Accuracy != 0 {
		t.Fatalf("expected zeroed stats after ResetStats: %+v", stats)
	}
	if s.Question() != nil {
		t.Fatalf("expected question cleared after ResetStats")
	}
}

func TestEndSessionFreezesElapsed(t *testing.T) {
	now := time.Unix(1000, 0)
	s := New()
	s.now = func() time.Time { return now }

	s.StartSession(nil)
	now = now.Add(30 * time.Second)
	s.EndSession()
	now = now.Add(time.Hour)

	if got := s.Elapsed(); got != 30*time.Second {
		t.Fatalf("expected elapsed frozen at 30s, got %s", got)
	}
}

func TestTimerGenChangesOnLifecycleEvents(t *testing.T) {
	s := New()
	gen := s.TimerGen()
	s.StartSession(nil)
	if s.TimerGen() == gen {
		t.Fatalf("expected timer generation bump on start")
	}
	gen = s.TimerGen()
	s.Pause()
	if s.TimerGen() == gen {
		t.Fatalf("expected timer generation bump on pause")
	}
	gen = s.TimerGen()
	s.Resume()
	if s.TimerGen() == gen {
		t.Fatalf("expected timer generation bump on resume")
	}
	gen = s.TimerGen()
	s.EndSession()
	if s.TimerGen() == gen {
		t.Fatalf("expected timer generation bump on end")
	}
	if s.TimerRunning() {
		t.Fatalf("timer must stop on end")
	}
}

func TestStartSessionRotatesSessionID(t *testing.T) {
	s := New()
	s.StartSession(nil)
	first := s.SessionID()
	s.EndSession()
	s.StartSession(nil)
	if s.SessionID() == first {
		t.Fatalf("expected a fresh session id per session")
	}
}

func TestSetQuestionSizesSelection(t *testing.T) {
	s := New()
	s.StartSession(nil)
	q := &model.Question{
		Number: 7,
		Answers: map[string]model.Answer{
			"a": {Status: model.AnswerCorrect},
			"b": {Status: model.AnswerCorrect},
			"c": {Status: model.AnswerIncorrect},
		},
	}
	s.SetQuestion(q)
	if got := s.Selection().Cap(); got != 2 {
		t.Fatalf("expected selection cap 2, got %d", got)
	}
	s.Selection().Toggle("a")
	s.SetQuestion(q)
	if s.Selection().Size() != 0 {
		t.Fatalf("expected selection cleared on question transition")
	}
}

func TestRestoreRebuildsSelectionAndTimer(t *testing.T) {
	now := time.Unix(2000, 0)
	s := New()
	s.now = func() time.Time { return now }

	q := &model.Question{
		Number: 12,
		Answers: map[string]model.Answer{
			"a": {Status: model.AnswerCorrect},
			"b": {Status: model.AnswerCorrect},
		},
	}
	stats := model.SessionStats{Total: 3, Correct: 2, Accuracy: 66.7, SessionStart: now.Add(-time.Minute)}
	s.Restore(stats, []string{"Storage"}, q, []string{"b", "a"}, true)

	if got := s.Stats(); got != stats {
		t.Fatalf("expected restored stats %+v, got %+v", stats, got)
	}
	if !s.Selection().Has("a") || !s.Selection().Has("b") {
		t.Fatalf("expected restored selection, got %v", s.Selection().IDs())
	}
	if !s.TimerRunning() {
		t.Fatalf("expected timer running after resume restore")
	}
	if got := s.Elapsed(); got != time.Minute {
		t.Fatalf("expected elapsed 1m from persisted session start, got %s", got)
	}
}

func TestSubscribeNotifiedOnMutation(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })
	s.StartSession(nil)
	s.RecordAnswer(true)
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
}
