// Package session holds the mutable state of an active study session.
package session

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/artkel/gcp-guru/internal/model"
)

// Store is the single source of truth for session state: running stats,
// the active question, the answer selection, and the session timer. All
// mutation happens on the UI event loop; readers never hold copies.
type Store struct {
	stats     model.SessionStats
	selection *Selection
	question  *model.Question
	domains   []string

	sessionID uuid.UUID

	timerRunning bool
	timerPaused  bool
	timerGen     int
	startBase    time.Time
	accumulated  time.Duration

	subs []func()
	now  func() time.Time
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		selection: NewSelection(1),
		now:       time.Now,
	}
}

// Subscribe registers fn to run after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

// SessionID identifies the current session. Responses carrying a stale
// session id must be discarded by the caller.
func (s *Store) SessionID() uuid.UUID {
	return s.sessionID
}

// StartSession resets stats, clears the selection, records the domain
// filter, and starts the timer. Any previous session must already have
// been flushed by the caller.
func (s *Store) StartSession(domains []string) {
	now := s.now()
	s.sessionID = uuid.New()
	s.stats = model.SessionStats{SessionStart: now}
	s.selection = NewSelection(1)
	s.question = nil
	s.domains = domains
	s.startBase = now
	s.accumulated = 0
	s.timerRunning = true
	s.timerPaused = false
	s.timerGen++
	s.notify()
}

// RecordAnswer increments the counters for one submitted answer. It must
// be called exactly once per submission; the flow controller's request
// gating is what enforces that.
func (s *Store) RecordAnswer(isCorrect bool) {
	s.stats.Total++
	if isCorrect {
		s.stats.Correct++
	}
	s.stats.Accuracy = roundAccuracy(s.stats.Correct, s.stats.Total)
	s.notify()
}

// EndSession stops the timer but keeps the stats readable so a summary
// can be shown. Clearing is the separate ResetStats step.
func (s *Store) EndSession() {
	if s.timerRunning {
		s.accumulated = s.elapsed()
		s.timerRunning = false
		s.timerPaused = false
		s.timerGen++
	}
	s.notify()
}

// ResetStats zeroes the stats and drops the active question and selection.
func (s *Store) ResetStats() {
	s.stats = model.SessionStats{}
	s.selection = NewSelection(1)
	s.question = nil
	s.notify()
}

// Pause freezes elapsed-time accounting.
func (s *Store) Pause() {
	if !s.timerRunning || s.timerPaused {
		return
	}
	s.accumulated = s.elapsed()
	s.timerPaused = true
	s.timerGen++
	s.notify()
}

// Resume rebases the virtual start time so Elapsed stays a single
// subtraction and repeated pause/resume cycles do not drift.
func (s *Store) Resume() {
	if !s.timerRunning || !s.timerPaused {
		return
	}
	s.startBase = s.now().Add(-s.accumulated)
	s.timerPaused = false
	s.timerGen++
	s.notify()
}

// Elapsed returns the session's running time, excluding paused spans.
func (s *Store) Elapsed() time.Duration {
	return s.elapsed()
}

func (s *Store) elapsed() time.Duration {
	if !s.timerRunning || s.timerPaused {
		return s.accumulated
	}
	return s.now().Sub(s.startBase)
}

// TimerRunning reports whether the timer is active and not paused.
func (s *Store) TimerRunning() bool {
	return s.timerRunning && !s.timerPaused
}

// TimerGen returns the timer generation. A scheduled tick carrying a
// stale generation must be dropped, so a restored UI never runs two
// tickers for one store.
func (s *Store) TimerGen() int {
	return s.timerGen
}

// SetQuestion installs a freshly loaded question and clears the selection,
// sizing it to the question's correct-answer count.
func (s *Store) SetQuestion(q *model.Question) {
	s.question = q
	capacity := 1
	if q != nil {
		if n := len(q.CorrectAnswerIDs()); n > 0 {
			capacity = n
		}
	}
	s.selection = NewSelection(capacity)
	s.notify()
}

// ReplaceQuestion swaps in a server-confirmed copy of the current
// question without touching the selection.
func (s *Store) ReplaceQuestion(q *model.Question) {
	s.question = q
	s.notify()
}

// ApplyStar records a server-confirmed star toggle on the local copy.
func (s *Store) ApplyStar(number int, starred bool) {
	if s.question == nil || s.question.Number != number {
		return
	}
	s.question.Starred = starred
	s.notify()
}

// ApplyNote records a server-confirmed note update on the local copy.
func (s *Store) ApplyNote(number int, note string) {
	if s.question == nil || s.question.Number != number {
		return
	}
	s.question.Note = note
	s.notify()
}

// Question returns the active question, or nil.
func (s *Store) Question() *model.Question {
	return s.question
}

// Selection returns the live selection for the active question.
func (s *Store) Selection() *Selection {
	return s.selection
}

// Stats returns the current session stats.
func (s *Store) Stats() model.SessionStats {
	return s.stats
}

// Domains returns the active domain filter; nil means all topics.
func (s *Store) Domains() []string {
	return s.domains
}

// SetDomains records the domain filter without starting a session.
func (s *Store) SetDomains(domains []string) {
	s.domains = domains
	s.notify()
}

// Restore rehydrates a persisted session: stats, domain filter, active
// question, and the selection as an ordered id list. The timer resumes
// from the persisted session start only when resume is set.
func (s *Store) Restore(stats model.SessionStats, domains []string, q *model.Question, selected []string, resume bool) {
	s.sessionID = uuid.New()
	s.stats = stats
	s.domains = domains
	s.question = q
	capacity := 1
	if q != nil {
		if n := len(q.CorrectAnswerIDs()); n > 0 {
			capacity = n
		}
	}
	s.selection = NewSelectionFromIDs(capacity, selected)
	if resume && !stats.SessionStart.IsZero() {
		s.startBase = stats.SessionStart
		s.accumulated = 0
		s.timerRunning = true
		s.timerPaused = false
		s.timerGen++
	}
	s.notify()
}

func roundAccuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
