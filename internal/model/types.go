// Package model defines shared data structures.
package model

import (
	"sort"
	"time"
)

// AnswerStatus marks an answer option as correct or incorrect.
type AnswerStatus string

// Answer status values as served by the backend.
const (
	AnswerCorrect   AnswerStatus = "correct"
	AnswerIncorrect AnswerStatus = "incorrect"
)

// Answer is a single answer option of a question.
type Answer struct {
	Text   string       `json:"answer_text"`
	Status AnswerStatus `json:"status"`
}

// Question is a single exam question with its answer options and
// user-local annotations.
type Question struct {
	Number      int               `json:"question_number"`
	Text        string            `json:"question_text"`
	Answers     map[string]Answer `json:"answers"`
	Tags        []string          `json:"tag"`
	Explanation string            `json:"explanation"`
	Hint        string            `json:"hint"`
	Score       int               `json:"score"`
	Starred     bool              `json:"starred"`
	Note        string            `json:"note"`
}

// CorrectAnswerIDs returns the ids of the correct answer options in
// lexical order.
func (q *Question) CorrectAnswerIDs() []string {
	ids := make([]string, 0, len(q.Answers))
	for id, a := range q.Answers {
		if a.Status == AnswerCorrect {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// AnswerIDs returns all answer ids in lexical order.
func (q *Question) AnswerIDs() []string {
	ids := make([]string, 0, len(q.Answers))
	for id := range q.Answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AnswerResult is the backend's response to a submitted answer.
type AnswerResult struct {
	Question       Question `json:"question"`
	IsCorrect      bool     `json:"is_correct"`
	CorrectAnswers []string `json:"correct_answers"`
	Explanation    string   `json:"explanation,omitempty"`
}

// SessionStats tracks the running score of an active study session.
type SessionStats struct {
	Total        int       `json:"total"`
	Correct      int       `json:"correct"`
	Accuracy     float64   `json:"accuracy"`
	SessionStart time.Time `json:"session_start"`
}

// TagProgress summarizes mastery for one topic tag.
type TagProgress struct {
	Tag               string  `json:"tag"`
	TotalQuestions    int     `json:"total_questions"`
	MistakesCount     int     `json:"mistakes_count"`
	LearningCount     int     `json:"learning_count"`
	MasteredCount     int     `json:"mastered_count"`
	PerfectedCount    int     `json:"perfected_count"`
	MasteryPercentage float64 `json:"mastery_percentage"`
}

// OverallProgress aggregates mastery across all questions.
type OverallProgress struct {
	TotalQuestions           int           `json:"total_questions"`
	MistakesCount            int           `json:"mistakes_count"`
	LearningCount            int           `json:"learning_count"`
	MasteredCount            int           `json:"mastered_count"`
	PerfectedCount           int           `json:"perfected_count"`
	StarredQuestions         int           `json:"starred_questions"`
	QuestionsWithNotes       int           `json:"questions_with_notes"`
	TotalTrainingTimeMinutes float64       `json:"total_training_time_minutes"`
	TagProgress              []TagProgress `json:"tag_progress"`
}

// LastSession is the most recent completed session as recorded server-side.
type LastSession struct {
	Date            string   `json:"date"`
	TotalQuestions  int      `json:"total_questions"`
	CorrectAnswers  int      `json:"correct_answers"`
	Accuracy        float64  `json:"accuracy"`
	DurationMinutes float64  `json:"duration_minutes"`
	Tags            []string `json:"tags"`
}

// SessionHistory is one historical session row.
type SessionHistory struct {
	Date             string  `json:"date"`
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         float64 `json:"accuracy"`
}

// UserProgress is the full progress payload from the backend.
type UserProgress struct {
	Overall        OverallProgress  `json:"overall"`
	LastSession    *LastSession     `json:"last_session"`
	SessionHistory []SessionHistory `json:"session_history"`
}

// Screen identifies a top-level UI screen.
type Screen string

// Screen identifiers persisted across restarts.
const (
	ScreenStart           Screen = "start"
	ScreenDomainSelection Screen = "domain-selection"
	ScreenTraining        Screen = "training"
	ScreenProgress        Screen = "progress"
	ScreenBrowse          Screen = "browse"
)

// ValidScreen reports whether s names a known screen.
func ValidScreen(s Screen) bool {
	switch s {
	case ScreenStart, ScreenDomainSelection, ScreenTraining, ScreenProgress, ScreenBrowse:
		return true
	}
	return false
}

// Theme identifies a UI color theme.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ResetOptions selects which progress data to reset server-side.
type ResetOptions struct {
	Scores         bool `json:"scores"`
	SessionHistory bool `json:"session_history"`
	Stars          bool `json:"stars"`
	Notes          bool `json:"notes"`
	TrainingTime   bool `json:"training_time"`
}

// Any reports whether at least one reset flag is set.
func (o ResetOptions) Any() bool {
	return o.Scores || o.SessionHistory || o.Stars || o.Notes || o.TrainingTime
}

// ListFilter narrows a question listing.
type ListFilter struct {
	Tags        []string
	Search      string
	StarredOnly bool
}
