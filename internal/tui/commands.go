package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artkel/gcp-guru/internal/flow"
	"github.com/artkel/gcp-guru/internal/model"
)

type tickMsg struct{ gen int }

type tagsLoadedMsg struct {
	tags []string
	err  error
}

type questionLoadedMsg struct {
	tok flow.Token
	q   *model.Question
	err error
}

type answerSubmittedMsg struct {
	tok flow.Token
	res *model.AnswerResult
	err error
}

type explanationMsg struct {
	tok  flow.Token
	text string
	err  error
}

type hintMsg struct {
	number int
	text   string
	err    error
}

type starToggledMsg struct {
	number  int
	starred bool
	err     error
}

type noteSavedMsg struct {
	number int
	note   string
	err    error
}

type questionsListedMsg struct {
	questions []model.Question
	err       error
}

type progressLoadedMsg struct {
	progress *model.UserProgress
	err      error
}

type sessionFlushedMsg struct{ err error }

type resetDoneMsg struct{ err error }

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (a *App) loadQuestionCmd(tok flow.Token, domains []string) tea.Cmd {
	return func() tea.Msg {
		q, err := a.client.GetRandomQuestion(context.Background(), domains)
		return questionLoadedMsg{tok: tok, q: q, err: err}
	}
}

func (a *App) submitAnswerCmd(tok flow.Token, number int, selected []string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.client.SubmitAnswer(context.Background(), number, selected, false)
		return answerSubmittedMsg{tok: tok, res: res, err: err}
	}
}

func (a *App) explanationCmd(tok flow.Token, number int, regenerate bool) tea.Cmd {
	return func() tea.Msg {
		text, err := a.client.GetExplanation(context.Background(), number, regenerate)
		return explanationMsg{tok: tok, text: text, err: err}
	}
}

func (a *App) hintCmd(number int) tea.Cmd {
	return func() tea.Msg {
		text, err := a.client.GetHint(context.Background(), number)
		return hintMsg{number: number, text: text, err: err}
	}
}

func (a *App) toggleStarCmd(number int, starred bool) tea.Cmd {
	return func() tea.Msg {
		confirmed, err := a.client.ToggleStar(context.Background(), number, starred)
		return starToggledMsg{number: number, starred: confirmed, err: err}
	}
}

func (a *App) saveNoteCmd(number int, note string) tea.Cmd {
	return func() tea.Msg {
		confirmed, err := a.client.UpdateNote(context.Background(), number, note)
		return noteSavedMsg{number: number, note: confirmed, err: err}
	}
}

func (a *App) loadTagsCmd() tea.Cmd {
	return func() tea.Msg {
		tags, err := a.client.GetTags(context.Background())
		return tagsLoadedMsg{tags: tags, err: err}
	}
}

func (a *App) listQuestionsCmd(filter model.ListFilter) tea.Cmd {
	return func() tea.Msg {
		questions, err := a.client.ListQuestions(context.Background(), filter)
		return questionsListedMsg{questions: questions, err: err}
	}
}

func (a *App) loadProgressCmd() tea.Cmd {
	return func() tea.Msg {
		progress, err := a.client.GetProgress(context.Background())
		return progressLoadedMsg{progress: progress, err: err}
	}
}

func (a *App) flushSessionCmd() tea.Cmd {
	return func() tea.Msg {
		err := a.client.StartSession(context.Background())
		return sessionFlushedMsg{err: err}
	}
}

func (a *App) resetProgressCmd(opts model.ResetOptions) tea.Cmd {
	return func() tea.Msg {
		err := a.client.ResetProgress(context.Background(), opts)
		return resetDoneMsg{err: err}
	}
}
