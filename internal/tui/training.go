package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artkel/gcp-guru/internal/flow"
	"github.com/artkel/gcp-guru/internal/model"
	"github.com/artkel/gcp-guru/internal/report"
	"github.com/artkel/gcp-guru/internal/shuffle"
)

// beginTrainingLoad asks the controller for a load token and, when
// granted, issues the network command.
func (a *App) beginTrainingLoad() tea.Cmd {
	tok, ok := a.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	return a.loadQuestionCmd(tok, a.sess.Domains())
}

// startTraining begins a fresh session and enters the training screen.
func (a *App) startTraining(domains []string) tea.Cmd {
	a.sess.StartSession(domains)
	a.ctrl.Reset()
	a.answerOrder = nil
	a.showSummary = false
	a.summaryNote = ""
	a.hintText = ""
	a.showHint = false
	a.confirmLeave = false
	screenCmd := a.setScreen(model.ScreenTraining)
	return tea.Batch(screenCmd, a.beginTrainingLoad(), tickCmd(a.sess.TimerGen()))
}

// leaveTraining ends the session and returns to the start screen. The
// server is told the session is over so it lands in session history.
func (a *App) leaveTraining() tea.Cmd {
	a.sess.EndSession()
	var flush tea.Cmd
	// The exhaustion path flushes as soon as the summary shows.
	if a.sess.Stats().Total > 0 && !a.showSummary {
		flush = a.flushSessionCmd()
	}
	a.sess.ResetStats()
	a.ctrl.Reset()
	a.confirmLeave = false
	a.showSummary = false
	return tea.Batch(a.setScreen(model.ScreenStart), flush, a.loadProgressCmd())
}

func (a *App) refreshAnswerOrder() {
	q := a.sess.Question()
	if q == nil {
		a.answerOrder = nil
		return
	}
	a.answerOrder = shuffle.Order(q, a.shuffleAnswers)
}

func (a *App) handleQuestionLoaded(msg questionLoadedMsg) (tea.Model, tea.Cmd) {
	a.ctrl.FinishLoad(msg.tok, msg.q, msg.err)
	switch a.ctrl.State() {
	case flow.StateExhausted:
		// End of the available pool for this filter: summary, not error.
		a.sess.EndSession()
		a.showSummary = true
		a.summaryNote = exhaustionNote(a.ctrl.Err())
		return a, tea.Batch(a.flushSessionCmd(), a.persistCmd())
	case flow.StateError:
		a.errMsg = "Failed to load question. Press r to retry."
		return a, nil
	case flow.StateDisplayed:
		a.errMsg = ""
		a.hintText = ""
		a.showHint = false
		a.refreshAnswerOrder()
		return a, a.persistCmd()
	}
	return a, nil
}

func (a *App) handleAnswerSubmitted(msg answerSubmittedMsg) (tea.Model, tea.Cmd) {
	a.ctrl.FinishSubmit(msg.tok, msg.res, msg.err)
	if msg.err != nil && a.ctrl.State() == flow.StateDisplayed {
		a.errMsg = "Failed to submit answer. Press enter to retry."
		return a, nil
	}
	if a.ctrl.State() == flow.StateAnswered {
		a.errMsg = ""
		return a, a.persistCmd()
	}
	return a, nil
}

func exhaustionNote(err error) string {
	if err == nil {
		return "Session complete."
	}
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return "Session complete."
}

func (a *App) updateTraining(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showNote {
		return a.updateNoteModal(msg)
	}
	if a.showSummary {
		return a.updateSummaryModal(msg)
	}
	if a.confirmLeave {
		switch msg.String() {
		case "y", "Y", "enter":
			return a, a.leaveTraining()
		case "n", "N", "esc":
			a.confirmLeave = false
			a.sess.Resume()
			return a, tickCmd(a.sess.TimerGen())
		}
		return a, nil
	}
	if a.showHint {
		switch msg.String() {
		case "esc", "h", "enter":
			a.showHint = false
		}
		return a, nil
	}

	q := a.sess.Question()
	switch msg.String() {
	case "esc", "b":
		if a.sess.Stats().Total > 0 {
			a.confirmLeave = true
			a.sess.Pause()
			return a, nil
		}
		return a, a.leaveTraining()
	case " ":
		if a.sess.TimerRunning() {
			a.sess.Pause()
			return a, nil
		}
		a.sess.Resume()
		return a, tickCmd(a.sess.TimerGen())
	case "r":
		if a.ctrl.State() == flow.StateError {
			return a, a.beginTrainingLoad()
		}
		return a, nil
	case "enter":
		switch a.ctrl.State() {
		case flow.StateDisplayed:
			tok, selected, ok := a.ctrl.BeginSubmit()
			if !ok {
				return a, nil
			}
			return a, a.submitAnswerCmd(tok, q.Number, selected)
		case flow.StateAnswered:
			return a, a.beginTrainingLoad()
		}
		return a, nil
	case "n":
		if a.ctrl.State() == flow.StateAnswered {
			return a, a.beginTrainingLoad()
		}
		return a, nil
	case "e":
		if tok, ok := a.ctrl.BeginExplanation(); ok {
			return a, a.explanationCmd(tok, q.Number, false)
		}
		return a, nil
	case "E":
		if tok, ok := a.ctrl.BeginExplanation(); ok {
			return a, a.explanationCmd(tok, q.Number, true)
		}
		return a, nil
	case "h":
		if q != nil {
			return a, a.hintCmd(q.Number)
		}
		return a, nil
	case "s":
		if q != nil {
			return a, a.toggleStarCmd(q.Number, !q.Starred)
		}
		return a, nil
	case "o":
		if q != nil {
			a.showNote = true
			a.noteInput.SetValue(q.Note)
			a.noteInput.Focus()
		}
		return a, nil
	}

	// Number keys toggle the displayed options.
	if q != nil && a.ctrl.State() == flow.StateDisplayed {
		if idx := optionIndex(msg.String()); idx >= 0 && idx < len(a.answerOrder) {
			a.ctrl.ToggleAnswer(a.answerOrder[idx])
			return a, a.persistCmd()
		}
	}
	return a, nil
}

func optionIndex(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}

func (a *App) updateNoteModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showNote = false
		a.noteInput.Blur()
		return a, nil
	case "enter":
		q := a.sess.Question()
		a.showNote = false
		a.noteInput.Blur()
		if q == nil {
			return a, nil
		}
		return a, a.saveNoteCmd(q.Number, a.noteInput.Value())
	}
	var cmd tea.Cmd
	a.noteInput, cmd = a.noteInput.Update(msg)
	return a, cmd
}

func (a *App) updateSummaryModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "q":
		return a, a.leaveTraining()
	case "r":
		// Continue studying: flush the finished session, then start anew.
		a.sess.ResetStats()
		return a, a.startTraining(a.sess.Domains())
	}
	return a, nil
}

func (a *App) viewTraining() string {
	var b strings.Builder
	contentWidth := a.width - 4
	if contentWidth < 20 {
		contentWidth = 60
	}

	b.WriteString(a.trainingHeader())
	b.WriteString("\n\n")

	switch a.ctrl.State() {
	case flow.StateLoading, flow.StateIdle:
		b.WriteString(a.styles.Subtle.Render("Loading question..."))
	case flow.StateError:
		b.WriteString(a.styles.Error.Render(a.errMsg))
	default:
		b.WriteString(a.renderQuestion(contentWidth))
	}

	if a.errMsg != "" && a.ctrl.State() != flow.StateError {
		b.WriteString("\n" + a.styles.Error.Render(a.errMsg))
	}

	b.WriteString("\n\n" + a.styles.Footer.Render(a.trainingFooter()))

	content := b.String()
	if modal := a.trainingModal(); modal != "" {
		return a.overlay(modal)
	}
	return content
}

func (a *App) trainingHeader() string {
	stats := a.sess.Stats()
	elapsed := report.FormatElapsed(a.sess.Elapsed())
	segments := []string{
		fmt.Sprintf("Score %d/%d", stats.Correct, stats.Total),
		fmt.Sprintf("Accuracy %.1f%%", stats.Accuracy),
		fmt.Sprintf("Time %s", elapsed),
	}
	if !a.sess.TimerRunning() && stats.SessionStart.Unix() > 0 && !a.showSummary {
		segments = append(segments, "paused")
	}
	if domains := a.sess.Domains(); len(domains) > 0 {
		segments = append(segments, "Topics: "+strings.Join(domains, ", "))
	}
	return a.styles.Title.Render("Training") + "  " + a.styles.Subtle.Render(strings.Join(segments, " · "))
}

func (a *App) renderQuestion(width int) string {
	q := a.sess.Question()
	if q == nil {
		return a.styles.Subtle.Render("No question loaded.")
	}
	var b strings.Builder

	title := fmt.Sprintf("Question #%d", q.Number)
	if q.Starred {
		title += " ★"
	}
	b.WriteString(a.styles.Accent.Render(title))
	if len(q.Tags) > 0 {
		b.WriteString("  " + a.styles.Tag.Render(strings.Join(q.Tags, ", ")))
	}
	b.WriteString("\n\n")
	b.WriteString(a.styles.Text.Render(wrapText(q.Text, width)))
	b.WriteString("\n\n")

	answered := a.ctrl.State() == flow.StateAnswered
	result := a.ctrl.Result()
	selection := a.sess.Selection()
	correct := map[string]bool{}
	if result != nil {
		for _, id := range result.CorrectAnswers {
			correct[id] = true
		}
	}

	for i, id := range a.answerOrder {
		answer := q.Answers[id]
		marker := "[ ]"
		style := a.styles.Text
		if selection.Has(id) {
			marker = "[x]"
			style = a.styles.Selected
		}
		if answered {
			switch {
			case correct[id]:
				marker = "[✓]"
				style = a.styles.Correct
			case selection.Has(id):
				marker = "[✗]"
				style = a.styles.Wrong
			default:
				style = a.styles.Subtle
			}
		}
		line := fmt.Sprintf("%d %s %s", i+1, marker, answer.Text)
		b.WriteString(style.Render(wrapText(line, width)))
		b.WriteString("\n")
	}

	if answered && result != nil {
		b.WriteString("\n")
		if result.IsCorrect {
			b.WriteString(a.styles.Correct.Render("Correct!"))
		} else {
			b.WriteString(a.styles.Wrong.Render("Incorrect."))
		}
		b.WriteString(a.styles.Subtle.Render(fmt.Sprintf("  Score: %d", q.Score)))
		if result.Explanation != "" {
			b.WriteString("\n\n" + a.styles.Subtle.Render("Explanation"))
			b.WriteString("\n" + a.styles.Text.Render(wrapText(result.Explanation, width)))
		}
	}
	if q.Note != "" {
		b.WriteString("\n" + a.styles.Subtle.Render(wrapText("Note: "+q.Note, width)))
	}
	return b.String()
}

func (a *App) trainingFooter() string {
	switch a.ctrl.State() {
	case flow.StateDisplayed:
		return "1-9 select · enter submit · h hint · s star · o note · space pause · esc back"
	case flow.StateSubmitting:
		return "submitting..."
	case flow.StateAnswered:
		return "enter next · e explanation · E regenerate · s star · o note · esc back"
	}
	return "esc back"
}

func (a *App) trainingModal() string {
	switch {
	case a.showNote:
		return a.styles.Modal.Render("Edit note\n\n" + a.noteInput.View() + "\n\nenter save · esc cancel")
	case a.confirmLeave:
		return a.styles.Modal.Render("End this session?\nYour progress is saved server-side.\n\ny end · n keep going")
	case a.showSummary:
		stats := a.sess.Stats()
		lines := []string{
			a.styles.Title.Render("Session complete"),
			"",
			a.summaryNote,
			"",
			fmt.Sprintf("Answered: %d", stats.Total),
			fmt.Sprintf("Correct: %d", stats.Correct),
			fmt.Sprintf("Accuracy: %.1f%%", stats.Accuracy),
			fmt.Sprintf("Duration: %s", report.FormatElapsed(a.sess.Elapsed())),
			"",
			"enter finish · r start another",
		}
		return a.styles.Modal.Render(strings.Join(lines, "\n"))
	case a.showHint:
		width := a.width / 2
		if width < 30 {
			width = 30
		}
		return a.styles.Modal.Render("Hint\n\n" + wrapText(a.hintText, width) + "\n\nesc close")
	}
	return ""
}

func (a *App) overlay(modal string) string {
	if a.width == 0 || a.height == 0 {
		return modal
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}
