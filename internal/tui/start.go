package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artkel/gcp-guru/internal/model"
	"github.com/artkel/gcp-guru/internal/report"
)

func (a *App) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "t", "enter":
		return a, a.startTraining(a.sess.Domains())
	case "d":
		a.domainCursor = 0
		return a, a.setScreen(model.ScreenDomainSelection)
	case "b":
		cmd := a.setScreen(model.ScreenBrowse)
		return a, tea.Batch(cmd, a.listQuestionsCmd(a.browseFilter()))
	case "p":
		cmd := a.setScreen(model.ScreenProgress)
		return a, tea.Batch(cmd, a.loadProgressCmd())
	case "u":
		a.shuffleAnswers = !a.shuffleAnswers
		a.refreshAnswerOrder()
		return a, a.persistCmd()
	case "c":
		a.toggleTheme()
		return a, a.persistCmd()
	}
	return a, nil
}

func (a *App) viewStart() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("GCP Guru"))
	b.WriteString("\n")
	b.WriteString(a.styles.Subtle.Render("Flashcard trainer for the Professional Cloud Architect exam"))
	b.WriteString("\n\n")

	if domains := a.sess.Domains(); len(domains) > 0 {
		b.WriteString(a.styles.Text.Render("Topics: " + strings.Join(domains, ", ")))
	} else {
		b.WriteString(a.styles.Text.Render("Topics: all"))
	}
	b.WriteString("\n")
	shuffleState := "off"
	if a.shuffleAnswers {
		shuffleState = "on"
	}
	b.WriteString(a.styles.Subtle.Render(fmt.Sprintf("Shuffled answers: %s · Theme: %s", shuffleState, a.theme)))
	b.WriteString("\n\n")

	if a.progress != nil {
		o := a.progress.Overall
		mastered := o.MasteredCount + o.PerfectedCount
		b.WriteString(a.styles.Card.Render(fmt.Sprintf(
			"Questions mastered: %d/%d\nTraining time: %s",
			mastered, o.TotalQuestions, report.FormatMinutes(o.TotalTrainingTimeMinutes))))
		b.WriteString("\n")
		if len(a.weakTags) > 0 {
			b.WriteString(a.styles.Subtle.Render("Needs work: " + strings.Join(a.weakTags, ", ")))
			b.WriteString("\n")
		}
		if ls := a.progress.LastSession; ls != nil {
			b.WriteString(a.styles.Subtle.Render(fmt.Sprintf(
				"Last session: %s · %d answered · %.1f%%", ls.Date, ls.TotalQuestions, ls.Accuracy)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + a.styles.Footer.Render(
		"t train · d topics · b browse · p progress · u shuffle · c theme · q quit"))
	return b.String()
}

func (a *App) updateDomains(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return a, a.setScreen(model.ScreenStart)
	case "up", "k":
		if a.domainCursor > 0 {
			a.domainCursor--
		}
		return a, nil
	case "down", "j":
		if a.domainCursor < len(a.availableTags)-1 {
			a.domainCursor++
		}
		return a, nil
	case " ", "x":
		if a.domainCursor < len(a.availableTags) {
			tag := a.availableTags[a.domainCursor]
			a.domainPicked[tag] = !a.domainPicked[tag]
		}
		return a, nil
	case "a":
		a.domainPicked = map[string]bool{}
		a.sess.SetDomains(nil)
		return a, a.persistCmd()
	case "enter":
		a.sess.SetDomains(a.pickedDomains())
		cmd := a.persistCmd()
		return a, tea.Batch(cmd, a.startTraining(a.sess.Domains()))
	}
	return a, nil
}

// pickedDomains validates picks against the currently available tags;
// nil means all topics.
func (a *App) pickedDomains() []string {
	var out []string
	for _, tag := range a.availableTags {
		if a.domainPicked[tag] {
			out = append(out, tag)
		}
	}
	return out
}

func (a *App) viewDomains() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Select topics"))
	b.WriteString("\n")
	b.WriteString(a.styles.Subtle.Render("No selection means all topics."))
	b.WriteString("\n\n")

	if len(a.availableTags) == 0 {
		b.WriteString(a.styles.Subtle.Render("Loading tags..."))
	}
	for i, tag := range a.availableTags {
		marker := "[ ]"
		style := a.styles.Text
		if a.domainPicked[tag] {
			marker = "[x]"
			style = a.styles.Selected
		}
		line := fmt.Sprintf("%s %s", marker, tag)
		if i == a.domainCursor {
			line = "> " + line
			style = style.Bold(true)
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n" + a.styles.Footer.Render("space toggle · a all · enter start · esc back"))
	return b.String()
}
