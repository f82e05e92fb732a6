package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artkel/gcp-guru/internal/model"
)

// Mastery buckets by score, matching the backend's progress buckets.
const (
	masteryAll       = "all"
	masteryMistakes  = "mistakes"  // score -1
	masteryLearning  = "learning"  // score 0-1
	masteryMastered  = "mastered"  // score 2-3
	masteryPerfected = "perfected" // score 4+
)

var masteryFilters = []string{masteryAll, masteryMistakes, masteryLearning, masteryMastered, masteryPerfected}

func masteryBucket(score int) string {
	switch {
	case score < 0:
		return masteryMistakes
	case score <= 1:
		return masteryLearning
	case score <= 3:
		return masteryMastered
	default:
		return masteryPerfected
	}
}

func newBrowseTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Score", Width: 5},
		{Title: "★", Width: 2},
		{Title: "Tags", Width: 24},
		{Title: "Question", Width: 48},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return t
}

func (a *App) layoutBrowseTable() {
	height := a.height - 8
	if height < 5 {
		height = 5
	}
	a.browseTable.SetHeight(height)
	questionWidth := a.width - 45
	if questionWidth < 20 {
		questionWidth = 20
	}
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Score", Width: 5},
		{Title: "★", Width: 2},
		{Title: "Tags", Width: 24},
		{Title: "Question", Width: questionWidth},
	}
	a.browseTable.SetColumns(columns)
}

func (a *App) browseFilter() model.ListFilter {
	return model.ListFilter{
		Tags:        a.sess.Domains(),
		Search:      strings.TrimSpace(a.searchInput.Value()),
		StarredOnly: a.starredOnly,
	}
}

// setBrowseQuestions stores the listing and applies the local mastery
// filter, which the backend does not know about.
func (a *App) setBrowseQuestions(questions []model.Question) {
	a.browseQuestions = nil
	for _, q := range questions {
		if a.masteryFilter != masteryAll && a.masteryFilter != "" && masteryBucket(q.Score) != a.masteryFilter {
			continue
		}
		a.browseQuestions = append(a.browseQuestions, q)
	}
	rows := make([]table.Row, 0, len(a.browseQuestions))
	for _, q := range a.browseQuestions {
		star := ""
		if q.Starred {
			star = "★"
		}
		text := strings.ReplaceAll(q.Text, "\n", " ")
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", q.Number),
			fmt.Sprintf("%d", q.Score),
			star,
			strings.Join(q.Tags, ","),
			text,
		})
	}
	a.browseTable.SetRows(rows)
}

func (a *App) applyBrowseStar(number int, starred bool) {
	for i := range a.browseQuestions {
		if a.browseQuestions[i].Number == number {
			a.browseQuestions[i].Starred = starred
		}
	}
	a.setBrowseQuestions(a.browseQuestions)
}

func (a *App) selectedBrowseQuestion() *model.Question {
	idx := a.browseTable.Cursor()
	if idx < 0 || idx >= len(a.browseQuestions) {
		return nil
	}
	return &a.browseQuestions[idx]
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch msg.String() {
		case "esc":
			a.searching = false
			a.searchInput.Blur()
			return a, nil
		case "enter":
			a.searching = false
			a.searchInput.Blur()
			return a, a.listQuestionsCmd(a.browseFilter())
		}
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	if a.showDetail {
		switch msg.String() {
		case "esc", "enter", "q":
			a.showDetail = false
			return a, nil
		}
		var cmd tea.Cmd
		a.browseDetail, cmd = a.browseDetail.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return a, a.setScreen(model.ScreenStart)
	case "/":
		a.searching = true
		a.searchInput.Focus()
		return a, nil
	case "f":
		a.starredOnly = !a.starredOnly
		return a, a.listQuestionsCmd(a.browseFilter())
	case "m":
		a.masteryFilter = nextMasteryFilter(a.masteryFilter)
		a.setBrowseQuestions(a.browseQuestions)
		return a, tea.Batch(a.persistCmd(), a.listQuestionsCmd(a.browseFilter()))
	case "s":
		if q := a.selectedBrowseQuestion(); q != nil {
			return a, a.toggleStarCmd(q.Number, !q.Starred)
		}
		return a, nil
	case "enter":
		if q := a.selectedBrowseQuestion(); q != nil {
			a.showDetail = true
			a.browseDetail.SetContent(a.renderBrowseDetail(q))
			a.browseDetail.GotoTop()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.browseTable, cmd = a.browseTable.Update(msg)
	return a, cmd
}

func nextMasteryFilter(current string) string {
	for i, f := range masteryFilters {
		if f == current {
			return masteryFilters[(i+1)%len(masteryFilters)]
		}
	}
	return masteryAll
}

func (a *App) renderBrowseDetail(q *model.Question) string {
	width := a.browseDetail.Width
	if width < 20 {
		width = 60
	}
	var b strings.Builder
	title := fmt.Sprintf("Question #%d · score %d", q.Number, q.Score)
	if q.Starred {
		title += " ★"
	}
	b.WriteString(a.styles.Accent.Render(title) + "\n")
	if len(q.Tags) > 0 {
		b.WriteString(a.styles.Tag.Render(strings.Join(q.Tags, ", ")) + "\n")
	}
	b.WriteString("\n" + wrapText(q.Text, width) + "\n\n")
	for _, id := range q.AnswerIDs() {
		answer := q.Answers[id]
		style := a.styles.Text
		marker := " "
		if answer.Status == model.AnswerCorrect {
			style = a.styles.Correct
			marker = "✓"
		}
		b.WriteString(style.Render(wrapText(fmt.Sprintf("%s %s. %s", marker, id, answer.Text), width)) + "\n")
	}
	if q.Explanation != "" {
		b.WriteString("\n" + a.styles.Subtle.Render("Explanation") + "\n")
		b.WriteString(wrapText(q.Explanation, width) + "\n")
	}
	if q.Note != "" {
		b.WriteString("\n" + a.styles.Subtle.Render("Note") + "\n")
		b.WriteString(wrapText(q.Note, width) + "\n")
	}
	return b.String()
}

func (a *App) viewBrowse() string {
	if a.showDetail {
		return a.browseDetail.View() + "\n" + a.styles.Footer.Render("↑/↓ scroll · esc back")
	}
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Browse"))
	segments := []string{fmt.Sprintf("%d questions", len(a.browseQuestions))}
	if a.starredOnly {
		segments = append(segments, "starred only")
	}
	if a.masteryFilter != masteryAll && a.masteryFilter != "" {
		segments = append(segments, "mastery: "+a.masteryFilter)
	}
	if search := strings.TrimSpace(a.searchInput.Value()); search != "" {
		segments = append(segments, "search: "+search)
	}
	b.WriteString("  " + a.styles.Subtle.Render(strings.Join(segments, " · ")))
	b.WriteString("\n\n")
	if a.searching {
		b.WriteString(a.searchInput.View() + "\n\n")
	}
	b.WriteString(a.browseTable.View())
	if a.errMsg != "" {
		b.WriteString("\n" + a.styles.Error.Render(a.errMsg))
	}
	b.WriteString("\n" + a.styles.Footer.Render("enter detail · / search · f starred · m mastery · s star · esc back"))
	return b.String()
}
