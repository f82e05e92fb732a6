package tui

import (
	"bytes"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artkel/gcp-guru/internal/model"
	"github.com/artkel/gcp-guru/internal/report"
)

const (
	progressCurveWindow = 5
	progressWeakTop     = 3
	progressPlotHeight  = 8
)

func (a *App) handleProgressLoaded(msg progressLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.logger.Warn().Err(msg.err).Msg("failed to load progress")
		if a.screen == model.ScreenProgress {
			a.errMsg = "Failed to load progress."
		}
		return a, nil
	}
	a.progress = msg.progress
	a.weakTags = report.WeakestTags(msg.progress.Overall.TagProgress, progressWeakTop)
	if a.screen == model.ScreenProgress {
		a.renderProgressContent()
	}
	return a, nil
}

func (a *App) renderProgressContent() {
	if a.progress == nil {
		return
	}
	r := report.Build(a.progress, progressCurveWindow, progressWeakTop)
	width := a.progressView.Width
	if width < 30 {
		width = 76
	}
	var buf bytes.Buffer
	if err := report.RenderSummary(&buf, r); err != nil {
		a.logger.Warn().Err(err).Msg("failed to render summary")
	}
	if err := report.RenderTagTable(&buf, r.Tags); err != nil {
		a.logger.Warn().Err(err).Msg("failed to render tag table")
	}
	if err := report.RenderHistory(&buf, r, width-4, progressPlotHeight); err != nil {
		a.logger.Warn().Err(err).Msg("failed to render history")
	}
	a.progressView.SetContent(buf.String())
}

func (a *App) updateProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmReset {
		switch msg.String() {
		case "y", "Y":
			a.confirmReset = false
			return a, a.resetProgressCmd(model.ResetOptions{
				Scores:         true,
				SessionHistory: true,
				Stars:          true,
				Notes:          true,
				TrainingTime:   true,
			})
		case "n", "N", "esc":
			a.confirmReset = false
		}
		return a, nil
	}
	switch msg.String() {
	case "esc", "q":
		return a, a.setScreen(model.ScreenStart)
	case "r":
		a.progress = nil
		return a, a.loadProgressCmd()
	case "x":
		a.confirmReset = true
		return a, nil
	}
	var cmd tea.Cmd
	a.progressView, cmd = a.progressView.Update(msg)
	return a, cmd
}

func (a *App) viewProgress() string {
	if a.confirmReset {
		return a.overlay(a.styles.Modal.Render(
			"Reset ALL progress?\nScores, history, stars, notes, and training time are wiped.\n\ny reset · n cancel"))
	}
	header := a.styles.Title.Render("Progress")
	if a.progress == nil {
		body := a.styles.Subtle.Render("Loading progress...")
		if a.errMsg != "" {
			body = a.styles.Error.Render(a.errMsg)
		}
		return header + "\n\n" + body
	}
	return header + "\n" +
		a.progressView.View() + "\n" +
		a.styles.Footer.Render("↑/↓ scroll · r refresh · x reset all · esc back")
}
