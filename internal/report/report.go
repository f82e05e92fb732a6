package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/artkel/gcp-guru/internal/model"
)

// Report contains precomputed data for progress rendering.
type Report struct {
	Overall       model.OverallProgress
	LastSession   *model.LastSession
	Tags          []model.TagProgress
	History       []model.SessionHistory
	AccuracyCurve []float64
	VolumeCurve   []float64
	WeakestTags   []string
}

// Build prepares a report from the remote progress payload. Tags are
// sorted by mastery descending; history curves are smoothed with a
// moving average of curveWindow sessions.
func Build(progress *model.UserProgress, curveWindow, weakTop int) Report {
	r := Report{
		Overall:     progress.Overall,
		LastSession: progress.LastSession,
		History:     progress.SessionHistory,
	}

	r.Tags = make([]model.TagProgress, len(progress.Overall.TagProgress))
	copy(r.Tags, progress.Overall.TagProgress)
	sort.Slice(r.Tags, func(i, j int) bool {
		if r.Tags[i].MasteryPercentage == r.Tags[j].MasteryPercentage {
			return r.Tags[i].Tag < r.Tags[j].Tag
		}
		return r.Tags[i].MasteryPercentage > r.Tags[j].MasteryPercentage
	})

	accuracy := make([]float64, len(r.History))
	volume := make([]float64, len(r.History))
	for i, row := range r.History {
		accuracy[i] = row.Accuracy
		volume[i] = float64(row.TotalQuestions)
	}
	r.AccuracyCurve = MovingAverage(accuracy, curveWindow)
	r.VolumeCurve = MovingAverage(volume, curveWindow)

	r.WeakestTags = WeakestTags(progress.Overall.TagProgress, weakTop)
	return r
}

// WeakestTags selects the lowest-mastery tags, ties broken alphabetically.
// Tags without questions are skipped.
func WeakestTags(tags []model.TagProgress, top int) []string {
	candidates := make([]model.TagProgress, 0, len(tags))
	for _, tag := range tags {
		if tag.TotalQuestions > 0 {
			candidates = append(candidates, tag)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].MasteryPercentage == candidates[j].MasteryPercentage {
			return candidates[i].Tag < candidates[j].Tag
		}
		return candidates[i].MasteryPercentage < candidates[j].MasteryPercentage
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Tag)
	}
	return out
}

// RenderSummary prints the overall mastery summary.
func RenderSummary(w io.Writer, r Report) error {
	o := r.Overall
	if _, err := fmt.Fprintln(w, "Overall"); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("Questions: %d", o.TotalQuestions),
		fmt.Sprintf("Mistakes: %d", o.MistakesCount),
		fmt.Sprintf("Learning: %d", o.LearningCount),
		fmt.Sprintf("Mastered: %d", o.MasteredCount),
		fmt.Sprintf("Perfected: %d", o.PerfectedCount),
		fmt.Sprintf("Starred: %d", o.StarredQuestions),
		fmt.Sprintf("With notes: %d", o.QuestionsWithNotes),
		fmt.Sprintf("Training time: %s", FormatMinutes(o.TotalTrainingTimeMinutes)),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if r.LastSession != nil {
		ls := r.LastSession
		if _, err := fmt.Fprintf(w, "Last session: %s · %d answered · %.1f%% · %s\n",
			ls.Date, ls.TotalQuestions, ls.Accuracy, FormatMinutes(ls.DurationMinutes)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTagTable prints per-tag mastery.
func RenderTagTable(w io.Writer, tags []model.TagProgress) error {
	if len(tags) == 0 {
		_, err := fmt.Fprintln(w, "No tag progress yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Tag Mastery"); err != nil {
		return err
	}
	headers := []string{"Tag", "Mastery", "Questions", "Mistakes", "Learning", "Mastered", "Perfected"}
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, []string{
			tag.Tag,
			fmt.Sprintf("%.1f%%", tag.MasteryPercentage),
			fmt.Sprintf("%d", tag.TotalQuestions),
			fmt.Sprintf("%d", tag.MistakesCount),
			fmt.Sprintf("%d", tag.LearningCount),
			fmt.Sprintf("%d", tag.MasteredCount),
			fmt.Sprintf("%d", tag.PerfectedCount),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints session-history curves sized to a given width.
func RenderHistory(w io.Writer, r Report, width, height int) error {
	if len(r.History) == 0 {
		_, err := fmt.Fprintln(w, "No session history yet.")
		return err
	}
	return PlotSeries(w, "Session History", []Series{
		{Name: "Accuracy %", Values: r.AccuracyCurve},
		{Name: "Questions", Values: r.VolumeCurve},
	}, width, height)
}
