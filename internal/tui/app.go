package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/artkel/gcp-guru/internal/api"
	"github.com/artkel/gcp-guru/internal/flow"
	"github.com/artkel/gcp-guru/internal/model"
	"github.com/artkel/gcp-guru/internal/session"
	"github.com/artkel/gcp-guru/internal/state"
)

// App is the Bubble Tea root model. It owns the five screens and routes
// every mutation through the session store and flow controller.
type App struct {
	client *api.Client
	sess   *session.Store
	ctrl   *flow.Controller
	state  *state.Store
	logger zerolog.Logger

	screen model.Screen
	theme  model.Theme
	styles Styles
	width  int
	height int

	shuffleAnswers bool
	masteryFilter  string
	availableTags  []string
	errMsg         string

	// training
	answerOrder  []string
	hintText     string
	showHint     bool
	showNote     bool
	noteInput    textinput.Model
	showSummary  bool
	summaryNote  string
	confirmLeave bool

	// domain selection
	domainCursor int
	domainPicked map[string]bool

	// browse
	browseTable     table.Model
	browseQuestions []model.Question
	searchInput     textinput.Model
	searching       bool
	starredOnly     bool
	browseDetail    viewport.Model
	showDetail      bool

	// progress
	progress     *model.UserProgress
	progressView viewport.Model
	confirmReset bool
	weakTags     []string
}

// New constructs the app, rehydrating persisted UI state on top of the
// given defaults. initialScreen overrides the persisted screen when
// non-empty.
func New(client *api.Client, st *state.Store, logger zerolog.Logger, initialScreen model.Screen, defaults state.Snapshot) *App {
	a := &App{
		client:        client,
		sess:          session.New(),
		state:         st,
		logger:        logger,
		screen:        model.ScreenStart,
		theme:         model.ThemeLight,
		masteryFilter: "all",
		domainPicked:  map[string]bool{},
	}
	a.ctrl = flow.New(a.sess)

	snap, err := st.Load(context.Background(), defaults)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load persisted state")
		snap = defaults
	}
	a.theme = snap.Theme
	a.shuffleAnswers = snap.ShuffleAnswers
	a.masteryFilter = snap.MasteryFilter
	a.screen = snap.Screen
	a.sess.SetDomains(snap.SelectedDomains)
	for _, d := range snap.SelectedDomains {
		a.domainPicked[d] = true
	}

	// Resume a training session that was interrupted by a restart.
	if snap.Screen == model.ScreenTraining && snap.Question != nil {
		a.sess.Restore(snap.Stats, snap.SelectedDomains, snap.Question, snap.SelectedAnswers, true)
		a.ctrl.RestoreDisplayed()
		a.refreshAnswerOrder()
	} else if snap.Screen == model.ScreenTraining {
		a.screen = model.ScreenStart
	}

	if initialScreen != "" {
		a.screen = initialScreen
	}
	a.styles = NewStyles(a.theme)
	a.initInputs()
	return a
}

func (a *App) initInputs() {
	note := textinput.New()
	note.Placeholder = "note"
	note.CharLimit = 500
	a.noteInput = note

	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 120
	a.searchInput = search

	a.browseTable = newBrowseTable()
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadTagsCmd()}
	switch a.screen {
	case model.ScreenTraining:
		if a.sess.TimerRunning() {
			cmds = append(cmds, tickCmd(a.sess.TimerGen()))
		}
		if a.ctrl.State() == flow.StateIdle {
			cmds = append(cmds, a.beginTrainingLoad())
		}
	case model.ScreenBrowse:
		cmds = append(cmds, a.listQuestionsCmd(a.browseFilter()))
	case model.ScreenProgress:
		cmds = append(cmds, a.loadProgressCmd())
	case model.ScreenStart:
		cmds = append(cmds, a.loadProgressCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil
	case tickMsg:
		// Drop ticks from a superseded timer so a restored session never
		// runs two tickers.
		if msg.gen != a.sess.TimerGen() || !a.sess.TimerRunning() {
			return a, nil
		}
		return a, tickCmd(msg.gen)
	case tagsLoadedMsg:
		if msg.err != nil {
			a.logger.Warn().Err(msg.err).Msg("failed to load tags")
			return a, nil
		}
		a.availableTags = msg.tags
		return a, nil
	case questionLoadedMsg:
		return a.handleQuestionLoaded(msg)
	case answerSubmittedMsg:
		return a.handleAnswerSubmitted(msg)
	case explanationMsg:
		a.ctrl.FinishExplanation(msg.tok, msg.text, msg.err)
		if msg.err != nil {
			a.errMsg = "Failed to load explanation."
		}
		return a, nil
	case hintMsg:
		if msg.err != nil {
			a.errMsg = "Failed to load hint."
			return a, nil
		}
		if q := a.sess.Question(); q != nil && q.Number == msg.number {
			a.hintText = msg.text
			a.showHint = true
		}
		return a, nil
	case starToggledMsg:
		if msg.err != nil {
			a.errMsg = "Failed to update star."
			return a, nil
		}
		a.sess.ApplyStar(msg.number, msg.starred)
		a.applyBrowseStar(msg.number, msg.starred)
		return a, a.persistCmd()
	case noteSavedMsg:
		if msg.err != nil {
			a.errMsg = "Failed to save note."
			return a, nil
		}
		a.sess.ApplyNote(msg.number, msg.note)
		return a, a.persistCmd()
	case questionsListedMsg:
		if msg.err != nil {
			a.errMsg = "Failed to load questions."
			return a, nil
		}
		a.setBrowseQuestions(msg.questions)
		return a, nil
	case progressLoadedMsg:
		return a.handleProgressLoaded(msg)
	case sessionFlushedMsg:
		if msg.err != nil {
			a.logger.Warn().Err(msg.err).Msg("failed to flush session")
		}
		return a, nil
	case resetDoneMsg:
		if msg.err != nil {
			a.errMsg = "Failed to reset progress."
			return a, nil
		}
		a.progress = nil
		return a, a.loadProgressCmd()
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	switch a.screen {
	case model.ScreenStart:
		return a.updateStart(msg)
	case model.ScreenDomainSelection:
		return a.updateDomains(msg)
	case model.ScreenTraining:
		return a.updateTraining(msg)
	case model.ScreenBrowse:
		return a.updateBrowse(msg)
	case model.ScreenProgress:
		return a.updateProgress(msg)
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	switch a.screen {
	case model.ScreenStart:
		return a.viewStart()
	case model.ScreenDomainSelection:
		return a.viewDomains()
	case model.ScreenTraining:
		return a.viewTraining()
	case model.ScreenBrowse:
		return a.viewBrowse()
	case model.ScreenProgress:
		return a.viewProgress()
	}
	return ""
}

func (a *App) layout() {
	contentWidth := a.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	a.browseDetail.Width = contentWidth
	a.browseDetail.Height = maxInt(a.height-6, 5)
	a.progressView.Width = contentWidth
	a.progressView.Height = maxInt(a.height-4, 5)
	a.layoutBrowseTable()
	if a.progress != nil {
		a.renderProgressContent()
	}
}

func (a *App) setScreen(screen model.Screen) tea.Cmd {
	a.screen = screen
	a.errMsg = ""
	return a.persistCmd()
}

// persistCmd snapshots the persisted state subset. Failures are logged,
// never surfaced: persistence must not interrupt study flow.
func (a *App) persistCmd() tea.Cmd {
	snap := state.Snapshot{
		Theme:           a.theme,
		Screen:          a.screen,
		Stats:           a.sess.Stats(),
		SelectedDomains: a.sess.Domains(),
		ShuffleAnswers:  a.shuffleAnswers,
		MasteryFilter:   a.masteryFilter,
		Question:        a.sess.Question(),
		SelectedAnswers: a.sess.Selection().IDs(),
	}
	return func() tea.Msg {
		if err := a.state.Save(context.Background(), snap); err != nil {
			a.logger.Warn().Err(err).Msg("failed to persist state")
		}
		return nil
	}
}

func (a *App) toggleTheme() {
	if a.theme == model.ThemeDark {
		a.theme = model.ThemeLight
	} else {
		a.theme = model.ThemeDark
	}
	a.styles = NewStyles(a.theme)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
