package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/learnstudio/internal/appstate"
	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/logging"
	"github.com/csheth/learnstudio/internal/status"
	"github.com/csheth/learnstudio/internal/transcript"
	"github.com/csheth/learnstudio/internal/workspace"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Backend        backend.Client
	App            *appstate.Context
	Logger         *logging.Logger
	RequestTimeout time.Duration
	StatusInterval time.Duration
	// Transcript is preloaded into the transcript field when set.
	Transcript *transcript.Document
}

const (
	heroTitle     = "AI Learning Studio"
	heroTagline   = "Transform content into knowledge"
	resultsBanner = "AI Processing Complete!"
	notesFooter   = "Tip: revisit these notes after the quiz to lock in what you learned."

	defaultRequestTimeout = 3 * time.Minute
	scrollDelay           = 300 * time.Millisecond
)

type focusTarget int

const (
	focusURL focusTarget = iota
	focusTitle
	focusTranscript
	focusResults
)

type model struct {
	config  Config
	session *workspace.Session
	logger  *logging.Logger
	backend backend.Client
	jobs    *jobBus

	jobStates map[string]jobSnapshot
	lastJob   string

	urlInput        textinput.Model
	titleInput      textinput.Model
	transcriptInput textarea.Model
	importInput     textinput.Model
	spinner         spinner.Model
	viewport        viewport.Model
	layout          pageLayout
	styles          styles

	focus         focusTarget
	importing     bool
	scope         *submissionScope
	quizCursor    int
	questionLines []int
	viewportDirty bool
	resultSeq     int
	infoMessage   string
	helpVisible   bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	client := config.Backend
	if client == nil {
		client = backend.NewFromEnv(backend.Config{Timeout: config.RequestTimeout, Logger: logger})
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}
	if config.StatusInterval <= 0 {
		config.StatusInterval = status.DefaultInterval
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/watch?v=..."
	urlInput.CharLimit = 300
	urlInput.Width = 70
	urlInput.Prompt = "› "

	titleInput := textinput.New()
	titleInput.Placeholder = "Enter a title for your content"
	titleInput.CharLimit = 200
	titleInput.Width = 70
	titleInput.Prompt = "› "

	transcriptInput := textarea.New()
	transcriptInput.Placeholder = "Paste your video transcript here..."
	transcriptInput.CharLimit = 0
	transcriptInput.ShowLineNumbers = false
	transcriptInput.SetWidth(72)
	transcriptInput.SetHeight(6)

	importInput := textinput.New()
	importInput.Placeholder = "/path/to/transcript.txt or .pdf"
	importInput.CharLimit = 512
	importInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 12)
	vp.MouseWheelEnabled = true

	session := workspace.New(config.App)
	m := &model{
		config:          config,
		session:         session,
		logger:          logger.With("component", "tui"),
		backend:         client,
		jobs:            newJobBus(logger),
		jobStates:       map[string]jobSnapshot{},
		urlInput:        urlInput,
		titleInput:      titleInput,
		transcriptInput: transcriptInput,
		importInput:     importInput,
		spinner:         spin,
		viewport:        vp,
		layout:          newPageLayout(),
		styles:          newStyles(session.App().Get().DarkMode),
		viewportDirty:   true,
		infoMessage:     "Paste a YouTube URL or switch to transcript mode with ctrl+r.",
	}
	if doc := config.Transcript; doc != nil {
		m.applyImportedTranscript(*doc)
	}
	m.setFocus(m.firstField())
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		return m, nil
	case spinner.TickMsg:
		if m.session.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.MouseMsg:
		if m.session.Material() != nil {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case statusLabelMsg:
		if !m.session.Advance(msg.id, msg.label) {
			return m, nil
		}
		return m, waitForStatusCmd(msg.id, msg.labels)
	case statusClosedMsg:
		return m, nil
	case submissionResultMsg:
		return m.handleSubmissionResult(msg)
	case scrollResultsMsg:
		if msg.seq != m.resultSeq || m.session.Material() == nil {
			return m, nil
		}
		m.setFocus(focusResults)
		m.refreshViewport()
		m.viewport.GotoTop()
		return m, nil
	case importResultMsg:
		if msg.err != nil {
			m.logger.Warn("transcript import failed", "path", msg.path, "error", msg.err)
			m.infoMessage = fmt.Sprintf("Import failed: %v", msg.err)
			return m, nil
		}
		m.applyImportedTranscript(msg.doc)
		m.setFocus(focusTranscript)
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		m.teardown()
		return m, tea.Quit
	}
	if m.importing {
		return m.handleImportKey(key)
	}

	switch key.String() {
	case "esc":
		m.teardown()
		return m, tea.Quit
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	case "ctrl+n":
		m.reset()
		return m, nil
	case "ctrl+u":
		m.switchMode(workspace.ModeURL)
		return m, nil
	case "ctrl+r":
		m.switchMode(workspace.ModeTranscript)
		return m, nil
	case "ctrl+s":
		return m, m.submit()
	case "ctrl+o":
		m.importing = true
		m.importInput.SetValue("")
		m.blurInputs()
		m.importInput.Focus()
		m.infoMessage = "Enter a transcript file path. Enter loads it, Esc cancels."
		return m, textinput.Blink
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	}

	if m.focus == focusResults {
		return m.handleResultsKey(key)
	}
	return m.handleFormKey(key)
}

func (m *model) handleImportKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.importing = false
		m.importInput.Blur()
		m.setFocus(m.focus)
		m.infoMessage = "Import canceled."
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.importInput.Value())
		if path == "" {
			m.infoMessage = "Enter a path to a .txt, .md or .pdf file."
			return m, nil
		}
		m.importing = false
		m.importInput.Blur()
		m.setFocus(m.focus)
		m.infoMessage = fmt.Sprintf("Importing %s…", path)
		return m, m.jobs.Start(context.Background(), jobKindImport, "", importJob(path))
	}
	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(key)
	return m, cmd
}

func (m *model) handleFormKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusURL:
		if key.Type == tea.KeyEnter {
			return m, m.submit()
		}
		m.urlInput, cmd = m.urlInput.Update(key)
	case focusTitle:
		if key.Type == tea.KeyEnter {
			return m, m.submit()
		}
		m.titleInput, cmd = m.titleInput.Update(key)
	case focusTranscript:
		m.transcriptInput, cmd = m.transcriptInput.Update(key)
	}
	m.syncInputs()
	return m, cmd
}

func (m *model) handleResultsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Material() == nil {
		return m, nil
	}
	switch key.String() {
	case "1", "2", "3", "4":
		idx := int(key.Runes[0] - '1')
		m.selectTab(workspace.Tabs[idx])
		return m, nil
	case "left":
		m.selectTab(m.session.CycleTab(-1))
		return m, nil
	case "right":
		m.selectTab(m.session.CycleTab(1))
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}

	if m.session.ActiveTab() == workspace.TabQuiz {
		if handled := m.handleQuizKey(key); handled {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handleQuizKey(key tea.KeyMsg) bool {
	total := m.session.QuizTotal()
	switch key.String() {
	case "up":
		m.moveQuizCursor(-1)
		return true
	case "down":
		m.moveQuizCursor(1)
		return true
	case "enter":
		m.submitQuiz()
		return true
	}
	if key.Type != tea.KeyRunes || len(key.Runes) != 1 {
		return false
	}
	r := key.Runes[0]
	if r < 'a' || r > 'z' || total == 0 {
		return false
	}
	question := m.session.Material().Quiz[m.quizCursor]
	idx := int(r - 'a')
	if idx >= len(question.Options) {
		m.infoMessage = fmt.Sprintf("Question %d has no option %s.", m.quizCursor+1, workspace.OptionLetter(idx))
		return true
	}
	if !m.session.SelectAnswer(m.quizCursor, question.Options[idx]) {
		if m.session.Quiz().Submitted() {
			m.infoMessage = "Quiz already submitted. Press ctrl+n to start over."
		}
		return true
	}
	m.infoMessage = ""
	if m.quizCursor < total-1 {
		m.quizCursor++
	}
	m.markViewportDirty()
	m.ensureQuestionVisible()
	return true
}

func (m *model) submitQuiz() {
	total := m.session.QuizTotal()
	quiz := m.session.Quiz()
	if quiz.Submitted() {
		m.infoMessage = "Quiz already submitted. Press ctrl+n to start over."
		return
	}
	if !m.session.CanSubmitQuiz() {
		m.infoMessage = fmt.Sprintf("Answer every question before submitting (%d/%d answered).", quiz.AnsweredCount(), total)
		return
	}
	score, err := m.session.SubmitQuiz()
	if err != nil {
		m.infoMessage = err.Error()
		return
	}
	outcome, _ := m.session.Outcome()
	m.logger.Info("quiz submitted", "score", score, "total", total, "outcome", outcome.String())
	m.infoMessage = fmt.Sprintf("%s %d/%d", outcome.Title(), score, total)
	m.markViewportDirty()
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *model) moveQuizCursor(delta int) {
	total := m.session.QuizTotal()
	if total == 0 {
		return
	}
	next := m.quizCursor + delta
	if next < 0 {
		next = 0
	}
	if next > total-1 {
		next = total - 1
	}
	m.quizCursor = next
	m.markViewportDirty()
	m.ensureQuestionVisible()
}

func (m *model) ensureQuestionVisible() {
	m.refreshViewport()
	if m.quizCursor >= len(m.questionLines) {
		return
	}
	line := m.questionLines[m.quizCursor]
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line > m.viewport.YOffset+m.viewport.Height-3:
		m.viewport.SetYOffset(line - 1)
	}
}

func (m *model) selectTab(tab workspace.Tab) {
	if !m.session.SetTab(tab) {
		return
	}
	m.helpVisible = false
	m.markViewportDirty()
	m.refreshViewport()
	m.viewport.GotoTop()
}

// submit starts a submission for the active mode. It opens a scope that owns
// the status ticker and the request context.
func (m *model) submit() tea.Cmd {
	m.syncInputs()
	sub, err := m.session.Submit()
	switch {
	case errors.Is(err, workspace.ErrSubmissionInFlight):
		m.infoMessage = "Still processing the previous request…"
		return nil
	case err != nil:
		m.logger.Info("submission rejected", "mode", string(m.session.Mode()), "error", err)
		m.afterResultsCleared()
		return nil
	}

	m.closeScope()
	m.scope = newSubmissionScope(sub.ID, m.config.StatusInterval)
	m.afterResultsCleared()
	m.infoMessage = ""
	m.logger.Info("submission started",
		"submission", sub.ID,
		"mode", string(sub.Mode),
		"payload_chars", len(sub.YoutubeURL)+len(sub.Transcript),
		"endpoint", m.backend.Endpoint(),
	)
	return tea.Batch(
		m.spinner.Tick,
		waitForStatusCmd(sub.ID, m.scope.ticker.Labels()),
		m.jobs.Start(m.scope.ctx, jobKindSubmit, sub.ID, submitJob(m.backend, sub, m.config.RequestTimeout)),
	)
}

func (m *model) handleSubmissionResult(msg submissionResultMsg) (tea.Model, tea.Cmd) {
	if !m.session.Complete(msg.id, msg.material, msg.err) {
		m.logger.Debug("stale submission result dropped", "submission", msg.id)
		return m, nil
	}
	m.closeScope()
	m.quizCursor = 0
	m.helpVisible = false
	m.markViewportDirty()
	if m.session.Material() == nil {
		m.logger.Warn("submission failed", "submission", msg.id, "error", m.session.ErrorMessage())
		m.infoMessage = ""
		return m, nil
	}
	m.resultSeq++
	m.logger.Info("submission completed",
		"submission", msg.id,
		"questions", m.session.QuizTotal(),
		"key_points", len(m.session.Material().KeyPoints),
	)
	m.infoMessage = "Use 1-4 or ←/→ to switch views. Tab moves back to the form."
	return m, scrollResultsCmd(m.resultSeq)
}

// afterResultsCleared moves focus off the results once Submit dropped them.
func (m *model) afterResultsCleared() {
	m.quizCursor = 0
	m.helpVisible = false
	m.markViewportDirty()
	if m.focus == focusResults {
		m.setFocus(m.firstField())
	}
}

func (m *model) reset() {
	m.closeScope()
	m.session.Reset()
	m.urlInput.SetValue("")
	m.titleInput.SetValue("")
	m.transcriptInput.SetValue("")
	m.quizCursor = 0
	m.questionLines = nil
	m.resultSeq++
	m.helpVisible = false
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	m.markViewportDirty()
	m.setFocus(m.firstField())
	m.infoMessage = "Workspace cleared."
	m.logger.Info("workspace reset", "mode", string(m.session.Mode()))
}

// teardown releases the pending submission, if any.
func (m *model) teardown() {
	m.closeScope()
	m.logger.Info("shutting down")
}

func (m *model) closeScope() {
	if m.scope == nil {
		return
	}
	m.scope.Close()
	m.scope = nil
}

func (m *model) switchMode(mode workspace.InputMode) {
	if m.session.Mode() == mode {
		m.setFocus(m.firstField())
		return
	}
	m.syncInputs()
	m.session.SetMode(mode)
	m.setFocus(m.firstField())
	m.infoMessage = ""
}

func (m *model) toggleTheme() {
	dark, err := m.session.App().ToggleDarkMode()
	if err != nil {
		m.logger.Error("persist theme preference", "error", err)
		m.infoMessage = fmt.Sprintf("Could not save theme preference: %v", err)
		return
	}
	m.styles = newStyles(dark)
	m.markViewportDirty()
	if dark {
		m.infoMessage = "Dark mode on."
	} else {
		m.infoMessage = "Dark mode off."
	}
}

func (m *model) applyImportedTranscript(doc transcript.Document) {
	m.session.SetMode(workspace.ModeTranscript)
	m.transcriptInput.SetValue(doc.Text)
	if strings.TrimSpace(m.titleInput.Value()) == "" && doc.Title != "" {
		m.titleInput.SetValue(doc.Title)
	}
	m.syncInputs()
	m.infoMessage = fmt.Sprintf("Imported %d characters from %s.", m.session.TranscriptLength(), doc.Path)
	m.logger.Info("transcript imported", "path", doc.Path, "chars", m.session.TranscriptLength())
}

func (m *model) syncInputs() {
	m.session.SetYoutubeURL(m.urlInput.Value())
	m.session.SetVideoTitle(m.titleInput.Value())
	m.session.SetTranscript(m.transcriptInput.Value())
}

func (m *model) firstField() focusTarget {
	if m.session.Mode() == workspace.ModeTranscript {
		return focusTitle
	}
	return focusURL
}

func (m *model) focusRing() []focusTarget {
	var ring []focusTarget
	if m.session.Mode() == workspace.ModeTranscript {
		ring = []focusTarget{focusTitle, focusTranscript}
	} else {
		ring = []focusTarget{focusURL}
	}
	if m.session.Material() != nil {
		ring = append(ring, focusResults)
	}
	return ring
}

func (m *model) cycleFocus(delta int) {
	ring := m.focusRing()
	idx := 0
	for i, target := range ring {
		if target == m.focus {
			idx = i
			break
		}
	}
	n := len(ring)
	idx = ((idx+delta)%n + n) % n
	m.setFocus(ring[idx])
}

func (m *model) setFocus(target focusTarget) {
	m.blurInputs()
	m.focus = target
	switch target {
	case focusURL:
		m.urlInput.Focus()
	case focusTitle:
		m.titleInput.Focus()
	case focusTranscript:
		m.transcriptInput.Focus()
	}
}

func (m *model) blurInputs() {
	m.urlInput.Blur()
	m.titleInput.Blur()
	m.transcriptInput.Blur()
}

func (m *model) recordJob(snapshot jobSnapshot) {
	m.jobStates[snapshot.ID] = snapshot
	m.lastJob = snapshot.ID
}

func (m *model) applyLayout() {
	width := m.layout.contentWidth
	m.urlInput.Width = width - 4
	m.titleInput.Width = width - 4
	m.importInput.Width = width - 4
	m.transcriptInput.SetWidth(width - 2)
	m.transcriptInput.SetHeight(m.layout.transcriptHeight)
	m.viewport.Width = width
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	view := m.buildTabContent()
	m.questionLines = view.questionLines
	m.viewport.SetContent(view.content)
	m.viewportDirty = false
}
