// Package workspace implements the learning workspace: input capture,
// single-flight submission to the learning service, tabbed results and the
// quiz engine. It is UI agnostic; the tui package drives it with key events.
package workspace

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/csheth/learnstudio/internal/appstate"
	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/status"
)

// InputMode selects which sub-form is sent on submit.
type InputMode string

const (
	ModeURL        InputMode = "url"
	ModeTranscript InputMode = "transcript"
)

const (
	// MinTranscriptLength is the client-side guard for transcript submissions.
	MinTranscriptLength = 100
	// DefaultVideoTitle replaces a blank title in transcript mode.
	DefaultVideoTitle = "Video Learning Materials"
)

// Session is the state of one workspace interaction, from first input to
// reset. Methods are not safe for concurrent use; callers serialize events.
type Session struct {
	app *appstate.Context

	mode       InputMode
	youtubeURL string
	transcript string
	videoTitle string

	loading        bool
	processingStep string
	inflight       string
	errMessage     string
	data           *backend.LearningMaterial
	activeTab      Tab
	quiz           QuizState
}

// New returns an empty session bound to the application context. A nil app
// gets an in-memory context.
func New(app *appstate.Context) *Session {
	if app == nil {
		app = appstate.New(appstate.State{})
	}
	s := &Session{app: app}
	s.Reset()
	s.mode = ModeURL
	return s
}

// App exposes the application context supplied at construction.
func (s *Session) App() *appstate.Context { return s.app }

func (s *Session) Mode() InputMode        { return s.mode }
func (s *Session) YoutubeURL() string     { return s.youtubeURL }
func (s *Session) Transcript() string     { return s.transcript }
func (s *Session) VideoTitle() string     { return s.videoTitle }
func (s *Session) Loading() bool          { return s.loading }
func (s *Session) ProcessingStep() string { return s.processingStep }
func (s *Session) ErrorMessage() string   { return s.errMessage }
func (s *Session) ActiveTab() Tab         { return s.activeTab }
func (s *Session) InFlightID() string     { return s.inflight }

// Material returns the current result, nil until a submission succeeds.
func (s *Session) Material() *backend.LearningMaterial { return s.data }

// Quiz exposes the quiz state for rendering. Mutate it through Session only.
func (s *Session) Quiz() *QuizState { return &s.quiz }

// SetMode switches the active sub-form. The other form's fields are kept.
func (s *Session) SetMode(mode InputMode) {
	if mode != ModeURL && mode != ModeTranscript {
		return
	}
	s.mode = mode
}

func (s *Session) SetYoutubeURL(value string) { s.youtubeURL = value }
func (s *Session) SetTranscript(value string) { s.transcript = value }
func (s *Session) SetVideoTitle(value string) { s.videoTitle = value }

// TranscriptLength counts UTF-16 code units, the length a browser text field
// reports, so characters outside the BMP count twice.
func (s *Session) TranscriptLength() int {
	n := 0
	for _, r := range s.transcript {
		if size := utf16.RuneLen(r); size > 0 {
			n += size
		} else {
			n++
		}
	}
	return n
}

// validURL accepts absolute http and https URLs with a host.
func validURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Submission is one request to the learning service. Only the fields of the
// selected mode are populated.
type Submission struct {
	ID         string
	Mode       InputMode
	YoutubeURL string
	Transcript string
	VideoTitle string
}

// Run sends the submission through client.
func (sub Submission) Run(ctx context.Context, client backend.Client) (*backend.LearningMaterial, error) {
	switch sub.Mode {
	case ModeURL:
		return client.ProcessVideo(ctx, sub.YoutubeURL)
	case ModeTranscript:
		return client.ProcessTranscript(ctx, sub.Transcript, sub.VideoTitle)
	default:
		return nil, fmt.Errorf("unknown input mode %q", sub.Mode)
	}
}

// Submit starts a submission. While one is pending it returns
// ErrSubmissionInFlight and changes nothing. Otherwise previous error, result
// and quiz state are cleared first; a transcript shorter than
// MinTranscriptLength then fails with ErrTranscriptTooShort, and a url that is
// not an absolute http(s) URL fails with ErrInvalidURL, without producing a
// Submission.
func (s *Session) Submit() (Submission, error) {
	if s.loading {
		return Submission{}, ErrSubmissionInFlight
	}
	s.errMessage = ""
	s.data = nil
	s.quiz = QuizState{}

	sub := Submission{Mode: s.mode}
	switch s.mode {
	case ModeTranscript:
		if s.TranscriptLength() < MinTranscriptLength {
			s.errMessage = ErrTranscriptTooShort.Error()
			return Submission{}, ErrTranscriptTooShort
		}
		sub.Transcript = s.transcript
		sub.VideoTitle = s.videoTitle
		if strings.TrimSpace(sub.VideoTitle) == "" {
			sub.VideoTitle = DefaultVideoTitle
		}
	default:
		raw := strings.TrimSpace(s.youtubeURL)
		if !validURL(raw) {
			s.errMessage = ErrInvalidURL.Error()
			return Submission{}, ErrInvalidURL
		}
		sub.Mode = ModeURL
		sub.YoutubeURL = raw
	}

	sub.ID = uuid.NewString()
	s.loading = true
	s.inflight = sub.ID
	s.processingStep = status.StartLabel
	return sub, nil
}

// Advance shows the next cosmetic status label. Labels for a submission that
// is no longer pending are dropped.
func (s *Session) Advance(id, label string) bool {
	if !s.loading || id == "" || id != s.inflight {
		return false
	}
	s.processingStep = label
	return true
}

// Complete resolves the pending submission id. Results for any other id are
// ignored and false is returned. On success the material replaces data, the
// summary tab is selected and the quiz starts over; on failure data stays nil
// and the error message is set.
func (s *Session) Complete(id string, material *backend.LearningMaterial, err error) bool {
	if !s.loading || id == "" || id != s.inflight {
		return false
	}
	s.loading = false
	s.inflight = ""
	s.processingStep = ""
	s.quiz = QuizState{}
	if err == nil {
		err = material.Validate()
	}
	if err != nil {
		s.data = nil
		s.errMessage = Describe(err)
		return true
	}
	s.data = material
	s.errMessage = ""
	s.activeTab = TabSummary
	return true
}

// Reset returns the session to its initial shape. The input mode is kept and
// any pending submission is detached, so its result will be ignored.
func (s *Session) Reset() {
	s.youtubeURL = ""
	s.transcript = ""
	s.videoTitle = ""
	s.loading = false
	s.processingStep = ""
	s.inflight = ""
	s.errMessage = ""
	s.data = nil
	s.activeTab = TabSummary
	s.quiz = QuizState{}
}

// SetTab selects a result view. Unknown tabs are ignored.
func (s *Session) SetTab(tab Tab) bool {
	if !tab.Valid() {
		return false
	}
	s.activeTab = tab
	return true
}

// CycleTab moves delta positions through Tabs, wrapping around.
func (s *Session) CycleTab(delta int) Tab {
	idx := s.activeTab.Index()
	n := len(Tabs)
	idx = ((idx+delta)%n + n) % n
	s.activeTab = Tabs[idx]
	return s.activeTab
}

// SelectAnswer records option for question index.
func (s *Session) SelectAnswer(index int, option string) bool {
	if s.data == nil {
		return false
	}
	return s.quiz.Select(s.data.Quiz, index, option)
}

// CanSubmitQuiz reports whether the quiz is fully answered and not yet submitted.
func (s *Session) CanSubmitQuiz() bool {
	return s.data != nil && s.quiz.CanSubmit(len(s.data.Quiz))
}

// SubmitQuiz scores the quiz. It can succeed once per material.
func (s *Session) SubmitQuiz() (int, error) {
	if s.data == nil {
		return 0, ErrNoMaterial
	}
	return s.quiz.Submit(s.data.Quiz)
}

// QuizTotal is the number of questions in the current material.
func (s *Session) QuizTotal() int {
	if s.data == nil {
		return 0
	}
	return len(s.data.Quiz)
}

// QuizPhase is the quiz lifecycle position for the current material.
func (s *Session) QuizPhase() QuizPhase {
	return s.quiz.Phase(s.QuizTotal())
}

// Outcome classifies a submitted quiz. ok is false before submission.
func (s *Session) Outcome() (outcome Outcome, ok bool) {
	if !s.quiz.Submitted() {
		return OutcomeKeepLearning, false
	}
	return Classify(s.quiz.Score(), s.QuizTotal()), true
}

// Snapshot is a comparable copy of the session used by tests and logging.
type Snapshot struct {
	Mode           InputMode
	YoutubeURL     string
	Transcript     string
	VideoTitle     string
	Loading        bool
	ProcessingStep string
	Error          string
	HasData        bool
	ActiveTab      Tab
	Answers        map[int]string
	QuizSubmitted  bool
	Score          int
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Mode:           s.mode,
		YoutubeURL:     s.youtubeURL,
		Transcript:     s.transcript,
		VideoTitle:     s.videoTitle,
		Loading:        s.loading,
		ProcessingStep: s.processingStep,
		Error:          s.errMessage,
		HasData:        s.data != nil,
		ActiveTab:      s.activeTab,
		Answers:        s.quiz.Answers(),
		QuizSubmitted:  s.quiz.Submitted(),
		Score:          s.quiz.Score(),
	}
}
