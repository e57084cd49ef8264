package workspace

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/csheth/learnstudio/internal/appstate"
	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/status"
)

type recordingClient struct {
	videoCalls      []string
	transcriptCalls []backend.TranscriptRequest
	material        *backend.LearningMaterial
	err             error
}

func (c *recordingClient) ProcessVideo(ctx context.Context, youtubeURL string) (*backend.LearningMaterial, error) {
	c.videoCalls = append(c.videoCalls, youtubeURL)
	return c.material, c.err
}

func (c *recordingClient) ProcessTranscript(ctx context.Context, transcript, videoTitle string) (*backend.LearningMaterial, error) {
	c.transcriptCalls = append(c.transcriptCalls, backend.TranscriptRequest{Transcript: transcript, VideoTitle: videoTitle})
	return c.material, c.err
}

func (c *recordingClient) Endpoint() string { return "test" }

func fixtureMaterial() *backend.LearningMaterial {
	return &backend.LearningMaterial{
		VideoTitle: "Go Concurrency",
		Summary:    "Goroutines are cheap.\n\nChannels synchronize.\n\nSelect multiplexes.",
		KeyPoints:  []string{"Share memory by communicating", "Close from the sender"},
		Notes:      []string{"Use context for cancellation"},
		Quiz: []backend.QuizQuestion{
			{Question: "Keyword to start a goroutine?", Options: []string{"go", "async", "spawn"}, CorrectAnswer: "go"},
			{Question: "Who closes a channel?", Options: []string{"Receiver", "Sender"}, CorrectAnswer: "Sender"},
			{Question: "Multiplexing statement?", Options: []string{"switch", "select"}, CorrectAnswer: "select"},
		},
	}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := New(nil)
	s.SetYoutubeURL("https://youtu.be/abcdefghijk")
	sub, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !s.Complete(sub.ID, fixtureMaterial(), nil) {
		t.Fatal("Complete() rejected the pending submission")
	}
	return s
}

func TestModeExclusivity(t *testing.T) {
	s := New(nil)
	s.SetYoutubeURL("https://youtu.be/abcdefghijk")
	s.SetTranscript(strings.Repeat("t", 150))
	s.SetVideoTitle("Stale title")

	client := &recordingClient{material: fixtureMaterial()}
	sub, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.Transcript != "" || sub.VideoTitle != "" {
		t.Fatalf("url submission leaked transcript fields: %#v", sub)
	}
	if _, err := sub.Run(context.Background(), client); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(client.videoCalls) != 1 || len(client.transcriptCalls) != 0 {
		t.Fatalf("url mode sent wrong request: video=%v transcript=%v", client.videoCalls, client.transcriptCalls)
	}
	s.Complete(sub.ID, client.material, nil)

	s.SetMode(ModeTranscript)
	if s.YoutubeURL() == "" {
		t.Fatal("switching mode must keep the url field")
	}
	sub, err = s.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.YoutubeURL != "" {
		t.Fatalf("transcript submission leaked url: %#v", sub)
	}
	if _, err := sub.Run(context.Background(), client); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(client.transcriptCalls) != 1 || client.transcriptCalls[0].VideoTitle != "Stale title" {
		t.Fatalf("unexpected transcript calls: %#v", client.transcriptCalls)
	}
}

func TestTranscriptValidationGate(t *testing.T) {
	for _, length := range []int{0, 1, 99} {
		s := New(nil)
		s.SetMode(ModeTranscript)
		s.SetTranscript(strings.Repeat("x", length))

		sub, err := s.Submit()
		if !errors.Is(err, ErrTranscriptTooShort) {
			t.Fatalf("length %d: expected ErrTranscriptTooShort, got %v", length, err)
		}
		if sub.ID != "" {
			t.Fatalf("length %d: validation failure must not produce a submission", length)
		}
		if s.Loading() {
			t.Fatalf("length %d: loading must stay false", length)
		}
		if s.ErrorMessage() != "Transcript must be at least 100 characters" {
			t.Fatalf("length %d: unexpected error message %q", length, s.ErrorMessage())
		}
	}
}

func TestTranscriptLengthCountsCharacters(t *testing.T) {
	s := New(nil)
	s.SetMode(ModeTranscript)
	s.SetTranscript(strings.Repeat("é", 100))
	if _, err := s.Submit(); err != nil {
		t.Fatalf("100 multi-byte characters should pass, got %v", err)
	}

	// Characters outside the BMP count twice, as in a browser text field.
	s.Reset()
	s.SetTranscript(strings.Repeat("🎬", 50))
	if got := s.TranscriptLength(); got != 100 {
		t.Fatalf("TranscriptLength() = %d, want 100", got)
	}
	if _, err := s.Submit(); err != nil {
		t.Fatalf("50 astral characters should pass, got %v", err)
	}

	short := New(nil)
	short.SetMode(ModeTranscript)
	short.SetTranscript(strings.Repeat("🎬", 49) + "x")
	if _, err := short.Submit(); !errors.Is(err, ErrTranscriptTooShort) {
		t.Fatalf("99 code units should be rejected, got %v", err)
	}
}

func TestURLValidationGate(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{name: "empty", value: ""},
		{name: "blank", value: "   "},
		{name: "not a url", value: "not a url"},
		{name: "relative", value: "/watch?v=dQw4w9WgXcQ"},
		{name: "no host", value: "https://"},
		{name: "other scheme", value: "ftp://youtu.be/dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(nil)
			s.SetYoutubeURL(tc.value)

			sub, err := s.Submit()
			if !errors.Is(err, ErrInvalidURL) {
				t.Fatalf("expected ErrInvalidURL, got %v", err)
			}
			if sub.ID != "" || s.Loading() || s.InFlightID() != "" {
				t.Fatalf("validation failure must not start a submission: %#v", s.Snapshot())
			}
			if s.ErrorMessage() != ErrInvalidURL.Error() {
				t.Fatalf("unexpected error message %q", s.ErrorMessage())
			}
		})
	}

	s := New(nil)
	s.SetYoutubeURL("  https://youtu.be/dQw4w9WgXcQ  ")
	sub, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.YoutubeURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("url = %q, want surrounding space trimmed", sub.YoutubeURL)
	}
}

func TestSingleFlight(t *testing.T) {
	s := New(nil)
	s.SetYoutubeURL("https://youtu.be/abcdefghijk")
	first, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	before := s.Snapshot()

	second, err := s.Submit()
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	if second.ID != "" {
		t.Fatal("second submit must not produce a submission")
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("second submit changed state:\nbefore %#v\nafter  %#v", before, s.Snapshot())
	}
	if s.InFlightID() != first.ID {
		t.Fatal("pending submission id changed")
	}
}

func TestSubmitClearsPreviousState(t *testing.T) {
	s := loadedSession(t)
	s.SelectAnswer(0, "go")
	s.SetTab(TabQuiz)

	if _, err := s.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if s.Material() != nil || s.ErrorMessage() != "" || s.Quiz().AnsweredCount() != 0 {
		t.Fatalf("submit did not clear state: %#v", s.Snapshot())
	}
	if !s.Loading() || s.ProcessingStep() != status.StartLabel {
		t.Fatalf("submit did not start loading: %#v", s.Snapshot())
	}
}

func TestCompleteSuccessSelectsSummary(t *testing.T) {
	s := New(nil)
	s.SetMode(ModeTranscript)
	s.SetTranscript(strings.Repeat("a", 150))
	s.SetTab(TabNotes)

	sub, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.VideoTitle != DefaultVideoTitle {
		t.Fatalf("blank title should default, got %q", sub.VideoTitle)
	}
	if !s.Complete(sub.ID, fixtureMaterial(), nil) {
		t.Fatal("Complete() returned false")
	}
	if s.Loading() || s.ProcessingStep() != "" {
		t.Fatal("loading state not cleared")
	}
	if s.ActiveTab() != TabSummary {
		t.Fatalf("active tab = %s want summary", s.ActiveTab())
	}
	if s.QuizPhase() != QuizUnanswered {
		t.Fatalf("quiz should start unanswered, got %s", s.QuizPhase())
	}
}

func TestCompleteFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "api detail", err: &backend.APIError{Status: 400, Detail: "Invalid YouTube URL"}, want: "Invalid YouTube URL"},
		{name: "api without detail", err: &backend.APIError{Status: 502}, want: "request failed with status code 502"},
		{name: "raw error", err: errors.New("dial tcp: connection refused"), want: "dial tcp: connection refused"},
		{name: "empty error", err: errors.New(""), want: GenericErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(nil)
			s.SetYoutubeURL("https://youtu.be/abcdefghijk")
			sub, _ := s.Submit()
			s.Complete(sub.ID, nil, tc.err)
			if s.ErrorMessage() != tc.want {
				t.Fatalf("error = %q want %q", s.ErrorMessage(), tc.want)
			}
			if s.Material() != nil || s.Loading() {
				t.Fatalf("failure left inconsistent state: %#v", s.Snapshot())
			}
		})
	}
}

func TestCompleteRejectsMalformedMaterial(t *testing.T) {
	s := New(nil)
	s.SetYoutubeURL("https://youtu.be/abcdefghijk")
	sub, _ := s.Submit()
	broken := fixtureMaterial()
	broken.Quiz = nil
	s.Complete(sub.ID, broken, nil)
	if s.Material() != nil {
		t.Fatal("malformed material must not be stored")
	}
	if !strings.Contains(s.ErrorMessage(), "quiz missing") {
		t.Fatalf("unexpected error %q", s.ErrorMessage())
	}
}

func TestStaleResultsAndLabelsAreIgnored(t *testing.T) {
	s := New(nil)
	s.SetYoutubeURL("https://youtu.be/abcdefghijk")
	sub, _ := s.Submit()
	if s.Advance("other", "Generating summary...") {
		t.Fatal("label for unknown id accepted")
	}
	if !s.Advance(sub.ID, "Generating summary...") || s.ProcessingStep() != "Generating summary..." {
		t.Fatal("label for pending id rejected")
	}
	s.Reset()
	if s.Complete(sub.ID, fixtureMaterial(), nil) {
		t.Fatal("result for a detached submission accepted")
	}
	if s.Material() != nil {
		t.Fatal("detached result stored")
	}
	if s.Advance(sub.ID, "Finalizing materials...") {
		t.Fatal("label accepted after reset")
	}
}

func TestResetIdempotence(t *testing.T) {
	initial := New(nil).Snapshot()

	midQuiz := loadedSession(t)
	midQuiz.SelectAnswer(0, "go")
	midQuiz.SetTab(TabQuiz)

	submitted := loadedSession(t)
	for i, q := range submitted.Material().Quiz {
		submitted.SelectAnswer(i, q.CorrectAnswer)
	}
	if _, err := submitted.SubmitQuiz(); err != nil {
		t.Fatalf("SubmitQuiz() error = %v", err)
	}

	failed := New(nil)
	failed.SetMode(ModeTranscript)
	failed.SetTranscript("short")
	failed.Submit()
	failed.SetMode(ModeURL)

	loading := New(nil)
	loading.SetYoutubeURL("https://youtu.be/abcdefghijk")
	loading.Submit()

	for name, s := range map[string]*Session{"mid-quiz": midQuiz, "submitted": submitted, "error": failed, "loading": loading} {
		s.Reset()
		if got := s.Snapshot(); !reflect.DeepEqual(got, initial) {
			t.Fatalf("%s: reset snapshot mismatch\n got %#v\nwant %#v", name, got, initial)
		}
		s.Reset()
		if got := s.Snapshot(); !reflect.DeepEqual(got, initial) {
			t.Fatalf("%s: second reset changed shape: %#v", name, got)
		}
	}
}

func TestTabIsolation(t *testing.T) {
	s := loadedSession(t)
	s.SelectAnswer(0, "go")
	s.SelectAnswer(1, "Receiver")
	s.SelectAnswer(2, "select")
	if _, err := s.SubmitQuiz(); err != nil {
		t.Fatalf("SubmitQuiz() error = %v", err)
	}
	material := s.Material()
	before := s.Snapshot()

	for _, tab := range []Tab{TabQuiz, TabNotes, TabInsights, TabSummary} {
		s.SetTab(tab)
	}
	s.CycleTab(3)
	s.CycleTab(-5)
	if s.SetTab(Tab("settings")) {
		t.Fatal("unknown tab accepted")
	}

	after := s.Snapshot()
	before.ActiveTab, after.ActiveTab = "", ""
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("tab switching mutated state:\nbefore %#v\nafter  %#v", before, after)
	}
	if s.Material() != material {
		t.Fatal("tab switching replaced material")
	}
}

func TestCycleTabWraps(t *testing.T) {
	s := loadedSession(t)
	if got := s.CycleTab(-1); got != TabQuiz {
		t.Fatalf("CycleTab(-1) from summary = %s want quiz", got)
	}
	if got := s.CycleTab(1); got != TabSummary {
		t.Fatalf("CycleTab(1) from quiz = %s want summary", got)
	}
}

func TestAppContextIsInjected(t *testing.T) {
	app := appstate.New(appstate.State{User: &appstate.User{Name: "Ada"}, DarkMode: true})
	s := New(app)
	if s.App() != app {
		t.Fatal("session should expose the injected context")
	}
	if err := s.App().Update(func(st *appstate.State) { st.DarkMode = false }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if app.Get().DarkMode {
		t.Fatal("update through the session did not reach the context")
	}
}
