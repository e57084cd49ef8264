package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/csheth/learnstudio/internal/tuitest"
)

const fixtureResponse = `{
  "video_title": "Go Concurrency",
  "summary": "Goroutines are cheap.\n\nChannels synchronize.",
  "key_points": ["Share memory by communicating"],
  "notes": ["Use context for cancellation"],
  "quiz": [
    {"question": "Keyword to start a goroutine?", "options": ["go", "async"], "correct_answer": "go"},
    {"question": "Who closes a channel?", "options": ["Receiver", "Sender"], "correct_answer": "Sender"}
  ]
}`

type fakeService struct {
	mu     sync.Mutex
	videos []string
}

func (s *fakeService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/process-video", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			YoutubeURL string `json:"youtube_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		s.mu.Lock()
		s.videos = append(s.videos, body.YoutubeURL)
		s.mu.Unlock()
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixtureResponse))
	})
	return mux
}

func TestVideoSubmissionAndQuiz(t *testing.T) {
	t.Parallel()
	service := &fakeService{}
	server := httptest.NewServer(service.handler(t))
	defer server.Close()

	rec := runCLI(t, server.URL, []tuitest.Step{
		{WaitFor: "AI Learning Studio", Input: tuitest.Type("https://youtu.be/dQw4w9WgXcQ")},
		{Delay: 100 * time.Millisecond, Input: tuitest.KeyEnter},
		{WaitFor: "AI Processing Complete!"},
		{Delay: 600 * time.Millisecond, Input: tuitest.Type("4")},
		{WaitFor: "0/2 answered", Input: tuitest.Type("a")},
		{Delay: 150 * time.Millisecond, Input: tuitest.Type("b")},
		{Delay: 150 * time.Millisecond, Input: tuitest.KeyEnter},
		{WaitFor: "You scored 2 out of 2 questions", Input: tuitest.KeyCtrlC},
	})

	for _, want := range []string{"Starting analysis...", "Perfect Score!", "100% Accuracy"} {
		if !rec.Contains(want) {
			t.Fatalf("output never showed %q\n%s", want, rec.PlainText())
		}
	}
	service.mu.Lock()
	defer service.mu.Unlock()
	if len(service.videos) != 1 || service.videos[0] != "https://youtu.be/dQw4w9WgXcQ" {
		t.Fatalf("backend saw %v", service.videos)
	}
}

func TestShortTranscriptIsRejectedLocally(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	rec := runCLI(t, server.URL, []tuitest.Step{
		{WaitFor: "AI Learning Studio", Input: tuitest.KeyCtrlR},
		{Delay: 100 * time.Millisecond, Input: tuitest.KeyTab},
		{Delay: 100 * time.Millisecond, Input: tuitest.Type("not nearly long enough")},
		{Delay: 100 * time.Millisecond, Input: tuitest.KeyCtrlS},
		{WaitFor: "Transcript must be at least 100 characters", Input: tuitest.KeyCtrlC},
	})
	if !rec.Contains("22 characters (minimum 100)") {
		t.Fatalf("character counter missing\n%s", rec.PlainText())
	}
}

func runCLI(t *testing.T, apiURL string, steps []tuitest.Step) *tuitest.Recording {
	t.Helper()
	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	tmp := t.TempDir()
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{
			binary, "-no-alt-screen",
			"-api", apiURL,
			"-state", filepath.Join(tmp, "state.json"),
			"-log-file", filepath.Join(tmp, "learnstudio.log"),
		},
		Dir:            tmp,
		Env:            []string{"LEARNSTUDIO_STATUS_INTERVAL=100ms"},
		Width:          120,
		Height:         60,
		Steps:          steps,
		Timeout:        20 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	return rec
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
	buildOut  []byte
)

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "learnstudio-integration")
		if err != nil {
			buildErr = err
			return
		}
		name := "learnstudio-integration"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		binPath = filepath.Join(dir, name)
		cmd := exec.Command("go", "build", "-o", binPath, ".")
		cmd.Dir = cmdDir
		buildOut, buildErr = cmd.CombinedOutput()
	})
	if buildErr != nil {
		t.Fatalf("build CLI: %v\n%s", buildErr, buildOut)
	}
	return binPath
}
