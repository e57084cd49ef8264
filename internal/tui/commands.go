package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/learnstudio/internal/backend"
	"github.com/csheth/learnstudio/internal/status"
	"github.com/csheth/learnstudio/internal/transcript"
	"github.com/csheth/learnstudio/internal/workspace"
)

type submissionResultMsg struct {
	id       string
	material *backend.LearningMaterial
	err      error
}

type statusLabelMsg struct {
	id     string
	label  string
	labels <-chan string
}

type statusClosedMsg struct {
	id string
}

type scrollResultsMsg struct {
	seq int
}

type importResultMsg struct {
	path string
	doc  transcript.Document
	err  error
}

// submissionScope owns everything tied to one pending submission: the request
// context and the status ticker. Close releases both and is called on every
// exit path.
type submissionScope struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	ticker *status.Ticker
}

func newSubmissionScope(id string, interval time.Duration) *submissionScope {
	ctx, cancel := context.WithCancel(context.Background())
	return &submissionScope{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		ticker: status.Start(ctx, interval),
	}
}

func (s *submissionScope) Close() {
	if s == nil {
		return
	}
	s.ticker.Stop()
	s.cancel()
}

func submitJob(client backend.Client, sub workspace.Submission, timeout time.Duration) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		material, err := sub.Run(ctx, client)
		return submissionResultMsg{id: sub.ID, material: material, err: err}, err
	}
}

func importJob(path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		doc, err := transcript.Load(path)
		return importResultMsg{path: path, doc: doc, err: err}, err
	}
}

func waitForStatusCmd(id string, labels <-chan string) tea.Cmd {
	return func() tea.Msg {
		label, ok := <-labels
		if !ok {
			return statusClosedMsg{id: id}
		}
		return statusLabelMsg{id: id, label: label, labels: labels}
	}
}

func scrollResultsCmd(seq int) tea.Cmd {
	return tea.Tick(scrollDelay, func(time.Time) tea.Msg {
		return scrollResultsMsg{seq: seq}
	})
}
