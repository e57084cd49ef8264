package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/learnstudio/internal/logging"
)

type jobKind string

type jobStatus string

const (
	jobKindSubmit jobKind = "submit"
	jobKindImport jobKind = "import"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID       string
	Kind     jobKind
	Status   jobStatus
	Duration time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	logger  *logging.Logger
}

func newJobBus(logger *logging.Logger) *jobBus {
	return &jobBus{logger: logger.With("component", "jobs")}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start runs runner off the event loop. id may be empty, in which case a
// sequential one is assigned. parent bounds the runner's lifetime.
func (b *jobBus) Start(parent context.Context, kind jobKind, id string, runner jobRunner) tea.Cmd {
	if id == "" {
		id = b.nextID(kind)
	}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning}}
	}
	runCmd := func() tea.Msg {
		return b.run(parent, kind, id, runner)
	}
	return tea.Sequence(startCmd, runCmd)
}

func (b *jobBus) run(parent context.Context, kind jobKind, id string, runner jobRunner) jobResultEnvelope {
	started := time.Now()
	payload, err := runner(parent)
	snapshot := jobSnapshot{
		ID:       id,
		Kind:     kind,
		Status:   jobStatusSucceeded,
		Duration: time.Since(started),
	}
	var errText string
	if err != nil {
		snapshot.Status = jobStatusFailed
		errText = err.Error()
	}
	b.logger.Info("job finished",
		"job", id,
		"kind", kind,
		"status", snapshot.Status,
		"duration", snapshot.Duration,
		"error", errText,
	)
	return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
}
