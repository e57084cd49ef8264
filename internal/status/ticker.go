// Package status produces the cosmetic progress labels shown while a
// submission is pending. The labels say nothing about real backend progress.
package status

import (
	"context"
	"sync"
	"time"
)

// StartLabel is shown from submission start until the first tick.
const StartLabel = "Starting analysis..."

// DefaultInterval is the delay between two labels.
const DefaultInterval = 2 * time.Second

// Steps is the rotation, restarted from the top after the last entry.
var Steps = []string{
	"Analyzing content...",
	"Extracting key concepts...",
	"Generating summary...",
	"Creating quiz questions...",
	"Finalizing materials...",
}

// Ticker emits Steps on Labels at a fixed interval until stopped. Stop (or
// cancelling the parent context) ends the goroutine and closes Labels.
type Ticker struct {
	labels chan string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start launches a ticker. A non-positive interval uses DefaultInterval.
func Start(parent context.Context, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(parent)
	t := &Ticker{
		labels: make(chan string),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.run(ctx, interval)
	return t
}

func (t *Ticker) run(ctx context.Context, interval time.Duration) {
	defer close(t.done)
	defer close(t.labels)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	next := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		select {
		case <-ctx.Done():
			return
		case t.labels <- Steps[next]:
		}
		next = (next + 1) % len(Steps)
	}
}

// Labels delivers one label per tick. It is closed once the ticker stops.
func (t *Ticker) Labels() <-chan string {
	return t.labels
}

// Stop cancels the ticker and waits for its goroutine to exit. Safe to call
// more than once.
func (t *Ticker) Stop() {
	t.once.Do(func() {
		t.cancel()
		<-t.done
	})
}

// Done is closed after the ticker goroutine has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}
