package status

import (
	"context"
	"testing"
	"time"
)

func TestTickerCyclesAndWraps(t *testing.T) {
	ticker := Start(context.Background(), 5*time.Millisecond)
	defer ticker.Stop()

	want := append(append([]string{}, Steps...), Steps[0], Steps[1])
	for i, expected := range want {
		select {
		case got, ok := <-ticker.Labels():
			if !ok {
				t.Fatalf("labels closed early at %d", i)
			}
			if got != expected {
				t.Fatalf("label %d = %q want %q", i, got, expected)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for label %d", i)
		}
	}
}

func TestStopClosesLabels(t *testing.T) {
	ticker := Start(context.Background(), time.Hour)
	ticker.Stop()
	ticker.Stop()

	select {
	case _, ok := <-ticker.Labels():
		if ok {
			t.Fatal("expected labels to be closed after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("labels not closed after Stop")
	}
}

func TestStopWhileBlockedOnSend(t *testing.T) {
	ticker := Start(context.Background(), time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		ticker.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked while the ticker waited on an unread label")
	}
}

func TestParentCancellationStopsTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := Start(ctx, time.Hour)
	cancel()

	select {
	case <-ticker.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker ignored parent cancellation")
	}
}
