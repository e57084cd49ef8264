// Package tuitest drives a terminal program through a pseudo terminal so
// integration tests can script key presses and inspect what was drawn.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 40
	defaultTimeout = 10 * time.Second
	pollInterval   = 25 * time.Millisecond
)

// Step is one scripted interaction. The harness first sleeps for Delay, then
// waits until WaitFor appears in the rendered output, then writes Input.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Config configures how the harness spawns and drives the CLI program.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// PlainText is every byte the program wrote with escape sequences removed.
func (r *Recording) PlainText() string {
	if r == nil {
		return ""
	}
	return stripANSI(strings.ReplaceAll(string(r.Raw), "\r", ""))
}

// Contains reports whether text was drawn at any point of the run.
func (r *Recording) Contains(text string) bool {
	return strings.Contains(r.PlainText(), text)
}

// screen accumulates program output while the reader goroutine is running.
type screen struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *screen) contains(text string) bool {
	s.mu.Lock()
	plain := stripANSI(strings.ReplaceAll(s.buf.String(), "\r", ""))
	s.mu.Unlock()
	return strings.Contains(plain, text)
}

func (s *screen) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

// Run executes the configured command inside a PTY, replays the scripted
// inputs, and captures every byte written to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width := cfg.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := cfg.Height
	if height <= 0 {
		height = defaultHeight
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	allowedCodes := map[int]struct{}{0: {}}
	for _, code := range cfg.AllowedExitCodes {
		allowedCodes[code] = struct{}{}
	}

	winsize := &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
	ptmx, err := pty.StartWithSize(cmd, winsize)
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	output := &screen{}
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				responder.Process(chunk)
				_, _ = output.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for idx, step := range cfg.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.WaitFor != "" {
			if err := waitFor(ctx, output, step.WaitFor); err != nil {
				return nil, fmt.Errorf("tuitest: step %d: %w\n%s", idx, err, stripANSI(string(output.bytes())))
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				if _, ok := allowedCodes[exitErr.ExitCode()]; ok {
					break
				}
			}
			if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
				break
			}
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY lets the reader goroutine finish draining.
	_ = ptmx.Close()
	<-copyDone

	raw := output.bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func waitFor(ctx context.Context, output *screen, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if output.contains(text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, ctx.Err())
		case <-ticker.C:
		}
	}
}

func buildEnv(extra []string) []string {
	env := os.Environ()
	env = append(env, extra...)
	termSet := false
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			termSet = true
			break
		}
	}
	if !termSet {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

// Type returns the bytes produced by typing text.
func Type(text string) []byte {
	return []byte(text)
}

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyTab moves focus between fields.
	KeyTab = []byte{'\t'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyCtrlN resets the workspace.
	KeyCtrlN = []byte{14}
	// KeyCtrlR switches to transcript mode.
	KeyCtrlR = []byte{18}
	// KeyCtrlS submits the form.
	KeyCtrlS = []byte{19}
	// KeyEsc quits the program.
	KeyEsc = []byte{27}
)
