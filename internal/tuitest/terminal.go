package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries are the capability probes Bubble Tea and termenv send on
// start-up, paired with the answer a dark 256-colour terminal would give.
var terminalQueries = []struct {
	query  []byte
	answer []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

const (
	responderKeep = 64
	responderMax  = 256
)

// terminalResponder answers terminal queries so the program under test does
// not block waiting for a real terminal.
type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, responderMax)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	// A query may span two reads, so a short tail survives.
	if len(tr.buf) > responderMax {
		tr.buf = tr.buf[len(tr.buf)-responderKeep:]
	}
}

// answerNext replies to the earliest pending query in the buffer.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, -1
	for i, q := range terminalQueries {
		idx := bytes.Index(tr.buf, q.query)
		if idx >= 0 && (at < 0 || idx < at) {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	q := terminalQueries[first]
	tr.buf = tr.buf[at+len(q.query):]
	_, _ = tr.w.Write(q.answer)
	return true
}
