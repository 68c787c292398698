package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps capability probes a TUI may send to the answers of a
// plain dark xterm.
var terminalQueries = []struct {
	query, reply []byte
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

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, responderMax)}
}

// Process scans output for probes and answers each one once. A short tail is
// kept so a probe split across reads is still seen.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > responderMax {
		tr.buf = tr.buf[len(tr.buf)-responderKeep:]
	}
}

// answerNext replies to the earliest pending probe and drops everything up to it.
func (tr *terminalResponder) answerNext() bool {
	first, end := -1, 0
	var reply []byte
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.buf, q.query)
		if idx >= 0 && (first < 0 || idx < first) {
			first, end, reply = idx, idx+len(q.query), q.reply
		}
	}
	if first < 0 {
		return false
	}
	tr.buf = tr.buf[end:]
	_, _ = tr.w.Write(reply)
	return true
}
