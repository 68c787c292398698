package tuitest

import (
	"bytes"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[Hfirst  \r\nline\x1b[2J\x1b[H\x1b[1msecond\x1b[0m\n\n")
	frames := parseFrames(raw, 20, 5)
	if len(frames) != 2 {
		t.Fatalf("frames %d, want 2", len(frames))
	}
	if frames[0].Plain != "first\nline" {
		t.Fatalf("first frame %q", frames[0].Plain)
	}
	if frames[1].Plain != "second" {
		t.Fatalf("second frame %q", frames[1].Plain)
	}

	rec := &Recording{Raw: raw, Frames: frames}
	if f, ok := rec.LastFrameContaining("line"); !ok || f.Index != 0 {
		t.Fatalf("LastFrameContaining = (%v,%v)", f, ok)
	}
	if final, ok := rec.FinalFrame(); !ok || final.Plain != "second" {
		t.Fatalf("final frame %q", final.Plain)
	}
	if got := rec.Plain(); !bytes.Contains([]byte(got), []byte("first")) {
		t.Fatalf("plain %q", got)
	}
}

func TestParseFramesReplaysRepaints(t *testing.T) {
	raw := []byte("one\r\ntwo\x1b[1A\rONE\x1b[K\r\n")
	frames := parseFrames(raw, 20, 5)
	if len(frames) != 2 {
		t.Fatalf("frames %d, want 2", len(frames))
	}
	if frames[0].Plain != "one\ntwo" {
		t.Fatalf("first frame %q", frames[0].Plain)
	}
	if frames[1].Plain != "ONE\ntwo" {
		t.Fatalf("second frame %q", frames[1].Plain)
	}
}

func TestScreenEditing(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		width  int
		height int
		want   string
	}{
		{name: "erase to end of line", raw: "hello\r\x1b[3C\x1b[K", width: 10, height: 2, want: "hel"},
		{name: "scrolls at bottom", raw: "a\r\nb\r\nc", width: 10, height: 2, want: "b\nc"},
		{name: "wide runes", raw: "日本x", width: 10, height: 1, want: "日本x"},
		{name: "clips at width", raw: "abcdef", width: 4, height: 1, want: "abcd"},
		{name: "private modes ignored", raw: "\x1b[?25lhi\x1b[?25h", width: 10, height: 1, want: "hi"},
		{name: "absolute position", raw: "\x1b[2;3Hx", width: 5, height: 3, want: "\n  x"},
	}
	for _, tc := range cases {
		frames := parseFrames([]byte(tc.raw), tc.width, tc.height)
		if len(frames) == 0 {
			t.Fatalf("%s: no frames", tc.name)
		}
		if got := frames[len(frames)-1].Plain; got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestResponderAnswersProbesInOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("abc\x1b]11;?\x07def\x1b["))
	tr.Process([]byte("6n"))
	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("replies %q, want %q", out.String(), want)
	}
}
