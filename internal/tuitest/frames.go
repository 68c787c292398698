package tuitest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Frame is the visible screen between two repaints.
type Frame struct {
	Index int
	// ANSI is the raw output that produced this frame since the previous one.
	ANSI  string
	Plain string
}

var (
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

// wideTail marks the cell covered by the right half of a double width rune.
const wideTail rune = -1

// screen is a minimal terminal: enough cursor motion and erasing to replay
// what a line-diff renderer draws.
type screen struct {
	width, height int
	cells         [][]rune
	row, col      int
	dirty         bool
}

func newScreen(width, height int) *screen {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	s := &screen{width: width, height: height, cells: make([][]rune, height)}
	for i := range s.cells {
		s.cells[i] = make([]rune, width)
	}
	return s
}

func (s *screen) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 || s.col+w > s.width {
		return
	}
	s.cells[s.row][s.col] = r
	if w == 2 {
		s.cells[s.row][s.col+1] = wideTail
	}
	s.col += w
	s.dirty = true
}

func (s *screen) newline() {
	if s.row < s.height-1 {
		s.row++
		return
	}
	copy(s.cells, s.cells[1:])
	s.cells[s.height-1] = make([]rune, s.width)
	s.dirty = true
}

func (s *screen) moveTo(row, col int) {
	s.row = clamp(row, 0, s.height-1)
	s.col = clamp(col, 0, s.width-1)
}

func (s *screen) clearCells(row, from, to int) {
	for c := from; c < to; c++ {
		s.cells[row][c] = 0
	}
	s.dirty = true
}

func (s *screen) eraseLine(mode int) {
	switch mode {
	case 1:
		s.clearCells(s.row, 0, s.col+1)
	case 2:
		s.clearCells(s.row, 0, s.width)
	default:
		s.clearCells(s.row, s.col, s.width)
	}
}

func (s *screen) eraseDisplay(mode int) {
	switch mode {
	case 1:
		for r := 0; r < s.row; r++ {
			s.clearCells(r, 0, s.width)
		}
		s.clearCells(s.row, 0, s.col+1)
	case 2, 3:
		for r := range s.cells {
			s.clearCells(r, 0, s.width)
		}
	default:
		s.clearCells(s.row, s.col, s.width)
		for r := s.row + 1; r < s.height; r++ {
			s.clearCells(r, 0, s.width)
		}
	}
}

func (s *screen) String() string {
	lines := make([]string, len(s.cells))
	var b strings.Builder
	for i, row := range s.cells {
		b.Reset()
		for _, r := range row {
			switch r {
			case wideTail:
			case 0:
				b.WriteByte(' ')
			default:
				b.WriteRune(r)
			}
		}
		lines[i] = b.String()
	}
	return normalizeLines(strings.Join(lines, "\n"))
}

// parseFrames replays raw on a width x height screen and snapshots it each
// time the program starts a repaint (cursor up, cursor home or clear).
func parseFrames(raw []byte, width, height int) []Frame {
	scr := newScreen(width, height)
	text := string(raw)
	var frames []Frame
	segStart := 0
	flush := func(at int) {
		if !scr.dirty {
			return
		}
		scr.dirty = false
		plain := scr.String()
		if strings.TrimSpace(plain) == "" {
			return
		}
		if n := len(frames); n > 0 && frames[n-1].Plain == plain {
			return
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: text[segStart:at], Plain: plain})
		segStart = at
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == 0x1b:
			n, final, params := scanEscape(text[i:])
			if final != 0 && !strings.HasPrefix(params, "?") {
				applyCSI(scr, final, params, func() { flush(i) })
			}
			i += n
			continue
		case c == '\r':
			scr.col = 0
		case c == '\n':
			scr.newline()
		case c == '\b':
			if scr.col > 0 {
				scr.col--
			}
		case c == '\t':
			scr.col = clamp((scr.col/8+1)*8, 0, scr.width-1)
		case c < 0x20 || c == 0x7f:
		default:
			r, size := utf8.DecodeRuneInString(text[i:])
			scr.put(r)
			i += size
			continue
		}
		i++
	}
	flush(len(text))
	return frames
}

// scanEscape measures the escape sequence at the start of s. final and params
// are set only for CSI sequences.
func scanEscape(s string) (n int, final byte, params string) {
	if len(s) < 2 {
		return len(s), 0, ""
	}
	switch s[1] {
	case '[':
		for j := 2; j < len(s); j++ {
			if b := s[j]; b >= 0x40 && b <= 0x7e {
				return j + 1, b, s[2:j]
			}
		}
		return len(s), 0, ""
	case ']':
		for j := 2; j < len(s); j++ {
			if s[j] == 0x07 {
				return j + 1, 0, ""
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2, 0, ""
			}
		}
		return len(s), 0, ""
	default:
		return 2, 0, ""
	}
}

func applyCSI(scr *screen, final byte, params string, repaint func()) {
	args := strings.Split(params, ";")
	arg := func(i, def int) int {
		if i >= len(args) || args[i] == "" {
			return def
		}
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return def
		}
		return v
	}
	switch final {
	case 'A':
		repaint()
		scr.moveTo(scr.row-arg(0, 1), scr.col)
	case 'B':
		scr.moveTo(scr.row+arg(0, 1), scr.col)
	case 'C':
		scr.moveTo(scr.row, scr.col+arg(0, 1))
	case 'D':
		scr.moveTo(scr.row, scr.col-arg(0, 1))
	case 'G':
		scr.moveTo(scr.row, arg(0, 1)-1)
	case 'H', 'f':
		repaint()
		scr.moveTo(arg(0, 1)-1, arg(1, 1)-1)
	case 'J':
		repaint()
		scr.eraseDisplay(arg(0, 0))
	case 'K':
		scr.eraseLine(arg(0, 0))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Plain returns the whole recording with escape sequences removed.
func (r *Recording) Plain() string {
	if r == nil {
		return ""
	}
	return stripANSI(strings.ReplaceAll(string(r.Raw), "\r", ""))
}

// LastFrameContaining returns the most recent frame whose text contains s.
func (r *Recording) LastFrameContaining(s string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for i := len(r.Frames) - 1; i >= 0; i-- {
		if strings.Contains(r.Frames[i].Plain, s) {
			return r.Frames[i], true
		}
	}
	return Frame{}, false
}

// FinalFrame returns the last captured frame. The second return value is false
// when no frames were recorded.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x0f", "")
	s = strings.ReplaceAll(s, "\x0e", "")
	return s
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
