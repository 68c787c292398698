package session

// Mode is the input mode of the session.
type Mode int

const (
	ModeNormal Mode = iota
	ModeQueryEntry
)

func (m Mode) String() string {
	if m == ModeQueryEntry {
		return "QUERY"
	}
	return "NORMAL"
}

// Input holds the input mode and one query buffer per query view kind.
// Buffers survive mode changes. The epoch counts entries into query entry.
type Input struct {
	mode    Mode
	epoch   uint64
	buffers map[Kind][]rune
}

func NewInput() *Input {
	return &Input{buffers: map[Kind][]rune{}}
}

func (in *Input) Mode() Mode { return in.mode }

// Epoch identifies the current stretch of query entry.
func (in *Input) Epoch() uint64 { return in.epoch }

// Begin enters query entry. Only Recall and Reflect accept queries.
func (in *Input) Begin(view View) bool {
	if !view.IsQuery() {
		return false
	}
	in.mode = ModeQueryEntry
	in.epoch++
	return true
}

// Done returns to normal mode without touching the buffers.
func (in *Input) Done() {
	in.mode = ModeNormal
}

// Finish returns to normal mode only if query entry has not been left and
// re-entered since epoch.
func (in *Input) Finish(epoch uint64) bool {
	if in.mode != ModeQueryEntry || in.epoch != epoch {
		return false
	}
	in.mode = ModeNormal
	return true
}

// Type appends text to the buffer of the view.
func (in *Input) Type(view View, text string) {
	if in.mode != ModeQueryEntry || !view.IsQuery() || text == "" {
		return
	}
	in.buffers[view.Kind()] = append(in.buffers[view.Kind()], []rune(text)...)
}

// Backspace removes the last rune of the buffer of the view.
func (in *Input) Backspace(view View) {
	if in.mode != ModeQueryEntry {
		return
	}
	buf := in.buffers[view.Kind()]
	if len(buf) == 0 {
		return
	}
	in.buffers[view.Kind()] = buf[:len(buf)-1]
}

// Buffer returns the query typed for the view's kind.
func (in *Input) Buffer(view View) string {
	return string(in.buffers[view.Kind()])
}
