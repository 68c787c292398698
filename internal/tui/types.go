package tui

import (
	"time"

	"github.com/csheth/hindsight-explore/internal/session"
)

const appTitle = "Hindsight Explorer"

const (
	defaultPollInterval   = 100 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
)

const (
	minContentWidth    = 40
	memoryTypeWidth    = 12
	memoryCreatedWidth = 20
	memoryPreviewLimit = 60
	recallPreviewLimit = 100
	infoPanelWidth     = 44
	shortcutRows       = 3
)

// tickMsg is the bounded poll of the event loop.
type tickMsg time.Time

// fetchResultMsg carries a finished fetch back to the loop goroutine.
type fetchResultMsg struct {
	Snapshot jobSnapshot
	Result   session.Result
}
