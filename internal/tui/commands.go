package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/hindsight-explore/internal/session"
)

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// launch turns a fetch handed out by the controller into a command. The
// spinner is restarted alongside it so the footer animates while loading.
func (m *model) launch(f *session.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return tea.Batch(m.jobs.Start(f), m.spinner.Tick)
}

// shortcutColumns splits bindings into columns of at most rows entries.
func shortcutColumns[T any](items []T, rows int) [][]T {
	if rows <= 0 {
		rows = 1
	}
	var cols [][]T
	for i := 0; i < len(items); i += rows {
		end := i + rows
		if end > len(items) {
			end = len(items)
		}
		cols = append(cols, items[i:end])
	}
	return cols
}
