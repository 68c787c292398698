package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/hindsight-explore/internal/session"
)

type jobStatus string

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        string
	View        session.View
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

// jobBus runs session fetches as commands, each under its own timeout.
type jobBus struct {
	counter int64
	timeout time.Duration
	log     *zap.Logger
}

func newJobBus(timeout time.Duration, logger *zap.Logger) *jobBus {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &jobBus{timeout: timeout, log: logger}
}

func (b *jobBus) nextID(kind string) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start announces the job and then runs it.
func (b *jobBus) Start(f *session.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	id := b.nextID(f.Op.String())
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: f.Op.String(), View: f.View, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}
	runCmd := func() tea.Msg {
		return b.run(id, started, f)
	}
	return tea.Sequence(startCmd, runCmd)
}

func (b *jobBus) run(id string, started time.Time, f *session.Fetch) fetchResultMsg {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	res := f.Run(ctx)

	snapshot := jobSnapshot{
		ID:          id,
		Kind:        f.Op.String(),
		View:        f.View,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	if res.Err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = res.Err.Error()
	} else {
		snapshot.Status = jobStatusSucceeded
	}
	snapshot.Duration = snapshot.CompletedAt.Sub(started)
	b.log.Info("job finished",
		zap.String("id", id),
		zap.String("kind", snapshot.Kind),
		zap.Stringer("view", f.View),
		zap.String("status", string(snapshot.Status)),
		zap.Duration("duration", snapshot.Duration),
		zap.Error(res.Err))
	return fetchResultMsg{Snapshot: snapshot, Result: res}
}
