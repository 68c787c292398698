package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/csheth/hindsight-explore/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client             session.Client
	Logger             *zap.Logger
	RefreshInterval    time.Duration
	DisableAutoRefresh bool
	PollInterval       time.Duration
	RequestTimeout     time.Duration
	// Now replaces time.Now for the refresh clock.
	Now func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	poll := config.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 10)

	h := help.New()
	h.ShowAll = true

	m := &model{
		config: config,
		ctrl: session.New(config.Client, session.Options{
			RefreshInterval:    config.RefreshInterval,
			DisableAutoRefresh: config.DisableAutoRefresh,
			Now:                config.Now,
			Logger:             logger,
		}),
		jobs:     newJobBus(config.RequestTimeout, logger.Named("jobs")),
		keys:     newKeyMap(),
		help:     h,
		spinner:  spin,
		viewport: vp,
		layout:   newPageLayout(),
		poll:     poll,
		log:      logger.Named("tui"),
	}
	m.resize()
	return m
}

type model struct {
	config Config
	ctrl   *session.Controller
	jobs   *jobBus
	keys   keyMap

	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout

	poll    time.Duration
	lastJob *jobSnapshot
	log     *zap.Logger
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.launch(m.ctrl.Start()), tickCmd(m.poll))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Input queued before this tick has already been dispatched.
		cmd := m.launch(m.ctrl.Tick(time.Time(msg)))
		m.syncKeys()
		return m, tea.Batch(cmd, tickCmd(m.poll))
	case spinner.TickMsg:
		if !m.ctrl.Data().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case jobSignalMsg:
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		return m, nil
	case fetchResultMsg:
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		next := m.ctrl.Complete(msg.Result)
		if f := msg.Result.Fetch; f != nil && f.Op == session.OpReflect {
			m.syncResponse()
			m.viewport.GotoTop()
		}
		m.syncKeys()
		return m, m.launch(next)
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		if m.ctrl.Mode() == session.ModeQueryEntry {
			cmd = m.handleQueryKey(msg)
		} else {
			cmd = m.handleNormalKey(msg)
		}
		m.syncKeys()
		return m, cmd
	}
	return m, nil
}

// resize fits the shortcut bar and the reflect viewport to the layout.
func (m *model) resize() {
	_, m.help.Width = controlBarWidths(m.layout.contentWidth)
	m.viewport.Width = m.layout.contentWidth
	m.viewport.Height = m.layout.responseRows
	m.syncResponse()
}

// syncResponse wraps the stored reflect answer into the viewport.
func (m *model) syncResponse() {
	m.viewport.SetContent(wordwrap.String(m.ctrl.Data().ReflectText, m.layout.contentWidth))
}

func (m *model) syncKeys() {
	m.keys.update(m.ctrl.View(), m.ctrl.Mode())
}

func (m *model) handleQueryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Execute):
		f, err := m.ctrl.ExecuteQuery()
		if err != nil {
			m.log.Debug("query rejected", zap.Error(err))
			return nil
		}
		return m.launch(f)
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelQuery()
	case msg.Type == tea.KeyBackspace:
		m.ctrl.BackspaceQuery()
	case msg.Type == tea.KeySpace:
		m.ctrl.TypeQuery(" ")
	case msg.Type == tea.KeyRunes:
		m.ctrl.TypeQuery(string(msg.Runes))
	}
	return nil
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	c := m.ctrl
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		c.ToggleHelp()
	case key.Matches(msg, m.keys.Down):
		if c.View().Kind() == session.KindReflect {
			m.viewport.LineDown(1)
			return nil
		}
		c.Next()
	case key.Matches(msg, m.keys.Up):
		if c.View().Kind() == session.KindReflect {
			m.viewport.LineUp(1)
			return nil
		}
		c.Previous()
	case key.Matches(msg, m.keys.Select):
		return m.launch(c.EnterView())
	case key.Matches(msg, m.keys.Back):
		return m.launch(c.GoBack())
	case key.Matches(msg, m.keys.Memories):
		return m.launch(c.SwitchView(session.KindMemories))
	case key.Matches(msg, m.keys.Entities):
		return m.launch(c.SwitchView(session.KindEntities))
	case key.Matches(msg, m.keys.Documents):
		return m.launch(c.SwitchView(session.KindDocuments))
	case key.Matches(msg, m.keys.Recall):
		return m.launch(c.SwitchView(session.KindRecall))
	case key.Matches(msg, m.keys.Reflect):
		return m.launch(c.SwitchView(session.KindReflect))
	case key.Matches(msg, m.keys.Info):
		return m.launch(c.ShowBankInfo())
	case key.Matches(msg, m.keys.Refresh):
		return m.launch(c.Refresh())
	case key.Matches(msg, m.keys.Auto):
		c.ToggleAutoRefresh()
	case key.Matches(msg, m.keys.Query):
		c.BeginQuery()
	}
	return nil
}
