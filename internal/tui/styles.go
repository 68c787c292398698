package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#8ecae6")
	mutedColor   = lipgloss.Color("244")
	warningColor = lipgloss.Color("#ffd166")
	okColor      = lipgloss.Color("#a3be8c")
	dangerColor  = lipgloss.Color("9")

	headerStyle        = lipgloss.NewStyle().Bold(true).Foreground(accentColor).Border(lipgloss.NormalBorder()).Align(lipgloss.Center)
	contextBoxStyle    = lipgloss.NewStyle().Bold(true).Foreground(warningColor).Border(lipgloss.RoundedBorder()).BorderForeground(accentColor)
	shortcutBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor)
	panelStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e"))
	activePanelStyle   = panelStyle.Copy().BorderForeground(warningColor)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	columnHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	currentLineStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(accentColor)
	helperStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	queryActiveStyle   = lipgloss.NewStyle().Foreground(warningColor)
	errorLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(dangerColor)
	loadingStyle       = lipgloss.NewStyle().Bold(true).Foreground(warningColor)
	statusStyle        = lipgloss.NewStyle().Foreground(okColor)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(accentColor).Padding(0, 1)
	traitLabelStyle    = lipgloss.NewStyle().Foreground(mutedColor).Width(20)
)
