package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/hindsight-explore/internal/session"
)

func (m *model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.controlBarView(),
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func contextLabel(view session.View) string {
	if id, ok := view.BankID(); ok {
		return fmt.Sprintf("Context: %s [%s]", view.Title(), id)
	}
	return "Context: Banks List"
}

func headerTitle(view session.View) string {
	title := fmt.Sprintf("%s - %s", appTitle, view.Title())
	if id, ok := view.BankID(); ok {
		title += fmt.Sprintf(" [%s]", id)
	}
	return title
}

// controlBarWidths splits the control bar 30/70 between the context and
// shortcut boxes, excluding their borders.
func controlBarWidths(contentWidth int) (contextWidth, shortcutWidth int) {
	total := contentWidth + 2
	contextWidth = total*30/100 - 2
	shortcutWidth = total - contextWidth - 4
	return contextWidth, shortcutWidth
}

func (m *model) controlBarView() string {
	contextWidth, shortcutWidth := controlBarWidths(m.layout.contentWidth)
	left := contextBoxStyle.Width(contextWidth).Height(shortcutRows).
		Render(truncate.String(contextLabel(m.ctrl.View()), uint(contextWidth)))
	right := shortcutBoxStyle.Width(shortcutWidth).Height(shortcutRows).Render(m.help.View(m.keys))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *model) headerView() string {
	return headerStyle.Width(m.layout.contentWidth).Render(headerTitle(m.ctrl.View()))
}

func (m *model) bodyView() string {
	if m.ctrl.HelpVisible() {
		return m.helpView()
	}
	data := m.ctrl.Data()
	switch m.ctrl.View().Kind() {
	case session.KindBanks:
		return m.banksView(data)
	case session.KindMemories:
		return m.memoriesView(data)
	case session.KindEntities:
		return m.entitiesView(data)
	case session.KindDocuments:
		return m.documentsView(data)
	case session.KindRecall:
		return m.recallView(data)
	case session.KindReflect:
		return m.reflectView(data)
	default:
		return ""
	}
}

func (m *model) banksView(data *session.Store) string {
	rows := make([]string, len(data.Banks))
	for i, bank := range data.Banks {
		rows[i] = fmt.Sprintf("%s - %s", bank.ID, bank.DisplayName())
	}
	info := data.BankInfo
	selected, hasSelection := data.SelectedBank()
	if info == nil || !hasSelection || info.Profile.BankID != selected.ID {
		return m.listPanel("Banks", "", rows, data.Cursor(session.KindBanks), m.layout.contentWidth, m.layout.listRows, "No banks found.")
	}
	listWidth := m.layout.contentWidth - infoPanelWidth - 2
	list := m.listPanel("Banks", "", rows, data.Cursor(session.KindBanks), listWidth, m.layout.listRows, "")
	return lipgloss.JoinHorizontal(lipgloss.Top, list, m.bankInfoView(info))
}

func (m *model) bankInfoView(info *session.BankInfo) string {
	width := infoPanelWidth - 2
	p, s := info.Profile, info.Stats
	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = "Unnamed"
	}
	lines := []string{
		sectionHeaderStyle.Render("Bank " + p.BankID),
		name,
	}
	if bg := strings.TrimSpace(p.Background); bg != "" {
		lines = append(lines, helperStyle.Render(wordwrap.String(bg, width)))
	}
	lines = append(lines, "",
		traitLine("Openness", p.Disposition.Openness),
		traitLine("Conscientiousness", p.Disposition.Conscientiousness),
		traitLine("Extraversion", p.Disposition.Extraversion),
		traitLine("Agreeableness", p.Disposition.Agreeableness),
		traitLine("Neuroticism", p.Disposition.Neuroticism),
		traitLine("Bias strength", p.Disposition.BiasStrength),
		"",
		fmt.Sprintf("Memory units %d  Links %d  Documents %d", s.TotalMemoryUnits, s.TotalLinks, s.TotalDocuments),
	)
	if counts := formatCounts(s.NodesByFactType); counts != "" {
		lines = append(lines, helperStyle.Render(wordwrap.String("By type: "+counts, width)))
	}
	if counts := formatCounts(s.LinksByLinkType); counts != "" {
		lines = append(lines, helperStyle.Render(wordwrap.String("Links: "+counts, width)))
	}
	lines = append(lines, fmt.Sprintf("Pending ops %d  Failed ops %d", s.PendingOperations, s.FailedOperations))
	return panelStyle.Width(width).Height(m.layout.listRows + 1).Render(strings.Join(lines, "\n"))
}

func traitLine(label string, value float64) string {
	return traitLabelStyle.Render(label) + fmt.Sprintf("%.2f", value)
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

func memoryColumns(kind, created, text string) string {
	return runewidth.FillRight(kind, memoryTypeWidth) + " " + runewidth.FillRight(created, memoryCreatedWidth) + " " + text
}

func (m *model) memoriesView(data *session.Store) string {
	rows := make([]string, len(data.Memories))
	for i, mem := range data.Memories {
		kind := mem.Type
		if kind == "" {
			kind = "unknown"
		}
		rows[i] = memoryColumns(kind, mem.Created(), previewText(mem.Text, memoryPreviewLimit))
	}
	header := memoryColumns("TYPE", "CREATED", "TEXT")
	return m.listPanel("Memories", header, rows, data.Cursor(session.KindMemories), m.layout.contentWidth, m.layout.listRows-1, "No memories in this bank.")
}

func (m *model) entitiesView(data *session.Store) string {
	rows := make([]string, len(data.Entities))
	for i, entity := range data.Entities {
		rows[i] = fmt.Sprintf("%s (mentioned %d times)", entity.CanonicalName, entity.MentionCount)
	}
	return m.listPanel("Entities", "", rows, data.Cursor(session.KindEntities), m.layout.contentWidth, m.layout.listRows, "No entities in this bank.")
}

func (m *model) documentsView(data *session.Store) string {
	rows := make([]string, len(data.Documents))
	for i, doc := range data.Documents {
		rows[i] = fmt.Sprintf("%s (%s)", orUnknown(doc.ID), orUnknown(doc.ContentType))
	}
	return m.listPanel("Documents", "", rows, data.Cursor(session.KindDocuments), m.layout.contentWidth, m.layout.listRows, "No documents in this bank.")
}

func (m *model) recallView(data *session.Store) string {
	rows := make([]string, len(data.RecallResults))
	for i, result := range data.RecallResults {
		rows[i] = fmt.Sprintf("[%s] %s", result.TypeLabel(), previewText(result.Text, recallPreviewLimit))
	}
	title := fmt.Sprintf("Results (%d)", len(data.RecallResults))
	results := m.listPanel(title, "", rows, data.Cursor(session.KindRecall), m.layout.contentWidth, m.layout.resultRows, "")
	return lipgloss.JoinVertical(lipgloss.Left, m.queryBoxView(), results)
}

func (m *model) reflectView(data *session.Store) string {
	title := "Response"
	if data.ReflectBasedOn > 0 {
		title = fmt.Sprintf("Response (based on %d facts)", data.ReflectBasedOn)
	}
	body := sectionHeaderStyle.Render(title) + "\n" + m.viewport.View()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.queryBoxView(),
		panelStyle.Width(m.layout.contentWidth).Render(body),
	)
}

func (m *model) queryBoxView() string {
	style := panelStyle
	text := m.ctrl.Query()
	if m.ctrl.Mode() == session.ModeQueryEntry {
		style = activePanelStyle
		text = queryActiveStyle.Render(text + "▏")
	}
	body := helperStyle.Render("Query (press / to edit)") + "\n" + text
	return style.Width(m.layout.contentWidth).Render(body)
}

// listPanel renders a titled list with the selected row highlighted and the
// visible window kept around it.
func (m *model) listPanel(title, header string, rows []string, cursor session.Cursor, width, visible int, empty string) string {
	lines := []string{sectionHeaderStyle.Render(title)}
	if header != "" {
		lines = append(lines, columnHeaderStyle.Render(truncate.String("   "+header, uint(width))))
	}
	if len(rows) == 0 && empty != "" {
		lines = append(lines, helperStyle.Render(empty))
	}
	selected, hasSelection := cursor.Current()
	start, end := visibleWindow(len(rows), selected, visible)
	for i := start; i < end; i++ {
		line := truncate.String(rows[i], uint(width-3))
		if hasSelection && i == selected {
			lines = append(lines, currentLineStyle.Render(">> "+line))
			continue
		}
		lines = append(lines, "   "+line)
	}
	height := visible + 1
	if header != "" {
		height++
	}
	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *model) footerView() string {
	data := m.ctrl.Data()
	var status string
	switch {
	case data.Error != "":
		status = errorLabelStyle.Render(" Error: ") + data.Error
	case data.Loading:
		status = " " + m.spinner.View() + loadingStyle.Render(" Loading...")
	case data.Status != "":
		status = " " + statusStyle.Render(data.Status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, truncate.String(status, uint(m.layout.contentWidth+2)), m.sessionMeterView())
}

func (m *model) sessionMeterView() string {
	auto := "Auto-refresh off"
	if m.ctrl.AutoRefresh() {
		auto = fmt.Sprintf("Auto-refresh %s", m.ctrl.Scheduler().Interval())
	}
	stats := []string{
		fmt.Sprintf("Mode %s", m.ctrl.Mode()),
		auto,
		fmt.Sprintf("Depth %d", len(m.ctrl.History())),
	}
	if job := m.lastJob; job != nil {
		switch job.Status {
		case jobStatusRunning:
			stats = append(stats, fmt.Sprintf("%s running", job.Kind))
		case jobStatusFailed:
			stats = append(stats, fmt.Sprintf("%s failed", job.Kind))
		default:
			stats = append(stats, fmt.Sprintf("%s %s", job.Kind, job.Duration.Round(time.Millisecond)))
		}
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

var helpSections = []struct {
	title string
	lines []string
}{
	{"Navigation", []string{
		"↑/↓, j/k    - Navigate up/down in lists",
		"Enter       - Select item / drill down",
		"Esc         - Go back to previous view",
	}},
	{"Views (from Bank selection)", []string{
		"m           - View memories for selected bank",
		"e           - View entities for selected bank",
		"d           - View documents for selected bank",
		"r           - Recall (search) in selected bank",
		"t           - Reflect (think) with selected bank",
		"i           - Show profile and stats of selected bank",
	}},
	{"Actions", []string{
		"/           - Enter query (in Recall/Reflect views)",
		"Enter       - Execute query (when in query mode)",
		"R           - Refresh current view",
		"a           - Toggle auto-refresh",
	}},
	{"General", []string{
		"?           - Toggle this help screen",
		"q           - Quit",
	}},
}

func (m *model) helpView() string {
	lines := []string{sectionHeaderStyle.Render(appTitle + " - Keyboard Shortcuts"), ""}
	for _, section := range helpSections {
		lines = append(lines, loadingStyle.Render(section.title))
		for _, line := range section.lines {
			lines = append(lines, "  "+line)
		}
		lines = append(lines, "")
	}
	lines = append(lines, helperStyle.Render("Press ? to close help"))
	return panelStyle.Width(m.layout.contentWidth).Render(strings.Join(lines, "\n"))
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "unknown"
	}
	return value
}

// previewText flattens value onto one line and keeps at most limit runes.
func previewText(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
