package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/csheth/hindsight-explore/internal/session"
)

// keyMap holds every binding of the explorer. Bindings are enabled for the
// current view and input mode, which also decides what the shortcut bar shows.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	Memories  key.Binding
	Entities  key.Binding
	Documents key.Binding
	Recall    key.Binding
	Reflect   key.Binding
	Info      key.Binding
	Refresh   key.Binding
	Auto      key.Binding
	Query     key.Binding
	Help      key.Binding
	Quit      key.Binding

	Execute key.Binding
	Cancel  key.Binding

	kind session.Kind
	mode session.Mode
}

func newKeyMap() keyMap {
	k := keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "Up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "Down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Select")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
		Memories:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Mem")),
		Entities:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Ent")),
		Documents: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Docs")),
		Recall:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Recall")),
		Reflect:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Reflect")),
		Info:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Info")),
		Refresh:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "Refresh")),
		Auto:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Auto")),
		Query:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Query")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
		Execute:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Search")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Cancel")),
	}
	k.update(session.Banks(), session.ModeNormal)
	return k
}

func (k *keyMap) normal() []*key.Binding {
	return []*key.Binding{
		&k.Up, &k.Down, &k.Select, &k.Back, &k.Memories, &k.Entities, &k.Documents,
		&k.Recall, &k.Reflect, &k.Info, &k.Refresh, &k.Auto, &k.Query, &k.Help, &k.Quit,
	}
}

// update enables the bindings that apply to view in mode.
func (k *keyMap) update(view session.View, mode session.Mode) {
	k.kind = view.Kind()
	k.mode = mode

	normal := mode == session.ModeNormal
	for _, b := range k.normal() {
		b.SetEnabled(normal)
	}
	k.Execute.SetEnabled(!normal)
	k.Cancel.SetEnabled(!normal)
	if !normal {
		desc := "Search"
		if k.kind == session.KindReflect {
			desc = "Reflect"
		}
		k.Execute.SetHelp("Enter", desc)
		return
	}

	onBanks := k.kind == session.KindBanks
	k.Select.SetEnabled(onBanks)
	k.Info.SetEnabled(onBanks)
	k.Back.SetEnabled(!onBanks)
	k.Query.SetEnabled(view.IsQuery())
}

// ShortHelp lists the shortcuts shown in the bar for the current context.
func (k keyMap) ShortHelp() []key.Binding {
	if k.mode == session.ModeQueryEntry {
		return []key.Binding{k.Execute, k.Cancel}
	}
	tail := []key.Binding{k.Refresh, k.Auto, k.Help, k.Quit}
	switch k.kind {
	case session.KindBanks:
		return append([]key.Binding{k.Select, k.Memories, k.Entities, k.Documents, k.Info}, tail...)
	case session.KindMemories:
		return append([]key.Binding{k.Back, k.Recall, k.Reflect}, tail...)
	case session.KindEntities, session.KindDocuments:
		return append([]key.Binding{k.Back}, tail...)
	case session.KindRecall, session.KindReflect:
		return append([]key.Binding{k.Query, k.Back}, tail...)
	default:
		return []key.Binding{k.Help, k.Quit}
	}
}

// FullHelp lays the short help out in columns, shortcutRows per column.
func (k keyMap) FullHelp() [][]key.Binding {
	return shortcutColumns(k.ShortHelp(), shortcutRows)
}
