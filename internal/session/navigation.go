package session

// Navigation tracks the current view and the views that led to it.
// The history never contains the current view.
type Navigation struct {
	current View
	history []View
}

// NewNavigation starts at the Banks root with an empty history.
func NewNavigation() *Navigation {
	return &Navigation{current: Banks()}
}

func (n *Navigation) Current() View { return n.current }

// Depth is the number of views Back can return through.
func (n *Navigation) Depth() int { return len(n.history) }

// History returns a copy of the stack, oldest first.
func (n *Navigation) History() []View {
	return append([]View(nil), n.history...)
}

// SwitchTo makes view current. It reports false when view already is current.
// Switching to a view that is already on the stack unwinds the stack to it.
func (n *Navigation) SwitchTo(view View) bool {
	if view == n.current {
		return false
	}
	for i, prior := range n.history {
		if prior == view {
			n.history = n.history[:i]
			n.current = view
			return true
		}
	}
	n.history = append(n.history, n.current)
	n.current = view
	return true
}

// Enter drills from the Banks root into the memories of bankID.
func (n *Navigation) Enter(bankID string) bool {
	if n.current.Kind() != KindBanks || bankID == "" {
		return false
	}
	return n.SwitchTo(Memories(bankID))
}

// GoBack restores the previous view. It reports false at the root.
func (n *Navigation) GoBack() bool {
	if len(n.history) == 0 {
		return false
	}
	last := len(n.history) - 1
	n.current = n.history[last]
	n.history = n.history[:last]
	return true
}
