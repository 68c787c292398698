package tui

// pageLayout sizes the regions of the screen from the window dimensions.
type pageLayout struct {
	windowWidth  int
	windowHeight int
	contentWidth int
	bodyHeight   int
	listRows     int
	resultRows   int
	responseRows int
}

const (
	controlBarHeight = shortcutRows + 2
	headerHeight     = 3
	footerHeight     = 2
	boxChrome        = 3
	queryBoxHeight   = 4
)

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(100, 32)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height

	l.contentWidth = width - 2
	if l.contentWidth < minContentWidth {
		l.contentWidth = minContentWidth
	}

	l.bodyHeight = height - controlBarHeight - headerHeight - footerHeight
	if l.bodyHeight < 8 {
		l.bodyHeight = 8
	}
	l.listRows = l.bodyHeight - boxChrome
	l.resultRows = l.listRows - queryBoxHeight
	if l.resultRows < 1 {
		l.resultRows = 1
	}
	l.responseRows = l.resultRows
}

// visibleWindow returns the [start, end) slice of n rows to draw so that
// selected stays on screen within rows lines.
func visibleWindow(n, selected, rows int) (int, int) {
	if rows <= 0 || n <= 0 {
		return 0, 0
	}
	if n <= rows {
		return 0, n
	}
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	end := start + rows
	if end > n {
		end = n
		start = end - rows
	}
	return start, end
}
