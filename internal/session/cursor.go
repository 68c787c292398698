package session

// Cursor is an optional index into a list whose length is supplied on every
// call. While set, the index satisfies 0 <= index < n for the last n seen.
type Cursor struct {
	index int
	set   bool
}

// Current returns the selected index; ok is false when nothing is selected.
func (c Cursor) Current() (int, bool) {
	return c.index, c.set
}

// Select sets the index. A negative index clears the selection.
func (c *Cursor) Select(i int) {
	if i < 0 {
		c.Clear()
		return
	}
	c.index = i
	c.set = true
}

// Clear drops the selection.
func (c *Cursor) Clear() {
	c.index = 0
	c.set = false
}

// Next advances by one, wrapping from the last element to the first.
func (c *Cursor) Next(n int) {
	if n <= 0 {
		c.Clear()
		return
	}
	if !c.set {
		c.Select(0)
		return
	}
	c.Select((c.bounded(n) + 1) % n)
}

// Previous retreats by one, wrapping from the first element to the last.
func (c *Cursor) Previous(n int) {
	if n <= 0 {
		c.Clear()
		return
	}
	if !c.set {
		c.Select(0)
		return
	}
	i := c.bounded(n)
	if i == 0 {
		c.Select(n - 1)
		return
	}
	c.Select(i - 1)
}

// Clamp fits the selection to a freshly loaded list of length n: empty lists
// clear it, an unset cursor defaults to 0 and an index past the end moves to
// the last element.
func (c *Cursor) Clamp(n int) {
	switch {
	case n <= 0:
		c.Clear()
	case !c.set:
		c.Select(0)
	case c.index >= n:
		c.Select(n - 1)
	}
}

func (c Cursor) bounded(n int) int {
	if c.index >= n {
		return n - 1
	}
	return c.index
}
