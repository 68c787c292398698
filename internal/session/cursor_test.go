package session

import "testing"

func TestCursorNextCyclesBackToStart(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for start := 0; start < n; start++ {
			var c Cursor
			c.Select(start)
			for i := 0; i < n; i++ {
				c.Next(n)
			}
			if got, ok := c.Current(); !ok || got != start {
				t.Fatalf("n=%d start=%d: after %d nexts got (%d,%v)", n, start, n, got, ok)
			}
		}
	}
}

func TestCursorPreviousThenNextIsIdentity(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for start := 0; start < n; start++ {
			var c Cursor
			c.Select(start)
			c.Previous(n)
			c.Next(n)
			if got, _ := c.Current(); got != start {
				t.Fatalf("n=%d start=%d: previous+next landed on %d", n, start, got)
			}
		}
	}
}

func TestCursorWrapsAtEdges(t *testing.T) {
	var c Cursor
	c.Select(2)
	c.Next(3)
	if got, _ := c.Current(); got != 0 {
		t.Fatalf("next from last should wrap to 0, got %d", got)
	}
	c.Previous(3)
	if got, _ := c.Current(); got != 2 {
		t.Fatalf("previous from 0 should wrap to 2, got %d", got)
	}
}

func TestCursorUnsetStartsAtZero(t *testing.T) {
	var c Cursor
	c.Previous(4)
	if got, ok := c.Current(); !ok || got != 0 {
		t.Fatalf("previous on unset cursor got (%d,%v), want (0,true)", got, ok)
	}
	c.Clear()
	c.Next(4)
	if got, ok := c.Current(); !ok || got != 0 {
		t.Fatalf("next on unset cursor got (%d,%v), want (0,true)", got, ok)
	}
}

func TestCursorEmptyListStaysUnset(t *testing.T) {
	var c Cursor
	c.Next(0)
	c.Previous(0)
	if _, ok := c.Current(); ok {
		t.Fatal("cursor over an empty list should stay unset")
	}
	c.Select(3)
	c.Next(0)
	if _, ok := c.Current(); ok {
		t.Fatal("moving over an empty list should clear the selection")
	}
}

func TestCursorClamp(t *testing.T) {
	cases := []struct {
		name    string
		start   int
		set     bool
		n       int
		want    int
		wantSet bool
	}{
		{name: "unset defaults to zero", n: 3, want: 0, wantSet: true},
		{name: "in range kept", start: 1, set: true, n: 3, want: 1, wantSet: true},
		{name: "shrunk list clamps to last", start: 7, set: true, n: 3, want: 2, wantSet: true},
		{name: "empty list clears", start: 1, set: true, n: 0, want: 0, wantSet: false},
	}
	for _, tc := range cases {
		var c Cursor
		if tc.set {
			c.Select(tc.start)
		}
		c.Clamp(tc.n)
		got, ok := c.Current()
		if got != tc.want || ok != tc.wantSet {
			t.Fatalf("%s: got (%d,%v) want (%d,%v)", tc.name, got, ok, tc.want, tc.wantSet)
		}
	}
}

func TestCursorNextFromStaleIndex(t *testing.T) {
	var c Cursor
	c.Select(9)
	c.Next(3)
	if got, _ := c.Current(); got != 0 {
		t.Fatalf("next from an index past the end should wrap to 0, got %d", got)
	}
}
