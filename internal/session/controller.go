package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyQuery is returned when a query is executed with an empty buffer.
var ErrEmptyQuery = errors.New("query cannot be empty")

const (
	initialStatus   = "Press ? for help"
	emptyQueryError = "Query cannot be empty"
)

// Options tune a Controller. The zero value is usable.
type Options struct {
	RefreshInterval    time.Duration
	DisableAutoRefresh bool
	Now                func() time.Time
	Logger             *zap.Logger
}

// Controller is the only mutator of session state. Operations that need data
// return a *Fetch for the caller to run; the caller hands the Result back to
// Complete on the same goroutine that calls every other method. At most one
// Fetch is in flight. A Fetch requested while busy waits in a single pending
// slot, and a newer request replaces it.
type Controller struct {
	client Client
	nav    *Navigation
	input  *Input
	sched  *Scheduler
	store  Store
	help   bool

	nextID   uint64
	inflight *Fetch
	pending  *Fetch

	now func() time.Time
	log *zap.Logger
}

// New builds a controller at the Banks root in normal mode.
func New(client Client, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		client: client,
		nav:    NewNavigation(),
		input:  NewInput(),
		sched:  NewScheduler(opts.RefreshInterval, !opts.DisableAutoRefresh, now()),
		now:    now,
		log:    logger.Named("session"),
	}
	c.store.Status = initialStatus
	return c
}

func (c *Controller) View() View            { return c.nav.Current() }
func (c *Controller) History() []View       { return c.nav.History() }
func (c *Controller) Mode() Mode            { return c.input.Mode() }
func (c *Controller) Data() *Store          { return &c.store }
func (c *Controller) Busy() bool            { return c.inflight != nil }
func (c *Controller) InFlight() *Fetch      { return c.inflight }
func (c *Controller) Pending() *Fetch       { return c.pending }
func (c *Controller) AutoRefresh() bool     { return c.sched.Enabled() }
func (c *Controller) HelpVisible() bool     { return c.help }
func (c *Controller) Scheduler() *Scheduler { return c.sched }

// Query returns the buffer of the current query view, or "" elsewhere.
func (c *Controller) Query() string {
	if !c.View().IsQuery() {
		return ""
	}
	return c.input.Buffer(c.View())
}

// Selected returns the cursor position of the current view's list.
func (c *Controller) Selected() (int, bool) {
	return c.store.Cursor(c.View().Kind()).Current()
}

// Start loads the root view.
func (c *Controller) Start() *Fetch {
	return c.reload()
}

// Next moves the current list's cursor down, wrapping at the end.
func (c *Controller) Next() {
	kind := c.View().Kind()
	if cur := c.store.cursor(kind); cur != nil {
		cur.Next(c.store.Len(kind))
	}
}

// Previous moves the current list's cursor up, wrapping at the start.
func (c *Controller) Previous() {
	kind := c.View().Kind()
	if cur := c.store.cursor(kind); cur != nil {
		cur.Previous(c.store.Len(kind))
	}
}

// EnterView drills from the banks list into the highlighted bank's memories.
func (c *Controller) EnterView() *Fetch {
	if c.View().Kind() != KindBanks {
		return nil
	}
	bank, ok := c.store.SelectedBank()
	if !ok || !c.nav.Enter(bank.ID) {
		return nil
	}
	c.store.BankInfo = nil
	return c.reload()
}

// GoBack returns to the previous view and reloads it.
func (c *Controller) GoBack() *Fetch {
	if !c.nav.GoBack() {
		return nil
	}
	return c.reload()
}

// SwitchView moves to the view of kind for the bank highlighted in the banks
// list. Recall and Reflect fall back to the current view's bank when no bank
// is highlighted.
func (c *Controller) SwitchView(kind Kind) *Fetch {
	if kind == KindBanks {
		return nil
	}
	bankID := ""
	if bank, ok := c.store.SelectedBank(); ok {
		bankID = bank.ID
	} else if kind == KindRecall || kind == KindReflect {
		bankID, _ = c.View().BankID()
	}
	if bankID == "" {
		return nil
	}
	return c.SwitchTo(ViewOf(kind, bankID))
}

// SwitchTo makes view current and reloads it. Switching to the current view
// does nothing.
func (c *Controller) SwitchTo(view View) *Fetch {
	if !c.nav.SwitchTo(view) {
		return nil
	}
	return c.reload()
}

// Refresh reloads the current view. Query views are not reloaded.
func (c *Controller) Refresh() *Fetch {
	return c.reload()
}

// Tick runs the auto-refresh check. It is skipped while a fetch is in flight
// and the refresh clock keeps running until the next tick that can act.
func (c *Controller) Tick(now time.Time) *Fetch {
	if c.Busy() || !c.sched.IsDue(now) {
		return nil
	}
	return c.reload()
}

// ToggleAutoRefresh flips auto-refresh and reports the new state in the footer.
func (c *Controller) ToggleAutoRefresh() bool {
	on := c.sched.Toggle(c.now())
	if on {
		c.store.Status = fmt.Sprintf("Auto-refresh enabled (%s)", c.sched.Interval())
	} else {
		c.store.Status = "Auto-refresh disabled"
	}
	return on
}

func (c *Controller) ToggleHelp() { c.help = !c.help }

// BeginQuery enters query entry on Recall and Reflect.
func (c *Controller) BeginQuery() bool {
	return c.input.Begin(c.View())
}

// CancelQuery leaves query entry. The buffer and any in-flight query are kept.
func (c *Controller) CancelQuery() {
	c.input.Done()
}

func (c *Controller) TypeQuery(text string) {
	c.input.Type(c.View(), text)
}

func (c *Controller) BackspaceQuery() {
	c.input.Backspace(c.View())
}

// ExecuteQuery runs the query typed for the current view.
func (c *Controller) ExecuteQuery() (*Fetch, error) {
	switch c.View().Kind() {
	case KindRecall:
		return c.ExecuteRecall()
	case KindReflect:
		return c.ExecuteReflect()
	default:
		return nil, nil
	}
}

// ExecuteRecall searches the current bank with the recall buffer. The input
// mode returns to normal once results arrive.
func (c *Controller) ExecuteRecall() (*Fetch, error) {
	return c.query(KindRecall, OpRecall)
}

// ExecuteReflect asks the current bank about the reflect buffer.
func (c *Controller) ExecuteReflect() (*Fetch, error) {
	return c.query(KindReflect, OpReflect)
}

func (c *Controller) query(kind Kind, op Op) (*Fetch, error) {
	view := c.View()
	if view.Kind() != kind {
		return nil, nil
	}
	text := c.input.Buffer(view)
	if text == "" {
		c.store.Error = emptyQueryError
		return nil, ErrEmptyQuery
	}
	bankID, _ := view.BankID()
	f := c.newFetch(op, view, bankID, text)
	f.epoch = c.input.Epoch()
	return c.issue(f), nil
}

// ShowBankInfo loads the profile and statistics of the highlighted bank.
func (c *Controller) ShowBankInfo() *Fetch {
	if c.View().Kind() != KindBanks {
		return nil
	}
	bank, ok := c.store.SelectedBank()
	if !ok {
		return nil
	}
	return c.issue(c.newFetch(OpBankInfo, c.View(), bank.ID, ""))
}

// Complete applies the result of the in-flight fetch and returns the pending
// fetch to launch next, if any. Results for a view that is no longer current
// are dropped.
func (c *Controller) Complete(res Result) *Fetch {
	if res.Fetch == nil || c.inflight == nil || res.Fetch.ID != c.inflight.ID {
		c.log.Debug("ignoring unexpected result", zap.Stringer("fetch", res.Fetch))
		return nil
	}
	c.inflight = nil
	c.store.Loading = false

	if res.Fetch.View == c.View() {
		c.apply(res)
	} else {
		c.log.Debug("discarding stale result",
			zap.Stringer("fetch", res.Fetch),
			zap.Stringer("current", c.View()))
	}

	next := c.pending
	c.pending = nil
	if next == nil {
		return nil
	}
	if next.View != c.View() {
		c.log.Debug("dropping pending fetch", zap.Stringer("fetch", next))
		return nil
	}
	return c.launch(next)
}

// Run executes f and every fetch that follows it synchronously. Tests and
// one-shot callers use it in place of an event loop.
func (c *Controller) Run(ctx context.Context, f *Fetch) {
	for f != nil {
		f = c.Complete(f.Run(ctx))
	}
}

func (c *Controller) apply(res Result) {
	view := res.Fetch.View
	if res.Err != nil {
		c.store.Error = res.Err.Error()
		c.log.Warn("fetch failed", zap.Stringer("fetch", res.Fetch), zap.Error(res.Err))
		return
	}
	switch res.Fetch.Op {
	case OpReload:
		c.applyReload(view.Kind(), res)
	case OpRecall:
		c.store.RecallResults = res.Recall.Results
		cur := c.store.cursor(KindRecall)
		if len(c.store.RecallResults) > 0 {
			cur.Select(0)
		} else {
			cur.Clear()
		}
		c.store.Status = fmt.Sprintf("Found %d results", len(c.store.RecallResults))
		c.input.Finish(res.Fetch.epoch)
	case OpReflect:
		c.store.ReflectText = res.Reflect.Text
		c.store.ReflectBasedOn = res.Reflect.BasedOnCount()
		c.store.Status = "Reflection complete"
		c.input.Finish(res.Fetch.epoch)
	case OpBankInfo:
		c.store.BankInfo = res.Info
		c.store.Status = fmt.Sprintf("Loaded info for %s", res.Fetch.BankID)
	}
}

func (c *Controller) applyReload(kind Kind, res Result) {
	var noun string
	switch kind {
	case KindBanks:
		c.store.Banks, noun = res.Banks, "banks"
	case KindMemories:
		c.store.Memories, noun = res.Memories, "memories"
	case KindEntities:
		c.store.Entities, noun = res.Entities, "entities"
	case KindDocuments:
		c.store.Documents, noun = res.Documents, "documents"
	default:
		return
	}
	n := c.store.Len(kind)
	c.store.cursor(kind).Clamp(n)
	c.store.Status = fmt.Sprintf("Loaded %d %s", n, noun)
}

// reload resets the refresh clock and fetches the current view's listing.
func (c *Controller) reload() *Fetch {
	c.sched.Mark(c.now())
	view := c.View()
	if view.IsQuery() {
		c.store.Error = ""
		return nil
	}
	bankID, _ := view.BankID()
	return c.issue(c.newFetch(OpReload, view, bankID, ""))
}

func (c *Controller) newFetch(op Op, view View, bankID, query string) *Fetch {
	c.nextID++
	return &Fetch{ID: c.nextID, Op: op, View: view, BankID: bankID, Query: query, client: c.client}
}

// issue launches f now or parks it in the pending slot while busy.
func (c *Controller) issue(f *Fetch) *Fetch {
	if c.Busy() {
		if c.pending != nil {
			c.log.Debug("replacing pending fetch", zap.Stringer("old", c.pending), zap.Stringer("new", f))
		}
		c.pending = f
		return nil
	}
	return c.launch(f)
}

func (c *Controller) launch(f *Fetch) *Fetch {
	c.inflight = f
	c.store.Loading = true
	c.store.Error = ""
	return f
}
