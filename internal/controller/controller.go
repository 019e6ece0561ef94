// Package controller owns the search panel state: open/closed, the current
// query and results, keyboard selection and history recording.
package controller

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/history"
	"blogsearch/internal/search"
)

// Searcher is the query capability the controller drives
type Searcher interface {
	Search(ctx context.Context, query string) []domain.SearchResult
	Prewarm(ctx context.Context) error
}

// State is a snapshot of the panel. Version increases with every change so
// observers can drop snapshots that arrive out of order.
type State struct {
	Version       uint64
	Open          bool
	Query         string
	Results       []domain.SearchResult
	SelectedIndex int
	Loading       bool
	History       []string
}

// Selected returns the highlighted result, if any
func (s State) Selected() (domain.SearchResult, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return domain.SearchResult{}, false
	}
	return s.Results[s.SelectedIndex], true
}

// Option configures a Controller
type Option func(*Controller)

// WithDebounce sets the quiet period before a typed query runs
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithBus publishes panel events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(c *Controller) {
		if bus != nil {
			c.bus = bus
		}
	}
}

// WithSelectHandler is called with the document path when Enter confirms a
// result through HandleKey
func WithSelectHandler(fn func(path string)) Option {
	return func(c *Controller) { c.onSelect = fn }
}

// Controller coordinates the engine, the debouncer and the history store
type Controller struct {
	engine    Searcher
	history   *history.Store
	bus       eventbus.EventBus
	delay     time.Duration
	debouncer *search.Debouncer
	onSelect  func(path string)

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	generation  uint64
	loadingGen  uint64
	observers   map[uint64]func(State)
	nextObserve uint64
}

// New creates a closed controller. hist may be nil for a session without
// history.
func New(engine Searcher, hist *history.Store, opts ...Option) *Controller {
	if hist == nil {
		hist = history.New(nil, "", nil)
	}
	c := &Controller{
		engine:    engine,
		history:   hist,
		bus:       eventbus.Null(),
		delay:     search.DefaultDebounce,
		observers: make(map[uint64]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debouncer = search.NewDebouncer(c.delay)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Shutdown cancels pending and in-flight work. The controller is unusable
// afterwards.
func (c *Controller) Shutdown() {
	c.debouncer.Stop()
	c.cancel()
}

// State returns a snapshot of the panel
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if s.Results != nil {
		s.Results = append([]domain.SearchResult(nil), s.Results...)
	}
	s.History = c.history.Items()
	return s
}

// Subscribe registers fn for every state change. Observers run on the
// goroutine that caused the change.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextObserve++
	id := c.nextObserve
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// commitLocked bumps the version and returns what to deliver after unlock
func (c *Controller) commitLocked() (State, []func(State)) {
	c.state.Version++
	snap := c.snapshotLocked()
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	return snap, fns
}

func deliver(s State, fns []func(State)) {
	for _, fn := range fns {
		fn(s)
	}
}

// update applies fn under the lock and notifies observers when it reports a
// change
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return
	}
	snap, fns := c.commitLocked()
	c.mu.Unlock()
	deliver(snap, fns)
}

func (c *Controller) resetLocked() {
	c.generation++
	c.loadingGen = 0
	c.debouncer.Cancel()
	c.state.Query = ""
	c.state.Results = nil
	c.state.SelectedIndex = 0
	c.state.Loading = false
}

// Open shows the panel with an empty query and warms the index in the
// background
func (c *Controller) Open() {
	opened := false
	c.update(func() bool {
		if c.state.Open {
			return false
		}
		c.resetLocked()
		c.state.Open = true
		opened = true
		return true
	})
	if !opened {
		return
	}

	c.bus.Publish(domain.PanelOpenedEvent{})
	go func() {
		if err := c.engine.Prewarm(c.ctx); err != nil {
			log.Printf("Search prewarm on open failed: %v", err)
		}
	}()
}

// Close hides the panel. A non-empty query that produced results is recorded
// to history first.
func (c *Controller) Close() {
	var closed domain.PanelClosedEvent
	done := false
	c.update(func() bool {
		if !c.state.Open {
			return false
		}
		closed.Query = c.state.Query
		if strings.TrimSpace(c.state.Query) != "" && len(c.state.Results) > 0 {
			c.history.Add(c.state.Query)
			closed.Recorded = true
		}
		c.resetLocked()
		c.state.Open = false
		done = true
		return true
	})
	if done {
		c.bus.Publish(closed)
	}
}

// Toggle opens a closed panel and closes an open one
func (c *Controller) Toggle() {
	if c.State().Open {
		c.Close()
	} else {
		c.Open()
	}
}

// SetQuery replaces the query. An empty query clears results at once;
// anything else schedules a debounced search. Ignored while closed.
func (c *Controller) SetQuery(q string) {
	c.update(func() bool {
		if !c.state.Open {
			return false
		}
		c.state.Query = q
		c.generation++
		gen := c.generation

		if strings.TrimSpace(q) == "" {
			c.debouncer.Cancel()
			c.loadingGen = 0
			c.state.Results = nil
			c.state.SelectedIndex = 0
			c.state.Loading = false
			return true
		}

		c.debouncer.Trigger(func() { c.run(gen, q) })
		return true
	})
}

// run executes one debounced search for generation gen
func (c *Controller) run(gen uint64, q string) {
	stale := false
	c.update(func() bool {
		if gen != c.generation || !c.state.Open {
			stale = true
			return false
		}
		c.loadingGen = gen
		c.state.Loading = true
		return true
	})
	if stale {
		return
	}

	var results []domain.SearchResult
	defer func() {
		c.update(func() bool {
			changed := false
			if c.loadingGen == gen {
				c.loadingGen = 0
				c.state.Loading = false
				changed = true
			}
			if gen == c.generation && c.state.Open {
				c.state.Results = results
				c.state.SelectedIndex = 0
				changed = true
			}
			return changed
		})
	}()
	defer func() {
		if r := recover(); r != nil {
			results = nil
			log.Printf("Search for %q panicked: %v", q, r)
		}
	}()

	results = c.engine.Search(c.ctx, q)
}

// NavigateUp moves the selection up, stopping at the first result
func (c *Controller) NavigateUp() {
	c.update(func() bool {
		if c.state.SelectedIndex <= 0 {
			return false
		}
		c.state.SelectedIndex--
		return true
	})
}

// NavigateDown moves the selection down, stopping at the last result
func (c *Controller) NavigateDown() {
	c.update(func() bool {
		if c.state.SelectedIndex >= len(c.state.Results)-1 {
			return false
		}
		c.state.SelectedIndex++
		return true
	})
}

// SelectCurrent returns the path of the highlighted result and records the
// query to history. The panel stays open; callers close it after navigating.
func (c *Controller) SelectCurrent() (string, bool) {
	var ev domain.ResultSelectedEvent
	ok := false
	c.update(func() bool {
		if !c.state.Open {
			return false
		}
		r, found := c.state.Selected()
		if !found {
			return false
		}
		ev = domain.ResultSelectedEvent{Query: c.state.Query, Path: r.Document.Path}
		c.history.Add(c.state.Query)
		ok = true
		return true
	})
	if !ok {
		return "", false
	}
	c.bus.Publish(ev)
	return ev.Path, true
}

// AddToHistory records term
func (c *Controller) AddToHistory(term string) {
	c.update(func() bool {
		c.history.Add(term)
		return true
	})
}

// RemoveFromHistory forgets term
func (c *Controller) RemoveFromHistory(term string) {
	c.update(func() bool {
		c.history.Remove(term)
		return true
	})
}

// ClearHistory forgets every term
func (c *Controller) ClearHistory() {
	c.update(func() bool {
		c.history.Clear()
		return true
	})
}

// UseHistoryItem runs term as the query, opening the panel if needed
func (c *Controller) UseHistoryItem(term string) {
	c.Open()
	c.SetQuery(term)
}
