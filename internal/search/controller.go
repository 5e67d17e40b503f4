// Package search turns raw keystrokes into debounced, stale-proof
// queries against the posts aggregator.
package search

import (
	"context"
	"sync"
	"time"

	"taskdeck/internal/fetch"
	"taskdeck/internal/posts"
)

// DefaultInterval is the debounce quiet period.
const DefaultInterval = 500 * time.Millisecond

// Backend is the view source the controller drives. Implemented by
// posts.Aggregator.
type Backend interface {
	FetchPage(ctx context.Context, req posts.PageRequest) (posts.PageResult[posts.EnrichedPost], error)
	Search(ctx context.Context, req posts.SearchRequest) (posts.PageResult[posts.EnrichedPost], error)
}

// Update is delivered to the consumer when a committed view resolves.
// Query is empty for the unfiltered view.
type Update struct {
	Query  string
	Page   int
	Result posts.PageResult[posts.EnrichedPost]
	Err    error
}

// Controller owns the raw → debounced → committed query pipeline.
//
// Every keystroke updates the raw value immediately (for UI echo) and
// restarts the debounce timer; only an uninterrupted quiet period
// commits the raw value. Each committed view carries a generation
// number, and a resolution whose generation is no longer current is
// discarded, so a slow earlier search can never overwrite a newer one.
//
// The apply callback runs with the controller lock held and must not
// call back into the controller.
type Controller struct {
	mu       sync.Mutex
	ctx      context.Context
	backend  Backend
	apply    func(Update)
	interval time.Duration
	pageSize int

	raw       string
	committed string
	page      int
	gen       uint64
	timer     *time.Timer
	exec      *fetch.Executor[viewRequest, posts.PageResult[posts.EnrichedPost]]
}

// viewRequest names one committed view: the unfiltered page when Query
// is empty, a search page otherwise.
type viewRequest struct {
	Query string
	Page  int
	Size  int
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithInterval overrides the debounce quiet period.
func WithInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.interval = d }
}

// WithPageSize overrides the page size used for both views.
func WithPageSize(n int) ControllerOption {
	return func(c *Controller) { c.pageSize = n }
}

// NewController creates a Controller. ctx bounds every backend call the
// controller launches; apply receives each non-stale resolution.
func NewController(ctx context.Context, backend Backend, apply func(Update), opts ...ControllerOption) *Controller {
	c := &Controller{
		ctx:      ctx,
		backend:  backend,
		apply:    apply,
		interval: DefaultInterval,
		pageSize: posts.DefaultPageSize,
		page:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.exec = fetch.New(func(ctx context.Context, req viewRequest) (posts.PageResult[posts.EnrichedPost], error) {
		if req.Query == "" {
			return backend.FetchPage(ctx, posts.PageRequest{Page: req.Page, Size: req.Size})
		}
		return backend.Search(ctx, posts.SearchRequest{Query: req.Query, Page: req.Page, Size: req.Size})
	})
	return c
}

// Status reports the lifecycle of the most recent backend call.
func (c *Controller) Status() fetch.Snapshot[posts.PageResult[posts.EnrichedPost]] {
	return c.exec.Snapshot()
}

// Raw returns the current raw (per-keystroke) query.
func (c *Controller) Raw() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// Query returns the current committed query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed
}

// Page returns the current committed page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// SetQuery records a keystroke: raw updates immediately and the
// debounce timer restarts. Only the most recent timer can commit.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = q
	c.armTimerLocked(q)
}

// armTimerLocked restarts the debounce timer for q. Stop cannot cancel
// a timer that already expired and is parked on the lock, so the
// callback re-checks that its query is still the raw value; a
// superseded timer commits nothing.
func (c *Controller) armTimerLocked(q string) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.interval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if q != c.raw {
			return
		}
		c.commitLocked(q, 1)
	})
}

// Submit bypasses the debounce and commits the current raw value
// immediately.
func (c *Controller) Submit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.commitLocked(c.raw, 1)
}

// Clear drops the query and returns to page 1 of the unfiltered view.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = ""
	c.stopTimerLocked()
	c.commitLocked("", 1)
}

// SetPage moves the current view to the given page.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.run(c.committed, page)
}

// Refresh re-runs the current view, even if nothing changed.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run(c.committed, c.page)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// commitLocked promotes q to the committed query. An unchanged
// query+page commits nothing, so a debounce expiry and a manual submit
// of the same value trigger exactly one search between them.
func (c *Controller) commitLocked(q string, page int) {
	if q == c.committed && page == c.page {
		return
	}
	c.run(q, page)
}

// run launches the fetch for a committed view. The generation taken
// here decides, at resolution time, whether the response is still the
// freshest one; stale responses are discarded unseen.
func (c *Controller) run(q string, page int) {
	c.committed = q
	c.page = page
	c.gen++
	gen := c.gen

	go func() {
		result, err := c.exec.Invoke(c.ctx, viewRequest{Query: q, Page: page, Size: c.pageSize})

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			return // superseded while in flight
		}
		if c.apply != nil {
			c.apply(Update{Query: q, Page: page, Result: result, Err: err})
		}
	}()
}
