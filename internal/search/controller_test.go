package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/fetch"
	"taskdeck/internal/posts"
)

// fakeBackend records calls and lets tests hold individual queries in
// flight to exercise ordering.
type fakeBackend struct {
	mu      sync.Mutex
	fetches []posts.PageRequest
	queries []posts.SearchRequest
	holds   map[string]chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{holds: make(map[string]chan struct{})}
}

// hold makes subsequent searches for query block until release.
func (f *fakeBackend) hold(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.holds[query] = ch
	return ch
}

func (f *fakeBackend) FetchPage(ctx context.Context, req posts.PageRequest) (posts.PageResult[posts.EnrichedPost], error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, req)
	f.mu.Unlock()
	return posts.PageResult[posts.EnrichedPost]{Page: req.Page, Total: 100, TotalPages: 10}, nil
}

func (f *fakeBackend) Search(ctx context.Context, req posts.SearchRequest) (posts.PageResult[posts.EnrichedPost], error) {
	f.mu.Lock()
	f.queries = append(f.queries, req)
	gate := f.holds[req.Query]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return posts.PageResult[posts.EnrichedPost]{
		Data: []posts.EnrichedPost{{Post: posts.Post{Title: req.Query}}},
		Page: req.Page,
	}, nil
}

func (f *fakeBackend) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// collector gathers applied updates.
type collector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *collector) apply(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) all() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Update(nil), c.updates...)
}

func (c *collector) waitFor(t *testing.T, n int) []Update {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := c.all(); len(got) >= n {
			return got
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d updates, have %d", n, len(c.all()))
	return nil
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(30*time.Millisecond), WithPageSize(9))

	c.SetQuery("l")
	c.SetQuery("lo")
	c.SetQuery("lor")
	c.SetQuery("lorem")
	assert.Equal(t, "lorem", c.Raw(), "raw echoes every keystroke")
	assert.Empty(t, c.Query(), "nothing committed before the quiet period")

	got := sink.waitFor(t, 1)
	require.Len(t, got, 1, "rapid keystrokes cause exactly one search")
	assert.Equal(t, "lorem", got[0].Query)
	assert.Equal(t, 1, backend.searchCount())
	assert.Equal(t, "lorem", c.Query())
}

func TestStaleResponseDiscarded(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(5*time.Millisecond))

	gate := backend.hold("ipsum")
	c.SetQuery("ipsum")

	// Wait until the ipsum search is actually in flight.
	deadline := time.Now().Add(time.Second)
	for backend.searchCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 1, backend.searchCount())

	// A newer query commits and resolves while ipsum hangs.
	c.SetQuery("lorem")
	got := sink.waitFor(t, 1)
	require.Equal(t, "lorem", got[0].Query)

	// Let the stale search finish; it must never be applied.
	close(gate)
	time.Sleep(20 * time.Millisecond)
	for _, u := range sink.all() {
		assert.NotEqual(t, "ipsum", u.Query, "stale response reached the consumer")
	}
}

func TestExpiredTimerCannotCommitSupersededQuery(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(10*time.Millisecond))

	c.SetQuery("old")

	// Hold the lock past the expiry so the fired callback parks on it,
	// then land a newer keystroke before releasing. Stop is too late for
	// the parked timer; only the callback's own guard can stop it.
	c.mu.Lock()
	time.Sleep(30 * time.Millisecond)
	c.raw = "new"
	c.armTimerLocked("new")
	c.mu.Unlock()

	got := sink.waitFor(t, 1)
	assert.Equal(t, "new", got[0].Query)
	assert.Equal(t, "new", c.Query())

	for _, u := range sink.all() {
		assert.NotEqual(t, "old", u.Query, "superseded timer committed its query")
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for _, q := range backend.queries {
		assert.NotEqual(t, "old", q.Query, "superseded timer ran a search")
	}
}

func TestSubmitBypassesDebounce(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(time.Hour)) // debounce would never fire on its own

	c.SetQuery("now")
	c.Submit()

	got := sink.waitFor(t, 1)
	assert.Equal(t, "now", got[0].Query)
}

func TestClearReturnsToUnfilteredPageOne(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(5*time.Millisecond), WithPageSize(9))

	c.SetQuery("lorem")
	sink.waitFor(t, 1)
	c.SetPage(3)
	sink.waitFor(t, 2)

	c.Clear()
	got := sink.waitFor(t, 3)
	last := got[len(got)-1]
	assert.Empty(t, last.Query)
	assert.Equal(t, 1, last.Page)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.NotEmpty(t, backend.fetches)
	assert.Equal(t, posts.PageRequest{Page: 1, Size: 9}, backend.fetches[len(backend.fetches)-1])
}

func TestUnchangedCommitDoesNotResearch(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(5*time.Millisecond))

	c.SetQuery("same")
	sink.waitFor(t, 1)

	// Debounce already committed "same"; a manual submit of the same
	// value must not trigger a second search.
	c.Submit()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, backend.searchCount())
}

func TestStatusTracksRequestLifecycle(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply,
		WithInterval(time.Hour))

	assert.Equal(t, fetch.StateIdle, c.Status().State)

	gate := backend.hold("slow")
	c.SetQuery("slow")
	c.Submit()

	deadline := time.Now().Add(time.Second)
	for c.Status().State != fetch.StatePending && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, fetch.StatePending, c.Status().State)

	close(gate)
	sink.waitFor(t, 1)
	deadline = time.Now().Add(time.Second)
	for c.Status().State != fetch.StateFulfilled && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, fetch.StateFulfilled, c.Status().State)
}

func TestSetPageReRunsCurrentView(t *testing.T) {
	backend := newFakeBackend()
	sink := &collector{}
	c := NewController(context.Background(), backend, sink.apply)

	c.Refresh() // unfiltered page 1
	sink.waitFor(t, 1)
	c.SetPage(4)
	got := sink.waitFor(t, 2)
	assert.Equal(t, 4, got[1].Page)
	assert.Empty(t, got[1].Query)
	assert.Equal(t, 4, c.Page())
}
