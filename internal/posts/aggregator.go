package posts

import (
	"context"
	"strings"
)

// DefaultPageSize is the page size used when callers pass a
// non-positive one.
const DefaultPageSize = 10

// Aggregator combines remote collections into paginated composite
// views. It holds no persistent state; every result is a disposable
// snapshot keyed by the query and page that produced it.
type Aggregator struct {
	client *Client
}

// NewAggregator creates an Aggregator over client.
func NewAggregator(client *Client) *Aggregator {
	return &Aggregator{client: client}
}

// PageRequest identifies one page of the unfiltered view.
type PageRequest struct {
	Page int
	Size int
}

// SearchRequest identifies one page of a filtered view.
type SearchRequest struct {
	Query string
	Page  int
	Size  int
}

// FetchPage returns one page of posts joined with their authors. The
// page slice, the user collection, and the full collection (the remote
// reports no total count, so the size is derived from it) are fetched
// in parallel; any failure fails the whole page.
func (a *Aggregator) FetchPage(ctx context.Context, req PageRequest) (PageResult[EnrichedPost], error) {
	page, size := normalize(req.Page, req.Size)

	var (
		pagePosts []Post
		users     []User
		all       []Post
	)
	errc := make(chan error, 3)
	go func() {
		var err error
		pagePosts, err = a.client.Posts(ctx, page, size)
		errc <- err
	}()
	go func() {
		var err error
		users, err = a.client.Users(ctx)
		errc <- err
	}()
	go func() {
		var err error
		all, err = a.client.AllPosts(ctx)
		errc <- err
	}()
	if err := firstError(errc, 3); err != nil {
		return PageResult[EnrichedPost]{}, err
	}

	total := len(all)
	return PageResult[EnrichedPost]{
		Data:       enrich(pagePosts, users),
		Total:      total,
		Page:       page,
		TotalPages: ceilDiv(total, size),
	}, nil
}

// Search fetches the full unfiltered collection, keeps the posts whose
// title or body contains the query (case-insensitive), and paginates
// the matches locally. An out-of-range page yields empty data with a
// valid TotalPages.
func (a *Aggregator) Search(ctx context.Context, req SearchRequest) (PageResult[EnrichedPost], error) {
	page, size := normalize(req.Page, req.Size)

	var (
		all   []Post
		users []User
	)
	errc := make(chan error, 2)
	go func() {
		var err error
		all, err = a.client.AllPosts(ctx)
		errc <- err
	}()
	go func() {
		var err error
		users, err = a.client.Users(ctx)
		errc <- err
	}()
	if err := firstError(errc, 2); err != nil {
		return PageResult[EnrichedPost]{}, err
	}

	query := strings.ToLower(req.Query)
	var matched []Post
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Body), query) {
			matched = append(matched, p)
		}
	}

	start := (page - 1) * size
	end := start + size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return PageResult[EnrichedPost]{
		Data:       enrich(matched[start:end], users),
		Total:      len(matched),
		Page:       page,
		TotalPages: ceilDiv(len(matched), size),
	}, nil
}

// enrich joins each post to the first user whose id matches its
// userId; unmatched posts keep a nil User.
func enrich(items []Post, users []User) []EnrichedPost {
	out := make([]EnrichedPost, 0, len(items))
	for _, p := range items {
		e := EnrichedPost{Post: p}
		for i := range users {
			if users[i].ID == p.UserID {
				e.User = &users[i]
				break
			}
		}
		out = append(out, e)
	}
	return out
}

// firstError drains n results from errc and returns the first failure.
func firstError(errc <-chan error, n int) error {
	var first error
	for i := 0; i < n; i++ {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

func ceilDiv(total, size int) int {
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
