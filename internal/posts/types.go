// Package posts talks to a JSONPlaceholder-style remote API and builds
// composite, paginated views over it.
package posts

import "fmt"

// Post is a remote, externally owned resource.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// User is a remote, externally owned resource.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
}

// Comment is a remote, externally owned resource.
type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// EnrichedPost joins a post with its author. User is nil when no user
// matches the post's userId. The composite is derived in memory and
// never persisted.
type EnrichedPost struct {
	Post
	User *User `json:"user,omitempty"`
}

// PageResult is one page of a derived view. It is rebuilt from scratch
// on every request, never mutated in place.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// FetchError reports a failed remote call: a non-2xx response or a
// transport-level failure (status 0).
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}
