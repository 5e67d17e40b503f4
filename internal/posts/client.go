package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the public JSONPlaceholder instance.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Client is a thin REST client for the remote resource. It imposes no
// timeout of its own; the caller controls deadlines through the
// injected http.Client or request context.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger overrides the logger used for failed requests.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the API at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one JSON request. body and out may be nil. Any non-2xx
// response or transport failure becomes a FetchError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "endpoint", endpoint, "err", err)
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("request rejected", "endpoint", endpoint, "status", resp.StatusCode)
		return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// Posts returns one page of posts using the remote's pagination
// parameters.
func (c *Client) Posts(ctx context.Context, page, limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("/posts?_page=%d&_limit=%d", page, limit)
	var out []Post
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllPosts returns the full unfiltered post collection.
func (c *Client) AllPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post returns a single post by id.
func (c *Client) Post(ctx context.Context, id int) (Post, error) {
	var out Post
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &out)
	return out, err
}

// PostsByUser returns every post authored by the given user.
func (c *Client) PostsByUser(ctx context.Context, userID int) ([]Post, error) {
	endpoint := "/posts?userId=" + url.QueryEscape(fmt.Sprint(userID))
	var out []Post
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost creates a post and returns the remote's echo of it.
func (c *Client) CreatePost(ctx context.Context, p Post) (Post, error) {
	var out Post
	err := c.do(ctx, http.MethodPost, "/posts", p, &out)
	return out, err
}

// UpdatePost replaces a post by id.
func (c *Client) UpdatePost(ctx context.Context, id int, p Post) (Post, error) {
	var out Post
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), p, &out)
	return out, err
}

// DeletePost deletes a post by id.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// Users returns the full user collection.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User returns a single user by id.
func (c *Client) User(ctx context.Context, id int) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &out)
	return out, err
}

// CommentsByPost returns the comments attached to a post.
func (c *Client) CommentsByPost(ctx context.Context, postID int) ([]Comment, error) {
	endpoint := fmt.Sprintf("/comments?postId=%d", postID)
	var out []Comment
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
