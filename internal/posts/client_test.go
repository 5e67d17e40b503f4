package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote emulates a JSONPlaceholder-style API over a fixed dataset.
func fakeRemote(t *testing.T, posts []Post, users []User, comments []Comment) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}

	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			result := posts
			if v := r.URL.Query().Get("userId"); v != "" {
				userID, _ := strconv.Atoi(v)
				var filtered []Post
				for _, p := range posts {
					if p.UserID == userID {
						filtered = append(filtered, p)
					}
				}
				result = filtered
			}
			if v := r.URL.Query().Get("_page"); v != "" {
				page, _ := strconv.Atoi(v)
				limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
				start := (page - 1) * limit
				end := start + limit
				if start > len(result) {
					start = len(result)
				}
				if end > len(result) {
					end = len(result)
				}
				result = result[start:end]
			}
			if result == nil {
				result = []Post{}
			}
			writeJSON(w, result)
		case http.MethodPost:
			var p Post
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			p.ID = len(posts) + 1
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, p)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/posts/"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodGet:
			for _, p := range posts {
				if p.ID == id {
					writeJSON(w, p)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			var p Post
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			p.ID = id
			writeJSON(w, p)
		case http.MethodDelete:
			writeJSON(w, struct{}{})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, users)
	})

	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		postID, _ := strconv.Atoi(r.URL.Query().Get("postId"))
		filtered := []Comment{}
		for _, c := range comments {
			if c.PostID == postID {
				filtered = append(filtered, c)
			}
		}
		writeJSON(w, filtered)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func seedPosts(n int) []Post {
	out := make([]Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Post{
			ID:     i,
			UserID: (i-1)%3 + 1,
			Title:  fmt.Sprintf("post number %d", i),
			Body:   fmt.Sprintf("body of post %d", i),
		})
	}
	return out
}

var seedUsers = []User{
	{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
	{ID: 2, Name: "Grace Hopper", Email: "grace@example.com"},
	{ID: 3, Name: "Alan Turing", Email: "alan@example.com"},
}

func TestClientPostsPagination(t *testing.T) {
	srv := fakeRemote(t, seedPosts(25), seedUsers, nil)
	c := NewClient(srv.URL)

	page, err := c.Posts(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, 11, page[0].ID)

	last, err := c.Posts(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, last, 5)
}

func TestClientPostsByUser(t *testing.T) {
	srv := fakeRemote(t, seedPosts(9), seedUsers, nil)
	c := NewClient(srv.URL)

	got, err := c.PostsByUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, 2, p.UserID)
	}
}

func TestClientSinglePostAndUser(t *testing.T) {
	srv := fakeRemote(t, seedPosts(3), seedUsers, nil)
	c := NewClient(srv.URL)

	p, err := c.Post(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "post number 2", p.Title)

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestClientComments(t *testing.T) {
	comments := []Comment{
		{ID: 1, PostID: 1, Name: "first", Body: "nice"},
		{ID: 2, PostID: 1, Name: "second", Body: "agreed"},
		{ID: 3, PostID: 2, Name: "other", Body: "meh"},
	}
	srv := fakeRemote(t, seedPosts(2), seedUsers, comments)
	c := NewClient(srv.URL)

	got, err := c.CommentsByPost(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestClientWriteOperations(t *testing.T) {
	srv := fakeRemote(t, seedPosts(2), seedUsers, nil)
	c := NewClient(srv.URL)

	created, err := c.CreatePost(context.Background(), Post{UserID: 1, Title: "draft", Body: "text"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := c.UpdatePost(context.Background(), 1, Post{UserID: 1, Title: "edited", Body: "text"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "edited", updated.Title)

	assert.NoError(t, c.DeletePost(context.Background(), 1))
}

func TestClientNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL)

	_, err := c.AllPosts(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, http.StatusInternalServerError, ferr.StatusCode)
	assert.Equal(t, "/posts", ferr.Endpoint)
}

func TestClientTransportFailureIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL)

	_, err := c.Users(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Zero(t, ferr.StatusCode)
}
