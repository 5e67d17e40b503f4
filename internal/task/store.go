package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskdeck/internal/storage"
)

// Store holds the task collection in memory and writes it back through
// the persistent store on every mutation. The in-memory collection is
// the source of truth for the session; durability is best-effort.
//
// Store is not safe for concurrent use. Callers serialize mutations the
// same way a single event loop would.
type Store struct {
	store *storage.Store
	key   string
	tasks []Task

	now   func() time.Time
	idSeq uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey overrides the storage key for the collection.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore loads the collection from ps and registers the collection
// schema so corrupt blobs fall back to an empty collection.
func NewStore(ps *storage.Store, opts ...Option) (*Store, error) {
	s := &Store{
		store: ps,
		key:   StorageKey,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ps.RequireSchema(s.key, CollectionSchema); err != nil {
		return nil, fmt.Errorf("register task schema: %w", err)
	}
	s.tasks = storage.Read(ps, s.key, []Task{})
	return s, nil
}

// persist writes the whole collection back, synchronously.
func (s *Store) persist() {
	storage.Write(s.store, s.key, s.tasks)
}

// nextID returns a millisecond timestamp with a monotonic counter
// suffix, so sequential creations within one millisecond never collide.
func (s *Store) nextID() string {
	s.idSeq++
	return fmt.Sprintf("%d-%d", s.now().UnixMilli(), s.idSeq)
}

// List returns a copy of the full collection, newest first.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, &NotFoundError{ID: id}
}

// Add validates title and description, then prepends a new incomplete
// task and persists the collection.
func (s *Store) Add(title, description string) (Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := validateTitle(title); err != nil {
		return Task{}, err
	}
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}

	now := s.now()
	t := Task{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append([]Task{t}, s.tasks...)
	s.persist()
	return t, nil
}

// Update merges patch onto the task with the given id and refreshes
// updatedAt. ID and createdAt are immutable.
func (s *Store) Update(id string, patch Patch) (Task, error) {
	idx := s.index(id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	updated := s.tasks[idx]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validateTitle(title); err != nil {
			return Task{}, err
		}
		updated.Title = title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if err := validateDescription(description); err != nil {
			return Task{}, err
		}
		updated.Description = description
	}
	if patch.Completed != nil {
		updated.Completed = *patch.Completed
	}
	updated.UpdatedAt = s.now()

	s.tasks[idx] = updated
	s.persist()
	return updated, nil
}

// ToggleCompletion flips the completed flag and refreshes updatedAt.
func (s *Store) ToggleCompletion(id string) (Task, error) {
	idx := s.index(id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	s.tasks[idx].UpdatedAt = s.now()
	s.persist()
	return s.tasks[idx], nil
}

// Remove deletes the task with the given id. Removing an absent id is a
// no-op and does not rewrite the collection.
func (s *Store) Remove(id string) {
	idx := s.index(id)
	if idx < 0 {
		return
	}
	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	s.persist()
}

// ClearCompleted removes every completed task in one collection replace
// and returns how many were removed.
func (s *Store) ClearCompleted() int {
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0
	}
	s.tasks = kept
	s.persist()
	return removed
}

// Filter returns the tasks matching f without mutating the collection.
func (s *Store) Filter(f Filter) []Task {
	var out []Task
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats computes collection totals.
func (s *Store) Stats() Stats {
	stats := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Active = stats.Total - stats.Completed
	return stats
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func validateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be at most %d characters", MaxTitleLen),
		}
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return &ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("must be at most %d characters", MaxDescriptionLen),
		}
	}
	return nil
}
