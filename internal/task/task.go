// Package task owns the persisted task collection and its invariants.
package task

import (
	"fmt"
	"math"
	"time"
)

// Validation limits for task fields, applied after trimming.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// StorageKey is the storage key holding the full task collection.
const StorageKey = "tasks"

// Task is a single task entity. The collection is persisted newest-first
// as one JSON blob under StorageKey.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CollectionSchema validates the persisted task collection blob. A blob
// that fails validation is treated as corrupt and replaced by the empty
// collection on load.
const CollectionSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "title", "completed", "createdAt", "updatedAt"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"title": {"type": "string", "minLength": 1},
			"description": {"type": "string"},
			"completed": {"type": "boolean"},
			"createdAt": {"type": "string"},
			"updatedAt": {"type": "string"}
		}
	}
}`

// ValidationError reports a rejected task field. The operation aborts
// before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an operation against a task id that is not in
// the collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// Filter names a derived view over the collection.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Matches reports whether t belongs to the filtered view.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Stats summarizes the collection.
type Stats struct {
	Total     int
	Active    int
	Completed int
}

// CompletionPercentage returns completed/total rounded to the nearest
// integer percent, 0 for an empty collection.
func (s Stats) CompletionPercentage() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

// Patch holds optional field updates for a task. Nil fields are left
// untouched; id and createdAt can never be patched.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}
