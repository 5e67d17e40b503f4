package theme

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"taskdeck/internal/storage"
)

func TestManagerDefaultsToLight(t *testing.T) {
	store := storage.New(storage.NewMemoryBackend(), log.New(io.Discard))
	m := NewManager(store)
	assert.False(t, m.IsDark())
}

func TestTogglePersistsAcrossSessions(t *testing.T) {
	backend := storage.NewMemoryBackend()
	store := storage.New(backend, log.New(io.Discard))

	m := NewManager(store)
	assert.True(t, m.Toggle())
	assert.False(t, m.Toggle())
	assert.True(t, m.Toggle())

	reloaded := NewManager(storage.New(backend, log.New(io.Discard)))
	assert.True(t, reloaded.IsDark())
}

func TestSetDark(t *testing.T) {
	backend := storage.NewMemoryBackend()
	m := NewManager(storage.New(backend, log.New(io.Discard)))

	m.SetDark(true)
	assert.True(t, m.IsDark())

	// Setting the same value again must not rewrite storage.
	backend.FailWrites = true
	m.SetDark(true)
	assert.True(t, m.IsDark())
}
