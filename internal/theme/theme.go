// Package theme persists the dark-mode preference.
package theme

import "taskdeck/internal/storage"

// StorageKey is the storage key holding the theme preference.
const StorageKey = "theme"

// Manager holds the process-wide theme flag. It is constructed once
// with its store and injected into consumers; there is no ambient
// global and no teardown.
type Manager struct {
	store *storage.Store
	dark  bool
}

// NewManager reads the persisted preference, defaulting to light mode.
func NewManager(store *storage.Store) *Manager {
	return &Manager{
		store: store,
		dark:  storage.Read(store, StorageKey, false),
	}
}

// IsDark reports whether dark mode is active.
func (m *Manager) IsDark() bool {
	return m.dark
}

// Toggle flips the preference and persists it best-effort.
func (m *Manager) Toggle() bool {
	m.dark = !m.dark
	storage.Write(m.store, StorageKey, m.dark)
	return m.dark
}

// SetDark sets the preference explicitly and persists it.
func (m *Manager) SetDark(dark bool) {
	if m.dark == dark {
		return
	}
	m.dark = dark
	storage.Write(m.store, StorageKey, m.dark)
}
