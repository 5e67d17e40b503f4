// Package storage provides keyed JSON persistence with fault isolation.
//
// Reads fall back to a caller-supplied default when the key is absent,
// the blob is corrupt, or the substrate fails. Writes are best-effort:
// failures are logged and swallowed, never returned, so the in-memory
// value stays the source of truth for the session.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Store wraps a Backend with JSON (de)serialization and optional
// per-key schema validation.
type Store struct {
	backend Backend
	logger  *log.Logger
	schemas map[string]*jsonschema.Schema
}

// New creates a Store over backend. A nil logger falls back to the
// package default logger.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		schemas: make(map[string]*jsonschema.Schema),
	}
}

// RequireSchema registers a JSON Schema for key. Subsequent reads of
// that key treat blobs that fail validation as corrupt and return the
// caller's default instead.
func (s *Store) RequireSchema(key, schemaJSON string) error {
	compiler := jsonschema.NewCompiler()
	name := key + ".schema.json"
	if err := compiler.AddResource(name, strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("add schema for %s: %w", key, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", key, err)
	}
	s.schemas[key] = schema
	return nil
}

// validate checks raw against the schema registered for key, if any.
func (s *Store) validate(key string, raw []byte) error {
	schema, ok := s.schemas[key]
	if ok {
		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		return schema.Validate(doc)
	}
	return nil
}

// Read decodes the value stored under key into T. Absence, substrate
// failure, a corrupt blob, or a schema violation all yield def; only
// the fault cases are logged.
func Read[T any](s *Store, key string, def T) T {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		s.logger.Warn("storage read failed, using default", "key", key, "err", err)
		return def
	}
	if !ok {
		return def
	}
	if err := s.validate(key, raw); err != nil {
		s.logger.Warn("stored value failed validation, using default", "key", key, "err", err)
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("stored value is corrupt, using default", "key", key, "err", err)
		return def
	}
	return v
}

// Write serializes v and stores it under key, replacing the whole prior
// value. Failures are logged and swallowed.
func Write[T any](s *Store, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("storage serialize failed, value not persisted", "key", key, "err", err)
		return
	}
	if err := s.backend.Set(key, raw); err != nil {
		s.logger.Warn("storage write failed, value not persisted", "key", key, "err", err)
	}
}
