// Package settings holds mutable runtime configuration exposed over
// the API. Values live in process memory only and reset on restart.
package settings

import (
	"maps"
	"sync"
)

// Store is a concurrency-safe key-value settings store.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewStore seeds the store with its defaults.
func NewStore() *Store {
	return &Store{
		values: map[string]any{
			"enabledModels": []any{"gemini-2.0-flash"},
		},
	}
}

// All returns a copy of the current settings.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	maps.Copy(out, s.values)
	return out
}

// Merge overlays updates onto the current settings, replacing values
// key by key, and returns the merged result.
func (s *Store) Merge(updates map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.values, updates)
	out := make(map[string]any, len(s.values))
	maps.Copy(out, s.values)
	return out
}
