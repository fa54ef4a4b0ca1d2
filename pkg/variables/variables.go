// Package variables holds the named output values published as a side effect
// of selection and connection changes.
package variables

import (
	"sort"
	"sync"
)

// Setter publishes named values
type Setter interface {
	SetVariables(values map[string]string)
}

// Store is a flat, concurrency-safe string map
type Store struct {
	mu       sync.RWMutex
	values   map[string]string
	onChange func(name, value string)
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// OnChange registers a callback for every value that actually changes
func (s *Store) OnChange(fn func(name, value string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SetVariables stores every value in values
func (s *Store) SetVariables(values map[string]string) {
	s.mu.Lock()
	type change struct{ name, value string }
	var changed []change
	for k, v := range values {
		if old, ok := s.values[k]; ok && old == v {
			continue
		}
		s.values[k] = v
		changed = append(changed, change{k, v})
	}
	fn := s.onChange
	s.mu.Unlock()

	if fn == nil {
		return
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].name < changed[j].name })
	for _, c := range changed {
		fn(c.name, c.value)
	}
}

// Get returns the value of name
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Snapshot returns a copy of every value
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
