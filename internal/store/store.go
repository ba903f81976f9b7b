// Package store holds the ordered, in-memory recipe collection for one
// session. Nothing is persisted; a store lives and dies with its session.
package store

import (
	"errors"
	"sync"

	"github.com/cookpress/backend/internal/model"
)

// ErrIndexOutOfRange is returned for positions outside [0, Count()).
// The failing operation is a no-op; the store is never left corrupted.
var ErrIndexOutOfRange = errors.New("recipe index out of range")

// Store is the ordered collection of accepted recipes. Insertion order is
// display order unless explicitly reordered. All operations serialize on an
// internal mutex so concurrent HTTP handlers see index-stable operations.
type Store struct {
	mu      sync.Mutex
	recipes []model.Recipe
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Add appends a recipe and returns its assigned 0-based position.
// Duplicates are permitted.
func (s *Store) Add(r model.Recipe) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append(s.recipes, r.Clone())
	return len(s.recipes) - 1
}

// Remove deletes the recipe at index, shifting later entries down.
// Positions are not stable across removals; callers re-resolve by current
// index.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.recipes) {
		return ErrIndexOutOfRange
	}
	s.recipes = append(s.recipes[:index], s.recipes[index+1:]...)
	return nil
}

// Reorder moves the recipe at from to position to, shifting the entries in
// between.
func (s *Store) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from < 0 || from >= len(s.recipes) || to < 0 || to >= len(s.recipes) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	moved := s.recipes[from]
	s.recipes = append(s.recipes[:from], s.recipes[from+1:]...)
	rest := append([]model.Recipe{}, s.recipes[to:]...)
	s.recipes = append(append(s.recipes[:to], moved), rest...)
	return nil
}

// All returns a copy of the collection in current order.
func (s *Store) All() []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Count returns the current number of recipes.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}
