// Package history keeps the finished workouts of the running process.
package history

import (
	"errors"
	"sync"

	"github.com/claude/repcounter/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("workout record not found")

// Store is an append-only, in-memory list of workout records in the order
// they were stopped. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []models.WorkoutRecord
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a finished workout.
func (s *Store) Append(rec models.WorkoutRecord) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

// List returns a copy of every record, oldest first.
func (s *Store) List() []models.WorkoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WorkoutRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Recent returns up to n of the latest records, oldest first. n <= 0 returns
// everything.
func (s *Store) Recent(n int) []models.WorkoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if n > 0 && n < len(s.records) {
		start = len(s.records) - n
	}
	out := make([]models.WorkoutRecord, len(s.records)-start)
	copy(out, s.records[start:])
	return out
}

// Get looks up a record by ID.
func (s *Store) Get(id uuid.UUID) (models.WorkoutRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.WorkoutRecord{}, ErrNotFound
}

// Clear drops every record and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	s.records = nil
	return n
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
