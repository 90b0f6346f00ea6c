// Package repo stores review queue items in memory or Postgres
package repo

import (
	"context"
	"sort"
	"sync"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/review/domain"
)

// Memory is a mutex guarded process local Store
type Memory struct {
	mu sync.RWMutex
	m  map[string]domain.Item
}

// NewMemory returns an empty Memory
func NewMemory() *Memory { return &Memory{m: map[string]domain.Item{}} }

// List returns items oldest first
func (s *Memory) List(context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Item, 0, len(s.m))
	for _, it := range s.m {
		out = append(out, it.Clone())
	}
	SortOldestFirst(out)
	return out, nil
}

// Get returns one item
func (s *Memory) Get(_ context.Context, id string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.m[id]
	if !ok {
		return domain.Item{}, perr.NotFoundf("review item %s", id)
	}
	return it.Clone(), nil
}

// Upsert stores it by id
func (s *Memory) Upsert(_ context.Context, it domain.Item) error {
	if it.ID == "" {
		return perr.InvalidArgf("review item without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[it.ID] = it.Clone()
	return nil
}

// Remove deletes id; unknown ids are a NotFound error
func (s *Memory) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return perr.NotFoundf("review item %s", id)
	}
	delete(s.m, id)
	return nil
}

// SortOldestFirst orders by timestamp, then id
func SortOldestFirst(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.Before(items[j].Timestamp)
		}
		return items[i].ID < items[j].ID
	})
}
