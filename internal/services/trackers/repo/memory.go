package repo

import (
	"context"
	"sort"
	"sync"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/trackers/domain"
)

// Memory is a process local Store with the same version rules as the
// durable stores
type Memory struct {
	mu sync.RWMutex
	m  map[string]domain.Tracker
}

// NewMemory returns a Memory holding ts at version 1
func NewMemory(ts ...domain.Tracker) *Memory {
	s := &Memory{m: make(map[string]domain.Tracker, len(ts))}
	for _, t := range ts {
		t.Version = 1
		s.m[t.ID] = t
	}
	return s
}

// List returns every tracker ordered by id
func (s *Memory) List(context.Context) ([]domain.Tracker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Tracker, 0, len(s.m))
	for _, t := range s.m {
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Read returns one tracker
func (s *Memory) Read(_ context.Context, id string) (domain.Tracker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.m[id]
	if !ok {
		return domain.Tracker{}, perr.NotFoundf("tracker %s", id)
	}
	return clone(t), nil
}

// Write stores t when its version matches
func (s *Memory) Write(_ context.Context, t domain.Tracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[t.ID]
	switch {
	case t.Version == 0 && ok:
		return perr.Conflictf("tracker %s already exists", t.ID)
	case t.Version != 0 && (!ok || cur.Version != t.Version):
		return perr.Conflictf("tracker %s changed since read", t.ID)
	}
	doc, err := Render(t)
	if err != nil {
		return err
	}
	t.Document = doc
	t.Version++
	s.m[t.ID] = clone(t)
	return nil
}

func clone(t domain.Tracker) domain.Tracker {
	t.Keywords = append([]string(nil), t.Keywords...)
	return t
}
