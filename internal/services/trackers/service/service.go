// Package service owns the loaded tracker registry and the boolean commit
// operations that route entries into tracker documents
package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"capturebox/internal/core/document"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/trackers/domain"
)

const (
	maxKeywords = 5
	maxRecent   = 3

	// a conflicting write is re-read and re-applied once
	writeAttempts = 2
)

var errNoMatch = errors.New("no matching open task")

// Service implements domain.CommitPort and domain.RegistryPort
type Service struct {
	store domain.Store
	locks keyedMutex

	mu    sync.RWMutex
	cache map[string]domain.Tracker
}

var (
	_ domain.CommitPort   = (*Service)(nil)
	_ domain.RegistryPort = (*Service)(nil)
)

// New returns a Service over store with an empty registry; call Refresh
func New(store domain.Store) *Service {
	if store == nil {
		panic("trackers.Service requires a store")
	}
	return &Service{store: store, cache: map[string]domain.Tracker{}}
}

// Seed creates every tracker in ts that the store does not hold yet and
// reports how many were created
func (s *Service) Seed(ctx context.Context, ts []domain.Tracker) (int, error) {
	created := 0
	for _, t := range ts {
		_, err := s.store.Read(ctx, t.ID)
		switch {
		case err == nil:
			continue
		case !perr.IsCode(err, perr.ErrorCodeNotFound):
			return created, err
		}
		t.Version = 0
		if err := s.store.Write(ctx, t); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// Refresh reloads the registry from the store
func (s *Service) Refresh(ctx context.Context) error {
	ts, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	next := make(map[string]domain.Tracker, len(ts))
	for _, t := range ts {
		next[t.ID] = t
	}
	s.mu.Lock()
	s.cache = next
	s.mu.Unlock()
	logger.For(ctx, "trackers").Debug().Int("trackers", len(next)).Msg("registry refreshed")
	return nil
}

// Get returns a loaded tracker
func (s *Service) Get(id string) (domain.Tracker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.cache[id]
	return t, ok
}

// List returns the loaded trackers ordered by id
func (s *Service) List() []domain.Tracker {
	s.mu.RLock()
	out := make([]domain.Tracker, 0, len(s.cache))
	for _, t := range s.cache {
		out = append(out, t)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Context describes every tracker for the classifier: up to five keywords
// and the three most recent list entries each
func (s *Service) Context() map[string]domain.ContextEntry {
	out := map[string]domain.ContextEntry{}
	for _, t := range s.List() {
		kw := t.Keywords
		if len(kw) > maxKeywords {
			kw = kw[:maxKeywords]
		}
		out[t.ID] = domain.ContextEntry{
			DisplayName:    t.Name(),
			ContextType:    t.ContextType,
			SampleKeywords: append([]string(nil), kw...),
			RecentEntries:  recent(t.Document, maxRecent),
		}
	}
	return out
}

func recent(doc string, n int) []string {
	d := document.Parse(doc)
	var all []string
	for _, sec := range document.Order {
		all = append(all, d.Entries(sec)...)
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// Counts returns how many trackers exist per context type
func (s *Service) Counts() map[string]int {
	out := map[string]int{}
	for _, t := range s.List() {
		ct := t.ContextType
		if ct == "" {
			ct = "unknown"
		}
		out[ct]++
	}
	return out
}

// Summaries lists trackers with their per section entry counts
func (s *Service) Summaries() []domain.Summary {
	ts := s.List()
	out := make([]domain.Summary, 0, len(ts))
	for _, t := range ts {
		d := document.Parse(t.Document)
		secs := map[string]int{}
		for _, sec := range d.Sections() {
			secs[string(sec)] = len(d.Entries(sec))
		}
		out = append(out, domain.Summary{
			ID: t.ID, FriendlyName: t.Name(), ContextType: t.ContextType,
			Keywords: t.Keywords, Sections: secs,
		})
	}
	return out
}

// Document reads the current text of one tracker from the store
func (s *Service) Document(ctx context.Context, id string) (domain.Tracker, error) {
	if _, ok := s.Get(id); !ok {
		return domain.Tracker{}, perr.NotFoundf("tracker %s", id)
	}
	return s.store.Read(ctx, id)
}

// AddEntry inserts entry into the named section
func (s *Service) AddEntry(ctx context.Context, trackerID, section, entry string, sortKey time.Time) bool {
	sec, ok := document.ParseSection(section)
	if !ok {
		logger.For(ctx, "trackers").Warn().Str("tracker", trackerID).Str("section", section).Msg("unknown section")
		return false
	}
	return s.mutate(ctx, trackerID, func(d *document.Document) error {
		return d.Insert(document.Insert{Section: sec, Entry: entry, SortKey: sortKey})
	})
}

// AddActivity inserts entry into Activity Log, stamped with at when it
// carries no timestamp of its own
func (s *Service) AddActivity(ctx context.Context, trackerID, entry string, at time.Time) bool {
	return s.mutate(ctx, trackerID, func(d *document.Document) error {
		return d.Insert(document.Insert{Section: document.ActivityLog, Entry: entry, SortKey: at})
	})
}

// AddToReview always targets Review Queue
func (s *Service) AddToReview(ctx context.Context, trackerID, entry string) bool {
	return s.mutate(ctx, trackerID, func(d *document.Document) error {
		return d.Insert(document.Insert{Section: document.ReviewQueue, Entry: entry})
	})
}

// AppendRaw appends line verbatim to section
func (s *Service) AppendRaw(ctx context.Context, trackerID, section, line string) bool {
	sec, ok := document.ParseSection(section)
	if !ok {
		return false
	}
	return s.mutate(ctx, trackerID, func(d *document.Document) error {
		return d.AppendRaw(sec, line)
	})
}

// MarkComplete checks off the open action matching description
func (s *Service) MarkComplete(ctx context.Context, trackerID, description string, at time.Time) bool {
	return s.mutate(ctx, trackerID, func(d *document.Document) error {
		if _, ok := d.Complete(description, at); !ok {
			return errNoMatch
		}
		return nil
	})
}

// mutate runs one locked read-modify-write of a tracker document
func (s *Service) mutate(ctx context.Context, id string, fn func(*document.Document) error) bool {
	ctx = logger.WithTracker(ctx, id)
	log := logger.For(ctx, "trackers")
	if _, ok := s.Get(id); !ok {
		log.Warn().Msg("unknown tracker")
		return false
	}

	unlock := s.locks.lock(id)
	defer unlock()

	var (
		t   domain.Tracker
		err error
	)
	for attempt := 0; attempt < writeAttempts; attempt++ {
		if t, err = s.store.Read(ctx, id); err != nil {
			log.Warn().Err(err).Msg("read failed")
			return false
		}
		d := document.Parse(t.Document)
		if err := fn(d); err != nil {
			if errors.Is(err, errNoMatch) {
				log.Debug().Msg("no open task matched")
			} else {
				log.Warn().Err(err).Msg("edit rejected")
			}
			return false
		}
		t.Document = d.String()
		if err = s.store.Write(ctx, t); !perr.IsCode(err, perr.ErrorCodeConflict) {
			break
		}
		log.Debug().Int("attempt", attempt+1).Msg("document changed underneath, re-reading")
	}
	if err != nil {
		log.Warn().Err(err).Msg("write failed")
		return false
	}

	s.mu.Lock()
	if cur, ok := s.cache[id]; ok {
		cur.Document = t.Document
		s.cache[id] = cur
	}
	s.mu.Unlock()
	return true
}
