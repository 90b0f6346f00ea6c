// Package service implements the review queue: flagging, listing and the
// accept, edit, move and reject decisions
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"capturebox/internal/core/document"
	"capturebox/internal/core/entry"
	"capturebox/internal/core/normalize"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/review/domain"
	"capturebox/internal/services/review/repo"
	trackers "capturebox/internal/services/trackers/domain"

	"github.com/google/uuid"
)

// Service owns the review queue
type Service struct {
	store  domain.Store
	commit trackers.CommitPort
	now    func() time.Time
	newID  func() string

	// mu serializes read-modify-write on the store
	mu sync.Mutex
}

var _ domain.QueuePort = (*Service)(nil)

// New returns a Service committing accepted items through commit
func New(store domain.Store, commit trackers.CommitPort) *Service {
	if store == nil || commit == nil {
		panic("review.Service requires a store and a commit port")
	}
	s := &Service{store: store, commit: commit, now: time.Now}
	s.newID = func() string {
		return fmt.Sprintf("review_%d_%s", s.now().UnixMilli(), uuid.NewString()[:8])
	}
	return s
}

// FlagItemForReview queues content. Confidence at or above
// domain.FlagThreshold is flagged, anything lower pending.
func (s *Service) FlagItemForReview(ctx context.Context, req domain.FlagRequest) (domain.Item, error) {
	content := normalize.Line(req.Content)
	if content == "" {
		return domain.Item{}, perr.Validationf("review content is empty")
	}
	it := domain.Item{
		ID:             s.newID(),
		Content:        content,
		Confidence:     min(max(req.Confidence, 0), 1),
		CurrentTracker: strings.TrimSpace(req.Tracker),
		CurrentSection: strings.TrimSpace(req.Section),
		Timestamp:      s.now(),
		Source:         req.Source,
		Status:         domain.Pending,
	}
	if it.Confidence >= domain.FlagThreshold {
		it.Status = domain.Flagged
	}
	if it.Source == "" {
		it.Source = domain.SourceCapture
	}
	if req.Metadata != nil {
		it.Metadata = *req.Metadata
	}
	if it.Metadata.Type == "" || !it.Metadata.Type.Valid() {
		it.Metadata.Type = entry.Review
	}
	if it.Metadata.Urgency == "" || !it.Metadata.Urgency.Valid() {
		it.Metadata.Urgency = entry.Medium
	}
	if it.CurrentSection == "" {
		it.CurrentSection = string(document.SectionFor(it.Metadata.Type))
	}
	if len(it.Metadata.EditableFields) == 0 {
		it.Metadata.EditableFields = []string{"priority", "tags", "type", "tracker"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Upsert(ctx, it); err != nil {
		return domain.Item{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "queue review item")
	}
	logger.For(ctx, "review").Info().Str("review_id", it.ID).Str("status", string(it.Status)).
		Str("tracker", it.CurrentTracker).Msg("item queued for review")
	return it, nil
}

// GetItemsNeedingReview lists pending and flagged items oldest first,
// restricted to tracker when it is not empty
func (s *Service) GetItemsNeedingReview(ctx context.Context, tracker string) ([]domain.Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	tracker = strings.TrimSpace(tracker)
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if !it.Status.Open() {
			continue
		}
		if tracker != "" && !strings.EqualFold(it.CurrentTracker, tracker) {
			continue
		}
		out = append(out, it)
	}
	repo.SortOldestFirst(out)
	return out, nil
}

// ProcessReviewAction applies one decision. Unknown ids are NotFound and
// unknown actions InvalidArgument; a failed accept commit is Unavailable
// and keeps the item queued.
func (s *Service) ProcessReviewAction(ctx context.Context, id string, action domain.Action, v domain.Values) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	log := logger.For(ctx, "review").With().Str("review_id", id).Str("action", string(action)).Logger()

	switch action {
	case domain.Accept:
		if !s.commitItem(ctx, it) {
			return it, perr.Unavailablef("review item %s could not be committed to %s", id, it.CurrentTracker)
		}
		if err := s.store.Remove(ctx, id); err != nil {
			return it, err
		}
		log.Info().Str("tracker", it.CurrentTracker).Msg("review item accepted")
		return it, nil

	case domain.Reject:
		if err := s.store.Remove(ctx, id); err != nil {
			return it, err
		}
		log.Info().Msg("review item rejected")
		return it, nil

	case domain.EditPriority:
		it.Metadata.Urgency = entry.Medium
		if p, ok := entry.ParsePriority(v.Priority); ok {
			it.Metadata.Urgency = p
		}

	case domain.EditTags:
		tags := make([]string, 0, len(v.Tags))
		for _, t := range v.Tags {
			if t = entry.NormalizeTag(t); t != "" {
				tags = append(tags, t)
			}
		}
		it.Metadata.Tags = tags

	case domain.EditType:
		it.Metadata.Type = entry.Review
		if t, ok := entry.ParseItemType(v.Type); ok {
			it.Metadata.Type = t
		}
		it.CurrentSection = string(document.SectionFor(it.Metadata.Type))

	case domain.Move:
		if tr := strings.TrimSpace(v.Tracker); tr != "" {
			it.CurrentTracker = tr
		}
		if sec, ok := document.ParseSection(v.Section); ok {
			it.CurrentSection = string(sec)
		}

	default:
		return domain.Item{}, perr.InvalidArgf("unknown review action %q", action)
	}

	if err := s.store.Upsert(ctx, it); err != nil {
		return domain.Item{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "update review item")
	}
	log.Debug().Msg("review item updated")
	return it, nil
}

// commitItem formats the item content for its type and writes it
func (s *Service) commitItem(ctx context.Context, it domain.Item) bool {
	tag := it.CurrentTracker
	if len(it.Metadata.Tags) > 0 {
		tag = it.Metadata.Tags[0]
	}
	text := entry.Format(it.Metadata.Type, it.Content, entry.Options{
		Tag:        tag,
		Priority:   it.Metadata.Urgency,
		Date:       it.Timestamp,
		Confidence: it.Confidence,
	})
	if it.Metadata.Type == entry.Activity {
		return s.commit.AddActivity(ctx, it.CurrentTracker, text, it.Timestamp)
	}
	section := it.CurrentSection
	if _, ok := document.ParseSection(section); !ok {
		section = string(document.SectionFor(it.Metadata.Type))
	}
	return s.commit.AddEntry(ctx, it.CurrentTracker, section, text, time.Time{})
}

// BatchProcessReview applies actions in order; one failure never stops the rest
func (s *Service) BatchProcessReview(ctx context.Context, actions []domain.ActionRequest) []domain.ActionResult {
	out := make([]domain.ActionResult, 0, len(actions))
	for _, a := range actions {
		r := domain.ActionResult{ID: a.ID, Action: a.Action, Success: true}
		if _, err := s.ProcessReviewAction(ctx, a.ID, a.Action, a.Values); err != nil {
			r.Success, r.Error = false, err.Error()
		}
		out = append(out, r)
	}
	return out
}

// ClearConfirmedItems removes confirmed items and returns how many went
func (s *Service) ClearConfirmedItems(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if it.Status != domain.Confirmed {
			continue
		}
		if err := s.store.Remove(ctx, it.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// UpdateReviewStatus moves id to status. Unknown ids, unknown statuses and
// backwards moves report false.
func (s *Service) UpdateReviewStatus(ctx context.Context, id string, status domain.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.store.Get(ctx, id)
	if err != nil || !it.Status.Advances(status) {
		return false
	}
	it.Status = status
	if err := s.store.Upsert(ctx, it); err != nil {
		logger.For(ctx, "review").Warn().Err(err).Str("review_id", id).Msg("status update failed")
		return false
	}
	return true
}

// PendingCount is the number of open items
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	items, err := s.GetItemsNeedingReview(ctx, "")
	return len(items), err
}
