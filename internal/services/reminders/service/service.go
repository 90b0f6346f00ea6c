// Package service turns time sensitive actions into stored reminders
package service

import (
	"context"
	"strings"
	"time"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/reminders/domain"

	"github.com/google/uuid"
)

// Config tunes when reminders fire
type Config struct {
	// Hour of the due date a dated reminder fires at
	Hour int
	// Lead is how long after now an undated reminder fires
	Lead time.Duration
}

// Service implements domain.Scheduler
type Service struct {
	store domain.Store
	cfg   Config
	now   func() time.Time
}

var _ domain.Scheduler = (*Service)(nil)

// New returns a Service over store
func New(store domain.Store, cfg Config) *Service {
	if cfg.Hour < 0 || cfg.Hour > 23 {
		cfg.Hour = 9
	}
	if cfg.Lead <= 0 {
		cfg.Lead = time.Hour
	}
	return &Service{store: store, cfg: cfg, now: time.Now}
}

// RemindAt is Hour o'clock on the due date, or now plus Lead without one.
// A dated time already in the past falls back to now plus Lead.
func (s *Service) RemindAt(due time.Time) time.Time {
	now := s.now()
	if due.IsZero() {
		return now.Add(s.cfg.Lead)
	}
	at := time.Date(due.Year(), due.Month(), due.Day(), s.cfg.Hour, 0, 0, 0, due.Location())
	if at.Before(now) {
		return now.Add(s.cfg.Lead)
	}
	return at
}

// Schedule stores a reminder for req
func (s *Service) Schedule(ctx context.Context, req domain.Request) (domain.Reminder, error) {
	desc := strings.TrimSpace(req.Description)
	if desc == "" || req.Tracker == "" {
		return domain.Reminder{}, perr.Validationf("reminder needs a tracker and a description")
	}
	r := domain.Reminder{
		ID:          uuid.NewString(),
		CaptureID:   req.CaptureID,
		Tracker:     req.Tracker,
		Description: desc,
		RemindAt:    s.RemindAt(req.DueDate),
		CreatedAt:   s.now(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return domain.Reminder{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "schedule reminder")
	}
	logger.For(ctx, "reminders").Debug().Str("tracker", r.Tracker).Time("remind_at", r.RemindAt).Msg("reminder scheduled")
	return r, nil
}
