// Package service records capture history best-effort
package service

import (
	"context"
	"time"

	"capturebox/internal/platform/logger"
	"capturebox/internal/services/history/domain"
)

// Service bounds each write and logs failures
type Service struct {
	rec     domain.Recorder
	timeout time.Duration
}

var _ domain.Recorder = (*Service)(nil)

// New wraps rec
func New(rec domain.Recorder, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Service{rec: rec, timeout: timeout}
}

// Record writes e within the timeout. The error is logged and returned so
// callers can count it, never act on it.
func (s *Service) Record(ctx context.Context, e domain.Event) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.rec.Record(ctx, e); err != nil {
		logger.For(ctx, "history").Warn().Err(err).Str("capture_id", e.CaptureID).Msg("history write failed")
		return err
	}
	return nil
}
