//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	"capturebox/internal/core/entry"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/store"
	"capturebox/internal/platform/store/pgtest"
	"capturebox/internal/services/review/domain"
)

func TestPG_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{AppName: "capturebox-test", PG: store.PGConfig{Enabled: true, URL: pgtest.Start(t), MaxConns: 4}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(ctx) })

	s := NewPGStore(st.PG)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	it := domain.Item{
		ID: "review_1", Content: "maybe groceries", Confidence: 0.3,
		CurrentTracker: "inbox", CurrentSection: "Review Queue", Timestamp: at,
		Source: domain.SourceCapture, Status: domain.Pending,
		Metadata: domain.Metadata{Type: entry.Action, Urgency: entry.Low, Tags: []string{"home"}},
	}
	if err := s.Upsert(ctx, it); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	it.Status = domain.Flagged
	if err := s.Upsert(ctx, it); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	got, err := s.Get(ctx, "review_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.Flagged || got.Metadata.Type != entry.Action || got.Metadata.Tags[0] != "home" || !got.Timestamp.Equal(at) {
		t.Fatalf("Get = %+v", got)
	}

	items, err := s.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("List = %+v, %v", items, err)
	}
	if err := s.Remove(ctx, "review_1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "review_1"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Remove missing err = %v", err)
	}
}
