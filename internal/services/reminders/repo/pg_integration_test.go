//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	"capturebox/internal/platform/store"
	"capturebox/internal/platform/store/pgtest"
	"capturebox/internal/services/reminders/domain"

	"github.com/google/uuid"
)

func TestPG_Insert(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{AppName: "capturebox-test", PG: store.PGConfig{Enabled: true, URL: pgtest.Start(t), MaxConns: 2}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(ctx) })

	s := NewPG(st.PG)
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	r := domain.Reminder{ID: uuid.NewString(), Tracker: "work", Description: "ship", RemindAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	if err := s.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	n, err := store.Scalar[int64](ctx, st.PG, `SELECT count(*) FROM reminders WHERE tracker = $1 AND capture_id IS NULL`, "work")
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}
