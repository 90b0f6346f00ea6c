package repo

import (
	"context"
	"testing"
	"time"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/review/domain"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemory()
	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"c", "a", "b"} {
		it := domain.Item{ID: id, Timestamp: base.Add(time.Duration(i) * time.Minute), Metadata: domain.Metadata{Tags: []string{"x"}}}
		if err := s.Upsert(ctx, it); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	if err := s.Upsert(ctx, domain.Item{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty id err = %v", err)
	}

	items, _ := s.List(ctx)
	if len(items) != 3 || items[0].ID != "c" || items[2].ID != "b" {
		t.Fatalf("List order = %+v", items)
	}

	items[0].Metadata.Tags[0] = "mutated"
	got, err := s.Get(ctx, "c")
	if err != nil || got.Metadata.Tags[0] != "x" {
		t.Fatalf("Get = %+v, %v (store shares slices)", got, err)
	}

	if err := s.Remove(ctx, "c"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "c"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("second Remove err = %v", err)
	}
	if _, err := s.Get(ctx, "c"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("Get removed err = %v", err)
	}
}

func TestSortOldestFirst_TieBreaksOnID(t *testing.T) {
	t.Parallel()

	at := time.Now()
	items := []domain.Item{{ID: "b", Timestamp: at}, {ID: "a", Timestamp: at}}
	SortOldestFirst(items)
	if items[0].ID != "a" {
		t.Fatalf("order = %v", items)
	}
}
