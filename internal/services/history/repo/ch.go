// Package repo writes capture events to ClickHouse
package repo

import (
	"context"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/store"
	"capturebox/internal/services/history/domain"
)

// Table is the events table name
const Table = "capture_events"

// Schema creates the events table
const Schema = `
CREATE TABLE IF NOT EXISTS capture_events (
	capture_id      String,
	at              DateTime64(3, 'UTC'),
	text            String,
	input_type      LowCardinality(String),
	primary_tracker LowCardinality(String),
	confidence      Float64,
	item_types      Array(LowCardinality(String)),
	trackers        Array(LowCardinality(String)),
	requires_review UInt8,
	fallback        UInt8
) ENGINE = MergeTree
ORDER BY (at, capture_id)`

// CH appends events to ClickHouse
type CH struct{ ch store.Clickhouse }

// NewCH returns a CH over ch
func NewCH(ch store.Clickhouse) *CH { return &CH{ch: ch} }

// EnsureSchema creates the events table
func (s *CH) EnsureSchema(ctx context.Context) error {
	if err := s.ch.Exec(ctx, Schema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create capture_events table")
	}
	return nil
}

// Record implements domain.Recorder
func (s *CH) Record(ctx context.Context, e domain.Event) error {
	row := []any{
		e.CaptureID, e.At.UTC(), e.Text, e.InputType, e.PrimaryTracker, e.Confidence,
		nonNil(e.ItemTypes), nonNil(e.Trackers), boolByte(e.RequiresReview), boolByte(e.Fallback),
	}
	if err := s.ch.Insert(ctx, Table, [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "insert capture event")
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Noop discards events; used when ClickHouse is disabled
type Noop struct{}

// Record implements domain.Recorder
func (Noop) Record(context.Context, domain.Event) error { return nil }
