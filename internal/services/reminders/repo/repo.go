// Package repo stores reminders in Postgres or memory
package repo

import (
	"context"
	"sync"

	"capturebox/internal/modkit/repokit"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/store"
	pstrings "capturebox/internal/platform/strings"
	"capturebox/internal/services/reminders/domain"
)

// Schema creates the reminders table
const Schema = `
CREATE TABLE IF NOT EXISTS reminders (
	id          uuid PRIMARY KEY,
	capture_id  text,
	tracker     text        NOT NULL,
	description text        NOT NULL,
	remind_at   timestamptz NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
)`

// PG inserts reminders into Postgres
type PG struct{ db repokit.TxRunner }

// NewPG returns a PG over db
func NewPG(db repokit.TxRunner) *PG { return &PG{db: db} }

// EnsureSchema creates the reminders table
func (s *PG) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return perr.FromPostgres(err, "create reminders table")
	}
	return nil
}

// Insert implements domain.Store
func (s *PG) Insert(ctx context.Context, r domain.Reminder) error {
	err := store.ExecOne(ctx, s.db, `
		INSERT INTO reminders (id, capture_id, tracker, description, remind_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, pstrings.SQLNull(r.CaptureID), r.Tracker, r.Description, r.RemindAt, r.CreatedAt)
	if err != nil {
		return perr.FromPostgres(err, "insert reminder")
	}
	return nil
}

// Memory keeps reminders in process
type Memory struct {
	mu  sync.Mutex
	all []domain.Reminder
}

// NewMemory returns an empty Memory
func NewMemory() *Memory { return &Memory{} }

// Insert implements domain.Store
func (m *Memory) Insert(_ context.Context, r domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, r)
	return nil
}

// All returns a copy of the stored reminders
func (m *Memory) All() []domain.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Reminder(nil), m.all...)
}
