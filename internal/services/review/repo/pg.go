package repo

import (
	"context"
	"encoding/json"

	"capturebox/internal/modkit/repokit"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/store"
	"capturebox/internal/services/review/domain"
)

// Schema creates the review_items table
const Schema = `
CREATE TABLE IF NOT EXISTS review_items (
	id              text PRIMARY KEY,
	content         text             NOT NULL,
	confidence      double precision NOT NULL,
	current_tracker text             NOT NULL,
	current_section text             NOT NULL DEFAULT '',
	created_at      timestamptz      NOT NULL,
	source          text             NOT NULL,
	status          text             NOT NULL,
	metadata        jsonb            NOT NULL DEFAULT '{}'
)`

type (
	pgBinder struct{}
	queries  struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres queries
func NewPG() repokit.Binder[Queries] { return pgBinder{} }

// Bind implements repokit.Binder
func (pgBinder) Bind(q repokit.Queryer) Queries { return &queries{q: q} }

// Queries is the SQL surface behind PG
type Queries interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (domain.Item, error)
	Upsert(ctx context.Context, it domain.Item) error
	Remove(ctx context.Context, id string) (int64, error)
}

const selectCols = `SELECT id, content, confidence, current_tracker, current_section,
	created_at, source, status, metadata FROM review_items`

func scanItem(r store.Row) (domain.Item, error) {
	var it domain.Item
	var meta []byte
	if err := r.Scan(&it.ID, &it.Content, &it.Confidence, &it.CurrentTracker, &it.CurrentSection,
		&it.Timestamp, &it.Source, &it.Status, &meta); err != nil {
		return it, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &it.Metadata); err != nil {
			return it, perr.Wrap(err, perr.ErrorCodeJSON, "review metadata "+it.ID)
		}
	}
	return it, nil
}

func (s *queries) List(ctx context.Context) ([]domain.Item, error) {
	return store.Many(ctx, s.q, scanItem, selectCols+` ORDER BY created_at, id`)
}

func (s *queries) Get(ctx context.Context, id string) (domain.Item, error) {
	return store.One(ctx, s.q, scanItem, selectCols+` WHERE id = $1`, id)
}

func (s *queries) Upsert(ctx context.Context, it domain.Item) error {
	meta, err := json.Marshal(it.Metadata)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode review metadata")
	}
	return store.ExecOne(ctx, s.q, `
		INSERT INTO review_items
			(id, content, confidence, current_tracker, current_section, created_at, source, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			confidence = EXCLUDED.confidence,
			current_tracker = EXCLUDED.current_tracker,
			current_section = EXCLUDED.current_section,
			status = EXCLUDED.status,
			metadata = EXCLUDED.metadata`,
		it.ID, it.Content, it.Confidence, it.CurrentTracker, it.CurrentSection,
		it.Timestamp, string(it.Source), string(it.Status), meta)
}

func (s *queries) Remove(ctx context.Context, id string) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM review_items WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PG stores review items in Postgres
type PG struct {
	db     repokit.TxRunner
	binder repokit.Binder[Queries]
}

// NewPGStore returns a PG over db
func NewPGStore(db repokit.TxRunner) *PG { return &PG{db: db, binder: NewPG()} }

// EnsureSchema creates the review_items table
func (s *PG) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return perr.FromPostgres(err, "create review_items table")
	}
	return nil
}

// List implements domain.Store
func (s *PG) List(ctx context.Context) ([]domain.Item, error) {
	items, err := repokit.MustBind(s.binder, s.db).List(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list review items")
	}
	return items, nil
}

// Get implements domain.Store
func (s *PG) Get(ctx context.Context, id string) (domain.Item, error) {
	it, err := repokit.MustBind(s.binder, s.db).Get(ctx, id)
	if err != nil {
		return domain.Item{}, perr.FromPostgres(err, "review item "+id)
	}
	return it, nil
}

// Upsert implements domain.Store
func (s *PG) Upsert(ctx context.Context, it domain.Item) error {
	if it.ID == "" {
		return perr.InvalidArgf("review item without id")
	}
	if err := repokit.MustBind(s.binder, s.db).Upsert(ctx, it); err != nil {
		return perr.FromPostgres(err, "upsert review item "+it.ID)
	}
	return nil
}

// Remove implements domain.Store
func (s *PG) Remove(ctx context.Context, id string) error {
	n, err := repokit.MustBind(s.binder, s.db).Remove(ctx, id)
	if err != nil {
		return perr.FromPostgres(err, "remove review item "+id)
	}
	if n == 0 {
		return perr.NotFoundf("review item %s", id)
	}
	return nil
}
