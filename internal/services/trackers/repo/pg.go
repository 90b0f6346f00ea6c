package repo

import (
	"context"
	"time"

	"capturebox/internal/modkit/repokit"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/store"
	"capturebox/internal/services/trackers/domain"
)

// Schema creates the trackers table
const Schema = `
CREATE TABLE IF NOT EXISTS trackers (
	id           text PRIMARY KEY,
	name         text        NOT NULL DEFAULT '',
	context_type text        NOT NULL DEFAULT '',
	keywords     text[]      NOT NULL DEFAULT '{}',
	document     text        NOT NULL DEFAULT '',
	version      bigint      NOT NULL DEFAULT 1,
	updated_at   timestamptz NOT NULL DEFAULT now()
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
	List(ctx context.Context) ([]domain.Tracker, error)
	Read(ctx context.Context, id string) (domain.Tracker, error)
	Insert(ctx context.Context, t domain.Tracker) (int64, error)
	Update(ctx context.Context, t domain.Tracker) (int64, error)
}

const selectCols = `SELECT id, name, context_type, keywords, document, version FROM trackers`

func scanTracker(r store.Row) (domain.Tracker, error) {
	var t domain.Tracker
	err := r.Scan(&t.ID, &t.FriendlyName, &t.ContextType, &t.Keywords, &t.Document, &t.Version)
	return t, err
}

func (s *queries) List(ctx context.Context) ([]domain.Tracker, error) {
	return store.Many(ctx, s.q, scanTracker, selectCols+` ORDER BY id`)
}

func (s *queries) Read(ctx context.Context, id string) (domain.Tracker, error) {
	return store.One(ctx, s.q, scanTracker, selectCols+` WHERE id = $1`, id)
}

func (s *queries) Insert(ctx context.Context, t domain.Tracker) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO trackers (id, name, context_type, keywords, document)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.FriendlyName, t.ContextType, keywords(t.Keywords), t.Document)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *queries) Update(ctx context.Context, t domain.Tracker) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE trackers
		   SET name = $2, context_type = $3, keywords = $4, document = $5,
		       version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $6`,
		t.ID, t.FriendlyName, t.ContextType, keywords(t.Keywords), t.Document, t.Version)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func keywords(k []string) []string {
	if k == nil {
		return []string{}
	}
	return k
}

// PG stores trackers in Postgres; every write bumps version
type PG struct {
	db     repokit.TxRunner
	binder repokit.Binder[Queries]
}

// NewPGStore wraps db so writes wait at most lockWait on row locks
func NewPGStore(db repokit.TxRunner, lockWait time.Duration) *PG {
	if lockWait <= 0 {
		lockWait = 2 * time.Second
	}
	return &PG{db: repokit.WithBeginHooks(db, repokit.LockTimeout(lockWait)), binder: NewPG()}
}

// EnsureSchema creates the trackers table
func (s *PG) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return perr.FromPostgres(err, "create trackers table")
	}
	return nil
}

// List implements domain.Store
func (s *PG) List(ctx context.Context) ([]domain.Tracker, error) {
	ts, err := repokit.MustBind(s.binder, s.db).List(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list trackers")
	}
	return ts, nil
}

// Read implements domain.Store
func (s *PG) Read(ctx context.Context, id string) (domain.Tracker, error) {
	t, err := repokit.MustBind(s.binder, s.db).Read(ctx, id)
	if err != nil {
		return domain.Tracker{}, perr.FromPostgres(err, "tracker "+id)
	}
	return t, nil
}

// Write implements domain.Store
func (s *PG) Write(ctx context.Context, t domain.Tracker) error {
	doc, err := Render(t)
	if err != nil {
		return err
	}
	t.Document = doc
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		qs := s.binder.Bind(q)
		var n int64
		var err error
		if t.Version == 0 {
			n, err = qs.Insert(ctx, t)
		} else {
			n, err = qs.Update(ctx, t)
		}
		if err != nil {
			return perr.FromPostgres(err, "write tracker "+t.ID)
		}
		if n == 0 {
			return perr.Conflictf("tracker %s changed since read", t.ID)
		}
		return nil
	})
}
