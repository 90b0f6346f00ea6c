package store

import (
	"context"
	"errors"
	"testing"

	"capturebox/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

type pgxRow struct{ err error }

func (r pgxRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int); ok {
		*p = 1
	}
	return nil
}

type pgxRows struct {
	n      int
	closed bool
}

func (r *pgxRows) Close()                        { r.closed = true }
func (r *pgxRows) Err() error                    { return nil }
func (r *pgxRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT 1") }
func (r *pgxRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "id"}, {Name: "body"}}
}
func (r *pgxRows) Next() bool             { r.n++; return r.n == 1 }
func (r *pgxRows) Scan(...any) error      { return nil }
func (r *pgxRows) Values() ([]any, error) { return nil, nil }
func (r *pgxRows) RawValues() [][]byte    { return nil }
func (r *pgxRows) Conn() *pgx.Conn        { return nil }

type pgxFake struct {
	execErr error
	rowErr  error
	rows    *pgxRows
}

func (f *pgxFake) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 1"), f.execErr
}
func (f *pgxFake) Query(context.Context, string, ...any) (pgx.Rows, error) { return f.rows, nil }
func (f *pgxFake) QueryRow(context.Context, string, ...any) pgx.Row   { return pgxRow{f.rowErr} }

func TestTraced_EmitsPerStatement(t *testing.T) {
	tr := &recTracer{}
	fake := &pgxFake{rows: &pgxRows{}, execErr: errors.New("deadlock")}
	q := traced{q: fake, tracer: tr, slowMs: 0}
	ctx := context.Background()

	ct, err := q.Exec(ctx, "UPDATE trackers\n  SET body = $1", "x")
	if err == nil || ct.RowsAffected() != 1 {
		t.Fatalf("Exec = %v, %v", ct, err)
	}

	rs, err := q.Query(ctx, "SELECT id, body FROM trackers")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "body" {
		t.Fatalf("Columns = %v", cols)
	}
	rs.Close()
	if !fake.rows.closed {
		t.Fatalf("rows not closed")
	}

	var one int
	if err := q.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("QueryRow = %d, %v", one, err)
	}

	if len(tr.events) != 3 {
		t.Fatalf("events = %d, want 3", len(tr.events))
	}
	if tr.events[0].Err == nil || !tr.events[0].Slow {
		t.Fatalf("exec event = %+v", tr.events[0])
	}
}

func TestTraced_NoRowsIsNotTracedAsError(t *testing.T) {
	tr := &recTracer{}
	q := traced{q: &pgxFake{rowErr: pgx.ErrNoRows}, tracer: tr, slowMs: -1}

	var one int
	if err := q.QueryRow(context.Background(), "SELECT 1").Scan(&one); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("Scan err = %v", err)
	}
	if len(tr.events) != 1 || tr.events[0].Err != nil || tr.events[0].Slow {
		t.Fatalf("event = %+v", tr.events)
	}
}

func TestTraced_NilTracer(t *testing.T) {
	q := traced{q: &pgxFake{}}
	if _, err := q.Exec(context.Background(), "SELECT 1"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
}
