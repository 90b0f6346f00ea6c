// Package ch is a thin ClickHouse client over clickhouse-go
package ch

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the client
type Config struct {
	URL         string
	ClientName  string
	ClientTag   string
	DialTimeout time.Duration
}

// Rows is a result set; driver.Rows satisfies it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// batch is the part of driver.Batch used for inserts
type batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// conn is the part of driver.Conn the client needs
type conn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) error
	query(ctx context.Context, query string, args ...any) (Rows, error)
	prepare(ctx context.Context, query string) (batch, error)
	Close() error
}

// driverConn narrows driver.Conn to conn
type driverConn struct{ driver.Conn }

func (d driverConn) query(ctx context.Context, q string, args ...any) (Rows, error) {
	return d.Conn.Query(ctx, q, args...)
}

func (d driverConn) prepare(ctx context.Context, q string) (batch, error) {
	return d.Conn.PrepareBatch(ctx, q)
}

// CH is a connected client
type CH struct{ c conn }

var dial = func(opt *clickhouse.Options) (conn, error) {
	c, err := clickhouse.Open(opt)
	if err != nil {
		return nil, err
	}
	return driverConn{c}, nil
}

// Open parses cfg.URL, connects and pings once
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opt, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("clickhouse dsn: %w", err)
	}
	opt.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}

	c, err := dial(opt)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return &CH{c: c}, nil
}

// Ping checks the connection
func (c *CH) Ping(ctx context.Context) error { return c.c.Ping(ctx) }

// Exec runs a statement without results, such as DDL
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.c.Exec(ctx, sql, args...)
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Insert appends rows to table as one batch; every row must match the table column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("clickhouse insert: invalid table name %q", table)
	}
	if len(rows) == 0 {
		return nil
	}
	b, err := c.c.prepare(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("clickhouse prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("clickhouse append %s row %d: %w", table, i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("clickhouse send %s: %w", table, err)
	}
	return nil
}

// Query runs a select
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.c.query(ctx, sql, args...)
}

// Close closes the connection
func (c *CH) Close() error { return c.c.Close() }
