// Package ch provides a thin clickhouse-go/v2 client for batch loads
package ch

import (
	"context"
	"fmt"
	"strings"

	perr "brreg/internal/platform/errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL  string
	Role string
	Tag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// Batch is the part of driver.Batch used for inserts
type Batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// conn is the part of driver.Conn the client uses
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// CH wraps a native clickhouse connection
type CH struct {
	conn    conn
	prepare func(ctx context.Context, query string) (Batch, error)
}

var openConn = clickhouse.Open

// Open parses the DSN, tags the connection with client info and pings it
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "parse clickhouse url")
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)

	c, err := openConn(opts)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "open clickhouse")
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "ping clickhouse")
	}
	return New(c, func(ctx context.Context, query string) (Batch, error) {
		return c.PrepareBatch(ctx, query)
	}), nil
}

// New wraps an existing connection; prepare opens insert batches
func New(c conn, prepare func(ctx context.Context, query string) (Batch, error)) *CH {
	return &CH{conn: c, prepare: prepare}
}

// Exec runs a statement without results
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	if err := c.conn.Exec(ctx, query, args...); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "clickhouse exec")
	}
	return nil
}

// Insert appends rows to one batch and sends it; the batch is aborted on append errors
func (c *CH) Insert(ctx context.Context, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(cols, ", "))
	b, err := c.prepare(ctx, query)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "prepare batch for %s", table)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return perr.Wrapf(err, perr.ErrorCodeDB, "append row %d to %s", i, table)
		}
	}
	if err := b.Send(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "send batch to %s", table)
	}
	return nil
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	r, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "clickhouse query")
	}
	return r, nil
}

// Ping checks the connection
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
