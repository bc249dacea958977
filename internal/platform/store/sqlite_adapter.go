package store

import (
	"context"
	"database/sql"
	"strconv"

	perr "brreg/internal/platform/errors"
)

// liteAdapter wraps database/sql over the modernc sqlite driver and implements TxRunner
// statements use ? placeholders
type liteAdapter struct {
	db *sql.DB
}

func newLiteAdapter(db *sql.DB) *liteAdapter { return &liteAdapter{db: db} }

func (a *liteAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *liteAdapter) Close() error { return a.db.Close() }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return liteExec(ctx, a.db, q, args...)
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return liteQuery(ctx, a.db, q, args...)
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return a.db.QueryRowContext(ctx, q, args...)
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "sqlite begin")
	}
	if err := fn(liteTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "sqlite commit")
	}
	return nil
}

// sqlRunner is the part shared by *sql.DB and *sql.Tx
type sqlRunner interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

func liteExec(ctx context.Context, r sqlRunner, q string, args ...any) (CommandTag, error) {
	res, err := r.ExecContext(ctx, q, args...)
	if err != nil {
		return liteTag{}, perr.Wrap(err, perr.ErrorCodeDB, "sqlite exec")
	}
	n, _ := res.RowsAffected()
	return liteTag{n: n}, nil
}

func liteQuery(ctx context.Context, r sqlRunner, q string, args ...any) (Rows, error) {
	rs, err := r.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "sqlite query")
	}
	return liteRows{r: rs}, nil
}

type liteTx struct{ tx *sql.Tx }

func (t liteTx) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return liteExec(ctx, t.tx, q, args...)
}

func (t liteTx) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return liteQuery(ctx, t.tx, q, args...)
}

func (t liteTx) QueryRow(ctx context.Context, q string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, q, args...)
}

type liteRows struct{ r *sql.Rows }

func (x liteRows) Next() bool            { return x.r.Next() }
func (x liteRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x liteRows) Err() error            { return x.r.Err() }
func (x liteRows) Close()                { _ = x.r.Close() }
func (x liteRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type liteTag struct{ n int64 }

func (t liteTag) String() string      { return strconv.FormatInt(t.n, 10) }
func (t liteTag) RowsAffected() int64 { return t.n }
