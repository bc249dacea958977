package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	perr "brreg/internal/platform/errors"
	chx "brreg/internal/platform/store/ch"
	"brreg/internal/platform/store/pg"

	// registers the pure Go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

var sleep = time.Sleep

// openPG opens pg and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	maxAttempts := cfg.PG.ConnectRetries
	if maxAttempts <= 0 {
		maxAttempts = 6
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx) // pool directly, keeps the ping out of the sql trace
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "postgres connect canceled")
		}
		s.Log.Debug().Int("attempt", i+1).Err(lastErr).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, perr.Wrapf(lastErr, perr.ErrorCodeUnavailable, "postgres ping failed after %d attempts", maxAttempts)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

// openSQLite opens the sqlite file, creating parent directories
func openSQLite(ctx context.Context, cfg Config, _ *Store) (TxRunner, error) {
	path := cfg.SQLite.Path
	if path == "" {
		return nil, perr.Configf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, perr.IOf(err, "create sqlite dir for %s", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "open sqlite %s", path)
	}
	// one writer; sqlite serialises writes anyway and :memory: is per connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "ping sqlite %s", path)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "configure sqlite %s", path)
	}
	return newLiteAdapter(db), nil
}
