package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func openLite(t *testing.T) *Store {
	t.Helper()
	cfg := Config{SQLite: SQLiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "db", "companies.db")}}
	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestOpen_NoBackends(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.Lite != nil {
		t.Fatalf("no seams should be set: %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard on empty store: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close on empty store: %v", err)
	}

	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("Guard on nil store should fail")
	}
}

func TestOpen_OptionError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want option error, got %v", err)
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if !perr.IsCode(err, perr.ErrorCodeConfig) || s != nil {
		t.Fatalf("want config error and nil store, got %v %v", s, err)
	}
}

func TestOpenPG_RetriesThenUnavailable(t *testing.T) {
	testkit.Serial(t)

	var sleeps int
	testkit.Swap(t, &sleep, func(time.Duration) { sleeps++ })

	cfg := Config{PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1",
		ConnectRetries: 3,
		PingTimeout:    time.Second,
	}}
	_, err := Open(context.Background(), cfg)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if sleeps != 3 {
		t.Fatalf("want 3 backoff sleeps, got %d", sleeps)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{SQLite: SQLiteConfig{Enabled: true}})
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestSQLite_ExecTxAndHelpers(t *testing.T) {
	t.Parallel()

	s := openLite(t)
	ctx := context.Background()

	if err := s.Guard(ctx); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := ExecAll(ctx, s.Lite,
		`CREATE TABLE companies (organisasjonsnummer TEXT PRIMARY KEY, navn TEXT NOT NULL)`,
		`CREATE INDEX companies_navn ON companies (navn)`,
	); err != nil {
		t.Fatalf("ExecAll: %v", err)
	}

	err := s.Lite.Tx(ctx, func(q RowQuerier) error {
		for _, r := range [][2]string{{"1", "Alfa AS"}, {"2", "Beta AS"}} {
			if _, err := Exec(ctx, q, `INSERT INTO companies VALUES (?, ?)`, r[0], r[1]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}

	boom := errors.New("abort")
	err = s.Lite.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO companies VALUES ('3', 'Gamma AS')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Tx should return fn error, got %v", err)
	}

	n, err := Scalar[int64](ctx, s.Lite, `SELECT count(*) FROM companies`)
	if err != nil || n != 2 {
		t.Fatalf("count = %d err=%v (rolled back row must not persist)", n, err)
	}

	names, err := Many(ctx, s.Lite, func(r Row) (string, error) {
		var v string
		return v, r.Scan(&v)
	}, `SELECT navn FROM companies ORDER BY organisasjonsnummer`)
	if err != nil || len(names) != 2 || names[0] != "Alfa AS" || names[1] != "Beta AS" {
		t.Fatalf("names = %v err=%v", names, err)
	}

	rs, err := s.Lite.Query(ctx, `SELECT organisasjonsnummer, navn FROM companies`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "navn" {
		t.Fatalf("Columns = %v", cols)
	}
	rs.Close()

	tag, err := s.Lite.Exec(ctx, `UPDATE companies SET navn = upper(navn)`)
	if err != nil || tag.RowsAffected() != 2 || tag.String() != "2" {
		t.Fatalf("update tag = %v err=%v", tag, err)
	}

	if _, err := s.Lite.Exec(ctx, `INSERT INTO nope VALUES (1)`); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want db error, got %v", err)
	}
	if _, err := Scalar[int](ctx, s.Lite, `SELECT 1 WHERE 0`); err == nil {
		t.Fatalf("Scalar on empty result should fail")
	}
}

type pingFail struct{ fakeQuerier }

func (pingFail) Ping(context.Context) error { return errors.New("down") }

type fakeQuerier struct{}

func (fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) { return liteTag{}, nil }
func (fakeQuerier) Query(context.Context, string, ...any) (Rows, error)      { return nil, nil }
func (fakeQuerier) QueryRow(context.Context, string, ...any) Row             { return nil }
func (fakeQuerier) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return fn(fakeQuerier{})
}

func TestGuard_ReportsFailingSeams(t *testing.T) {
	t.Parallel()

	s := &Store{PG: pingFail{}, Lite: fakeQuerier{}}
	err := s.Guard(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	testkit.MustContain(t, err.Error(), "pg")
}
