package repo

import (
	"context"
	"fmt"
	"strings"

	"brreg/internal/core/company"
	"brreg/internal/platform/store"
)

// SQLite upserts row by row inside one transaction per batch
type SQLite struct {
	db    store.TxRunner
	table string
}

// NewSQLite constructs the sqlite sink
func NewSQLite(db store.TxRunner, table string) *SQLite { return &SQLite{db: db, table: table} }

// Name implements domain.Sink
func (s *SQLite) Name() string { return "sqlite" }

// Table implements domain.Sink
func (s *SQLite) Table() string { return s.table }

// Prepare creates the table and the form index when missing
func (s *SQLite) Prepare(ctx context.Context) error {
	return store.ExecAll(ctx, s.db,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	organisasjonsnummer TEXT PRIMARY KEY,
	navn TEXT NOT NULL,
	organisasjonsform_kode TEXT NOT NULL,
	konkurs INTEGER NOT NULL DEFAULT 0,
	antall_ansatte INTEGER,
	hjemmeside TEXT,
	epostadresse TEXT,
	telefon TEXT,
	mobil TEXT,
	er_i_konsern INTEGER NOT NULL DEFAULT 0,
	registrert_i_foretaksregisteret INTEGER NOT NULL DEFAULT 0,
	loaded_at TEXT NOT NULL DEFAULT (datetime('now'))
)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_form_idx ON %[1]s (organisasjonsform_kode)`, s.table),
	)
}

// Write upserts xs in one transaction
func (s *SQLite) Write(ctx context.Context, xs []company.Company) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
ON CONFLICT (organisasjonsnummer) DO UPDATE SET %s, loaded_at = datetime('now')`,
		s.table, strings.Join(Columns, ", "), marks, updates("excluded"))

	err := s.db.Tx(ctx, func(q store.RowQuerier) error {
		for _, c := range xs {
			if _, err := q.Exec(ctx, sql, Values(c)...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(xs), nil
}
