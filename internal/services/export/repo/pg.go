package repo

import (
	"context"
	"fmt"
	"strings"

	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/store"
)

// PG upserts through a temp staging table filled with COPY
type PG struct {
	db    store.TxRunner
	table string
}

// NewPG constructs the postgres sink
func NewPG(db store.TxRunner, table string) *PG { return &PG{db: db, table: table} }

// Name implements domain.Sink
func (s *PG) Name() string { return "pg" }

// Table implements domain.Sink
func (s *PG) Table() string { return s.table }

// Prepare creates the table when missing
func (s *PG) Prepare(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	organisasjonsnummer text PRIMARY KEY,
	navn text NOT NULL,
	organisasjonsform_kode text NOT NULL,
	konkurs boolean NOT NULL DEFAULT false,
	antall_ansatte integer,
	hjemmeside text,
	epostadresse text,
	telefon text,
	mobil text,
	er_i_konsern boolean NOT NULL DEFAULT false,
	registrert_i_foretaksregisteret boolean NOT NULL DEFAULT false,
	loaded_at timestamptz NOT NULL DEFAULT now()
)`, s.table))
	return err
}

// Write copies xs into a staging table and upserts from it in one transaction
// Repeated numbers inside a batch keep the last row
func (s *PG) Write(ctx context.Context, xs []company.Company) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	stage := s.table + "_stage"
	cols := strings.Join(Columns, ", ")

	err := s.db.Tx(ctx, func(q store.RowQuerier) error {
		cp, ok := q.(store.Copier)
		if !ok {
			return perr.Internalf("pg sink: querier does not support COPY")
		}
		if err := store.ExecAll(ctx, q,
			fmt.Sprintf(`CREATE TEMP TABLE IF NOT EXISTS %s (LIKE %s INCLUDING DEFAULTS, seq bigserial) ON COMMIT DROP`, stage, s.table),
		); err != nil {
			return err
		}
		if _, err := cp.CopyFrom(ctx, stage, Columns, rows(xs)); err != nil {
			return err
		}
		_, err := q.Exec(ctx, fmt.Sprintf(`INSERT INTO %[1]s (%[3]s)
SELECT DISTINCT ON (organisasjonsnummer) %[3]s FROM %[2]s ORDER BY organisasjonsnummer, seq DESC
ON CONFLICT (organisasjonsnummer) DO UPDATE SET %[4]s, loaded_at = now()`,
			s.table, stage, cols, updates("EXCLUDED")))
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(xs), nil
}
