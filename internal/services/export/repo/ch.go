package repo

import (
	"context"
	"fmt"

	"brreg/internal/core/company"
	"brreg/internal/platform/store"
)

// CH appends to a ReplacingMergeTree keyed by registry number; the newest load wins on merge
type CH struct {
	ch    store.Clickhouse
	table string
}

// NewCH constructs the clickhouse sink
func NewCH(ch store.Clickhouse, table string) *CH { return &CH{ch: ch, table: table} }

// Name implements domain.Sink
func (s *CH) Name() string { return "ch" }

// Table implements domain.Sink
func (s *CH) Table() string { return s.table }

// Prepare creates the table when missing
func (s *CH) Prepare(ctx context.Context) error {
	return s.ch.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	organisasjonsnummer String,
	navn String,
	organisasjonsform_kode LowCardinality(String),
	konkurs Bool,
	antall_ansatte Nullable(Int64),
	hjemmeside String,
	epostadresse String,
	telefon String,
	mobil String,
	er_i_konsern Bool,
	registrert_i_foretaksregisteret Bool,
	loaded_at DateTime64(3) DEFAULT now64(3)
) ENGINE = ReplacingMergeTree(loaded_at)
ORDER BY organisasjonsnummer`, s.table))
}

// Write sends xs as one batch
func (s *CH) Write(ctx context.Context, xs []company.Company) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	if err := s.ch.Insert(ctx, s.table, Columns, rows(xs)); err != nil {
		return 0, err
	}
	return len(xs), nil
}
