package domain

import (
	"context"

	"brreg/internal/core/company"
)

// Sink is a query store the registry is loaded into
// Write upserts by registry number and must not retain xs
type Sink interface {
	Name() string
	Table() string
	Prepare(ctx context.Context) error
	Write(ctx context.Context, xs []company.Company) (int, error)
}

// ExporterPort loads the shard tree into a sink
type ExporterPort interface {
	Export(ctx context.Context) (Result, error)
}
