package domain

import (
	"context"

	"brreg/internal/core/company"
)

// MergerPort adds unseen companies from a newer dump to the shard tree
type MergerPort interface {
	Merge(ctx context.Context, dump *company.Table) (Result, error)
	MergeFile(ctx context.Context, path string) (Result, error)
}
