package domain

import (
	"context"

	"brreg/internal/core/company"
)

// SplitterPort bootstraps the shard tree from a full dump
type SplitterPort interface {
	Split(ctx context.Context, dump *company.Table) (Result, error)
	SplitFile(ctx context.Context, path string) (Result, error)
}
