package domain

import "context"

// ReporterPort summarises the shard tree; form filters to one organisation form when set
type ReporterPort interface {
	Stats(ctx context.Context, form string) (Report, error)
}
