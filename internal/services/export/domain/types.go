// Package domain defines the types and ports of the loader
package domain

// Result summarises one export run
type Result struct {
	Sink  string
	Table string
	Forms []string

	// Shards counts readable shard files; Unreadable ones were skipped
	Shards     int
	Unreadable int

	// Rows were delivered to the sink; Invalid rows failed validation and were skipped
	Rows    int
	Invalid int
	Batches int
}
