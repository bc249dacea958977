// Package domain defines the types and ports of the merger
package domain

import "brreg/internal/adapters/shardtree"

// Result summarises one merge run
type Result struct {
	// Read is the number of rows in the new dump
	Read    int
	Dropped int
	Checked []string

	// Existing is the number of distinct registry numbers already in the tree
	Existing int
	// Unreadable shards were skipped during the scan
	Unreadable int

	// Candidates are dump rows whose registry number is not yet in the tree
	Candidates int
	// Duplicates repeat a number seen earlier in the same dump
	Duplicates   int
	SkippedEmpty int

	Added  int
	Shards []shardtree.ShardCount
}
