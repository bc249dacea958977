// Package domain defines the types and ports of the partitioner
package domain

import "brreg/internal/adapters/shardtree"

// Result summarises one split run
type Result struct {
	// Read is the number of rows in the dump
	Read int
	// Dropped rows were flagged in an exclusion column
	Dropped int
	// Filtered rows were outside the organisation-form allow-list
	Filtered int
	// Rows is the number of rows written across all shards
	Rows  int
	Files int

	// Checked lists the exclusion columns that were present in the dump
	Checked []string
	Forms   []string
	Shards  []shardtree.ShardCount
}
