// Package domain defines the types and ports of the reporter
package domain

// ShardStat is the row count of one shard and its share of the form total
type ShardStat struct {
	Key  string
	Rows int
	// Pct is the percentage of the form total, 0 when the form is empty
	Pct float64
}

// FormStats aggregates one organisation form
type FormStats struct {
	Form  string
	Total int
	// Files counts every shard file of the form, Readable those that were counted
	Files    int
	Readable int

	// Shards holds every readable shard, count descending then key ascending
	Shards []ShardStat
	Top    []ShardStat
}

// Report is the whole tree summary
type Report struct {
	Filter string
	Forms  []FormStats

	// Total and Files are the grand totals over readable shards
	Total      int
	Files      int
	Unreadable int
}
