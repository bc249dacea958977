package module

import (
	"brreg/internal/core/company"
	"brreg/internal/platform/config"
)

// DefaultDumpPath is where the newer dump is expected when no path is given
const DefaultDumpPath = "all-companies-norway.csv"

// Options for the merge module
type Options struct {
	DumpPath      string
	FilterFlagged bool
	ExcludeFlags  []string
}

// FromConfig fills options from the BRREG_ env view
// DUMP_PATH, DUMP_FILTER_FLAGGED and DUMP_EXCLUDE_FLAGS are shared with split
func FromConfig(cfg config.Conf) Options {
	return Options{
		DumpPath:      cfg.MayString("DUMP_PATH", DefaultDumpPath),
		FilterFlagged: cfg.MayBool("DUMP_FILTER_FLAGGED", true),
		ExcludeFlags:  cfg.MayCSV("DUMP_EXCLUDE_FLAGS", company.DefaultExcludeFlags),
	}
}
