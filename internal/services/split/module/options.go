package module

import (
	"brreg/internal/core/company"
	"brreg/internal/platform/config"
)

// DefaultDumpPath is where the registry dump is expected when no path is given
const DefaultDumpPath = "all-companies-norway.csv"

// Options for the split module
type Options struct {
	DumpPath      string
	FilterFlagged bool
	ExcludeFlags  []string
	Forms         []string
}

// FromConfig fills options from the BRREG_ env view
// DUMP_PATH (default all-companies-norway.csv) is the dump to split
// DUMP_FILTER_FLAGGED (default true) drops rows flagged in DUMP_EXCLUDE_FLAGS (default konkurs)
// SPLIT_FORMS restricts output to a comma separated allow-list of organisation forms
func FromConfig(cfg config.Conf) Options {
	return Options{
		DumpPath:      cfg.MayString("DUMP_PATH", DefaultDumpPath),
		FilterFlagged: cfg.MayBool("DUMP_FILTER_FLAGGED", true),
		ExcludeFlags:  cfg.MayCSV("DUMP_EXCLUDE_FLAGS", company.DefaultExcludeFlags),
		Forms:         cfg.MayCSV("SPLIT_FORMS", nil),
	}
}
