package module

import (
	"brreg/internal/platform/config"
	"brreg/internal/services/stats/service"
)

// Options for the stats module
type Options struct {
	// Top is the number of shards listed per form (STATS_TOP, default 5)
	Top int
	// XLSXPath, when set, also writes the report as a workbook (STATS_XLSX)
	XLSXPath string
}

// FromConfig fills options from the BRREG_ env view
func FromConfig(cfg config.Conf) Options {
	return Options{
		Top:      cfg.MayInt("STATS_TOP", service.DefaultTop),
		XLSXPath: cfg.MayString("STATS_XLSX", ""),
	}
}
