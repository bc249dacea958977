package module

import (
	"brreg/internal/platform/config"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/validate"
	"brreg/internal/services/export/service"
)

// Options for the export module
type Options struct {
	Driver string   `env:"EXPORT_DRIVER" validate:"oneof=pg ch sqlite"`
	Table  string   `env:"EXPORT_TABLE" validate:"required,max=63"`
	Batch  int      `env:"EXPORT_BATCH" validate:"gte=1,lte=100000"`
	Forms  []string `env:"EXPORT_FORMS"`
}

// FromConfig fills and validates options from the BRREG_ env view
// EXPORT_DRIVER (pg|ch|sqlite, default sqlite), EXPORT_TABLE (default companies),
// EXPORT_BATCH (default 5000), EXPORT_FORMS (comma separated allow-list)
// Backend settings (EXPORT_PG_DBURL, EXPORT_CH_DBURL, EXPORT_SQLITE_PATH...) are read by store.FromConfig
func FromConfig(cfg config.Conf) (Options, error) {
	o := Options{
		Driver: cfg.MayString("EXPORT_DRIVER", "sqlite"),
		Table:  cfg.MayString("EXPORT_TABLE", "companies"),
		Batch:  cfg.MayInt("EXPORT_BATCH", service.DefaultBatchSize),
		Forms:  cfg.MayCSV("EXPORT_FORMS", nil),
	}
	if err := validate.Struct(o, perr.ErrorCodeConfig); err != nil {
		return o, err
	}
	return o, nil
}
