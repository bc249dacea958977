// Package module wires the reporter as a modkit.Module
package module

import (
	"context"
	"os"

	"brreg/internal/modkit"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/logger"
	dom "brreg/internal/services/stats/domain"
	"brreg/internal/services/stats/service"
)

// Ports exported by the stats module
type Ports struct {
	Reporter dom.ReporterPort
}

// Module implements modkit.Module for the reporter
type Module struct {
	deps  modkit.Deps
	opts  Options
	name  string
	ports Ports
}

// New constructs the stats module from deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("stats")}, opts...)...)
	o := FromConfig(deps.Cfg)

	svc := service.New(deps.Tree, deps.Metrics, service.Config{Top: o.Top})

	m := &Module{deps: deps, opts: o, name: b.Name}
	m.ports = Ports{Reporter: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }

// Run prints the report for form (all forms when empty); xlsxPath overrides STATS_XLSX
func (m *Module) Run(ctx context.Context, form, xlsxPath string) (dom.Report, error) {
	rep, err := m.ports.Reporter.Stats(ctx, form)
	if err != nil {
		return rep, err
	}
	if err := service.WriteReport(m.deps.Stdout(), rep); err != nil {
		return rep, err
	}

	if xlsxPath == "" {
		xlsxPath = m.opts.XLSXPath
	}
	if xlsxPath == "" {
		return rep, nil
	}
	return rep, writeWorkbook(ctx, xlsxPath, rep)
}

func writeWorkbook(ctx context.Context, path string, rep dom.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return perr.IOf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = perr.IOf(cerr, "close %s", path)
		}
	}()
	if err := service.WriteXLSX(f, rep); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("path", path).Msg("stats: workbook written")
	return nil
}
