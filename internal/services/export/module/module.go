// Package module wires the loader and its sink as a modkit.Module
package module

import (
	"context"

	"brreg/internal/modkit"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/store"
	dom "brreg/internal/services/export/domain"
	"brreg/internal/services/export/repo"
	"brreg/internal/services/export/service"
)

// Ports exported by the export module
type Ports struct {
	Exporter dom.ExporterPort
	Sink     dom.Sink
}

// Module implements modkit.Module for the loader; Close releases the sink connection
type Module struct {
	deps  modkit.Deps
	opts  Options
	name  string
	store *store.Store
	ports Ports
}

var openStore = store.Open

// New validates config, connects the configured backend and builds the loader
func New(ctx context.Context, deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("export")}, opts...)...)
	o, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx,
		store.FromConfig(deps.Cfg.Prefix("EXPORT_"), o.Driver, "brreg-export"),
		store.WithLogger(deps.Log),
	)
	if err != nil {
		return nil, perr.WithOp(err, "export connect "+o.Driver)
	}
	sink, err := repo.New(o.Driver, st, o.Table)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}

	svc := service.New(deps.Tree, sink, deps.Metrics, service.Config{
		BatchSize: o.Batch,
		Forms:     o.Forms,
	})

	m := &Module{deps: deps, opts: o, name: b.Name, store: st}
	m.ports = Ports{Exporter: svc, Sink: sink}
	return m, nil
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }

// Store exposes the opened backends
func (m *Module) Store() *store.Store { return m.store }

// Close releases the backend connections
func (m *Module) Close(ctx context.Context) error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Close(ctx)
}

// Run checks the backend is reachable, exports the tree and prints the report
func (m *Module) Run(ctx context.Context) (dom.Result, error) {
	if err := m.store.Guard(ctx); err != nil {
		return dom.Result{}, perr.WithOp(err, "export guard")
	}
	res, err := m.ports.Exporter.Export(ctx)
	if err != nil {
		return res, err
	}
	return res, service.WriteReport(m.deps.Stdout(), res)
}
