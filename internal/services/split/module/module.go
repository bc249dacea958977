// Package module wires the partitioner as a modkit.Module
package module

import (
	"context"

	"brreg/internal/modkit"
	dom "brreg/internal/services/split/domain"
	"brreg/internal/services/split/service"
)

// Ports exported by the split module
type Ports struct {
	Splitter dom.SplitterPort
}

// Module implements modkit.Module for the partitioner
type Module struct {
	deps  modkit.Deps
	opts  Options
	name  string
	ports Ports
}

// New constructs the split module from deps.Cfg; opts may override the name
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("split")}, opts...)...)
	o := FromConfig(deps.Cfg)

	svc := service.New(deps.Tree, deps.Metrics, service.Config{
		FilterFlagged: o.FilterFlagged,
		ExcludeFlags:  o.ExcludeFlags,
		Forms:         o.Forms,
		Owner:         deps.Owner,
	})

	m := &Module{deps: deps, opts: o, name: b.Name}
	m.ports = Ports{Splitter: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }

// Run splits the dump at path (the configured dump when empty) and prints the report
func (m *Module) Run(ctx context.Context, path string) (dom.Result, error) {
	if path == "" {
		path = m.opts.DumpPath
	}
	res, err := m.ports.Splitter.SplitFile(ctx, path)
	if err != nil {
		return res, err
	}
	return res, service.WriteReport(m.deps.Stdout(), m.deps.Tree.Location(), res)
}
