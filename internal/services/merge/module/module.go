// Package module wires the merger as a modkit.Module
package module

import (
	"context"

	"brreg/internal/modkit"
	dom "brreg/internal/services/merge/domain"
	"brreg/internal/services/merge/service"
)

// Ports exported by the merge module
type Ports struct {
	Merger dom.MergerPort
}

// Module implements modkit.Module for the merger
type Module struct {
	deps  modkit.Deps
	opts  Options
	name  string
	ports Ports
}

// New constructs the merge module from deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("merge")}, opts...)...)
	o := FromConfig(deps.Cfg)

	svc := service.New(deps.Tree, deps.Metrics, service.Config{
		FilterFlagged: o.FilterFlagged,
		ExcludeFlags:  o.ExcludeFlags,
		Owner:         deps.Owner,
	})

	m := &Module{deps: deps, opts: o, name: b.Name}
	m.ports = Ports{Merger: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }

// Run merges the dump at path (the configured dump when empty) and prints the report
func (m *Module) Run(ctx context.Context, path string) (dom.Result, error) {
	if path == "" {
		path = m.opts.DumpPath
	}
	res, err := m.ports.Merger.MergeFile(ctx, path)
	if err != nil {
		return res, err
	}
	return res, service.WriteReport(m.deps.Stdout(), res)
}
