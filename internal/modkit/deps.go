// Package modkit provides module wiring and the per-run deps of a batch tool
package modkit

import (
	"io"

	"brreg/internal/adapters/shardtree"
	"brreg/internal/platform/config"
	"brreg/internal/platform/logger"
	"brreg/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	Tree    *shardtree.Tree
	Metrics *metrics.Metrics
	// Out receives the user facing report; logs go elsewhere
	Out io.Writer
	// Owner names the holder recorded in the tree lock ("<tool> <run id>")
	Owner string
}

// Stdout returns Out, or io.Discard when unset
func (d Deps) Stdout() io.Writer {
	if d.Out == nil {
		return io.Discard
	}
	return d.Out
}
