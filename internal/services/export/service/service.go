// Package service loads the shard tree into a query sink
package service

import (
	"context"
	"slices"
	"strings"

	"brreg/internal/adapters/shardtree"
	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/logger"
	"brreg/internal/platform/metrics"
	dom "brreg/internal/services/export/domain"
)

// DefaultBatchSize is the number of rows per sink write
const DefaultBatchSize = 5000

// Config for the loader
type Config struct {
	BatchSize int
	// Forms limits the export to these organisation forms; empty exports all
	Forms []string
}

// Service implements domain.ExporterPort
type Service struct {
	Tree    *shardtree.Tree
	Sink    dom.Sink
	Metrics *metrics.Metrics
	Cfg     Config
}

// New constructs the loader
func New(tree *shardtree.Tree, sink dom.Sink, met *metrics.Metrics, cfg Config) *Service {
	if tree == nil {
		panic("export.Service requires a non nil shard tree")
	}
	if sink == nil {
		panic("export.Service requires a non nil sink")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Service{Tree: tree, Sink: sink, Metrics: met, Cfg: cfg}
}

// Export reads every shard form by form and upserts its valid rows into the sink
// Unreadable shards and invalid rows are skipped with a warning
func (s *Service) Export(ctx context.Context) (dom.Result, error) {
	l := logger.C(ctx).With().Str("mod", "export").Str("sink", s.Sink.Name()).Logger()
	res := dom.Result{Sink: s.Sink.Name(), Table: s.Sink.Table()}

	forms, err := s.forms(ctx)
	if err != nil {
		return res, err
	}
	res.Forms = forms

	if err := s.Sink.Prepare(ctx); err != nil {
		return res, perr.WithOp(err, "export prepare "+s.Sink.Table())
	}

	batch := make([]company.Company, 0, s.Cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.Sink.Write(ctx, batch)
		if err != nil {
			return perr.WithOp(err, "export write "+s.Sink.Table())
		}
		res.Rows += n
		res.Batches++
		s.Metrics.Written(n)
		l.Debug().Int("rows", n).Int("total", res.Rows).Msg("export: batch written")
		batch = batch[:0]
		return nil
	}

	for _, form := range forms {
		shards, err := s.Tree.Shards(ctx, form)
		if err != nil {
			return res, err
		}
		for _, sh := range shards {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			t, err := s.Tree.Read(ctx, sh.Form, sh.Key)
			if err != nil {
				res.Unreadable++
				s.Metrics.ReadFailed()
				l.Warn().Str("path", sh.Path()).Err(err).Msg("export: shard unreadable, skipped")
				continue
			}
			res.Shards++
			s.Metrics.Read(t.Len())

			for _, row := range t.Rows {
				c := company.FromRow(t, row)
				if err := c.Validate(); err != nil {
					res.Invalid++
					l.Debug().Str("path", sh.Path()).Str("number", c.Number).Err(err).Msg("export: invalid row skipped")
					continue
				}
				batch = append(batch, c)
				if len(batch) == s.Cfg.BatchSize {
					if err := flush(); err != nil {
						return res, err
					}
				}
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}

	s.Metrics.Dropped("invalid", res.Invalid)
	if res.Invalid > 0 {
		l.Warn().Int("invalid", res.Invalid).Msg("export: invalid rows skipped")
	}
	l.Info().Int("rows", res.Rows).Int("shards", res.Shards).Int("batches", res.Batches).Msg("export: done")
	return res, nil
}

// forms resolves the configured allow-list against the tree
func (s *Service) forms(ctx context.Context) ([]string, error) {
	all, err := s.Tree.Forms(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, perr.WithHints(
			perr.NotFoundf("no shard tree at %s", s.Tree.Location()),
			"run brreg-split first to create it",
		)
	}
	if len(s.Cfg.Forms) == 0 {
		return all, nil
	}
	var out []string
	for _, f := range s.Cfg.Forms {
		f = shardtree.FormDir(strings.ToUpper(strings.TrimSpace(f)))
		if !slices.Contains(all, f) {
			return nil, perr.WithHints(perr.NotFoundf("organisation form %q not found", f), all...)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out, nil
}
