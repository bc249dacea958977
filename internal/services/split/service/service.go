// Package service partitions a registry dump into the shard tree
package service

import (
	"context"

	"brreg/internal/adapters/csvtable"
	"brreg/internal/adapters/shardtree"
	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/logger"
	"brreg/internal/platform/metrics"
	dom "brreg/internal/services/split/domain"
)

// Config controls row filtering and lock ownership
type Config struct {
	// FilterFlagged drops rows flagged in ExcludeFlags (konkurs by default)
	FilterFlagged bool
	ExcludeFlags  []string

	// Forms restricts output to these organisation forms; empty keeps all
	Forms []string

	// Owner is recorded in the tree lock
	Owner string
}

// Service implements domain.SplitterPort on a shard tree
type Service struct {
	Tree    *shardtree.Tree
	Metrics *metrics.Metrics
	Cfg     Config
}

// New constructs the partitioner
func New(tree *shardtree.Tree, met *metrics.Metrics, cfg Config) *Service {
	if tree == nil {
		panic("split.Service requires a non nil shard tree")
	}
	if cfg.ExcludeFlags == nil {
		cfg.ExcludeFlags = company.DefaultExcludeFlags
	}
	if cfg.Owner == "" {
		cfg.Owner = "brreg-split"
	}
	return &Service{Tree: tree, Metrics: met, Cfg: cfg}
}

// SplitFile reads the dump at path and splits it
func (s *Service) SplitFile(ctx context.Context, path string) (dom.Result, error) {
	logger.C(ctx).Info().Str("path", path).Msg("split: loading dump")
	t, err := csvtable.ReadFile(path)
	if err != nil {
		return dom.Result{}, err
	}
	return s.Split(ctx, t)
}

// Split writes every (form, key) group of dump to its shard, overwriting
// whatever was there. The tree lock is held for the whole write phase
func (s *Service) Split(ctx context.Context, dump *company.Table) (dom.Result, error) {
	l := logger.C(ctx).With().Str("mod", "split").Logger()

	var res dom.Result
	if err := company.RequireColumns(dump, company.SplitColumns...); err != nil {
		return res, perr.WithOp(err, "split")
	}

	release, err := s.Tree.Lock(ctx, s.Cfg.Owner)
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := release(); rerr != nil {
			l.Warn().Err(rerr).Msg("split: releasing tree lock failed")
		}
	}()

	res.Read = dump.Len()
	s.Metrics.Read(res.Read)

	company.Normalize(dump)

	if s.Cfg.FilterFlagged {
		res.Dropped, res.Checked = company.FilterFlagged(dump, s.Cfg.ExcludeFlags)
		if len(res.Checked) > 0 {
			s.Metrics.Dropped("flagged", res.Dropped)
			l.Info().Int("dropped", res.Dropped).Strs("columns", res.Checked).Msg("split: flagged rows removed")
		}
	}

	res.Filtered = company.FilterForms(dump, s.Cfg.Forms)
	if res.Filtered > 0 {
		s.Metrics.Dropped("form", res.Filtered)
		l.Info().Int("filtered", res.Filtered).Strs("forms", s.Cfg.Forms).Msg("split: rows outside form allow-list removed")
	}

	parts := shardtree.Partition(dump)
	for _, p := range parts {
		if len(res.Forms) == 0 || res.Forms[len(res.Forms)-1] != p.Form {
			res.Forms = append(res.Forms, p.Form)
		}
	}
	l.Info().Int("rows", dump.Len()).Int("forms", len(res.Forms)).Int("shards", len(parts)).Msg("split: partitioned")

	for _, p := range parts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.Tree.Write(ctx, p.Form, p.Key, p.Table); err != nil {
			return res, perr.WithOp(err, "split write "+p.Path())
		}
		n := p.Table.Len()
		s.Metrics.ShardWritten(n)
		res.Files++
		res.Rows += n
		res.Shards = append(res.Shards, shardtree.ShardCount{Shard: p.Shard, Rows: n})
		l.Debug().Str("path", p.Path()).Int("rows", n).Msg("split: shard written")
	}

	l.Info().Int("files", res.Files).Int("rows", res.Rows).Str("tree", s.Tree.Location()).Msg("split: done")
	return res, nil
}
