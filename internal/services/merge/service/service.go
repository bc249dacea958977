// Package service merges a newer registry dump into an existing shard tree
package service

import (
	"context"

	"brreg/internal/adapters/csvtable"
	"brreg/internal/adapters/shardtree"
	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/logger"
	"brreg/internal/platform/metrics"
	dom "brreg/internal/services/merge/domain"
)

// Config controls row filtering and lock ownership
type Config struct {
	FilterFlagged bool
	ExcludeFlags  []string
	Owner         string
}

// Service implements domain.MergerPort on a shard tree
type Service struct {
	Tree    *shardtree.Tree
	Metrics *metrics.Metrics
	Cfg     Config
}

// New constructs the merger
func New(tree *shardtree.Tree, met *metrics.Metrics, cfg Config) *Service {
	if tree == nil {
		panic("merge.Service requires a non nil shard tree")
	}
	if cfg.ExcludeFlags == nil {
		cfg.ExcludeFlags = company.DefaultExcludeFlags
	}
	if cfg.Owner == "" {
		cfg.Owner = "brreg-merge"
	}
	return &Service{Tree: tree, Metrics: met, Cfg: cfg}
}

// MergeFile reads the dump at path and merges it
func (s *Service) MergeFile(ctx context.Context, path string) (dom.Result, error) {
	logger.C(ctx).Info().Str("path", path).Msg("merge: loading dump")
	t, err := csvtable.ReadFile(path)
	if err != nil {
		return dom.Result{}, err
	}
	return s.Merge(ctx, t)
}

// Merge appends rows whose registry number the tree has not seen to their shards
// Existing rows are never rewritten or reordered; an empty candidate set writes nothing
func (s *Service) Merge(ctx context.Context, dump *company.Table) (dom.Result, error) {
	l := logger.C(ctx).With().Str("mod", "merge").Logger()

	var res dom.Result
	if err := company.RequireColumns(dump, company.MergeColumns...); err != nil {
		return res, perr.WithOp(err, "merge")
	}

	// checked before locking; taking the fs lock creates the root directory
	ok, err := s.Tree.Exists(ctx)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, perr.WithHints(
			perr.NotFoundf("no shard tree at %s", s.Tree.Location()),
			"run brreg-split first to create it",
		)
	}

	release, err := s.Tree.Lock(ctx, s.Cfg.Owner)
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := release(); rerr != nil {
			l.Warn().Err(rerr).Msg("merge: releasing tree lock failed")
		}
	}()

	res.Read = dump.Len()
	s.Metrics.Read(res.Read)
	company.Normalize(dump)

	if s.Cfg.FilterFlagged {
		res.Dropped, res.Checked = company.FilterFlagged(dump, s.Cfg.ExcludeFlags)
		if len(res.Checked) > 0 {
			s.Metrics.Dropped("flagged", res.Dropped)
			l.Info().Int("dropped", res.Dropped).Strs("columns", res.Checked).Msg("merge: flagged rows removed")
		}
	}

	seen, err := s.Tree.ScanNumbers(ctx, nil, func(sh shardtree.Shard, err error) {
		res.Unreadable++
		s.Metrics.ReadFailed()
		l.Warn().Str("path", sh.Path()).Err(err).Msg("merge: shard unreadable, skipped")
	})
	if err != nil {
		return res, err
	}
	res.Existing = seen.Len()
	l.Info().Int("existing", res.Existing).Int("unreadable", res.Unreadable).Msg("merge: tree scanned")

	candidates := s.candidates(dump, seen, &res)
	res.Candidates = candidates.Len()
	s.Metrics.Dropped("empty_number", res.SkippedEmpty)
	s.Metrics.Dropped("duplicate", res.Duplicates)
	if res.Candidates == 0 {
		l.Info().Msg("merge: no new companies")
		return res, nil
	}

	for _, p := range shardtree.Partition(candidates) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := s.apply(ctx, p)
		if err != nil {
			return res, err
		}
		s.Metrics.ShardWritten(n)
		res.Added += n
		res.Shards = append(res.Shards, shardtree.ShardCount{Shard: p.Shard, Rows: n})
		l.Debug().Str("path", p.Path()).Int("added", n).Msg("merge: shard updated")
	}

	l.Info().Int("added", res.Added).Int("shards", len(res.Shards)).Msg("merge: done")
	return res, nil
}

// candidates returns the dump rows with a number not in seen; every accepted number
// is added to seen so a number repeated inside the dump is taken once
func (s *Service) candidates(dump *company.Table, seen *company.NumberSet, res *dom.Result) *company.Table {
	ni := dump.Index(company.ColNumber)
	taken := company.NewNumberSet()
	out := dump.Empty()
	for _, r := range dump.Rows {
		n := r[ni]
		switch {
		case n == "":
			res.SkippedEmpty++
		case taken.Has(n):
			res.Duplicates++
		case seen.Has(n):
			// already in the tree
		default:
			seen.Add(n)
			taken.Add(n)
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// apply appends one part to its shard, creating the shard when absent
func (s *Service) apply(ctx context.Context, p shardtree.Part) (int, error) {
	has, err := s.Tree.Has(ctx, p.Form, p.Key)
	if err != nil {
		return 0, err
	}
	out := p.Table
	if has {
		existing, err := s.Tree.Read(ctx, p.Form, p.Key)
		if err != nil {
			// rewriting an unreadable shard would lose its rows
			return 0, perr.WithOp(err, "merge read "+p.Path())
		}
		out = company.Merge(existing, p.Table)
	}
	if err := s.Tree.Write(ctx, p.Form, p.Key, out); err != nil {
		return 0, perr.WithOp(err, "merge write "+p.Path())
	}
	return p.Table.Len(), nil
}
