// Package service counts shard rows per organisation form
package service

import (
	"context"
	"slices"
	"sort"
	"strings"

	"brreg/internal/adapters/shardtree"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/logger"
	"brreg/internal/platform/metrics"
	dom "brreg/internal/services/stats/domain"
)

// DefaultTop is the number of shards listed per form
const DefaultTop = 5

// Config for the reporter
type Config struct {
	Top int
}

// Service implements domain.ReporterPort; it only reads and takes no lock
type Service struct {
	Tree    *shardtree.Tree
	Metrics *metrics.Metrics
	Cfg     Config
}

// New constructs the reporter
func New(tree *shardtree.Tree, met *metrics.Metrics, cfg Config) *Service {
	if tree == nil {
		panic("stats.Service requires a non nil shard tree")
	}
	if cfg.Top <= 0 {
		cfg.Top = DefaultTop
	}
	return &Service{Tree: tree, Metrics: met, Cfg: cfg}
}

// NormalizeForm trims and uppercases a form filter and maps it to its directory name
func NormalizeForm(form string) string {
	form = strings.ToUpper(strings.TrimSpace(form))
	if form == "" {
		return ""
	}
	return shardtree.FormDir(form)
}

// Stats counts every shard of every form, or of the one form named by filter
func (s *Service) Stats(ctx context.Context, filter string) (dom.Report, error) {
	l := logger.C(ctx).With().Str("mod", "stats").Logger()

	rep := dom.Report{Filter: NormalizeForm(filter)}
	forms, err := s.Tree.Forms(ctx)
	if err != nil {
		return rep, err
	}
	if len(forms) == 0 {
		return rep, perr.WithHints(
			perr.NotFoundf("no shard tree at %s", s.Tree.Location()),
			"run brreg-split first to create it",
		)
	}
	if rep.Filter != "" {
		if !slices.Contains(forms, rep.Filter) {
			return rep, perr.WithHints(perr.NotFoundf("organisation form %q not found", rep.Filter), forms...)
		}
		forms = []string{rep.Filter}
	}

	for _, form := range forms {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		fs, err := s.form(ctx, form, func(sh shardtree.Shard, err error) {
			rep.Unreadable++
			s.Metrics.ReadFailed()
			l.Warn().Str("path", sh.Path()).Err(err).Msg("stats: shard unreadable, skipped")
		})
		if err != nil {
			return rep, err
		}
		if fs.Files == 0 {
			continue
		}
		rep.Forms = append(rep.Forms, fs)
		rep.Total += fs.Total
		rep.Files += fs.Readable
	}

	s.Metrics.Read(rep.Total)
	l.Info().Int("forms", len(rep.Forms)).Int("total", rep.Total).Int("files", rep.Files).Msg("stats: done")
	return rep, nil
}

func (s *Service) form(ctx context.Context, form string, onErr func(shardtree.Shard, error)) (dom.FormStats, error) {
	fs := dom.FormStats{Form: form}
	shards, err := s.Tree.Shards(ctx, form)
	if err != nil {
		return fs, err
	}
	fs.Files = len(shards)
	for _, sh := range shards {
		n, err := s.Tree.Count(ctx, sh)
		if err != nil {
			onErr(sh, err)
			continue
		}
		fs.Readable++
		fs.Total += n
		fs.Shards = append(fs.Shards, dom.ShardStat{Key: sh.Key, Rows: n})
	}

	sort.Slice(fs.Shards, func(i, j int) bool {
		if fs.Shards[i].Rows != fs.Shards[j].Rows {
			return fs.Shards[i].Rows > fs.Shards[j].Rows
		}
		return fs.Shards[i].Key < fs.Shards[j].Key
	})
	for i := range fs.Shards {
		fs.Shards[i].Pct = percent(fs.Shards[i].Rows, fs.Total)
	}
	fs.Top = fs.Shards[:min(s.Cfg.Top, len(fs.Shards))]
	return fs, nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
