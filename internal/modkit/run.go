package modkit

import (
	"context"
	"os"
	"time"

	"brreg/internal/adapters/shardtree"
	"brreg/internal/platform/blob"
	"brreg/internal/platform/config"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/logger"
	"brreg/internal/platform/metrics"

	"github.com/google/uuid"
)

// EnvPrefix namespaces every tool setting
const EnvPrefix = "BRREG_"

// Run is one invocation of a batch tool
type Run struct {
	ID    string
	Tool  string
	Deps  Deps
	Start time.Time
}

var (
	newRunID = uuid.NewString
	openBlob = blob.Open
)

// Start loads dotenv files, tags ctx with a fresh run id and opens the shard tree
// The returned ctx carries the run for logger.C
func Start(ctx context.Context, tool string) (context.Context, *Run, error) {
	if _, err := config.Load(); err != nil {
		return ctx, nil, perr.Wrap(err, perr.ErrorCodeConfig, "load dotenv files")
	}
	id := newRunID()
	ctx = logger.WithRun(ctx, id, tool)
	log := logger.C(ctx)

	cfg := config.New().Prefix(EnvPrefix)
	st, err := openBlob(ctx, blob.FromConfig(cfg))
	if err != nil {
		return ctx, nil, err
	}

	r := &Run{
		ID:    id,
		Tool:  tool,
		Start: time.Now(),
		Deps: Deps{
			Log:     *log,
			Cfg:     cfg,
			Tree:    shardtree.New(st),
			Metrics: metrics.New(tool),
			Out:     os.Stdout,
			Owner:   tool + " " + id,
		},
	}
	log.Debug().Str("driver", string(st.Driver())).Str("tree", st.Location()).Msg("run started")
	return ctx, r, nil
}

// Finish records run metrics, writes the metrics textfile when configured and
// logs the outcome; err is returned unchanged
func (r *Run) Finish(err error) error {
	if r == nil {
		return err
	}
	log := r.Deps.Log
	r.Deps.Metrics.Finish(err)
	if ferr := r.Deps.Metrics.Flush(r.Deps.Cfg.MayString("METRICS_TEXTFILE", "")); ferr != nil {
		log.Warn().Err(ferr).Msg("metrics textfile not written")
	}

	evt := log.Info()
	if err != nil {
		evt = log.Error().Err(err).Str("code", perr.CodeOf(err).String())
	}
	evt.Dur("elapsed", time.Since(r.Start)).Msg("run finished")
	return err
}
