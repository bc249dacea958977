// Package cli holds the cobra plumbing shared by the brreg tools
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"brreg/internal/core/version"
	perr "brreg/internal/platform/errors"

	"github.com/spf13/cobra"
)

// Globals are the persistent flags every tool accepts
type Globals struct {
	TreeRoot        string
	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

// NewRoot builds a root command with the shared persistent flags
// Flag values are copied into the environment before RunE so module config and
// the logger read them like any other setting
func NewRoot(use, short string) (*cobra.Command, *Globals) {
	g := &Globals{}
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       version.Info().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.apply()
		},
	}
	f := cmd.PersistentFlags()
	f.StringVar(&g.TreeRoot, "root", "", "shard tree directory (env BRREG_TREE_ROOT, default companies)")
	f.StringVar(&g.LogLevel, "log-level", "", "trace|debug|info|warn|error (env LOG_LEVEL)")
	f.StringVar(&g.LogFormat, "log-format", "", "console|json (env LOG_FORMAT)")
	f.StringVar(&g.MetricsTextfile, "metrics-textfile", "", "write run metrics in textfile format (env BRREG_METRICS_TEXTFILE)")
	return cmd, g
}

func (g *Globals) apply() error {
	for k, v := range map[string]string{
		"BRREG_TREE_ROOT":        g.TreeRoot,
		"LOG_LEVEL":              g.LogLevel,
		"LOG_FORMAT":             g.LogFormat,
		"BRREG_METRICS_TEXTFILE": g.MetricsTextfile,
	} {
		if err := SetEnv(k, v); err != nil {
			return err
		}
	}
	return nil
}

// SetEnv copies a non-empty flag value into the environment
func SetEnv(key, val string) error {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	if err := os.Setenv(key, val); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "set %s", key)
	}
	return nil
}

// Execute runs cmd under a ctx canceled by SIGINT or SIGTERM and maps the
// outcome to a process exit status
func Execute(cmd *cobra.Command, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, cmd, stderr)
}

func run(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return perr.ExitOK
	}
	if _, ours := perr.As(err); !ours {
		if errors.Is(err, context.Canceled) {
			err = perr.Wrap(err, perr.ErrorCodeUnknown, "interrupted")
		} else {
			// cobra's own argument and flag errors
			err = perr.Wrap(err, perr.ErrorCodeInvalidArgument, "usage")
		}
	}
	Report(stderr, err)
	return perr.ExitCode(err)
}

// Report prints err and its hints as a bulleted list
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err)
	for _, h := range perr.HintsOf(err) {
		fmt.Fprintf(w, "  • %s\n", h)
	}
}
