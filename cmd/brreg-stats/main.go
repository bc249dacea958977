// Command brreg-stats prints company counts per organisation form and shard
package main

import (
	"os"
	"strconv"

	"brreg/internal/modkit"
	"brreg/internal/platform/cli"
	statsmod "brreg/internal/services/stats/module"

	"github.com/spf13/cobra"
)

const tool = "brreg-stats"

func main() {
	os.Exit(cli.Execute(newCommand(), os.Stderr))
}

func newCommand() *cobra.Command {
	cmd, _ := cli.NewRoot(tool+" [FORM]", "Report company counts per organisation form and shard")
	cmd.Args = cobra.MaximumNArgs(1)

	var (
		xlsx string
		top  int
	)
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the report as an xlsx workbook (env BRREG_STATS_XLSX)")
	cmd.Flags().IntVar(&top, "top", 0, "shards listed per form (env BRREG_STATS_TOP, default 5)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if top > 0 {
			if err := cli.SetEnv("BRREG_STATS_TOP", strconv.Itoa(top)); err != nil {
				return err
			}
		}

		ctx, run, err := modkit.Start(cmd.Context(), tool)
		if err != nil {
			return err
		}
		var form string
		if len(args) > 0 {
			form = args[0]
		}
		_, err = statsmod.New(run.Deps).Run(ctx, form, xlsx)
		return run.Finish(err)
	}
	return cmd
}
