// Command brreg-export loads the shard tree into postgres, clickhouse or sqlite
package main

import (
	"context"
	"os"
	"strconv"

	"brreg/internal/modkit"
	"brreg/internal/platform/cli"
	exportmod "brreg/internal/services/export/module"

	"github.com/spf13/cobra"
)

const tool = "brreg-export"

func main() {
	os.Exit(cli.Execute(newCommand(), os.Stderr))
}

func newCommand() *cobra.Command {
	cmd, _ := cli.NewRoot(tool, "Upsert every company in the shard tree into a database table")
	cmd.Args = cobra.NoArgs

	var (
		driver, table, forms string
		batch                int
	)
	f := cmd.Flags()
	f.StringVar(&driver, "driver", "", "pg|ch|sqlite (env BRREG_EXPORT_DRIVER, default sqlite)")
	f.StringVar(&table, "table", "", "target table (env BRREG_EXPORT_TABLE, default companies)")
	f.StringVar(&forms, "forms", "", "comma separated organisation forms to export (env BRREG_EXPORT_FORMS)")
	f.IntVar(&batch, "batch", 0, "rows per write (env BRREG_EXPORT_BATCH, default 5000)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		env := map[string]string{
			"BRREG_EXPORT_DRIVER": driver,
			"BRREG_EXPORT_TABLE":  table,
			"BRREG_EXPORT_FORMS":  forms,
		}
		if batch > 0 {
			env["BRREG_EXPORT_BATCH"] = strconv.Itoa(batch)
		}
		for k, v := range env {
			if err := cli.SetEnv(k, v); err != nil {
				return err
			}
		}

		ctx, run, err := modkit.Start(cmd.Context(), tool)
		if err != nil {
			return err
		}
		m, err := exportmod.New(ctx, run.Deps)
		if err != nil {
			return run.Finish(err)
		}
		defer func() {
			if cerr := m.Close(context.Background()); cerr != nil {
				run.Deps.Log.Warn().Err(cerr).Msg("export: close store failed")
			}
		}()
		_, err = m.Run(ctx)
		return run.Finish(err)
	}
	return cmd
}
