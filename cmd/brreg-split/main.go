// Command brreg-split partitions the registry dump into companies/<FORM>/<KEY>.csv
package main

import (
	"os"

	"brreg/internal/modkit"
	"brreg/internal/platform/cli"
	splitmod "brreg/internal/services/split/module"

	"github.com/spf13/cobra"
)

const tool = "brreg-split"

func main() {
	os.Exit(cli.Execute(newCommand(), os.Stderr))
}

func newCommand() *cobra.Command {
	cmd, _ := cli.NewRoot(tool+" [dump.csv]", "Split the Brønnøysundregistrene dump into per form and name bucket CSV files")
	cmd.Args = cobra.MaximumNArgs(1)

	var (
		forms       string
		keepFlagged bool
	)
	cmd.Flags().StringVar(&forms, "forms", "", "comma separated organisation forms to keep (env BRREG_SPLIT_FORMS)")
	cmd.Flags().BoolVar(&keepFlagged, "keep-flagged", false, "keep companies flagged konkurs (env BRREG_DUMP_FILTER_FLAGGED=false)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := cli.SetEnv("BRREG_SPLIT_FORMS", forms); err != nil {
			return err
		}
		if keepFlagged {
			if err := cli.SetEnv("BRREG_DUMP_FILTER_FLAGGED", "false"); err != nil {
				return err
			}
		}

		ctx, run, err := modkit.Start(cmd.Context(), tool)
		if err != nil {
			return err
		}
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		_, err = splitmod.New(run.Deps).Run(ctx, path)
		return run.Finish(err)
	}
	return cmd
}
