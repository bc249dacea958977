// Command brreg-merge adds companies from a newer dump to an existing shard tree
package main

import (
	"os"

	"brreg/internal/modkit"
	"brreg/internal/platform/cli"
	mergemod "brreg/internal/services/merge/module"

	"github.com/spf13/cobra"
)

const tool = "brreg-merge"

func main() {
	os.Exit(cli.Execute(newCommand(), os.Stderr))
}

func newCommand() *cobra.Command {
	cmd, _ := cli.NewRoot(tool+" [dump.csv]", "Merge companies missing from the shard tree in from a newer dump")
	cmd.Args = cobra.MaximumNArgs(1)

	var keepFlagged bool
	cmd.Flags().BoolVar(&keepFlagged, "keep-flagged", false, "keep companies flagged konkurs (env BRREG_DUMP_FILTER_FLAGGED=false)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
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
		_, err = mergemod.New(run.Deps).Run(ctx, path)
		return run.Finish(err)
	}
	return cmd
}
