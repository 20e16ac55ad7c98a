package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	cfgFile   string
	verbosity int
	logFormat string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "backup-rotator",
		Short: "Sync database backups and apply tiered retention",
		Long: `backup-rotator copies new backup files from a source directory into a
destination directory, never overwriting or deleting anything there, and then
thins the destination:

  1. Keep ALL files newer than --keep-all days
  2. Keep 1 per DAY for files newer than --keep-daily days
  3. Keep 1 per WEEK for files newer than --keep-weekly days
  4. Keep 1 per MONTH for all older files

Backup files are recognized by .sql, .bz2 or .gz in their name, and dated by a
YYYYMMDD-HHMMSS, YYYYMMDD_HHMMSS or YYYY-MM-DD token in it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.cfgFile, "config", "c", "", "config file path (YAML)")
	root.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "increase verbosity (-v, -vv, -vvv)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newRunCmd(g),
		newPlanCmd(g),
		newWatchCmd(g),
		newVersionCmd(),
	)

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
