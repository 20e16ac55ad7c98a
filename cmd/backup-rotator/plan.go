package main

import (
	"github.com/spf13/cobra"
)

func newPlanCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which destination backups the policy keeps, without copying or deleting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, f, false)
			if err != nil {
				return err
			}

			log, err := newLogger(cmd, g, cfg)
			if err != nil {
				return err
			}

			rep, err := newEngine(cfg, log).Plan(cmd.Context(), cfg.Destination)
			if err != nil {
				return err
			}

			// a plan always lists its decisions
			verbosity := max(g.verbosity, 1)
			return writeReport(cmd.OutOrStdout(), rep, f.output, verbosity)
		},
	}

	f.register(cmd.Flags(), false)
	return cmd
}
