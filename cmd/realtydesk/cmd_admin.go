package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talkincode/realtydesk/internal/app"
)

func (c *cli) adminCommands() []*cobra.Command {
	return []*cobra.Command{c.seedCmd(), c.scheduleCmd()}
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample listings and clients",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.SeedSampleData(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d properties, %d clients\n", res.Properties, res.Clients)
			return nil
		},
	}
}

func (c *cli) scheduleCmd() *cobra.Command {
	var runNow []string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the report and snapshot jobs on their cron schedule until interrupted",
		Long: `Run the jobs configured under jobs.report_spec and jobs.snapshot_spec.
Reports go to report.dir (default <workdir>/reports), snapshots to
<workdir>/backup.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			for _, name := range runNow {
				if err := c.app.RunJobNow(ctx, name); err != nil {
					return err
				}
			}
			n := c.app.StartScheduler()
			zap.L().Info("scheduler started", zap.Int("jobs", n))
			fmt.Fprintf(cmd.ErrOrStderr(), "%d jobs scheduled, press Ctrl-C to stop\n", n)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&runNow, "run-now", nil,
		fmt.Sprintf("jobs to run once before scheduling (%s, %s)", app.JobReport, app.JobSnapshot))
	return cmd
}
