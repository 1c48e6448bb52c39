package main

import (
	"context"
	"fmt"
	"time"

	"booking-reconciler/cmd/bootstrap/components"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/scheduler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newJobsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List configured jobs and validate their schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			out, err := renderJobs(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// renderJobs validates every schedule against a throwaway registry so a bad
// cron expression or time zone fails here instead of at serve time.
func renderJobs(cfg config.Config) (string, error) {
	registry := scheduler.NewRegistry()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Job", "Schedule", "Time zone", "Lock TTL"})

	for _, s := range components.JobSchedules(cfg) {
		if err := registry.Register(s.Name, noop); err != nil {
			return "", err
		}
		if err := registry.Schedule(s.Name, s.Cron, cfg.Jobs.TimeZone); err != nil {
			return "", err
		}
		tw.AppendRow(table.Row{s.Name, s.Cron, cfg.Jobs.TimeZone, s.LockTTL.Round(time.Second).String()})
	}
	return tw.Render(), nil
}

func noop(context.Context) error { return nil }
