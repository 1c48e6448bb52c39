package main

import (
	"context"
	"fmt"

	"booking-reconciler/cmd/bootstrap"
	"booking-reconciler/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job>",
		Short: "Run one job once, under its lock, and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sched *scheduler.Scheduler
			app := fx.New(
				bootstrap.Module,
				fx.Populate(&sched),
				fx.NopLogger,
			)
			if err := app.Err(); err != nil {
				return err
			}
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
				defer cancel()
				_ = app.Stop(ctx)
			}()

			name := args[0]
			if err := sched.RunNow(cmd.Context(), name); err != nil {
				return fmt.Errorf("job %s: %w", name, err)
			}
			state, err := sched.Registry().State(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s finished in %s\n", name, state.LastDuration)
			return nil
		},
	}
}
