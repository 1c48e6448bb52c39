package main

import (
	"context"
	"log/slog"
	"time"

	"booking-reconciler/cmd/bootstrap"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const stopTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the job scheduler and the ops HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				bootstrap.Module,
				bootstrap.ServeModule,
				fx.StopTimeout(stopTimeout),
				fx.NopLogger,
			)

			if err := app.Start(cmd.Context()); err != nil {
				return err
			}

			select {
			case <-cmd.Context().Done():
			case <-app.Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			if err := app.Stop(ctx); err != nil {
				slog.Error("failed to stop cleanly", "error", err)
				return err
			}
			slog.Info("reconciler stopped")
			return nil
		},
	}
}
