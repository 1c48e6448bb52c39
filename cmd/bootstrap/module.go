package bootstrap

import (
	"booking-reconciler/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module wires everything a job run needs without starting anything.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	ObservabilityModule,
	DBModule,
	LockModule,
	components.RepositoryModule,
	components.NotifierModule,
	components.UseCaseModule,
	SchedulerModule,
)

// ServeModule adds the cron loop and the ops HTTP server.
var ServeModule = fx.Options(
	components.HandlerModule,
	fx.Invoke(
		StartScheduler,
		StartOpsServer,
	),
)
