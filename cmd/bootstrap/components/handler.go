package components

import (
	"booking-reconciler/internal/handler"
	"booking-reconciler/internal/handler/api"
	"booking-reconciler/internal/lock"
	"booking-reconciler/internal/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewEngine,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewEngine() *gin.Engine {
	return gin.New()
}

func NewHandlers(s *scheduler.Scheduler, conn *lock.Connection) handler.Handlers {
	return handler.Handlers{
		Jobs:   api.NewJobsHandler(s),
		Health: api.NewHealthHandler(conn),
	}
}
