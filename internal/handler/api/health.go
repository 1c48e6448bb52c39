package api

import (
	"net/http"

	resdto "booking-reconciler/internal/handler/dto/response"
	"booking-reconciler/internal/lock"

	"github.com/gin-gonic/gin"
)

type LockBackend interface {
	State() lock.State
}

type HealthHandler struct {
	backend LockBackend
}

func NewHealthHandler(backend LockBackend) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health always answers 200: an unreachable lock backend degrades job
// coordination but does not make the process unhealthy.
func (h *HealthHandler) Health(c *gin.Context) {
	state := lock.StateUnconfigured
	if h.backend != nil {
		state = h.backend.State()
	}
	c.JSON(http.StatusOK, resdto.HealthResponse{Status: "ok", LockBackend: state.String()})
}
