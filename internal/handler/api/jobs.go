package api

//go:generate mockgen -source=jobs.go -destination=../../../tests/mock/api/jobs_mock.go -package=apimock

import (
	"net/http"

	resdto "booking-reconciler/internal/handler/dto/response"
	"booking-reconciler/internal/handler/httperr"
	"booking-reconciler/internal/pkg/errs"
	"booking-reconciler/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// JobScheduler is the part of the scheduler the ops endpoints drive.
type JobScheduler interface {
	Jobs() []scheduler.JobState
	Trigger(name string) error
}

type JobsHandler struct {
	jobs JobScheduler
}

func NewJobsHandler(jobs JobScheduler) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

func (h *JobsHandler) List(c *gin.Context) {
	res, err := resdto.FromJobStates(h.jobs.Jobs())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to read job state", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": res})
}

// Run starts the named job in the background. The lock still applies, so a
// run already in progress elsewhere makes this one a no-op.
func (h *JobsHandler) Run(c *gin.Context) {
	name := c.Param("name")
	err := h.jobs.Trigger(name)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, resdto.TriggerResponse{Job: name, Status: "accepted"})
	case errs.Is(err, errs.ErrJobNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown job", gin.H{"job": name})
	case errs.Is(err, scheduler.ErrNotRunning):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Scheduler is not running", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to trigger job", nil)
	}
}
