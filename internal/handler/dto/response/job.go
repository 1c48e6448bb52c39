package response

import (
	"time"

	"booking-reconciler/internal/scheduler"

	"github.com/jinzhu/copier"
)

type JobResponse struct {
	Name           string     `json:"name"`
	Schedule       string     `json:"schedule,omitempty"`
	TimeZone       string     `json:"timeZone,omitempty"`
	Scheduled      bool       `json:"scheduled"`
	Running        bool       `json:"running"`
	LastRunAt      *time.Time `json:"lastRunAt,omitempty"`
	LastDurationMs int64      `json:"lastDurationMs"`
	LastError      string     `json:"lastError,omitempty"`
	Runs           int64      `json:"runs"`
	Failures       int64      `json:"failures"`
	NextRunAt      *time.Time `json:"nextRunAt,omitempty"`
}

func FromJobState(s scheduler.JobState) (JobResponse, error) {
	var res JobResponse
	if err := copier.Copy(&res, &s); err != nil {
		return JobResponse{}, err
	}
	res.LastRunAt = optionalTime(s.LastRun)
	res.NextRunAt = optionalTime(s.NextRun)
	res.LastDurationMs = s.LastDuration.Milliseconds()
	return res, nil
}

func FromJobStates(states []scheduler.JobState) ([]JobResponse, error) {
	res := make([]JobResponse, 0, len(states))
	for _, s := range states {
		r, err := FromJobState(s)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

type TriggerResponse struct {
	Job    string `json:"job"`
	Status string `json:"status"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	LockBackend string `json:"lockBackend"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
