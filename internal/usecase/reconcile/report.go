package reconcile

import (
	"log/slog"
	"time"
)

// SweepReport summarises one sweep.
type SweepReport struct {
	Job         string
	Candidates  int
	Transitions int
	Reminders   int
	Skipped     int
	Failures    int
	Duration    time.Duration
}

func (r SweepReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("job", r.Job),
		slog.Int("candidates", r.Candidates),
		slog.Int("transitions", r.Transitions),
		slog.Int("reminders", r.Reminders),
		slog.Int("skipped", r.Skipped),
		slog.Int("failures", r.Failures),
		slog.Duration("duration", r.Duration),
	)
}
