//go:build unit

package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-reconciler/internal/lock"
	"booking-reconciler/internal/usecase/reconcile"
	reconcilemock "booking-reconciler/tests/mock/reconcile"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type stubSweeper struct {
	calls  int
	report reconcile.SweepReport
	err    error
}

func (s *stubSweeper) Sweep(context.Context) (reconcile.SweepReport, error) {
	s.calls++
	return s.report, s.err
}

func TestJobRun(t *testing.T) {
	opts := lock.Options{TTL: 10 * time.Minute}
	sweepErr := errors.New("1 booking(s) failed")

	tests := []struct {
		name       string
		result     lock.Result
		runFn      bool
		sweepErr   error
		wantErr    error
		wantSweeps int
	}{
		{name: "acquired", result: lock.Result{Acquired: true}, runFn: true, wantSweeps: 1},
		{name: "held elsewhere", result: lock.Result{}, wantSweeps: 0},
		{name: "fail closed", result: lock.Result{Degraded: true}, wantSweeps: 0},
		{name: "fail open", result: lock.Result{Acquired: true, Degraded: true}, runFn: true, wantSweeps: 1},
		{name: "sweep error propagates", result: lock.Result{Acquired: true}, runFn: true, sweepErr: sweepErr, wantErr: sweepErr, wantSweeps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			locker := reconcilemock.NewMockLocker(ctrl)
			sweeper := &stubSweeper{err: tt.sweepErr}

			locker.EXPECT().WithLock(gomock.Any(), reconcile.JobBookingExpiration, opts, gomock.Any()).
				DoAndReturn(func(ctx context.Context, _ string, _ lock.Options, fn func(context.Context) error) (lock.Result, error) {
					if !tt.runFn {
						return tt.result, nil
					}
					return tt.result, fn(ctx)
				}).Times(1)

			job := reconcile.NewJob(reconcile.JobBookingExpiration, locker, sweeper, opts, discardLogger())
			assert.Equal(t, reconcile.JobBookingExpiration, job.Name())

			err := job.Run(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantSweeps, sweeper.calls)
		})
	}
}

func TestJobsShareOneLease(t *testing.T) {
	manager := lock.NewManager(lock.Static(lock.NewMemoryStore(nil)))
	opts := lock.Options{TTL: time.Minute}

	inner := &stubSweeper{}
	innerJob := reconcile.NewJob(reconcile.JobPaymentReminder, manager, inner, opts, discardLogger())

	outer := &stubSweeperFunc{fn: func(ctx context.Context) (reconcile.SweepReport, error) {
		// A second run of the same job while the first holds the lease is skipped.
		return reconcile.SweepReport{}, innerJob.Run(ctx)
	}}
	outerJob := reconcile.NewJob(reconcile.JobPaymentReminder, manager, outer, opts, discardLogger())

	assert.NoError(t, outerJob.Run(context.Background()))
	assert.Equal(t, 0, inner.calls)
}

type stubSweeperFunc struct {
	fn func(ctx context.Context) (reconcile.SweepReport, error)
}

func (s *stubSweeperFunc) Sweep(ctx context.Context) (reconcile.SweepReport, error) {
	return s.fn(ctx)
}
