//go:build unit

package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"
	"booking-reconciler/internal/usecase/reconcile"
	"booking-reconciler/tests/common/builder"
	reconcilemock "booking-reconciler/tests/mock/reconcile"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const day = 24 * time.Hour

var sweepNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type PaymentSweeperTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockStorage  *reconcilemock.MockStorage
	mockNotifier *reconcilemock.MockNotifier
	metrics      *metrics.Metrics
	sweeper      reconcile.Sweeper
}

func (s *PaymentSweeperTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockStorage = reconcilemock.NewMockStorage(s.mockCtrl)
	s.mockNotifier = reconcilemock.NewMockNotifier(s.mockCtrl)
	s.metrics = metrics.New()

	sweeper, err := reconcile.NewPaymentSweeper(
		s.mockStorage,
		s.mockNotifier,
		booking.DefaultPaymentPolicy(),
		clock.NewMockClock(sweepNow),
		discardLogger(),
		s.metrics,
	)
	s.Require().NoError(err)
	s.sweeper = sweeper
}

func (s *PaymentSweeperTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentSweeperSuite(t *testing.T) {
	suite.Run(t, new(PaymentSweeperTestSuite))
}

func awaitingPayment(age time.Duration) *builder.BookingBuilder {
	return builder.NewBookingBuilder().
		WithStatus(booking.StatusAwaitingPayment).
		UpdatedAgo(sweepNow, age)
}

func (s *PaymentSweeperTestSuite) expectServicesFor(bookings ...booking.Booking) {
	services := make([]booking.Service, 0, len(bookings))
	for _, b := range bookings {
		services = append(services, booking.Service{ID: b.ServiceID, ProviderID: b.ProviderID, Name: "Deep cleaning"})
	}
	s.mockStorage.EXPECT().ServicesByIDs(gomock.Any(), gomock.Any()).Return(services, nil).Times(1)
}

func (s *PaymentSweeperTestSuite) expectUsersFor(bookings ...booking.Booking) {
	users := make([]booking.User, 0, 2*len(bookings))
	for _, b := range bookings {
		users = append(users,
			booking.User{ID: b.ProviderID, Name: "provider"},
			booking.User{ID: b.CustomerID, Name: "customer"},
		)
	}
	s.mockStorage.EXPECT().UsersByIDs(gomock.Any(), gomock.Any()).Return(users, nil).Times(1)
}

func (s *PaymentSweeperTestSuite) TestDisputesOverdueAndRemindsWaiting() {
	overdue := awaitingPayment(8 * day).Build()
	waiting := awaitingPayment(4 * day).Build()
	fresh := awaitingPayment(time.Hour).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{overdue, waiting, fresh}, nil).Times(1)

	var written booking.Patch
	s.mockStorage.EXPECT().UpdateBooking(gomock.Any(), overdue.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p booking.Patch) (booking.Booking, error) {
			written = p
			return p.ApplyTo(overdue, sweepNow), nil
		}).Times(1)
	s.mockNotifier.EXPECT().BookingDisputed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b booking.Booking) error {
			s.Equal(booking.StatusDisputed, b.Status)
			return nil
		}).Times(1)

	s.mockStorage.EXPECT().ServicesByIDs(gomock.Any(), []uuid.UUID{waiting.ServiceID}).
		Return([]booking.Service{{ID: waiting.ServiceID, ProviderID: waiting.ProviderID, Name: "Deep cleaning"}}, nil).Times(1)
	s.expectUsersFor(waiting)
	s.mockNotifier.EXPECT().PaymentReminder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r reconcile.PaymentReminder) error {
			s.Equal(waiting.ID, r.Booking.ID)
			s.Equal("Deep cleaning", r.Service.Name)
			s.Equal(waiting.ProviderID, r.Provider.ID)
			s.Equal(waiting.CustomerID, r.Customer.ID)
			s.Equal(4*day, r.Waiting)
			return nil
		}).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)

	s.Require().NotNil(written.Status)
	s.Equal(booking.StatusDisputed, *written.Status)
	s.Require().NotNil(written.DisputeReason)
	s.Equal("Payment confirmation overdue.", *written.DisputeReason)
	s.Equal(booking.StatusAwaitingPayment, written.ExpectedStatus)

	s.Equal(reconcile.JobPaymentReminder, report.Job)
	s.Equal(3, report.Candidates)
	s.Equal(1, report.Transitions)
	s.Equal(1, report.Reminders)
	s.Zero(report.Skipped)
	s.Zero(report.Failures)

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Transitions.WithLabelValues("awaiting_payment", "disputed")))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Reminders))
}

func (s *PaymentSweeperTestSuite) TestBatchLookupIsBoundedPerSweep() {
	serviceIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	providerIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	customerID := uuid.New()

	var candidates []booking.Booking
	for i := 0; i < 30; i++ {
		candidates = append(candidates, awaitingPayment(time.Duration(3*24+i)*time.Hour).
			WithService(serviceIDs[i%3], providerIDs[i%3]).
			With(func(b *builder.BookingBuilder) { b.CustomerID = customerID }).
			Build())
	}

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return(candidates, nil).Times(1)
	s.mockStorage.EXPECT().ServicesByIDs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids []uuid.UUID) ([]booking.Service, error) {
			s.ElementsMatch(serviceIDs, ids)
			services := make([]booking.Service, 0, len(serviceIDs))
			for i, id := range serviceIDs {
				services = append(services, booking.Service{ID: id, ProviderID: providerIDs[i]})
			}
			return services, nil
		}).Times(1)
	s.mockStorage.EXPECT().UsersByIDs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids []uuid.UUID) ([]booking.User, error) {
			s.ElementsMatch(append(append([]uuid.UUID{}, providerIDs...), customerID), ids)
			users := []booking.User{{ID: customerID}}
			for _, id := range providerIDs {
				users = append(users, booking.User{ID: id})
			}
			return users, nil
		}).Times(1)
	s.mockNotifier.EXPECT().PaymentReminder(gomock.Any(), gomock.Any()).Return(nil).Times(30)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(30, report.Reminders)
}

func (s *PaymentSweeperTestSuite) TestNoLookupsWithoutReminders() {
	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{awaitingPayment(time.Hour).Build()}, nil).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, report.Candidates)
	s.Zero(report.Reminders)
}

func (s *PaymentSweeperTestSuite) TestConflictLeavesBookingAlone() {
	overdue := awaitingPayment(9 * day).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{overdue}, nil).Times(1)
	s.mockStorage.EXPECT().UpdateBooking(gomock.Any(), overdue.ID, gomock.Any()).
		Return(booking.Booking{}, errs.Wrap(errs.ErrBookingStatusMoved, "update booking")).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, report.Skipped)
	s.Zero(report.Transitions)
}

func (s *PaymentSweeperTestSuite) TestWriteFailureDoesNotStopSweep() {
	broken := awaitingPayment(10 * day).Build()
	healthy := awaitingPayment(7 * day).Build()
	dbErr := errors.New("connection reset")

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{broken, healthy}, nil).Times(1)
	s.mockStorage.EXPECT().UpdateBooking(gomock.Any(), broken.ID, gomock.Any()).
		Return(booking.Booking{}, dbErr).Times(1)
	s.mockStorage.EXPECT().UpdateBooking(gomock.Any(), healthy.ID, gomock.Any()).
		Return(healthy, nil).Times(1)
	s.mockNotifier.EXPECT().BookingDisputed(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().Error(err)
	s.ErrorIs(err, dbErr)
	s.Equal(1, report.Failures)
	s.Equal(1, report.Transitions)
}

func (s *PaymentSweeperTestSuite) TestNotificationFailureAfterDisputeIsNotFatal() {
	overdue := awaitingPayment(8 * day).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{overdue}, nil).Times(1)
	s.mockStorage.EXPECT().UpdateBooking(gomock.Any(), overdue.ID, gomock.Any()).
		Return(overdue, nil).Times(1)
	s.mockNotifier.EXPECT().BookingDisputed(gomock.Any(), gomock.Any()).
		Return(errors.New("broker down")).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, report.Transitions)
}

func (s *PaymentSweeperTestSuite) TestReminderNotificationFailure() {
	waiting := awaitingPayment(5 * day).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{waiting}, nil).Times(1)
	s.expectServicesFor(waiting)
	s.expectUsersFor(waiting)
	s.mockNotifier.EXPECT().PaymentReminder(gomock.Any(), gomock.Any()).
		Return(errors.New("broker down")).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrNotificationFailure))
	s.Equal(1, report.Failures)
	s.Zero(report.Reminders)
}

func (s *PaymentSweeperTestSuite) TestMissingProviderSkipsReminder() {
	waiting := awaitingPayment(5 * day).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{waiting}, nil).Times(1)
	s.expectServicesFor(waiting)
	s.mockStorage.EXPECT().UsersByIDs(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, report.Skipped)
	s.Zero(report.Reminders)
}

func (s *PaymentSweeperTestSuite) TestMissingServiceSkipsReminder() {
	orphaned := awaitingPayment(4 * day).Build()
	waiting := awaitingPayment(5 * day).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{orphaned, waiting}, nil).Times(1)
	s.expectServicesFor(waiting)
	s.mockStorage.EXPECT().UsersByIDs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids []uuid.UUID) ([]booking.User, error) {
			s.NotContains(ids, orphaned.ProviderID)
			return []booking.User{{ID: waiting.ProviderID}, {ID: orphaned.CustomerID}, {ID: waiting.CustomerID}}, nil
		}).Times(1)
	s.mockNotifier.EXPECT().PaymentReminder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r reconcile.PaymentReminder) error {
			s.Equal(waiting.ID, r.Booking.ID)
			s.Equal(waiting.ServiceID, r.Service.ID)
			return nil
		}).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, report.Skipped)
	s.Equal(1, report.Reminders)
}

func (s *PaymentSweeperTestSuite) TestProviderResolvedThroughService() {
	waiting := awaitingPayment(4 * day).Build()
	currentProvider := uuid.New()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{waiting}, nil).Times(1)
	s.mockStorage.EXPECT().ServicesByIDs(gomock.Any(), []uuid.UUID{waiting.ServiceID}).
		Return([]booking.Service{{ID: waiting.ServiceID, ProviderID: currentProvider, Name: "Tutoring"}}, nil).Times(1)
	s.mockStorage.EXPECT().UsersByIDs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids []uuid.UUID) ([]booking.User, error) {
			s.ElementsMatch([]uuid.UUID{currentProvider, waiting.CustomerID}, ids)
			return []booking.User{{ID: currentProvider, Name: "Current provider"}, {ID: waiting.CustomerID}}, nil
		}).Times(1)
	s.mockNotifier.EXPECT().PaymentReminder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r reconcile.PaymentReminder) error {
			s.Equal(currentProvider, r.Provider.ID)
			s.Equal("Tutoring", r.Service.Name)
			return nil
		}).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().NoError(err)
	s.Equal(1, report.Reminders)
}

func (s *PaymentSweeperTestSuite) TestLookupFailure() {
	waiting := awaitingPayment(5 * day).Build()

	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return([]booking.Booking{waiting}, nil).Times(1)
	s.mockStorage.EXPECT().ServicesByIDs(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("statement timeout")).Times(1)

	report, err := s.sweeper.Sweep(context.Background())
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrStorageOperation))
	s.Equal(1, report.Failures)
}

func (s *PaymentSweeperTestSuite) TestListFailure() {
	s.mockStorage.EXPECT().BookingsByStatus(gomock.Any(), booking.StatusAwaitingPayment).
		Return(nil, errors.New("too many connections")).Times(1)

	_, err := s.sweeper.Sweep(context.Background())
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrStorageOperation))
}

func TestNewPaymentSweeperRejectsInvalidPolicy(t *testing.T) {
	_, err := reconcile.NewPaymentSweeper(nil, nil,
		booking.PaymentPolicy{ReminderAfter: 7 * day, DisputeAfter: 3 * day},
		clock.NewMockClock(sweepNow), discardLogger(), nil)
	if !errs.Is(err, errs.ErrInvalidPolicy) {
		t.Fatalf("expected invalid policy error, got %v", err)
	}
}
