//go:build unit

package reconcile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/lock"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"
	"booking-reconciler/internal/usecase/reconcile"
	"booking-reconciler/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStorage is an in-process Storage that counts calls.
type memoryStorage struct {
	mu       sync.Mutex
	clock    clock.Clock
	bookings map[uuid.UUID]booking.Booking
	services map[uuid.UUID]booking.Service
	users    map[uuid.UUID]booking.User

	updates      int
	serviceLoads int
	userLoads    int
}

func newMemoryStorage(c clock.Clock) *memoryStorage {
	return &memoryStorage{
		clock:    c,
		bookings: make(map[uuid.UUID]booking.Booking),
		services: make(map[uuid.UUID]booking.Service),
		users:    make(map[uuid.UUID]booking.User),
	}
}

func (m *memoryStorage) add(b booking.Booking) {
	m.bookings[b.ID] = b
	m.services[b.ServiceID] = booking.Service{ID: b.ServiceID, ProviderID: b.ProviderID, Name: "Home salon"}
	m.users[b.ProviderID] = booking.User{ID: b.ProviderID, Name: "Provider"}
	m.users[b.CustomerID] = booking.User{ID: b.CustomerID, Name: "Customer"}
}

func (m *memoryStorage) BookingsByStatus(_ context.Context, statuses ...booking.Status) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []booking.Booking
	for _, b := range m.bookings {
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (m *memoryStorage) UpdateBooking(_ context.Context, id uuid.UUID, p booking.Patch) (booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return booking.Booking{}, errs.ErrBookingNotFound
	}
	if p.ExpectedStatus != "" && b.Status != p.ExpectedStatus {
		return booking.Booking{}, errs.ErrBookingStatusMoved
	}
	m.updates++
	b = p.ApplyTo(b, m.clock.Now())
	m.bookings[id] = b
	return b, nil
}

func (m *memoryStorage) ServicesByIDs(_ context.Context, ids []uuid.UUID) ([]booking.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serviceLoads++
	var out []booking.Service
	for _, id := range ids {
		if s, ok := m.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStorage) UsersByIDs(_ context.Context, ids []uuid.UUID) ([]booking.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userLoads++
	var out []booking.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu        sync.Mutex
	reminders []reconcile.PaymentReminder
	disputed  []booking.Booking
	expired   []booking.Booking
}

func (r *recordingNotifier) PaymentReminder(_ context.Context, pr reconcile.PaymentReminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = append(r.reminders, pr)
	return nil
}

func (r *recordingNotifier) BookingDisputed(_ context.Context, b booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disputed = append(r.disputed, b)
	return nil
}

func (r *recordingNotifier) BookingExpired(_ context.Context, b booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, b)
	return nil
}

func TestPaymentReminderJobEndToEnd(t *testing.T) {
	clk := clock.NewMockClock(sweepNow)
	store := newMemoryStorage(clk)
	notifier := &recordingNotifier{}

	overdue := awaitingPayment(8 * day).Build()
	waiting := awaitingPayment(4 * day).Build()
	store.add(overdue)
	store.add(waiting)

	policy, err := booking.NewPaymentPolicy(3*day, 7*day)
	require.NoError(t, err)
	sweeper, err := reconcile.NewPaymentSweeper(store, notifier, policy, clk, discardLogger(), nil)
	require.NoError(t, err)

	manager := lock.NewManager(lock.Static(lock.NewMemoryStore(clk)))
	job := reconcile.NewJob(reconcile.JobPaymentReminder, manager, sweeper, lock.Options{TTL: 10 * time.Minute}, discardLogger())

	require.NoError(t, job.Run(context.Background()))

	got := store.bookings[overdue.ID]
	assert.Equal(t, booking.StatusDisputed, got.Status)
	assert.Equal(t, "Payment confirmation overdue.", got.DisputeReason)
	assert.Equal(t, sweepNow, got.UpdatedAt)

	untouched := store.bookings[waiting.ID]
	assert.Equal(t, waiting, untouched, "reminders never write")
	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, waiting.ID, notifier.reminders[0].Booking.ID)
	assert.Equal(t, "Home salon", notifier.reminders[0].Service.Name)
	require.Len(t, notifier.disputed, 1)

	assert.Equal(t, 1, store.updates)
	assert.Equal(t, 1, store.serviceLoads)
	assert.Equal(t, 1, store.userLoads)
}

func TestPaymentSweepWithoutServiceSendsNoReminder(t *testing.T) {
	clk := clock.NewMockClock(sweepNow)
	store := newMemoryStorage(clk)
	notifier := &recordingNotifier{}

	waiting := awaitingPayment(4 * day).Build()
	store.add(waiting)
	delete(store.services, waiting.ServiceID)

	sweeper, err := reconcile.NewPaymentSweeper(store, notifier, booking.DefaultPaymentPolicy(), clk, discardLogger(), nil)
	require.NoError(t, err)

	report, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Reminders)
	assert.Empty(t, notifier.reminders)
	assert.Zero(t, store.updates)
}

func TestPaymentSweepRerunIsIdempotent(t *testing.T) {
	clk := clock.NewMockClock(sweepNow)
	store := newMemoryStorage(clk)
	for i := 0; i < 5; i++ {
		store.add(awaitingPayment(time.Duration(7*24+i) * time.Hour).Build())
	}
	sweeper, err := reconcile.NewPaymentSweeper(store, &recordingNotifier{}, booking.DefaultPaymentPolicy(), clk, discardLogger(), nil)
	require.NoError(t, err)

	first, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, first.Transitions)

	clk.Add(time.Hour)
	second, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Candidates, "disputed bookings are no longer candidates")
	assert.Zero(t, second.Transitions)
	assert.Equal(t, 5, store.updates)
}

func TestExpirationSweepRerunIsIdempotent(t *testing.T) {
	clk := clock.NewMockClock(sweepNow)
	store := newMemoryStorage(clk)
	store.add(builder.NewBookingBuilder().SlotEndedAgo(sweepNow, time.Hour).Build())
	store.add(builder.NewBookingBuilder().WithStatus(booking.StatusAccepted).SlotEndedAgo(sweepNow, time.Hour).Build())
	notifier := &recordingNotifier{}
	sweeper := reconcile.NewExpirationSweeper(store, notifier, clk, discardLogger(), nil)

	first, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Transitions)

	second, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Transitions)
	assert.Equal(t, 1, store.updates)
	assert.Len(t, notifier.expired, 1)
}
