package repository

import (
	"context"
	"log/slog"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/infra"
	"booking-reconciler/internal/infra/query"
	"booking-reconciler/internal/infra/repository/converter"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"
	"booking-reconciler/internal/pkg/pgconv"
	"booking-reconciler/internal/usecase/reconcile"

	"github.com/google/uuid"
)

type BookingQueries interface {
	ListBookingsByStatus(ctx context.Context, statuses []string) ([]query.BookingRow, error)
	UpdateBooking(ctx context.Context, arg query.UpdateBookingParams) (query.BookingRow, error)
	BookingStatus(ctx context.Context, id uuid.UUID) (string, error)
	ListServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]query.ServiceRow, error)
	ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]query.UserRow, error)
}

type bookingRepository struct {
	queries BookingQueries
	clock   clock.Clock
	logger  *slog.Logger
}

func NewBookingRepository(queries BookingQueries, clock clock.Clock, logger *slog.Logger) reconcile.Storage {
	return &bookingRepository{
		queries: queries,
		clock:   clock,
		logger:  logger,
	}
}

func (r *bookingRepository) BookingsByStatus(ctx context.Context, statuses ...booking.Status) ([]booking.Booking, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	rows, err := r.queries.ListBookingsByStatus(ctx, converter.StatusesToStrings(statuses))
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list bookings by status", err)
	}
	return converter.BookingsFromRows(rows), nil
}

func (r *bookingRepository) UpdateBooking(ctx context.Context, id uuid.UUID, patch booking.Patch) (booking.Booking, error) {
	if patch.IsEmpty() {
		return booking.Booking{}, errs.Newf("empty patch for booking %s", id)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return booking.Booking{}, errs.Newf("invalid booking status %q", *patch.Status)
	}

	params := converter.PatchToParams(patch)
	params.ID = id
	if patch.Status != nil {
		params.UpdatedAt = pgconv.TimeToPgtype(r.clock.Now())
	}

	row, err := r.queries.UpdateBooking(ctx, params)
	if err == nil {
		return converter.BookingFromRow(row), nil
	}
	if !pgconv.IsNoRows(err) {
		return booking.Booking{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update booking", err)
	}

	// No row matched: either the booking is gone or its status moved on.
	current, statusErr := r.queries.BookingStatus(ctx, id)
	switch {
	case pgconv.IsNoRows(statusErr):
		return booking.Booking{}, errs.Mark(
			infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err),
			errs.ErrBookingNotFound,
		)
	case statusErr != nil:
		return booking.Booking{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read booking status", statusErr)
	default:
		r.logger.Debug("booking status guard rejected update",
			"booking_id", id, "expected", patch.ExpectedStatus, "current", current)
		return booking.Booking{}, errs.Mark(
			infra.WrapRepoErr(r.logger, infra.KindConflict, "booking status moved", err),
			errs.ErrBookingStatusMoved,
		)
	}
}

func (r *bookingRepository) ServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]booking.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.queries.ListServicesByIDs(ctx, ids)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load services", err)
	}
	return converter.ServicesFromRows(rows)
}

func (r *bookingRepository) UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]booking.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.queries.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load users", err)
	}
	return converter.UsersFromRows(rows)
}
