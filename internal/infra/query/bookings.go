package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, service_id, customer_id, provider_id, status, payment_status,
       scheduled_start, scheduled_end, dispute_reason, created_at, updated_at`

const listBookingsByStatus = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE status = ANY($1::text[])
ORDER BY updated_at, id
`

func (q *Queries) ListBookingsByStatus(ctx context.Context, statuses []string) ([]BookingRow, error) {
	rows, err := q.db.Query(ctx, listBookingsByStatus, statuses)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (BookingRow, error) {
		return scanBooking(row)
	})
}

const updateBooking = `
UPDATE bookings
SET status         = COALESCE($2, status),
    dispute_reason = COALESCE($3, dispute_reason),
    updated_at     = COALESCE($4, updated_at)
WHERE id = $1
  AND ($5::text IS NULL OR status = $5)
RETURNING ` + bookingColumns

// UpdateBooking returns pgx.ErrNoRows when no row matched the id and the
// expected status.
func (q *Queries) UpdateBooking(ctx context.Context, arg UpdateBookingParams) (BookingRow, error) {
	row := q.db.QueryRow(ctx, updateBooking,
		arg.ID, arg.Status, arg.DisputeReason, arg.UpdatedAt, arg.ExpectedStatus)
	return scanBooking(row)
}

const bookingStatus = `SELECT status FROM bookings WHERE id = $1`

func (q *Queries) BookingStatus(ctx context.Context, id uuid.UUID) (string, error) {
	var status string
	err := q.db.QueryRow(ctx, bookingStatus, id).Scan(&status)
	return status, err
}

const listServicesByIDs = `
SELECT id, provider_id, name
FROM services
WHERE id = ANY($1::uuid[])
`

func (q *Queries) ListServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]ServiceRow, error) {
	rows, err := q.db.Query(ctx, listServicesByIDs, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (ServiceRow, error) {
		var s ServiceRow
		err := row.Scan(&s.ID, &s.ProviderID, &s.Name)
		return s, err
	})
}

const listUsersByIDs = `
SELECT id, name, email, phone
FROM users
WHERE id = ANY($1::uuid[])
`

func (q *Queries) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]UserRow, error) {
	rows, err := q.db.Query(ctx, listUsersByIDs, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (UserRow, error) {
		var u UserRow
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone)
		return u, err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (BookingRow, error) {
	var b BookingRow
	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.CustomerID,
		&b.ProviderID,
		&b.Status,
		&b.PaymentStatus,
		&b.ScheduledStart,
		&b.ScheduledEnd,
		&b.DisputeReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}
