package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRow struct {
	ID             uuid.UUID
	ServiceID      uuid.UUID
	CustomerID     uuid.UUID
	ProviderID     uuid.UUID
	Status         string
	PaymentStatus  string
	ScheduledStart pgtype.Timestamptz
	ScheduledEnd   pgtype.Timestamptz
	DisputeReason  pgtype.Text
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ServiceRow struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Name       string
}

type UserRow struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// UpdateBookingParams leaves a column untouched when its value is not
// Valid. ExpectedStatus, when Valid, restricts the update to rows still in
// that status.
type UpdateBookingParams struct {
	ID             uuid.UUID
	Status         pgtype.Text
	DisputeReason  pgtype.Text
	UpdatedAt      pgtype.Timestamptz
	ExpectedStatus pgtype.Text
}
