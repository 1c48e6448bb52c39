package converter

import (
	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/infra/query"
	"booking-reconciler/internal/pkg/pgconv"

	"github.com/jinzhu/copier"
)

func BookingFromRow(row query.BookingRow) booking.Booking {
	return booking.Booking{
		ID:             row.ID,
		ServiceID:      row.ServiceID,
		CustomerID:     row.CustomerID,
		ProviderID:     row.ProviderID,
		Status:         booking.Status(row.Status),
		PaymentStatus:  booking.PaymentStatus(row.PaymentStatus),
		ScheduledStart: pgconv.TimeFromPgtype(row.ScheduledStart),
		ScheduledEnd:   pgconv.TimeFromPgtype(row.ScheduledEnd),
		DisputeReason:  pgconv.StringFromPgtype(row.DisputeReason),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func BookingsFromRows(rows []query.BookingRow) []booking.Booking {
	out := make([]booking.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, BookingFromRow(row))
	}
	return out
}

// ServicesFromRows and UsersFromRows rely on matching field names.
func ServicesFromRows(rows []query.ServiceRow) ([]booking.Service, error) {
	out := make([]booking.Service, 0, len(rows))
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, err
	}
	return out, nil
}

func UsersFromRows(rows []query.UserRow) ([]booking.User, error) {
	out := make([]booking.User, 0, len(rows))
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, err
	}
	return out, nil
}

func PatchToParams(b booking.Patch) query.UpdateBookingParams {
	var params query.UpdateBookingParams
	if b.Status != nil {
		params.Status = pgconv.NonEmptyToPgtype(string(*b.Status))
	}
	params.DisputeReason = pgconv.StringPtrToPgtype(b.DisputeReason)
	params.ExpectedStatus = pgconv.NonEmptyToPgtype(string(b.ExpectedStatus))
	return params
}

func StatusesToStrings(statuses []booking.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
