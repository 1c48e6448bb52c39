package notifier

import (
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/usecase/reconcile"

	"github.com/google/uuid"
)

const (
	EventPaymentReminder = "booking.payment_reminder"
	EventBookingDisputed = "booking.disputed"
	EventBookingExpired  = "booking.expired"
)

// Event is the payload published for every notification. Recipient
// details are only filled for reminders.
type Event struct {
	Type          string     `json:"type"`
	BookingID     uuid.UUID  `json:"bookingId"`
	ServiceID     uuid.UUID  `json:"serviceId"`
	CustomerID    uuid.UUID  `json:"customerId"`
	ProviderID    uuid.UUID  `json:"providerId"`
	Status        string     `json:"status"`
	DisputeReason string     `json:"disputeReason,omitempty"`
	ServiceName   string     `json:"serviceName,omitempty"`
	Provider      *Recipient `json:"provider,omitempty"`
	WaitingHours  int        `json:"waitingHours,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func bookingEvent(eventType string, b booking.Booking, at time.Time) Event {
	return Event{
		Type:          eventType,
		BookingID:     b.ID,
		ServiceID:     b.ServiceID,
		CustomerID:    b.CustomerID,
		ProviderID:    b.ProviderID,
		Status:        string(b.Status),
		DisputeReason: b.DisputeReason,
		OccurredAt:    at,
	}
}

func reminderEvent(r reconcile.PaymentReminder, at time.Time) Event {
	e := bookingEvent(EventPaymentReminder, r.Booking, at)
	e.ServiceName = r.Service.Name
	e.Provider = &Recipient{Name: r.Provider.Name, Email: r.Provider.Email, Phone: r.Provider.Phone}
	e.WaitingHours = int(r.Waiting / time.Hour)
	return e
}
