package booking

type Status string

const (
	StatusPending                            Status = "pending"
	StatusAccepted                           Status = "accepted"
	StatusRejected                           Status = "rejected"
	StatusRescheduled                        Status = "rescheduled"
	StatusRescheduledPendingProviderApproval Status = "rescheduled_pending_provider_approval"
	StatusCompleted                          Status = "completed"
	StatusCancelled                          Status = "cancelled"
	StatusExpired                            Status = "expired"
	StatusAwaitingPayment                    Status = "awaiting_payment"
	StatusDisputed                           Status = "disputed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusRescheduled,
		StatusRescheduledPendingProviderApproval, StatusCompleted, StatusCancelled,
		StatusExpired, StatusAwaitingPayment, StatusDisputed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no reconciliation job will ever move the booking again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled, StatusExpired, StatusDisputed:
		return true
	default:
		return false
	}
}

// AwaitsProvider reports whether the booking is blocked on a provider decision,
// which is what makes it eligible for expiry once its slot has passed.
func (s Status) AwaitsProvider() bool {
	return s == StatusPending || s == StatusRescheduledPendingProviderApproval
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentVerifying PaymentStatus = "verifying"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentVerifying, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}
