package booking

import (
	"fmt"
	"time"

	"booking-reconciler/internal/pkg/errs"
	"booking-reconciler/internal/pkg/ptr"
)

const PaymentOverdueReason = "Payment confirmation overdue."

const (
	DefaultReminderAfter = 3 * 24 * time.Hour
	DefaultDisputeAfter  = 7 * 24 * time.Hour
)

type Action string

const (
	ActionNone    Action = "none"
	ActionRemind  Action = "remind"
	ActionDispute Action = "dispute"
	ActionExpire  Action = "expire"
)

func (a Action) String() string {
	return string(a)
}

// Decision is the outcome of evaluating one booking. Patch is only
// meaningful when Action changes the status.
type Decision struct {
	Action Action
	From   Status
	To     Status
	Patch  Patch
}

func (d Decision) ChangesStatus() bool {
	return d.Action == ActionDispute || d.Action == ActionExpire
}

var noAction = Decision{Action: ActionNone}

// PaymentPolicy holds the cutoffs measured against UpdatedAt. Both cutoffs
// are inclusive: a booking exactly ReminderAfter old is reminded and one
// exactly DisputeAfter old is disputed.
type PaymentPolicy struct {
	ReminderAfter time.Duration
	DisputeAfter  time.Duration
}

func DefaultPaymentPolicy() PaymentPolicy {
	return PaymentPolicy{ReminderAfter: DefaultReminderAfter, DisputeAfter: DefaultDisputeAfter}
}

func NewPaymentPolicy(reminderAfter, disputeAfter time.Duration) (PaymentPolicy, error) {
	p := PaymentPolicy{ReminderAfter: reminderAfter, DisputeAfter: disputeAfter}
	if err := p.Validate(); err != nil {
		return PaymentPolicy{}, err
	}
	return p, nil
}

func (p PaymentPolicy) Validate() error {
	if p.ReminderAfter <= 0 {
		return errs.Mark(fmt.Errorf("reminder cutoff must be positive, got %s", p.ReminderAfter), errs.ErrInvalidPolicy)
	}
	if p.DisputeAfter <= p.ReminderAfter {
		return errs.Mark(
			fmt.Errorf("dispute cutoff %s must exceed reminder cutoff %s", p.DisputeAfter, p.ReminderAfter),
			errs.ErrInvalidPolicy,
		)
	}
	return nil
}

// Evaluate decides what the payment sweep does with b. Dispute takes
// precedence over reminder; anything not awaiting payment is left alone.
func (p PaymentPolicy) Evaluate(b Booking, now time.Time) Decision {
	if b.Status != StatusAwaitingPayment {
		return noAction
	}

	elapsed := b.Elapsed(now)
	switch {
	case elapsed >= p.DisputeAfter:
		to := StatusDisputed
		return Decision{
			Action: ActionDispute,
			From:   b.Status,
			To:     to,
			Patch: Patch{
				Status:         &to,
				DisputeReason:  ptr.Of(PaymentOverdueReason),
				ExpectedStatus: b.Status,
			},
		}
	case elapsed >= p.ReminderAfter:
		return Decision{Action: ActionRemind, From: b.Status, To: b.Status}
	default:
		return noAction
	}
}

// EvaluateExpiration expires bookings still waiting on the provider once
// their scheduled slot has fully elapsed.
func EvaluateExpiration(b Booking, now time.Time) Decision {
	if !b.Status.AwaitsProvider() || !b.SlotElapsed(now) {
		return noAction
	}
	to := StatusExpired
	return Decision{
		Action: ActionExpire,
		From:   b.Status,
		To:     to,
		Patch:  Patch{Status: &to, ExpectedStatus: b.Status},
	}
}

// ExpirableStatuses lists the source statuses the expiration sweep reads.
func ExpirableStatuses() []Status {
	return []Status{StatusPending, StatusRescheduledPendingProviderApproval}
}
