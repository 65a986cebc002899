package order

import "time"

// OrderCompletedEvent is emitted after the saga commits.
type OrderCompletedEvent struct {
	OrderID     string
	IdentityID  string
	TotalAmount int64
	OccurredAt  time.Time
}

func (OrderCompletedEvent) EventName() string { return "order.completed" }

func NewOrderCompletedEvent(o *Order) OrderCompletedEvent {
	return OrderCompletedEvent{
		OrderID:     o.ID,
		IdentityID:  o.IdentityID,
		TotalAmount: o.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
}

// OrderRejectedEvent is emitted when the saga aborts after side effects
// were attempted (payment or reservation stage). Compensated reports
// whether every compensating call succeeded.
type OrderRejectedEvent struct {
	IdentityID  string
	Reason      string
	Compensated bool
	OccurredAt  time.Time
}

func (OrderRejectedEvent) EventName() string { return "order.rejected" }

func NewOrderRejectedEvent(identityID, reason string, compensated bool) OrderRejectedEvent {
	return OrderRejectedEvent{
		IdentityID:  identityID,
		Reason:      reason,
		Compensated: compensated,
		OccurredAt:  time.Now().UTC(),
	}
}
