package models

// statusTransitions is the order lifecycle graph. There are no self-edges:
// requesting the current status is an invalid transition, never a silent
// advance. Delivered and Cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// paymentCompletionOn maps each payment method to the order status at which
// a pending payment is considered completed. Cash on delivery completes when
// the goods arrive; electronic methods complete once the order is confirmed.
var paymentCompletionOn = map[PaymentMethod]OrderStatus{
	PaymentCard:   StatusConfirmed,
	PaymentPaypal: StatusConfirmed,
	PaymentUPI:    StatusConfirmed,
	PaymentCOD:    StatusDelivered,
}

// ValidStatus reports whether s is one of the enumerated lifecycle states.
func ValidStatus(s OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition checks whether the lifecycle graph permits moving from one
// status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given state.
func AllowedTransitions(from OrderStatus) []OrderStatus {
	allowed := statusTransitions[from]
	out := make([]OrderStatus, len(allowed))
	copy(out, allowed)
	return out
}

// PaymentStatusAfter applies the payment completion policy to a transition:
// a pending payment completes when the order reaches the method's completion
// status, and fails when the order is cancelled. Completed and failed
// payments are never changed by order transitions.
func PaymentStatusAfter(p Payment, newStatus OrderStatus) PaymentStatus {
	if p.Status != PaymentPending {
		return p.Status
	}
	if newStatus == StatusCancelled {
		return PaymentFailed
	}
	if completeOn, ok := paymentCompletionOn[p.Method]; ok && completeOn == newStatus {
		return PaymentCompleted
	}
	return PaymentPending
}
