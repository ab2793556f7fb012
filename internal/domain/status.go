// Package domain defines the persistence models for screens, reservations,
// payments, and the processed-event ledger. These types are mapped with GORM
// and form the core data layer of the booking backend.
//
// This file models reservation and payment state as closed, typed constants
// with an explicit transition table. Every status change in the system goes
// through CanTransition / PaymentCanTransition; a transition not present in
// the table is rejected, which rules out invalid free-form status strings.
package domain

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation lifecycle:
//
//	pending → awaiting_payment → paid → completed
//	pending | awaiting_payment → cancelled
//	pending | awaiting_payment → expired
const (
	ReservationPending         ReservationStatus = "pending"
	ReservationAwaitingPayment ReservationStatus = "awaiting_payment"
	ReservationPaid            ReservationStatus = "paid"
	ReservationCompleted       ReservationStatus = "completed"
	ReservationCancelled       ReservationStatus = "cancelled"
	ReservationExpired         ReservationStatus = "expired"
)

// reservationTransitions is the authoritative transition table. A status maps
// to the exact set of statuses it may move to; terminal states map to nothing.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending: {
		ReservationAwaitingPayment,
		ReservationCancelled,
		ReservationExpired,
	},
	ReservationAwaitingPayment: {
		ReservationPaid,
		ReservationCancelled,
		ReservationExpired,
	},
	ReservationPaid: {
		ReservationCompleted,
	},
	ReservationCompleted: {},
	ReservationCancelled: {},
	ReservationExpired:   {},
}

// CanTransition reports whether moving a reservation from `from` to `to` is a
// legal step in the lifecycle.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveReservationStatuses are the statuses that occupy a slot on the screen
// calendar. Availability and conflict checks consider exactly this set.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationAwaitingPayment,
	ReservationPaid,
}

// IsActive reports whether a reservation in status s currently holds its slot.
func (s ReservationStatus) IsActive() bool {
	for _, a := range ActiveReservationStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

// PaymentStatus is the state of a single payment attempt.
type PaymentStatus string

// Payment attempt lifecycle: pending → completed | failed. Both outcomes are
// terminal; in particular a completed payment can never regress (monotonic
// transition guarantee relied on by the webhook reconciler).
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {},
	PaymentFailed:    {},
}

// PaymentCanTransition reports whether a payment attempt may move from `from`
// to `to`.
func PaymentCanTransition(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
