package services

import "github.com/yeremiapane/table-order/models"

// Disposition is the binary decision for the customer-facing view: show the
// live menu or drop to the notification screen.
type Disposition int

const (
	DispositionLive Disposition = iota
	DispositionRestricted
)

func (d Disposition) String() string {
	if d == DispositionLive {
		return "live"
	}
	return "restricted"
}

// DecideDisposition is pure: the ordering interface stays up only while the
// order is ORDERED and the table is not reserved. A fresh PENDING order is
// still waiting for staff confirmation and must not show the menu yet.
func DecideDisposition(tableStatus models.TableStatus, orderStatus models.OrderStatus) Disposition {
	if tableStatus == models.TableStatusReserved {
		return DispositionRestricted
	}

	switch orderStatus {
	case models.OrderStatusOrdered:
		return DispositionLive
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return DispositionRestricted
	}
	return DispositionRestricted
}

// CanTransition reports whether a forward status change is legal:
// PENDING -> ORDERED (staff confirmation), ORDERED -> COMPLETED (fulfilled),
// any non-terminal -> CANCELLED. COMPLETED and CANCELLED are terminal.
func CanTransition(from, to models.OrderStatus) bool {
	if from.Terminal() {
		return false
	}

	switch to {
	case models.OrderStatusOrdered:
		return from == models.OrderStatusPending
	case models.OrderStatusCompleted:
		return from == models.OrderStatusOrdered
	case models.OrderStatusCancelled:
		return true
	case models.OrderStatusPending:
		return false
	}
	return false
}
