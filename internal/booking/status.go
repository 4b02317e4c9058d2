package booking

import "rental-booking-backend/internal/model"

// transitions is the legal status graph. Cancelled and completed are
// terminal and have no outgoing edges.
var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to model.ReservationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known reservation status.
func ValidStatus(s model.ReservationStatus) bool {
	switch s {
	case model.StatusPending, model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted:
		return true
	}
	return false
}
