package bookings

import "fmt"

// InvalidTransitionError reports a booking status change the lifecycle
// does not permit
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

// validTransitions encodes the booking lifecycle. Decline is the only
// backwards edge: an assigned or accepted booking returns to the
// pending pool.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusAccepted, StatusPending, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusPending, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether the lifecycle permits from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates and returns the target status
func Transition(from, to BookingStatus) (BookingStatus, error) {
	if !CanTransition(from, to) {
		return from, &InvalidTransitionError{From: from, To: to}
	}
	return to, nil
}

// IsTerminal reports whether a status admits no further transitions
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsOpen reports whether the booking still demands work: it blocks
// property deactivation and counts toward the franchisee's active load
func (s BookingStatus) IsOpen() bool {
	return !s.IsTerminal()
}

// IsCancellable reports whether a customer may still cancel. Work in
// progress and terminal states cannot be cancelled.
func (s BookingStatus) IsCancellable() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusAccepted:
		return true
	}
	return false
}
