package bookings

import (
	"fmt"

	"bookingdesk/internal/shared/apperror"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// transitions lists the allowed moves out of each status
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusRefunded},
}

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether from -> to is an allowed move
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError rejects a status change; the booking is left unchanged
type TransitionError struct {
	BookingID uint
	From      Status
	To        Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %d: cannot move from %s to %s", e.BookingID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == apperror.ErrInvalidTransition }
