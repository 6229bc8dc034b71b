package bookings

import "time"

// TransitionResult reports a committed (or no-op) status change
type TransitionResult struct {
	Booking  *Booking `json:"booking"`
	From     Status   `json:"from"`
	NoOp     bool     `json:"no_op"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *TransitionResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

type PaginatedBookings struct {
	Bookings   []Booking `json:"bookings"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// SweepResult counts what one pending sweep did
type SweepResult struct {
	Scanned   int `json:"scanned"`
	Cancelled int `json:"cancelled"`
	Skipped   int `json:"skipped"`
}

// StatusChangedEvent is published after every committed transition
type StatusChangedEvent struct {
	Type       string    `json:"type"`
	BookingID  uint      `json:"booking_id"`
	Reference  string    `json:"reference"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	ActorID    uint      `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)
