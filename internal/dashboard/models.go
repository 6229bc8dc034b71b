package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the back-office landing view. Invoice figures are only
// filled for admins.
type Summary struct {
	Scope            string           `json:"scope"`
	OrganizerID      *uint            `json:"organizer_id,omitempty"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	TotalBookings    int64            `json:"total_bookings"`
	ConfirmedRevenue decimal.Decimal  `json:"confirmed_revenue"`
	VouchersIssued   int64            `json:"vouchers_issued"`
	InvoicesByStatus map[string]int64 `json:"invoices_by_status,omitempty"`
	UpcomingFlights  int64            `json:"upcoming_flights"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

const (
	ScopeGlobal    = "global"
	ScopeOrganizer = "organizer"
)

// Scope narrows every query to one organizer's events when OrganizerID is set
type Scope struct {
	OrganizerID *uint
}

type statusCount struct {
	Status string
	Count  int64
}
