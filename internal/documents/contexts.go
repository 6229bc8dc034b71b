package documents

import (
	"time"

	"github.com/shopspring/decimal"
)

// Template names accepted by Render
const (
	TemplateInvoice              = "invoice"
	TemplateVoucher              = "voucher"
	TemplateOrganizerCredentials = "organizer-credentials"
)

// Placeholder is printed for any missing voucher field
const Placeholder = "—"

// Party is a name and contact block printed on a document
type Party struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxID   string
}

// InvoiceLine is one billed item. UnitPrice is tax inclusive.
type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Total is quantity times unit price, a zero quantity counting as one
func (l InvoiceLine) Total() decimal.Decimal {
	q := l.Quantity
	if q <= 0 {
		q = 1
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
}

type InvoiceContext struct {
	Number           string
	IssuedAt         time.Time
	Client           Party
	BookingReference string
	Lines            []InvoiceLine
	// TotalAmount is the TTC total; it wins over the sum of lines
	TotalAmount decimal.Decimal
	Currency    string
	Notes       string
	GeneratedAt time.Time
}

type FlightSummary struct {
	Airline            string
	FlightNumber       string
	From               string
	To                 string
	DepartureAt        *time.Time
	Class              string
	Category           string
	ReturnFlightNumber string
	ReturnDepartureAt  *time.Time
}

type TransferSummary struct {
	TripType   string
	Vehicle    string
	Pickup     string
	Dropoff    string
	PickupAt   *time.Time
	Passengers int
}

type VoucherContext struct {
	VoucherNumber    string
	BookingReference string
	Status           string
	IssuedAt         time.Time

	GuestName  string
	GuestEmail string
	GuestPhone string

	EventName string

	HotelName    string
	HotelStars   int
	HotelAddress string
	HotelCity    string
	HotelPhone   string
	PackageName  string
	RoomType     string
	RateBasis    string
	CheckIn      *time.Time
	CheckOut     *time.Time

	Flights   []FlightSummary
	Transfers []TransferSummary

	Price       decimal.Decimal
	Currency    string
	GeneratedAt time.Time
}

type CredentialsContext struct {
	Name        string
	Email       string
	Password    string
	Role        string
	LoginURL    string
	GeneratedAt time.Time
}
