package bookings

import (
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/transfers"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultCurrency = "MAD"

// Booking defines the main booking structure
type Booking struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Reference   string          `json:"reference" gorm:"uniqueIndex;size:32;not null"`
	GuestName   string          `json:"guest_name" gorm:"size:255;not null"`
	GuestEmail  string          `json:"guest_email" gorm:"size:255;not null"`
	GuestPhone  string          `json:"guest_phone" gorm:"size:50"`
	UserID      *uint           `json:"user_id" gorm:"index"`
	EventID     *uint           `json:"event_id" gorm:"index"`
	HotelID     *uint           `json:"hotel_id" gorm:"index"`
	PackageID   *uint           `json:"package_id" gorm:"index"`
	CheckIn     *time.Time      `json:"check_in"`
	CheckOut    *time.Time      `json:"check_out"`
	Status      Status          `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Currency    string          `json:"currency" gorm:"type:varchar(3);default:'MAD'"`
	Notes       string          `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt  *time.Time      `json:"refunded_at,omitempty"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relationships
	Event     *events.Event        `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Hotel     *hotels.Hotel        `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	Package   *hotels.Package      `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	Flights   []flights.Flight     `json:"flights,omitempty" gorm:"foreignKey:BookingID"`
	Transfers []transfers.Transfer `json:"transfers,omitempty" gorm:"foreignKey:BookingID"`
	Voucher   *Voucher             `json:"voucher,omitempty" gorm:"foreignKey:BookingID"`
}

// Voucher is the one-per-booking confirmation document
type Voucher struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	VoucherNumber string    `json:"voucher_number" gorm:"uniqueIndex;size:64;not null"`
	BookingID     uint      `json:"booking_id" gorm:"uniqueIndex;not null"`
	PDFPath       *string   `json:"pdf_path"`
	PDFURL        string    `json:"pdf_url,omitempty" gorm:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

func (Voucher) TableName() string {
	return "vouchers"
}

// VoucherNumberFor derives the voucher number from a booking reference
func VoucherNumberFor(reference string) string {
	return "VCH-" + reference
}

// ComputePrice sums the package with every attached flight and transfer.
// Relations must be preloaded.
func (b *Booking) ComputePrice() decimal.Decimal {
	total := decimal.Zero
	if b.Package != nil {
		total = total.Add(b.Package.Price)
	}
	for i := range b.Flights {
		if b.Flights[i].Status == flights.StatusCancelled {
			continue
		}
		total = total.Add(b.Flights[i].Total())
	}
	for i := range b.Transfers {
		if b.Transfers[i].Status == transfers.StatusCancelled {
			continue
		}
		total = total.Add(b.Transfers[i].Price)
	}
	return total.Round(2)
}

func (b *Booking) IsPending() bool   { return b.Status == StatusPending }
func (b *Booking) IsConfirmed() bool { return b.Status == StatusConfirmed }
func (b *Booking) IsCancelled() bool { return b.Status == StatusCancelled }

// stamp records the timestamp matching a status change
func (b *Booking) stamp(to Status, at time.Time) {
	b.Status = to
	b.UpdatedAt = at
	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &at
	case StatusCancelled:
		b.CancelledAt = &at
	case StatusRefunded:
		b.RefundedAt = &at
	}
}
