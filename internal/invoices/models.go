package invoices

import (
	"fmt"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
	StatusPaid  Status = "paid"
)

// next lists the only forward move out of each status
var next = map[Status]Status{
	StatusDraft: StatusSent,
	StatusSent:  StatusPaid,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid:
		return true
	}
	return false
}

// CanMove reports whether from -> to is an allowed invoice move
func CanMove(from, to Status) bool {
	n, ok := next[from]
	return ok && n == to
}

// Invoice is a tax document, optionally derived from a booking.
// TotalAmount is tax inclusive.
type Invoice struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	InvoiceNumber string            `json:"invoice_number" gorm:"uniqueIndex;size:32;not null"`
	BookingID     *uint             `json:"booking_id" gorm:"index"`
	Booking       *bookings.Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	ClientName    string            `json:"client_name" gorm:"size:255;not null"`
	ClientEmail   string            `json:"client_email" gorm:"size:255"`
	ClientAddress string            `json:"client_address" gorm:"size:255"`
	Description   string            `json:"description" gorm:"size:255"`
	TotalAmount   decimal.Decimal   `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Currency      string            `json:"currency" gorm:"type:varchar(3);default:'MAD'"`
	Status        Status            `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Notes         string            `json:"notes" gorm:"type:text"`
	PDFPath       *string           `json:"pdf_path"`
	PDFURL        string            `json:"pdf_url,omitempty" gorm:"-"`
	IssuedAt      time.Time         `json:"issued_at"`
	SentAt        *time.Time        `json:"sent_at,omitempty"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// NumberFor formats the n-th invoice of a year as INV-YYYY-NNNNN
func NumberFor(year, n int) string {
	return fmt.Sprintf("INV-%04d-%05d", year, n)
}

// StatusError rejects an invoice status change
type StatusError struct {
	InvoiceID uint
	From      Status
	To        Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invoice %d: cannot move from %s to %s", e.InvoiceID, e.From, e.To)
}

func (e *StatusError) Is(target error) bool { return target == apperror.ErrInvalidTransition }
