package invoices

import (
	"bookingdesk/internal/shared/utils/params"

	"github.com/shopspring/decimal"
)

type CreateInvoiceRequest struct {
	ClientName    string          `json:"client_name" binding:"required,min=2,max=255"`
	ClientEmail   string          `json:"client_email" binding:"omitempty,email"`
	ClientAddress string          `json:"client_address" binding:"max=255"`
	Description   string          `json:"description" binding:"max=255"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

type FromBookingRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Notes     string `json:"notes" binding:"max=2000"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=draft sent paid"`
}

type ListQuery struct {
	params.Page
	Status    Status `form:"status" binding:"omitempty,oneof=draft sent paid"`
	BookingID uint   `form:"booking_id"`
	Search    string `form:"search"`
}

type PaginatedInvoices struct {
	Invoices   []Invoice `json:"invoices"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
