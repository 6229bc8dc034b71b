package transfers

import (
	"time"

	"github.com/shopspring/decimal"
)

type TripType string

const (
	TripArrival   TripType = "arrival"
	TripDeparture TripType = "departure"
	TripRoundTrip TripType = "round_trip"
)

type VehicleType string

const (
	VehicleSedan   VehicleType = "sedan"
	VehicleVan     VehicleType = "van"
	VehicleMinibus VehicleType = "minibus"
	VehicleCoach   VehicleType = "coach"
)

// Label returns the French wording used on vouchers
func (v VehicleType) Label() string {
	switch v {
	case VehicleSedan:
		return "Berline"
	case VehicleVan:
		return "Van"
	case VehicleMinibus:
		return "Minibus"
	case VehicleCoach:
		return "Autocar"
	}
	return string(v)
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Transfer struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	EventID         *uint           `json:"event_id" gorm:"index"`
	BookingID       *uint           `json:"booking_id" gorm:"index"`
	TripType        TripType        `json:"trip_type" gorm:"type:varchar(20);not null"`
	VehicleType     VehicleType     `json:"vehicle_type" gorm:"type:varchar(20);default:'sedan'"`
	PickupLocation  string          `json:"pickup_location" gorm:"size:255"`
	DropoffLocation string          `json:"dropoff_location" gorm:"size:255"`
	PickupAt        *time.Time      `json:"pickup_at"`
	Passengers      int             `json:"passengers" gorm:"default:1"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Status          Status          `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CreateTransferRequest struct {
	EventID         *uint           `json:"event_id"`
	TripType        TripType        `json:"trip_type" binding:"required,oneof=arrival departure round_trip"`
	VehicleType     VehicleType     `json:"vehicle_type" binding:"omitempty,oneof=sedan van minibus coach"`
	PickupLocation  string          `json:"pickup_location" binding:"required,max=255"`
	DropoffLocation string          `json:"dropoff_location" binding:"required,max=255"`
	PickupAt        *time.Time      `json:"pickup_at"`
	Passengers      int             `json:"passengers" binding:"omitempty,min=1,max=60"`
	Price           decimal.Decimal `json:"price"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type ListQuery struct {
	EventID     uint   `form:"event_id"`
	BookingID   uint   `form:"booking_id"`
	Status      Status `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	OrganizerID uint   `form:"-"`
}
