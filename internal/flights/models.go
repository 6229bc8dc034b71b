package flights

import (
	"time"

	"bookingdesk/internal/users"

	"github.com/shopspring/decimal"
)

type Class string

const (
	ClassEconomy        Class = "economy"
	ClassPremiumEconomy Class = "premium_economy"
	ClassBusiness       Class = "business"
	ClassFirst          Class = "first"
)

type Category string

const (
	CategoryOneWay    Category = "one_way"
	CategoryRoundTrip Category = "round_trip"
)

type TripType string

const (
	TripArrival   TripType = "arrival"
	TripDeparture TripType = "departure"
	TripBoth      TripType = "both"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusTicketed  Status = "ticketed"
	StatusCancelled Status = "cancelled"
)

type Flight struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	EventID            *uint           `json:"event_id" gorm:"index"`
	BookingID          *uint           `json:"booking_id" gorm:"index"`
	UserID             *uint           `json:"user_id" gorm:"index"`
	User               *users.User     `json:"passenger,omitempty" gorm:"foreignKey:UserID"`
	Airline            string          `json:"airline" gorm:"size:100"`
	FlightNumber       string          `json:"flight_number" gorm:"size:20"`
	DepartureAirport   string          `json:"departure_airport" gorm:"size:10"`
	ArrivalAirport     string          `json:"arrival_airport" gorm:"size:10"`
	DepartureAt        *time.Time      `json:"departure_at"`
	ReturnFlightNumber string          `json:"return_flight_number" gorm:"size:20"`
	ReturnDepartureAt  *time.Time      `json:"return_departure_at"`
	FlightClass        Class           `json:"flight_class" gorm:"type:varchar(20);default:'economy'"`
	FlightCategory     Category        `json:"flight_category" gorm:"type:varchar(20);default:'one_way'"`
	TripType           TripType        `json:"trip_type" gorm:"type:varchar(20)"`
	Price              decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	ReturnPrice        decimal.Decimal `json:"return_price" gorm:"type:decimal(12,2);not null;default:0"`
	Status             Status          `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TicketPath         *string         `json:"ticket_path"`
	TicketURL          string          `json:"ticket_url,omitempty" gorm:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Total is the sum of both price legs
func (f *Flight) Total() decimal.Decimal {
	return f.Price.Add(f.ReturnPrice)
}

// Route renders "CMN-RAK" style summaries
func (f *Flight) Route() string {
	return f.DepartureAirport + "-" + f.ArrivalAirport
}

type CreateFlightRequest struct {
	EventID            *uint           `json:"event_id"`
	UserID             *uint           `json:"user_id"`
	Airline            string          `json:"airline" binding:"required,max=100"`
	FlightNumber       string          `json:"flight_number" binding:"required,max=20"`
	DepartureAirport   string          `json:"departure_airport" binding:"required,max=10"`
	ArrivalAirport     string          `json:"arrival_airport" binding:"required,max=10"`
	DepartureAt        *time.Time      `json:"departure_at"`
	ReturnFlightNumber string          `json:"return_flight_number" binding:"max=20"`
	ReturnDepartureAt  *time.Time      `json:"return_departure_at"`
	FlightClass        Class           `json:"flight_class" binding:"omitempty,oneof=economy premium_economy business first"`
	FlightCategory     Category        `json:"flight_category" binding:"required,oneof=one_way round_trip"`
	TripType           TripType        `json:"trip_type" binding:"omitempty,oneof=arrival departure both"`
	Price              decimal.Decimal `json:"price"`
	ReturnPrice        decimal.Decimal `json:"return_price"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending ticketed cancelled"`
}

type ListQuery struct {
	EventID   uint   `form:"event_id"`
	BookingID uint   `form:"booking_id"`
	Status    Status `form:"status" binding:"omitempty,oneof=pending ticketed cancelled"`
	// OrganizerID is forced by the service for organizers
	OrganizerID uint `form:"-"`
}
