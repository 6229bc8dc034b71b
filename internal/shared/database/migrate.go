package database

import (
	"bookingdesk/internal/bookings"
	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/invoices"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/users"

	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&events.Event{},
		&hotels.Hotel{},
		&hotels.Package{},
		&flights.Flight{},
		&transfers.Transfer{},
		&bookings.Booking{},
		&bookings.Voucher{},
		&invoices.Invoice{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
