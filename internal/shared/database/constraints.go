package database

import (
	"fmt"

	"gorm.io/gorm"
)

// partial unique index: a booking has at most one invoice
const invoicePerBookingIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_one_per_booking
	ON invoices (booking_id) WHERE booking_id IS NOT NULL`

var checkConstraints = []struct {
	table, name, check string
}{
	{"bookings", "chk_bookings_status", "status IN ('pending','confirmed','cancelled','refunded')"},
	{"bookings", "chk_bookings_price", "price >= 0"},
	{"invoices", "chk_invoices_status", "status IN ('draft','sent','paid')"},
	{"invoices", "chk_invoices_total", "total_amount >= 0"},
	{"flights", "chk_flights_status", "status IN ('pending','ticketed','cancelled')"},
}

// MigrateConstraints adds the guards AutoMigrate cannot express.
// CHECK constraints are PostgreSQL only; the index works on SQLite too.
func MigrateConstraints(db *gorm.DB) error {
	if err := db.Exec(invoicePerBookingIndex).Error; err != nil {
		return fmt.Errorf("invoice per booking index: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, c := range checkConstraints {
		if db.Migrator().HasConstraint(c.table, c.name) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", c.table, c.name, c.check)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}
