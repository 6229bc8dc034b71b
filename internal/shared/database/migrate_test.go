package database

import (
	"testing"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/invoices"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestMigrateCreatesEveryTable(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "events", "flights", "bookings", "vouchers", "invoices"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.Len(t, Models(), 9)
}

func TestMigrateConstraintsIsIdempotent(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, MigrateConstraints(db))
	require.NoError(t, MigrateConstraints(db))
}

func TestOneInvoicePerBooking(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, MigrateConstraints(db))

	b := bookings.Booking{Reference: "BK-1", GuestName: "A", GuestEmail: "a@example.com", Status: bookings.StatusConfirmed}
	require.NoError(t, db.Create(&b).Error)

	newInvoice := func(n int, bookingID *uint) *invoices.Invoice {
		return &invoices.Invoice{
			InvoiceNumber: invoices.NumberFor(2026, n),
			BookingID:     bookingID,
			ClientName:    "A",
			TotalAmount:   decimal.NewFromInt(10),
			IssuedAt:      time.Now(),
		}
	}

	require.NoError(t, db.Create(newInvoice(1, &b.ID)).Error)
	assert.Error(t, db.Create(newInvoice(2, &b.ID)).Error)

	// standalone invoices are not limited
	require.NoError(t, db.Create(newInvoice(3, nil)).Error)
	require.NoError(t, db.Create(newInvoice(4, nil)).Error)
}
