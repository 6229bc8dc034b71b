package invoices

import (
	"time"

	"bookingdesk/internal/documents"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/transfers"

	"github.com/shopspring/decimal"
)

// BuildContext lists one line per billed item of the linked booking, or a
// single line for a manual invoice.
func BuildContext(inv *Invoice, now time.Time) documents.InvoiceContext {
	ctx := documents.InvoiceContext{
		Number:      inv.InvoiceNumber,
		IssuedAt:    inv.IssuedAt,
		Client:      documents.Party{Name: inv.ClientName, Email: inv.ClientEmail, Address: inv.ClientAddress},
		TotalAmount: inv.TotalAmount,
		Currency:    inv.Currency,
		Notes:       inv.Notes,
		GeneratedAt: now,
	}

	if b := inv.Booking; b != nil {
		ctx.BookingReference = b.Reference
		if b.Package != nil {
			desc := "Hébergement " + b.Package.Name
			if b.Hotel != nil {
				desc = "Hébergement " + b.Hotel.Name + " - " + b.Package.Name
			}
			ctx.Lines = append(ctx.Lines, documents.InvoiceLine{Description: desc, Quantity: 1, UnitPrice: b.Package.Price})
		}
		for i := range b.Flights {
			f := &b.Flights[i]
			if f.Status == flights.StatusCancelled {
				continue
			}
			ctx.Lines = append(ctx.Lines, documents.InvoiceLine{
				Description: "Vol " + f.FlightNumber + " " + f.Route(),
				Quantity:    1,
				UnitPrice:   f.Price,
			})
			if f.ReturnPrice.IsPositive() {
				ctx.Lines = append(ctx.Lines, documents.InvoiceLine{
					Description: "Vol retour " + f.ReturnFlightNumber,
					Quantity:    1,
					UnitPrice:   f.ReturnPrice,
				})
			}
		}
		for i := range b.Transfers {
			t := &b.Transfers[i]
			if t.Status == transfers.StatusCancelled {
				continue
			}
			ctx.Lines = append(ctx.Lines, documents.InvoiceLine{
				Description: "Transfert " + t.VehicleType.Label() + " " + t.PickupLocation + " - " + t.DropoffLocation,
				Quantity:    1,
				UnitPrice:   t.Price,
			})
		}
	}

	if len(ctx.Lines) == 0 || !linesTotal(ctx.Lines).Equal(inv.TotalAmount) {
		desc := inv.Description
		if desc == "" {
			desc = "Prestation"
		}
		ctx.Lines = []documents.InvoiceLine{{Description: desc, Quantity: 1, UnitPrice: inv.TotalAmount}}
	}
	return ctx
}

func linesTotal(lines []documents.InvoiceLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
