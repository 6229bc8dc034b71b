package vouchers

import (
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/documents"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/transfers"
)

// BuildContext flattens a booking and its relations into what the voucher
// template prints. Missing relations leave fields empty.
func BuildContext(b *bookings.Booking, v *bookings.Voucher, now time.Time) documents.VoucherContext {
	ctx := documents.VoucherContext{
		VoucherNumber:    v.VoucherNumber,
		BookingReference: b.Reference,
		Status:           string(b.Status),
		IssuedAt:         v.CreatedAt,
		GuestName:        b.GuestName,
		GuestEmail:       b.GuestEmail,
		GuestPhone:       b.GuestPhone,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		Price:            b.Price,
		Currency:         b.Currency,
		GeneratedAt:      now,
	}
	if ctx.IssuedAt.IsZero() {
		ctx.IssuedAt = now
	}

	if b.Event != nil {
		ctx.EventName = b.Event.Name
	}
	if h := b.Hotel; h != nil {
		ctx.HotelName = h.Name
		ctx.HotelStars = h.Stars
		ctx.HotelAddress = h.Address
		ctx.HotelCity = h.City
		ctx.HotelPhone = h.Phone
	}
	if p := b.Package; p != nil {
		ctx.PackageName = p.Name
		ctx.RoomType = string(p.RoomType)
		ctx.RateBasis = p.RateBasis.Label()
	}

	for i := range b.Flights {
		f := &b.Flights[i]
		if f.Status == flights.StatusCancelled {
			continue
		}
		ctx.Flights = append(ctx.Flights, documents.FlightSummary{
			Airline:            f.Airline,
			FlightNumber:       f.FlightNumber,
			From:               f.DepartureAirport,
			To:                 f.ArrivalAirport,
			DepartureAt:        f.DepartureAt,
			Class:              string(f.FlightClass),
			Category:           string(f.FlightCategory),
			ReturnFlightNumber: f.ReturnFlightNumber,
			ReturnDepartureAt:  f.ReturnDepartureAt,
		})
	}
	for i := range b.Transfers {
		t := &b.Transfers[i]
		if t.Status == transfers.StatusCancelled {
			continue
		}
		ctx.Transfers = append(ctx.Transfers, documents.TransferSummary{
			TripType:   string(t.TripType),
			Vehicle:    t.VehicleType.Label(),
			Pickup:     t.PickupLocation,
			Dropoff:    t.DropoffLocation,
			PickupAt:   t.PickupAt,
			Passengers: t.Passengers,
		})
	}
	return ctx
}
