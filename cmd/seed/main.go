package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bookingdesk/api/routes"
	"bookingdesk/internal/bookings"
	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/notifications"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/shared/constants"
	"bookingdesk/internal/shared/database"
	"bookingdesk/internal/storage"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/cache"
	"bookingdesk/pkg/eventbus"
	"bookingdesk/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const seedPassword = "qwerty123"

type Seeder struct {
	db       *database.DB
	services *routes.Services
	log      *logger.Logger
	now      time.Time
}

func main() {
	log := logger.New().WithComponent("seed")
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.InitDB(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	store, err := storage.FromConfig(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to prepare storage")
		os.Exit(1)
	}

	// seeded vouchers are queued but only logged unless SMTP is configured
	dispatcher, err := notifications.NewFromConfig(cfg, store, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize notifications")
		os.Exit(1)
	}
	if err := dispatcher.Start(ctx); err != nil {
		log.WithError(err).Error("failed to start notifications")
		os.Exit(1)
	}
	defer dispatcher.Stop()

	seeder := &Seeder{
		db: db,
		services: routes.NewServices(routes.Dependencies{
			Config:    cfg,
			DB:        db.PostgreSQL,
			Storage:   store,
			Notifier:  dispatcher,
			Publisher: eventbus.Noop{},
			Logger:    log,
		}),
		log: log,
		now: time.Now().UTC(),
	}

	log.Info("cleaning database")
	if err := seeder.CleanDatabase(); err != nil {
		log.WithError(err).Error("failed to clean database")
		os.Exit(1)
	}

	log.Info("seeding database")
	if err := seeder.SeedAll(ctx); err != nil {
		log.WithError(err).Error("failed to seed database")
		os.Exit(1)
	}
	log.Info("seeding completed", "password", seedPassword)
}

// CleanDatabase truncates every table, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{"invoices", "vouchers", "transfers", "flights", "bookings", "packages", "hotels", "events", "users"}
	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	accounts, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	event, pkg, err := s.SeedCatalog(accounts["organizer"])
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	if err := s.SeedBookings(ctx, accounts["admin"], event, pkg); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	if s.db.Redis != nil {
		c := cache.NewService(s.db.Redis, "", s.log)
		if err := c.DeletePattern(ctx, constants.PATTERN_INVALIDATE_DASHBOARD); err != nil {
			s.log.WithError(err).Warn("failed to clear dashboard cache")
		}
	}
	return nil
}

// SeedUsers creates one account per role, all sharing seedPassword
func (s *Seeder) SeedUsers() (map[string]*users.User, error) {
	hash, err := users.HashPassword(seedPassword)
	if err != nil {
		return nil, err
	}

	accounts := map[string]*users.User{
		"admin":     {FirstName: "Admin", LastName: "Desk", Email: "admin@bookingdesk.ma", Role: users.RoleAdmin},
		"organizer": {FirstName: "Salma", LastName: "Bennani", Email: "organizer@bookingdesk.ma", Role: users.RoleOrganizer},
		"user":      {FirstName: "Youssef", LastName: "Alaoui", Email: "guest@bookingdesk.ma", Role: users.RoleUser},
	}
	for _, key := range []string{"admin", "organizer", "user"} {
		u := accounts[key]
		u.Password = hash
		if err := s.db.PostgreSQL.Create(u).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		s.log.Info("created user", "email", u.Email, "role", string(u.Role))
	}
	return accounts, nil
}

// SeedCatalog creates one published event with a hotel, a package, a flight and a transfer
func (s *Seeder) SeedCatalog(organizer *users.User) (*events.Event, *hotels.Package, error) {
	db := s.db.PostgreSQL
	starts := s.now.AddDate(0, 1, 0).Truncate(24 * time.Hour)
	ends := starts.AddDate(0, 0, 3)

	event := &events.Event{
		Name:        "Salon International du Tourisme",
		City:        "Marrakech",
		Venue:       "Palais des Congrès",
		StartsAt:    starts,
		EndsAt:      &ends,
		Status:      events.StatusPublished,
		OrganizerID: organizer.ID,
	}
	if err := db.Create(event).Error; err != nil {
		return nil, nil, err
	}

	hotel := &hotels.Hotel{EventID: &event.ID, Name: "Riad Atlas", Stars: 4, City: "Marrakech"}
	if err := db.Create(hotel).Error; err != nil {
		return nil, nil, err
	}
	pkg := &hotels.Package{
		HotelID:   hotel.ID,
		Name:      "Double BB 3 nuits",
		RoomType:  hotels.RoomDouble,
		RateBasis: hotels.RateBedBreakfast,
		Price:     decimal.RequireFromString("4500.00"),
		Quota:     20,
	}
	if err := db.Create(pkg).Error; err != nil {
		return nil, nil, err
	}

	departure := starts.Add(-10 * time.Hour)
	flight := &flights.Flight{
		EventID:          &event.ID,
		Airline:          "Royal Air Maroc",
		FlightNumber:     "AT405",
		DepartureAirport: "CMN",
		ArrivalAirport:   "RAK",
		DepartureAt:      &departure,
		FlightClass:      flights.ClassEconomy,
		FlightCategory:   flights.CategoryOneWay,
		TripType:         flights.TripArrival,
		Price:            decimal.RequireFromString("950.00"),
		Status:           flights.StatusTicketed,
	}
	if err := db.Create(flight).Error; err != nil {
		return nil, nil, err
	}

	pickup := departure.Add(2 * time.Hour)
	transfer := &transfers.Transfer{
		EventID:         &event.ID,
		TripType:        transfers.TripArrival,
		VehicleType:     transfers.VehicleVan,
		PickupLocation:  "Aéroport Marrakech Ménara",
		DropoffLocation: "Riad Atlas",
		PickupAt:        &pickup,
		Passengers:      2,
		Price:           decimal.RequireFromString("300.00"),
		Status:          transfers.StatusConfirmed,
	}
	if err := db.Create(transfer).Error; err != nil {
		return nil, nil, err
	}

	s.log.Info("created catalog", "event", event.Name, "hotel", hotel.Name)
	return event, pkg, nil
}

// SeedBookings goes through the booking service so references, prices and
// vouchers are produced exactly as in production
func (s *Seeder) SeedBookings(ctx context.Context, admin *users.User, event *events.Event, pkg *hotels.Package) error {
	actor := users.Actor{ID: admin.ID, Role: admin.Role}
	checkIn := event.StartsAt
	checkOut := checkIn.AddDate(0, 0, 3)

	guests := []struct {
		name, email string
		to          bookings.Status
	}{
		{"Karim Idrissi", "karim@example.com", bookings.StatusConfirmed},
		{"Nadia Tazi", "nadia@example.com", bookings.StatusPending},
		{"Omar Fassi", "omar@example.com", bookings.StatusCancelled},
	}

	for _, g := range guests {
		b, err := s.services.Bookings.Create(ctx, actor, bookings.CreateBookingRequest{
			GuestName:  g.name,
			GuestEmail: g.email,
			EventID:    &event.ID,
			HotelID:    &pkg.HotelID,
			PackageID:  &pkg.ID,
			CheckIn:    &checkIn,
			CheckOut:   &checkOut,
		})
		if err != nil {
			return fmt.Errorf("create booking for %s: %w", g.email, err)
		}
		if g.to != bookings.StatusPending {
			if _, err := s.services.Bookings.Transition(ctx, actor, b.ID, g.to); err != nil {
				return fmt.Errorf("move %s to %s: %w", b.Reference, g.to, err)
			}
		}
		s.log.Info("created booking", "reference", b.Reference, "status", string(g.to))
	}
	return nil
}
