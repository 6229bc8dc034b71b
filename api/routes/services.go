package routes

import (
	"bookingdesk/internal/auth"
	"bookingdesk/internal/bookings"
	"bookingdesk/internal/dashboard"
	"bookingdesk/internal/documents"
	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/invoices"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/storage"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/users"
	"bookingdesk/internal/vouchers"
	"bookingdesk/pkg/cache"
	"bookingdesk/pkg/eventbus"
	"bookingdesk/pkg/logger"

	"gorm.io/gorm"
)

// Notifier is everything the back-office emails
type Notifier interface {
	bookings.Notifier
	invoices.Sender
	flights.CredentialsNotifier
}

// Dependencies are the shared resources built by main
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Cache     cache.Service // nil without Redis
	Storage   *storage.DualStorage
	Notifier  Notifier
	Publisher eventbus.Publisher
	Logger    *logger.Logger
}

// Services holds every domain service, wired in dependency order
type Services struct {
	Users     users.Repository
	Events    events.Service
	Hotels    hotels.Service
	Flights   flights.Service
	Transfers transfers.Service
	Vouchers  vouchers.Service
	Bookings  bookings.Service
	Invoices  invoices.Service
	Auth      auth.Service
	Dashboard dashboard.Service
	Jobs      *bookings.JobProcessor
}

func NewServices(deps Dependencies) *Services {
	cfg := deps.Config
	log := logger.OrDefault(deps.Logger)

	renderer := documents.NewRenderer(documents.Options{
		Company: documents.Party{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			Phone:   cfg.Company.Phone,
			Email:   cfg.Company.Email,
			TaxID:   cfg.Company.TaxID,
		},
		Locale:   cfg.Documents.Locale,
		Currency: cfg.Documents.Currency,
	})

	s := &Services{}
	s.Users = users.NewRepository(deps.DB)
	s.Events = events.NewService(events.NewRepository(deps.DB), log)
	s.Hotels = hotels.NewService(hotels.NewRepository(deps.DB), s.Events)
	s.Transfers = transfers.NewService(transfers.NewRepository(deps.DB), s.Events)
	s.Flights = flights.NewService(flights.NewRepository(deps.DB), s.Events, s.Users, deps.Storage, deps.Notifier, log)
	s.Vouchers = vouchers.NewService(vouchers.NewRepository(deps.DB), renderer, deps.Storage, deps.Notifier, log)

	var publisher eventbus.Fanout
	if deps.Publisher != nil {
		publisher = append(publisher, deps.Publisher)
	}
	if deps.Cache != nil {
		publisher = append(publisher, dashboard.NewInvalidator(deps.Cache, log))
	}

	bookingRepo := bookings.NewRepository(deps.DB)
	s.Bookings = bookings.NewService(bookingRepo, bookings.Options{
		Packages:   s.Hotels,
		Events:     s.Events,
		Flights:    s.Flights,
		Transfers:  s.Transfers,
		Vouchers:   s.Vouchers,
		Notifier:   deps.Notifier,
		Publisher:  publisher,
		PendingTTL: cfg.Scheduler.PendingTTL,
		Currency:   cfg.Documents.Currency,
		Logger:     log,
	})
	s.Invoices = invoices.NewService(invoices.NewRepository(deps.DB), bookingRepo, renderer, deps.Storage, deps.Notifier, cfg.Documents.Currency, log)
	s.Auth = auth.NewService(s.Users, cfg.JWT, cfg.AppURL+"/login", renderer, log)
	s.Dashboard = dashboard.NewService(dashboard.NewRepository(deps.DB), deps.Cache, cfg.Redis.DashboardTTL, log)

	jobConfig := bookings.DefaultJobConfig()
	jobConfig.SweepInterval = cfg.Scheduler.SweepInterval
	// without Redis the sweep is only guarded in-process
	s.Jobs = bookings.NewJobProcessor(s.Bookings, jobConfig, deps.Cache, log)
	return s
}
