package app

import (
	"log/slog"
	"time"

	"github.com/boxoffice/platform/internal/auth"
	"github.com/boxoffice/platform/internal/guard"
	"github.com/boxoffice/platform/internal/handler"
	"github.com/boxoffice/platform/internal/ledger"
	"github.com/boxoffice/platform/internal/notifier"
	"github.com/boxoffice/platform/internal/repository"
	"github.com/boxoffice/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool             *pgxpool.Pool
	JWTMgr           *auth.JWTManager
	Logger           *slog.Logger
	Notifier         notifier.Notifier
	ReserveRateLimit int
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	logger := deps.Logger

	n := deps.Notifier
	if n == nil {
		n = notifier.NewLogNotifier(logger)
	}

	rateLimit := deps.ReserveRateLimit
	if rateLimit <= 0 {
		rateLimit = 60
	}

	// Repositories
	eventRepo := repository.NewEventRepository()
	bookingRepo := repository.NewBookingRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Reservation engine
	engine := ledger.NewEngine(eventRepo, bookingRepo, outboxRepo)

	// Services
	bookingSvc := service.NewBookingService(pool, engine, bookingRepo, n, logger)
	eventSvc := service.NewEventService(pool, eventRepo, logger)

	// Handlers
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	eventHandler := handler.NewEventHandler(eventSvc)

	// Guards
	reserveLimiter := guard.NewRateLimiter(rateLimit, time.Minute)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Public event reads
	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{eventID}", eventHandler.GetEvent)
	})

	// Bookings
	r.Route("/bookings", func(r chi.Router) {
		r.With(handler.RateLimit(reserveLimiter)).Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{bookingID}", bookingHandler.GetBooking)
		r.Post("/{bookingID}/cancel", bookingHandler.CancelBooking)
	})

	// Staff provisioning routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateStaff(deps.JWTMgr))
		r.Post("/events", eventHandler.CreateEvent)
	})

	return r
}
