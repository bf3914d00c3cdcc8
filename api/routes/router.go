package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aeroparkhq/aeropark-backend/api/controllers"
	"github.com/aeroparkhq/aeropark-backend/api/middleware"
	"github.com/aeroparkhq/aeropark-backend/internal/addons"
	"github.com/aeroparkhq/aeropark-backend/internal/auth"
	"github.com/aeroparkhq/aeropark-backend/internal/availability"
	"github.com/aeroparkhq/aeropark-backend/internal/bookings"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/internal/paymentmethods"
	"github.com/aeroparkhq/aeropark-backend/internal/users"
	"github.com/aeroparkhq/aeropark-backend/internal/vehicles"
	"github.com/aeroparkhq/aeropark-backend/pkg/config"
	"github.com/aeroparkhq/aeropark-backend/pkg/db"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
	"github.com/aeroparkhq/aeropark-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	usersService users.Service,
	vehiclesService vehicles.Service,
	paymentsService paymentmethods.Service,
	availabilityService availability.Service,
	bookingsService bookings.Service,
	addonsService addons.Service,
	garageService garage.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		chimiddleware.RealIP,
		middleware.CORS(),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// keep a nil client out of the interface so Idempotency skips it
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/availability", controllers.AvailabilityCheck(availabilityService, logg))
		r.With(middleware.Idempotency(idemStore, logg)).
			Post("/bookings", controllers.GuestBookingCreate(bookingsService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(idemStore, logg),
		)

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/auth/logout", controllers.AuthLogout(authService, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(usersService, logg))
			r.Put("/", controllers.ProfileUpdate(usersService, logg))
			r.Post("/password", controllers.ProfileChangePassword(usersService, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Post("/", controllers.VehicleCreate(vehiclesService, logg))
			r.Get("/", controllers.VehicleList(vehiclesService, logg))
			r.Route("/{vehicleId}", func(r chi.Router) {
				r.Get("/", controllers.VehicleGet(vehiclesService, logg))
				r.Put("/", controllers.VehicleUpdate(vehiclesService, logg))
				r.Delete("/", controllers.VehicleDelete(vehiclesService, logg))
			})
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Post("/", controllers.PaymentMethodAdd(paymentsService, logg))
			r.Get("/", controllers.PaymentMethodList(paymentsService, logg))
			r.Post("/{methodId}/default", controllers.PaymentMethodSetDefault(paymentsService, logg))
			r.Delete("/{methodId}", controllers.PaymentMethodDelete(paymentsService, logg))
		})

		r.Get("/availability", controllers.AvailabilityCheck(availabilityService, logg))
		r.Get("/rates", controllers.GarageRates(garageService, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.BookingCreate(bookingsService, logg))
			r.Get("/", controllers.BookingList(bookingsService, logg))
			r.Route("/{bookingId}", func(r chi.Router) {
				r.Get("/", controllers.BookingGet(bookingsService, logg))
				r.Post("/confirm", controllers.BookingConfirm(bookingsService, logg))
				r.Post("/check-in", controllers.BookingCheckIn(bookingsService, logg))
				r.Post("/check-out", controllers.BookingCheckOut(bookingsService, logg))
				r.Post("/cancel", controllers.BookingCancel(bookingsService, logg))

				r.Route("/addons", func(r chi.Router) {
					r.Post("/", controllers.AddonAttach(addonsService, logg))
					r.Delete("/{addonId}", controllers.AddonRemove(addonsService, logg))
					r.With(middleware.RequireRole(logg, enums.UserRoleStaff.String(), enums.UserRoleAdmin.String())).
						Post("/{addonId}/advance", controllers.AddonAdvance(addonsService, logg))
				})
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(logg, enums.UserRoleAdmin.String()),
		)

		r.Get("/ping", controllers.AdminPing())

		r.Route("/garage", func(r chi.Router) {
			r.Get("/config", controllers.GarageConfigList(garageService, logg))
			r.Put("/config", controllers.GarageConfigSet(garageService, logg))
			r.Get("/rates", controllers.GarageRates(garageService, logg))
		})

		r.Route("/spots", func(r chi.Router) {
			r.Post("/", controllers.SpotCreate(garageService, logg))
			r.Get("/", controllers.SpotList(garageService, logg))
			r.Patch("/{spotId}", controllers.SpotUpdate(garageService, logg))
		})
	})

	return r
}
