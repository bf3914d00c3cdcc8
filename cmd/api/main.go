package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/aeroparkhq/aeropark-backend/api/routes"
	"github.com/aeroparkhq/aeropark-backend/internal/addons"
	"github.com/aeroparkhq/aeropark-backend/internal/auth"
	"github.com/aeroparkhq/aeropark-backend/internal/availability"
	"github.com/aeroparkhq/aeropark-backend/internal/bookings"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/internal/paymentmethods"
	"github.com/aeroparkhq/aeropark-backend/internal/users"
	"github.com/aeroparkhq/aeropark-backend/internal/vehicles"
	"github.com/aeroparkhq/aeropark-backend/pkg/auth/session"
	"github.com/aeroparkhq/aeropark-backend/pkg/config"
	"github.com/aeroparkhq/aeropark-backend/pkg/db"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
	"github.com/aeroparkhq/aeropark-backend/pkg/migrate"
	"github.com/aeroparkhq/aeropark-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(auth.NewTokenStore(dbClient.DB()), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	vehiclesRepo := vehicles.NewRepository(dbClient.DB())
	paymentsRepo := paymentmethods.NewRepository(dbClient.DB())
	availabilityRepo := availability.NewRepository(dbClient.DB())
	bookingsRepo := bookings.NewRepository(dbClient.DB())
	addonsRepo := addons.NewRepository(dbClient.DB())
	garageRepo := garage.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	vehiclesService, err := vehicles.NewService(vehiclesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicles service", err)
		os.Exit(1)
	}

	paymentsService, err := paymentmethods.NewService(paymentsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment methods service", err)
		os.Exit(1)
	}

	availabilityService, err := availability.NewService(availabilityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}

	garageService, err := garage.NewService(garageRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create garage service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookingsRepo, availabilityRepo, vehiclesRepo, garageService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	addonsService, err := addons.NewService(addonsRepo, bookingsRepo, garageService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create addons service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			usersService,
			vehiclesService,
			paymentsService,
			availabilityService,
			bookingsService,
			addonsService,
			garageService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
