package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/internal/users"
	"github.com/aeroparkhq/aeropark-backend/pkg/config"
	"github.com/aeroparkhq/aeropark-backend/pkg/db"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
	"github.com/aeroparkhq/aeropark-backend/pkg/migrate"
	"github.com/aeroparkhq/aeropark-backend/pkg/security"
)

// seedSpots is the layout provisioned for a fresh local garage.
var seedSpots = []garage.CreateSpotInput{
	{Code: "A-01", SpotType: enums.SpotTypeStandard, Floor: 1},
	{Code: "A-02", SpotType: enums.SpotTypeStandard, Floor: 1},
	{Code: "A-03", SpotType: enums.SpotTypeStandard, Floor: 1},
	{Code: "A-04", SpotType: enums.SpotTypeStandard, Floor: 1},
	{Code: "B-01", SpotType: enums.SpotTypePremium, Floor: 1},
	{Code: "B-02", SpotType: enums.SpotTypePremium, Floor: 1},
	{Code: "C-01", SpotType: enums.SpotTypeEV, Floor: 2},
	{Code: "C-02", SpotType: enums.SpotTypeEV, Floor: 2},
	{Code: "H-01", SpotType: enums.SpotTypeHandicap, Floor: 1},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminEmail := flag.String("admin-email", "admin@aeropark.io", "email for the seeded admin account")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin account")
	flag.Parse()

	if *adminPassword == "" {
		fmt.Fprintln(os.Stderr, "missing -admin-password")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		logg.Error(context.Background(), "seed refuses to run against production", nil)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	if _, err := usersRepo.FindByEmail(ctx, *adminEmail); err == nil {
		logg.Info(logg.WithField(ctx, "email", *adminEmail), "admin account already present")
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := security.HashPassword(*adminPassword, cfg.Password)
		if err != nil {
			logg.Error(ctx, "failed to hash admin password", err)
			os.Exit(1)
		}
		if _, err := usersRepo.Create(ctx, users.CreateUserDTO{
			Email:        *adminEmail,
			PasswordHash: hash,
			FullName:     "Garage Admin",
			Role:         enums.UserRoleAdmin,
		}); err != nil {
			logg.Error(ctx, "failed to create admin account", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(ctx, "email", *adminEmail), "admin account created")
	} else {
		logg.Error(ctx, "failed to look up admin account", err)
		os.Exit(1)
	}

	garageService, err := garage.NewService(garage.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create garage service", err)
		os.Exit(1)
	}

	created := 0
	for _, spot := range seedSpots {
		if _, err := garageService.CreateSpot(ctx, spot); err != nil {
			// existing codes are fine on reruns
			continue
		}
		created++
	}
	logg.Info(logg.WithField(ctx, "created", created), "spot seed complete")
}
