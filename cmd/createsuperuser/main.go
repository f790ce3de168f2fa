package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-admin/internal/staff"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

// createsuperuser creates a superuser, or resets the password of an existing
// staff account and promotes it.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "createsuperuser"})

	_ = godotenv.Load()

	email := flag.String("email", "", "staff email")
	password := flag.String("password", os.Getenv("STOREFRONT_SUPERUSER_PASSWORD"), "staff password (defaults to STOREFRONT_SUPERUSER_PASSWORD)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "both -email and -password are required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "createsuperuser",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := staff.NewService(staff.ServiceParams{
		Repo:           staff.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to build staff service", err)
		os.Exit(1)
	}

	member, created, err := svc.EnsureSuperuser(ctx, staff.SuperuserInput{Email: *email, Password: *password})
	if err != nil {
		logg.Error(ctx, "failed to save superuser", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"staff_id": member.ID, "email": member.Email, "created": created})
	if created {
		logg.Info(ctx, "superuser created")
		return
	}
	logg.Info(ctx, "superuser password reset")
}
