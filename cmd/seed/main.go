package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/config"
	"github.com/gfgm/gfgm/backend/internal/database"
	"github.com/gfgm/gfgm/backend/internal/seed"
	"github.com/gfgm/gfgm/backend/internal/service"
)

func main() {
	username := flag.String("admin-username", "admin", "Username of the administrator account")
	email := flag.String("admin-email", "admin@example.com", "Email of the administrator account")
	samples := flag.Bool("samples", false, "Create sample recipes owned by the administrator")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// the password is never taken from a flag so it stays out of shell history
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		logrus.Fatal("SEED_ADMIN_PASSWORD environment variable is not set")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	ctx := context.Background()
	db, err := database.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(ctx, db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	users := service.NewUserService(db, auth, nil, nil)

	admin, err := seed.EnsureAdmin(ctx, db, users, seed.AdminOptions{
		Username:  *username,
		Email:     *email,
		Password:  password,
		FirstName: "Site",
		LastName:  "Admin",
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to seed admin")
	}

	if *samples {
		created, err := seed.SampleRecipes(ctx, service.NewRecipeService(db, nil, nil), admin.ID)
		if err != nil {
			logrus.WithError(err).Fatal("failed to seed sample recipes")
		}
		logrus.WithField("count", created).Info("sample recipes created")
	}
}
