package main

import (
	"context"
	"database/sql"
	"flag"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/config"
	"github.com/gfgm/gfgm/backend/internal/database"
)

// Usage: migrate [-rollback] [command [args...]]
// The command defaults to "up"; any goose command is accepted.
func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if cfg.DBDriver != "postgres" {
		logrus.WithField("driver", cfg.DBDriver).Fatal("migrations are only run against PostgreSQL; SQLite is auto-migrated on startup")
	}

	command, args := "up", []string{}
	if *rollback {
		command = "down"
	} else if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, command, args...); err != nil {
		logrus.WithError(err).WithField("command", command).Fatal("migration failed")
	}
	logrus.WithField("command", command).Info("migration finished")
}
