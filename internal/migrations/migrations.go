package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/semperland/events-grabber/internal/db"
	"github.com/semperland/events-grabber/internal/logger"
)

//go:embed 001_initial.sql
var mig001 string

// RunMigrations runs all migrations for the grabber database.
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, grabberMigrations())
}

// RunMigrationsDB runs all grabber migrations against an open database.
func RunMigrationsDB(log *logger.Logger, database *sql.DB) error {
	return db.RunMigrationsDB(log, database, grabberMigrations())
}

func grabberMigrations() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_initial.sql",
			SQL: mig001,
		},
	}
}
