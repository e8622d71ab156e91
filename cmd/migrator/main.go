package main

import (
	"context"
	"log"

	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/UnknownOlympus/staffbook/internal/storage"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	cfg := config.MustLoad()
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("Migrations only apply to the postgres driver, got %q", cfg.Storage.Driver)
	}

	dbpool, dbErr := storage.NewDatabase(context.Background(),
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	if migrationErr := goose.Up(dtb, "migrations"); migrationErr != nil {
		log.Fatal(migrationErr) //nolint:gocritic // pool is released on exit
	}

	log.Println("✅ Migrations applied successfully")
}
