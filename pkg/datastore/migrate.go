package datastore

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/benitema/card-orders-api/pkg/logger"
)

func Migrate(cfg PostgresConfig, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	if err = goose.Up(db, dir); err != nil {
		logger.Fatal(err)
	}

	return nil
}
