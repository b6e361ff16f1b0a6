package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/stdlib"

	pgx "github.com/jackc/pgx/v5"
)

// New opens a pgx-backed *sql.DB and verifies the connection.
func New(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
