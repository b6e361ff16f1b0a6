package database

import (
	"context"
	"database/sql"
	"log/slog"

	"smartlibrary/util/hash"
)

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id SERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	author VARCHAR(255),
	publisher VARCHAR(255),
	year INTEGER,
	category VARCHAR(100),
	cover TEXT,
	description TEXT,
	stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	status VARCHAR(50) NOT NULL DEFAULT 'Available',
	added_by_admin VARCHAR(100)
)`

const createBorrowingsTable = `
CREATE TABLE IF NOT EXISTS borrowings (
	id SERIAL PRIMARY KEY,
	book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	borrower_name VARCHAR(255) NOT NULL,
	borrower_phone VARCHAR(50) NOT NULL DEFAULT '',
	handled_by_admin VARCHAR(100) NOT NULL DEFAULT '',
	borrow_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createAdminTable = `
CREATE TABLE IF NOT EXISTS admin_users (
	id SERIAL PRIMARY KEY,
	username VARCHAR(100) UNIQUE NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	fullname VARCHAR(255) NOT NULL
)`

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "password"
	defaultAdminFullname = "Admin Utama SmartLibrary"
)

// Migrate bootstraps the schema and seeds the default admin account when the
// admin table is empty.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range []string{createBooksTable, createBorrowingsTable, createAdminTable} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_users WHERE username = $1`, defaultAdminUsername,
	).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	pw, err := hash.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO admin_users (username, password_hash, fullname) VALUES ($1,$2,$3)`,
		defaultAdminUsername, pw, defaultAdminFullname,
	); err != nil {
		return err
	}
	slog.Info("seeded default admin", "username", defaultAdminUsername)
	return nil
}
