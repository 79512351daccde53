package database

import (
	"database/sql"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(connStr string) (*Database, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.ensureSchema(); err != nil {
		return nil, err
	}

	log.Info("connected to database")
	return d, nil
}

func (d *Database) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id UUID PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS wallets (
			player_id UUID NOT NULL REFERENCES players(id),
			currency TEXT NOT NULL,
			balance DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (balance >= 0),
			PRIMARY KEY (player_id, currency)
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			round_id TEXT PRIMARY KEY,
			start_time TIMESTAMPTZ NOT NULL,
			crash_point DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS round_bets (
			round_id TEXT NOT NULL REFERENCES rounds(round_id),
			player_id UUID NOT NULL,
			usd_amount DOUBLE PRECISION NOT NULL,
			crypto_amount DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS round_cashouts (
			round_id TEXT NOT NULL REFERENCES rounds(round_id),
			player_id UUID NOT NULL,
			multiplier DOUBLE PRECISION NOT NULL,
			crypto_payout DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			player_id UUID NOT NULL,
			usd_amount DOUBLE PRECISION NOT NULL,
			crypto_amount DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			tx_type TEXT NOT NULL,
			tx_hash TEXT NOT NULL,
			price_at_time DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the underlying database connection.
func (d *Database) GetDB() *sql.DB {
	return d.db
}
