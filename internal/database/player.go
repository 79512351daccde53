package database

import (
	"database/sql"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasheelsuvarna/Crash-game/internal/engine"
	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

// CreatePlayer registers a player and opens empty wallets for both
// currencies in one transaction.
func (d *Database) CreatePlayer(username, password string) (*models.Player, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	playerID := uuid.New().String()

	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO players (id, username, password_hash)
		VALUES ($1, $2, $3)`,
		playerID, username, string(hashedPassword))
	if err != nil {
		return nil, err
	}

	for _, currency := range []models.Currency{models.BTC, models.ETH} {
		if _, err := tx.Exec(`
			INSERT INTO wallets (player_id, currency, balance)
			VALUES ($1, $2, 0)`, playerID, currency); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Infof("created player %s (%s)", username, playerID)
	return &models.Player{PlayerID: playerID, Username: username}, nil
}

func (d *Database) GetPlayer(playerID string) (*models.Player, error) {
	var p models.Player
	err := d.db.QueryRow(`
		SELECT id, username, password_hash, created_at
		FROM players WHERE id = $1`, playerID).
		Scan(&p.PlayerID, &p.Username, &p.PasswordHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, engine.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Database) GetPlayerByUsername(username string) (*models.Player, error) {
	var p models.Player
	err := d.db.QueryRow(`
		SELECT id, username, password_hash, created_at
		FROM players WHERE username = $1`, username).
		Scan(&p.PlayerID, &p.Username, &p.PasswordHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, engine.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Database) GetWallet(playerID string) (models.Wallet, error) {
	rows, err := d.db.Query(`
		SELECT currency, balance FROM wallets WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallet := make(models.Wallet)
	for rows.Next() {
		var currency models.Currency
		var balance float64
		if err := rows.Scan(&currency, &balance); err != nil {
			return nil, err
		}
		wallet[currency] = balance
	}
	if len(wallet) == 0 {
		return nil, engine.ErrPlayerNotFound
	}
	return wallet, rows.Err()
}

// Debit subtracts from the player's balance and records the audit entry in
// one transaction. The row lock makes the balance check and the write a
// single critical section.
func (d *Database) Debit(playerID string, currency models.Currency, amount float64, audit *models.Transaction) (models.Wallet, error) {
	return d.applyWalletChange(playerID, currency, -amount, audit)
}

// Credit adds to the player's balance and records the audit entry in one
// transaction.
func (d *Database) Credit(playerID string, currency models.Currency, amount float64, audit *models.Transaction) (models.Wallet, error) {
	return d.applyWalletChange(playerID, currency, amount, audit)
}

func (d *Database) applyWalletChange(playerID string, currency models.Currency, delta float64, audit *models.Transaction) (models.Wallet, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRow(`
		SELECT balance FROM wallets
		WHERE player_id = $1 AND currency = $2
		FOR UPDATE`, playerID, currency).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, engine.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	newBalance := models.RoundCrypto(balance + delta)
	if newBalance < 0 {
		return nil, engine.ErrInsufficientBalance
	}

	_, err = tx.Exec(`
		UPDATE wallets SET balance = $1
		WHERE player_id = $2 AND currency = $3`,
		newBalance, playerID, currency)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO transactions (player_id, usd_amount, crypto_amount, currency, tx_type, tx_hash, price_at_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		audit.PlayerID, audit.UsdAmount, audit.CryptoAmount, audit.Currency,
		audit.TransactionType, audit.TransactionHash, audit.PriceAtTime, audit.Timestamp)
	if err != nil {
		return nil, err
	}

	wallet := make(models.Wallet)
	rows, err := tx.Query(`
		SELECT currency, balance FROM wallets WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Currency
		var b float64
		if err := rows.Scan(&c, &b); err != nil {
			return nil, err
		}
		wallet[c] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	wallet[currency] = newBalance

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetTransactions returns the player's audit trail, newest first.
func (d *Database) GetTransactions(playerID string, limit int) ([]models.Transaction, error) {
	rows, err := d.db.Query(`
		SELECT player_id, usd_amount, crypto_amount, currency, tx_type, tx_hash, price_at_time, created_at
		FROM transactions
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.PlayerID, &t.UsdAmount, &t.CryptoAmount, &t.Currency,
			&t.TransactionType, &t.TransactionHash, &t.PriceAtTime, &t.Timestamp); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
