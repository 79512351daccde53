package database

import (
	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

// SaveRound archives a crashed round with its bets and cashouts in one
// transaction. Rounds are written once and never updated afterwards.
func (d *Database) SaveRound(round *models.Round) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rounds (round_id, start_time, crash_point, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (round_id) DO NOTHING`,
		round.RoundID, round.StartTime, round.CrashPoint, round.Status)
	if err != nil {
		return err
	}

	for _, bet := range round.Bets {
		_, err = tx.Exec(`
			INSERT INTO round_bets (round_id, player_id, usd_amount, crypto_amount, currency)
			VALUES ($1, $2, $3, $4, $5)`,
			round.RoundID, bet.PlayerID, bet.UsdAmount, bet.CryptoAmount, bet.Currency)
		if err != nil {
			return err
		}
	}

	for _, cashout := range round.Cashouts {
		_, err = tx.Exec(`
			INSERT INTO round_cashouts (round_id, player_id, multiplier, crypto_payout)
			VALUES ($1, $2, $3, $4)`,
			round.RoundID, cashout.PlayerID, cashout.Multiplier, cashout.CryptoPayout)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Infof("archived round %s with %d bets and %d cashouts", round.RoundID, len(round.Bets), len(round.Cashouts))
	return nil
}

// GetRecentRounds returns the latest archived rounds, newest first, with
// their bets and cashouts attached.
func (d *Database) GetRecentRounds(limit int) ([]models.Round, error) {
	rows, err := d.db.Query(`
		SELECT round_id, start_time, crash_point, status
		FROM rounds
		ORDER BY start_time DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		var r models.Round
		if err := rows.Scan(&r.RoundID, &r.StartTime, &r.CrashPoint, &r.Status); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rounds {
		if err := d.loadRoundDetails(&rounds[i]); err != nil {
			return nil, err
		}
	}
	return rounds, nil
}

func (d *Database) loadRoundDetails(round *models.Round) error {
	bets, err := d.db.Query(`
		SELECT player_id, usd_amount, crypto_amount, currency
		FROM round_bets WHERE round_id = $1`, round.RoundID)
	if err != nil {
		return err
	}
	defer bets.Close()
	for bets.Next() {
		var b models.Bet
		if err := bets.Scan(&b.PlayerID, &b.UsdAmount, &b.CryptoAmount, &b.Currency); err != nil {
			return err
		}
		round.Bets = append(round.Bets, b)
	}
	if err := bets.Err(); err != nil {
		return err
	}

	cashouts, err := d.db.Query(`
		SELECT player_id, multiplier, crypto_payout
		FROM round_cashouts WHERE round_id = $1`, round.RoundID)
	if err != nil {
		return err
	}
	defer cashouts.Close()
	for cashouts.Next() {
		var c models.Cashout
		if err := cashouts.Scan(&c.PlayerID, &c.Multiplier, &c.CryptoPayout); err != nil {
			return err
		}
		round.Cashouts = append(round.Cashouts, c)
	}
	return cashouts.Err()
}
