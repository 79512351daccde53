package models

import (
	"math"
	"time"
)

type RoundStatus string

const (
	RoundActive  RoundStatus = "active"
	RoundCrashed RoundStatus = "crashed"
)

type Currency string

const (
	BTC Currency = "BTC"
	ETH Currency = "ETH"
)

func ValidCurrency(c Currency) bool {
	return c == BTC || c == ETH
}

type Bet struct {
	PlayerID     string   `json:"playerId"`
	UsdAmount    float64  `json:"usdAmount"`
	CryptoAmount float64  `json:"cryptoAmount"`
	Currency     Currency `json:"currency"`
}

type Cashout struct {
	PlayerID     string  `json:"playerId"`
	Multiplier   float64 `json:"multiplier"`
	CryptoPayout float64 `json:"cryptoPayout"`
}

type Round struct {
	RoundID    string      `json:"roundId"`
	StartTime  time.Time   `json:"startTime"`
	CrashPoint float64     `json:"-"` // hidden from players until crash
	Status     RoundStatus `json:"status"`
	Bets       []Bet       `json:"bets"`
	Cashouts   []Cashout   `json:"cashouts"`
}

// BetFor returns the player's bet in this round, if any.
func (r *Round) BetFor(playerID string) (Bet, bool) {
	for _, b := range r.Bets {
		if b.PlayerID == playerID {
			return b, true
		}
	}
	return Bet{}, false
}

// CashedOut reports whether the player already has a cashout in this round.
func (r *Round) CashedOut(playerID string) bool {
	for _, c := range r.Cashouts {
		if c.PlayerID == playerID {
			return true
		}
	}
	return false
}

// PlayersWhoDidntCashOut lists players with a bet but no cashout.
func (r *Round) PlayersWhoDidntCashOut() []string {
	out := make([]string, 0, len(r.Bets))
	for _, b := range r.Bets {
		if !r.CashedOut(b.PlayerID) {
			out = append(out, b.PlayerID)
		}
	}
	return out
}

// RoundCrypto rounds a crypto amount to 8 decimal places.
func RoundCrypto(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}

// RoundUsd rounds a USD amount to 2 decimal places.
func RoundUsd(v float64) float64 {
	return math.Round(v*100) / 100
}
