package models

import "time"

type TransactionType string

const (
	TxBet     TransactionType = "bet"
	TxCashout TransactionType = "cashout"
	TxDeposit TransactionType = "deposit"
)

// Transaction is an immutable audit entry written alongside every wallet
// mutation.
type Transaction struct {
	PlayerID        string          `json:"playerId"`
	UsdAmount       float64         `json:"usdAmount"`
	CryptoAmount    float64         `json:"cryptoAmount"`
	Currency        Currency        `json:"currency"`
	TransactionType TransactionType `json:"transactionType"`
	TransactionHash string          `json:"transactionHash"`
	PriceAtTime     float64         `json:"priceAtTime"`
	Timestamp       time.Time       `json:"timestamp"`
}

type Player struct {
	PlayerID     string    `json:"playerId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Wallet holds per-currency crypto balances for one player.
type Wallet map[Currency]float64

// WalletView is a balance annotated with its USD equivalent.
type WalletView struct {
	Crypto float64 `json:"crypto"`
	Usd    float64 `json:"usd"`
}
