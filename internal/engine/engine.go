package engine

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

// WalletStore holds per-player per-currency balances. Debit and Credit must
// apply the balance change and the audit entry atomically; Debit must fail
// with ErrInsufficientBalance rather than ever letting a balance go negative.
type WalletStore interface {
	GetPlayer(playerID string) (*models.Player, error)
	Debit(playerID string, currency models.Currency, amount float64, audit *models.Transaction) (models.Wallet, error)
	Credit(playerID string, currency models.Currency, amount float64, audit *models.Transaction) (models.Wallet, error)
}

// RoundStore archives finished rounds.
type RoundStore interface {
	SaveRound(round *models.Round) error
}

// PriceSource returns the current USD price for a currency.
type PriceSource interface {
	Price(currency models.Currency) (float64, error)
}

// Broadcaster fans an event out to all live subscribers.
type Broadcaster interface {
	Broadcast(event interface{})
}

type Options struct {
	RoundDuration     time.Duration
	TickInterval      time.Duration
	CountdownInterval time.Duration
	MinCrashSeconds   int
	MaxCrashSeconds   int
}

func DefaultOptions() Options {
	return Options{
		RoundDuration:     10 * time.Second,
		TickInterval:      500 * time.Millisecond,
		CountdownInterval: time.Second,
		MinCrashSeconds:   1,
		MaxCrashSeconds:   9,
	}
}

// Engine is the authoritative game-state actor. A single goroutine owns the
// current round, the pending-bet queue and the live multiplier, and processes
// every command in arrival order, so balance checks and debits for a player
// are never interleaved with another operation on the same wallet or round.
type Engine struct {
	opts    Options
	wallets WalletStore
	rounds  RoundStore
	prices  PriceSource
	hub     Broadcaster

	cmds chan interface{}
	stop chan struct{}

	// State below is owned exclusively by the run loop.
	current    *models.Round
	pending    []models.Bet
	multiplier float64
	epoch      uint64
	roundStop  chan struct{}
}

func New(opts Options, wallets WalletStore, rounds RoundStore, prices PriceSource, hub Broadcaster) *Engine {
	return &Engine{
		opts:    opts,
		wallets: wallets,
		rounds:  rounds,
		prices:  prices,
		hub:     hub,
		cmds:    make(chan interface{}, 256),
		stop:    make(chan struct{}),
	}
}

// Run starts the first round and processes commands until Stop is called.
func (e *Engine) Run() {
	e.handleStartRound()

	for {
		select {
		case <-e.stop:
			if e.roundStop != nil {
				close(e.roundStop)
				e.roundStop = nil
			}
			return
		case cmd := <-e.cmds:
			e.dispatch(cmd)
		}
	}
}

func (e *Engine) Stop() {
	close(e.stop)
}

func (e *Engine) dispatch(cmd interface{}) {
	switch c := cmd.(type) {
	case placeBetCmd:
		receipt, err := e.handlePlaceBet(c.playerID, c.usdAmount, c.currency)
		c.reply <- betReply{receipt: receipt, err: err}
	case cashoutCmd:
		result, err := e.handleCashout(c.playerID)
		c.reply <- cashoutReply{result: result, err: err}
	case depositCmd:
		result, err := e.handleDeposit(c.playerID, c.cryptoAmount, c.currency)
		c.reply <- depositReply{result: result, err: err}
	case tickCmd:
		e.handleTick(c)
	case countdownCmd:
		e.handleCountdown(c)
	case snapshotCmd:
		c.reply <- e.snapshot()
	default:
		log.Errorf("engine: unknown command %T", cmd)
	}
}

// enqueue delivers a command to the run loop unless the engine is stopping.
func (e *Engine) enqueue(cmd interface{}) {
	select {
	case e.cmds <- cmd:
	case <-e.stop:
	}
}

// Commands carried on the queue. Request commands block the caller on a
// buffered reply channel; timer commands are fire-and-forget and stamped
// with the round epoch they belong to.

type placeBetCmd struct {
	playerID  string
	usdAmount float64
	currency  models.Currency
	reply     chan betReply
}

type betReply struct {
	receipt *BetReceipt
	err     error
}

type cashoutCmd struct {
	playerID string
	reply    chan cashoutReply
}

type cashoutReply struct {
	result *CashoutResult
	err    error
}

type depositCmd struct {
	playerID     string
	cryptoAmount float64
	currency     models.Currency
	reply        chan depositReply
}

type depositReply struct {
	result *DepositResult
	err    error
}

type tickCmd struct {
	epoch      uint64
	multiplier float64
	terminal   bool
	elapsed    time.Duration
}

type countdownCmd struct {
	epoch     uint64
	remaining int
}

type snapshotCmd struct {
	reply chan Snapshot
}

// BetReceipt is the result of an accepted bet. A placed bet is always
// deferred to the next round start, so the status is always "queued".
type BetReceipt struct {
	Status string     `json:"status"`
	Bet    models.Bet `json:"bet"`
}

type CashoutDetail struct {
	PlayerID     string  `json:"playerId"`
	Multiplier   float64 `json:"multiplier"`
	CryptoPayout float64 `json:"cryptoPayout"`
	UsdAmount    float64 `json:"usdAmount"`
}

type CashoutResult struct {
	Cashout       CashoutDetail `json:"cashout"`
	RoundID       string        `json:"roundId"`
	UsdPayout     float64       `json:"usdPayout"`
	UpdatedWallet models.Wallet `json:"updatedWallet"`
}

type DepositResult struct {
	CryptoAmount  float64         `json:"cryptoAmount"`
	Currency      models.Currency `json:"currency"`
	UsdAmount     float64         `json:"usdAmount"`
	UpdatedWallet models.Wallet   `json:"updatedWallet"`
}

// Snapshot is a consistent view of the live round state.
type Snapshot struct {
	RoundID     string             `json:"roundId"`
	Status      models.RoundStatus `json:"status"`
	Multiplier  float64            `json:"multiplier"`
	StartTime   time.Time          `json:"startTime"`
	BetCount    int                `json:"betCount"`
	PendingBets int                `json:"pendingBets"`
}

// PlaceBet validates and queues a bet for the next round, debiting the
// player's wallet at the current price.
func (e *Engine) PlaceBet(playerID string, usdAmount float64, currency models.Currency) (*BetReceipt, error) {
	reply := make(chan betReply, 1)
	e.enqueue(placeBetCmd{playerID: playerID, usdAmount: usdAmount, currency: currency, reply: reply})
	select {
	case r := <-reply:
		return r.receipt, r.err
	case <-e.stop:
		return nil, ErrEngineStopped
	}
}

// Cashout claims the player's payout at the multiplier observed now.
func (e *Engine) Cashout(playerID string) (*CashoutResult, error) {
	reply := make(chan cashoutReply, 1)
	e.enqueue(cashoutCmd{playerID: playerID, reply: reply})
	select {
	case r := <-reply:
		return r.result, r.err
	case <-e.stop:
		return nil, ErrEngineStopped
	}
}

// Deposit credits crypto into the player's wallet.
func (e *Engine) Deposit(playerID string, cryptoAmount float64, currency models.Currency) (*DepositResult, error) {
	reply := make(chan depositReply, 1)
	e.enqueue(depositCmd{playerID: playerID, cryptoAmount: cryptoAmount, currency: currency, reply: reply})
	select {
	case r := <-reply:
		return r.result, r.err
	case <-e.stop:
		return nil, ErrEngineStopped
	}
}

// CurrentState returns a consistent snapshot of the live round.
func (e *Engine) CurrentState() Snapshot {
	reply := make(chan Snapshot, 1)
	e.enqueue(snapshotCmd{reply: reply})
	select {
	case s := <-reply:
		return s
	case <-e.stop:
		return Snapshot{}
	}
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Multiplier:  e.multiplier,
		PendingBets: len(e.pending),
	}
	if e.current != nil {
		s.RoundID = e.current.RoundID
		s.Status = e.current.Status
		s.StartTime = e.current.StartTime
		s.BetCount = len(e.current.Bets)
	}
	return s
}
