package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

type fakeWallets struct {
	mu           sync.Mutex
	players      map[string]*models.Player
	balances     map[string]models.Wallet
	transactions []models.Transaction
}

func newFakeWallets() *fakeWallets {
	return &fakeWallets{
		players:  make(map[string]*models.Player),
		balances: make(map[string]models.Wallet),
	}
}

func (f *fakeWallets) addPlayer(playerID string, wallet models.Wallet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[playerID] = &models.Player{PlayerID: playerID, Username: playerID, CreatedAt: time.Now()}
	f.balances[playerID] = wallet
}

func (f *fakeWallets) GetPlayer(playerID string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakeWallets) Debit(playerID string, currency models.Currency, amount float64, audit *models.Transaction) (models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.balances[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if w[currency] < amount {
		return nil, ErrInsufficientBalance
	}
	w[currency] = models.RoundCrypto(w[currency] - amount)
	f.transactions = append(f.transactions, *audit)
	return copyWallet(w), nil
}

func (f *fakeWallets) Credit(playerID string, currency models.Currency, amount float64, audit *models.Transaction) (models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.balances[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	w[currency] = models.RoundCrypto(w[currency] + amount)
	f.transactions = append(f.transactions, *audit)
	return copyWallet(w), nil
}

func (f *fakeWallets) balance(playerID string, currency models.Currency) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[playerID][currency]
}

func (f *fakeWallets) txCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transactions)
}

func copyWallet(w models.Wallet) models.Wallet {
	out := make(models.Wallet, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

type fakeRounds struct {
	mu       sync.Mutex
	saved    []models.Round
	failSave bool
}

func (f *fakeRounds) SaveRound(round *models.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("store unavailable")
	}
	f.saved = append(f.saved, *round)
	return nil
}

func (f *fakeRounds) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeRounds) savedRounds() []models.Round {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Round, len(f.saved))
	copy(out, f.saved)
	return out
}

type fakePrices struct {
	mu     sync.Mutex
	prices map[models.Currency]float64
	fail   bool
}

func (f *fakePrices) Price(currency models.Currency) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("price source down")
	}
	return f.prices[currency], nil
}

type fakeHub struct {
	mu     sync.Mutex
	events []interface{}
}

func (f *fakeHub) Broadcast(event interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeHub) eventsOfType(match func(interface{}) bool) []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []interface{}
	for _, ev := range f.events {
		if match(ev) {
			out = append(out, ev)
		}
	}
	return out
}

type testEngine struct {
	e       *Engine
	wallets *fakeWallets
	rounds  *fakeRounds
	prices  *fakePrices
	hub     *fakeHub
}

func newTestEngine() *testEngine {
	wallets := newFakeWallets()
	rounds := &fakeRounds{}
	hub := &fakeHub{}
	prices := &fakePrices{prices: map[models.Currency]float64{models.BTC: 50000, models.ETH: 3000}}

	opts := Options{
		RoundDuration:     2 * time.Second,
		TickInterval:      50 * time.Millisecond,
		CountdownInterval: 100 * time.Millisecond,
		MinCrashSeconds:   1,
		MaxCrashSeconds:   1,
	}
	return &testEngine{
		e:       New(opts, wallets, rounds, prices, hub),
		wallets: wallets,
		rounds:  rounds,
		prices:  prices,
		hub:     hub,
	}
}
