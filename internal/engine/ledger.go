package engine

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/models"
	"github.com/prasheelsuvarna/Crash-game/pkg/crypto"
)

// handlePlaceBet validates a bet, debits the wallet and queues the bet for
// the next round. All validation happens before any wallet mutation; the
// balance check and debit are a single critical section inside the wallet
// store.
func (e *Engine) handlePlaceBet(playerID string, usdAmount float64, currency models.Currency) (*BetReceipt, error) {
	if playerID == "" {
		return nil, gameErr(CodeValidation, "playerId is required")
	}
	if usdAmount <= 0 {
		return nil, gameErr(CodeValidation, "usdAmount must be greater than 0")
	}
	if !models.ValidCurrency(currency) {
		return nil, gameErr(CodeValidation, "currency must be BTC or ETH")
	}

	if _, err := e.wallets.GetPlayer(playerID); err != nil {
		if err == ErrPlayerNotFound {
			return nil, gameErr(CodeNotFound, fmt.Sprintf("player with ID %s not found", playerID))
		}
		return nil, err
	}

	// One unresolved bet per player: nothing queued and nothing riding in
	// the current round.
	for _, b := range e.pending {
		if b.PlayerID == playerID {
			return nil, gameErr(CodeValidation, "bet already queued for the next round")
		}
	}
	if e.current != nil && e.current.Status == models.RoundActive {
		if _, ok := e.current.BetFor(playerID); ok {
			return nil, gameErr(CodeValidation, "bet already placed in the current round")
		}
	}

	price, err := e.prices.Price(currency)
	if err != nil {
		return nil, gameErr(CodePriceUnavailable, "failed to fetch crypto price")
	}

	cryptoAmount := models.RoundCrypto(usdAmount / price)
	if cryptoAmount <= 0 {
		return nil, gameErr(CodePriceUnavailable, "invalid price data")
	}

	if _, err := e.wallets.Debit(playerID, currency, cryptoAmount, e.auditEntry(playerID, usdAmount, cryptoAmount, currency, models.TxBet, price)); err != nil {
		if err == ErrInsufficientBalance {
			return nil, gameErr(CodeInsufficientFunds, fmt.Sprintf("insufficient balance for bet of %.8f %s", cryptoAmount, currency))
		}
		return nil, err
	}

	bet := models.Bet{
		PlayerID:     playerID,
		UsdAmount:    usdAmount,
		CryptoAmount: cryptoAmount,
		Currency:     currency,
	}
	e.pending = append(e.pending, bet)

	roundID := ""
	if e.current != nil {
		roundID = e.current.RoundID
	}
	e.hub.Broadcast(models.BetStatusEvent{Event: "queued", PlayerID: playerID, RoundID: roundID})
	log.Infof("player %s bet queued, waiting to enter next round", playerID)

	return &BetReceipt{Status: "queued", Bet: bet}, nil
}

// handleCashout settles a player's bet at the multiplier observed right now.
func (e *Engine) handleCashout(playerID string) (*CashoutResult, error) {
	if playerID == "" {
		return nil, gameErr(CodeValidation, "playerId is required")
	}

	if _, err := e.wallets.GetPlayer(playerID); err != nil {
		if err == ErrPlayerNotFound {
			return nil, gameErr(CodeNotFound, fmt.Sprintf("player with ID %s not found", playerID))
		}
		return nil, err
	}

	if e.current == nil || e.current.Status != models.RoundActive {
		return nil, gameErr(CodeNoActiveRound, "no active round to cash out")
	}

	for _, b := range e.pending {
		if b.PlayerID == playerID {
			return nil, gameErr(CodePendingBetConflict, "bet is still pending, cannot cash out yet")
		}
	}

	bet, ok := e.current.BetFor(playerID)
	if !ok {
		return nil, gameErr(CodeNoBetFound, "no bet found for this player in the current round")
	}

	if e.current.CashedOut(playerID) {
		return nil, gameErr(CodeAlreadyCashedOut, "player has already cashed out in this round")
	}

	price, err := e.prices.Price(bet.Currency)
	if err != nil {
		return nil, gameErr(CodePriceUnavailable, "failed to fetch crypto price")
	}

	multiplier := e.multiplier
	cryptoPayout := models.RoundCrypto(bet.CryptoAmount * multiplier)
	usdPayout := models.RoundUsd(cryptoPayout * price)

	wallet, err := e.wallets.Credit(playerID, bet.Currency, cryptoPayout, e.auditEntry(playerID, usdPayout, cryptoPayout, bet.Currency, models.TxCashout, price))
	if err != nil {
		return nil, err
	}

	e.current.Cashouts = append(e.current.Cashouts, models.Cashout{
		PlayerID:     playerID,
		Multiplier:   multiplier,
		CryptoPayout: cryptoPayout,
	})

	log.Infof("player %s cashed out of round %s at %.2fx for %.8f %s", playerID, e.current.RoundID, multiplier, cryptoPayout, bet.Currency)

	return &CashoutResult{
		Cashout: CashoutDetail{
			PlayerID:     playerID,
			Multiplier:   multiplier,
			CryptoPayout: cryptoPayout,
			UsdAmount:    bet.UsdAmount,
		},
		RoundID:       e.current.RoundID,
		UsdPayout:     usdPayout,
		UpdatedWallet: wallet,
	}, nil
}

// handleDeposit credits crypto into the player's wallet with an audit entry.
func (e *Engine) handleDeposit(playerID string, cryptoAmount float64, currency models.Currency) (*DepositResult, error) {
	if playerID == "" {
		return nil, gameErr(CodeValidation, "playerId is required")
	}
	if cryptoAmount <= 0 {
		return nil, gameErr(CodeValidation, "cryptoAmount must be greater than 0")
	}
	if !models.ValidCurrency(currency) {
		return nil, gameErr(CodeValidation, "currency must be BTC or ETH")
	}

	if _, err := e.wallets.GetPlayer(playerID); err != nil {
		if err == ErrPlayerNotFound {
			return nil, gameErr(CodeNotFound, fmt.Sprintf("player with ID %s not found", playerID))
		}
		return nil, err
	}

	price, err := e.prices.Price(currency)
	if err != nil {
		return nil, gameErr(CodePriceUnavailable, "failed to fetch crypto price")
	}

	usdAmount := models.RoundUsd(cryptoAmount * price)

	wallet, err := e.wallets.Credit(playerID, currency, cryptoAmount, e.auditEntry(playerID, usdAmount, cryptoAmount, currency, models.TxDeposit, price))
	if err != nil {
		return nil, err
	}

	return &DepositResult{
		CryptoAmount:  cryptoAmount,
		Currency:      currency,
		UsdAmount:     usdAmount,
		UpdatedWallet: wallet,
	}, nil
}

func (e *Engine) auditEntry(playerID string, usdAmount, cryptoAmount float64, currency models.Currency, txType models.TransactionType, price float64) *models.Transaction {
	hash, err := crypto.GenerateTransactionHash()
	if err != nil {
		log.Errorf("failed to generate transaction hash: %v", err)
	}
	return &models.Transaction{
		PlayerID:        playerID,
		UsdAmount:       usdAmount,
		CryptoAmount:    cryptoAmount,
		Currency:        currency,
		TransactionType: txType,
		TransactionHash: hash,
		PriceAtTime:     price,
		Timestamp:       time.Now(),
	}
}
