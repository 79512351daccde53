package server

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/engine"
	"github.com/prasheelsuvarna/Crash-game/internal/models"
)

// respondError maps engine errors onto HTTP responses, keeping the machine
// discriminator alongside the message.
func respondError(c *gin.Context, err error) {
	if ge, ok := engine.AsGameError(err); ok {
		status := 400
		if ge.Code == engine.CodeNotFound {
			status = 404
		}
		c.JSON(status, gin.H{"error": ge.Message, "code": ge.Code})
		return
	}
	log.Errorf("internal error: %v", err)
	c.JSON(500, gin.H{"error": "internal error"})
}

func (s *GameServer) PlaceBet(c *gin.Context) {
	playerID := c.GetString("playerId")

	var req struct {
		UsdAmount float64         `json:"usdAmount"`
		Currency  models.Currency `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}

	receipt, err := s.engine.PlaceBet(playerID, req.UsdAmount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, gin.H{
		"message": "Bet placed",
		"status":  receipt.Status,
		"bet":     receipt.Bet,
	})
}

func (s *GameServer) Cashout(c *gin.Context) {
	playerID := c.GetString("playerId")

	result, err := s.engine.Cashout(playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":       "Cashed out successfully",
		"cashout":       result.Cashout,
		"roundId":       result.RoundID,
		"usdPayout":     result.UsdPayout,
		"updatedWallet": result.UpdatedWallet,
	})
}

func (s *GameServer) Deposit(c *gin.Context) {
	playerID := c.GetString("playerId")

	var req struct {
		CryptoAmount float64         `json:"cryptoAmount"`
		Currency     models.Currency `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}

	result, err := s.engine.Deposit(playerID, req.CryptoAmount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message": "Deposit successful",
		"deposit": gin.H{
			"cryptoAmount": result.CryptoAmount,
			"currency":     result.Currency,
			"usdAmount":    result.UsdAmount,
		},
		"updatedWallet": result.UpdatedWallet,
	})
}

func (s *GameServer) GetBalance(c *gin.Context) {
	playerID := c.GetString("playerId")

	wallet, err := s.db.GetWallet(playerID)
	if err != nil {
		if err == engine.ErrPlayerNotFound {
			c.JSON(404, gin.H{"error": "player not found"})
			return
		}
		respondError(c, err)
		return
	}

	view := make(map[models.Currency]models.WalletView, len(wallet))
	for currency, balance := range wallet {
		usd := 0.0
		if price, err := s.prices.Price(currency); err == nil {
			usd = models.RoundUsd(balance * price)
		}
		view[currency] = models.WalletView{Crypto: balance, Usd: usd}
	}

	c.JSON(200, gin.H{"wallet": view})
}

func (s *GameServer) GetCurrentRound(c *gin.Context) {
	state := s.engine.CurrentState()
	if state.RoundID == "" {
		c.JSON(404, gin.H{"error": "no round yet"})
		return
	}

	c.JSON(200, gin.H{
		"roundId":     state.RoundID,
		"status":      state.Status,
		"multiplier":  state.Multiplier,
		"startTime":   state.StartTime,
		"betCount":    state.BetCount,
		"pendingBets": state.PendingBets,
	})
}

// roundHistoryView exposes the crash point, which is public once a round has
// crashed.
type roundHistoryView struct {
	RoundID    string             `json:"roundId"`
	StartTime  string             `json:"startTime"`
	CrashPoint float64            `json:"crashPoint"`
	Status     models.RoundStatus `json:"status"`
	Bets       []models.Bet       `json:"bets"`
	Cashouts   []models.Cashout   `json:"cashouts"`
}

func (s *GameServer) GetRoundHistory(c *gin.Context) {
	rounds, err := s.db.GetRecentRounds(20)
	if err != nil {
		log.Errorf("failed to load round history: %v", err)
		c.JSON(500, gin.H{"error": "failed to get round history"})
		return
	}

	history := make([]roundHistoryView, 0, len(rounds))
	for _, r := range rounds {
		history = append(history, roundHistoryView{
			RoundID:    r.RoundID,
			StartTime:  r.StartTime.UTC().Format("2006-01-02T15:04:05.000Z"),
			CrashPoint: r.CrashPoint,
			Status:     r.Status,
			Bets:       r.Bets,
			Cashouts:   r.Cashouts,
		})
	}

	c.JSON(200, gin.H{"history": history})
}

func (s *GameServer) GetTransactions(c *gin.Context) {
	playerID := c.GetString("playerId")

	txs, err := s.db.GetTransactions(playerID, 50)
	if err != nil {
		log.Errorf("failed to load transactions: %v", err)
		c.JSON(500, gin.H{"error": "failed to get transactions"})
		return
	}

	c.JSON(200, gin.H{"transactions": txs})
}
