package server

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/security"
)

func (s *GameServer) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	player, err := s.db.CreatePlayer(req.Username, req.Password)
	if err != nil {
		log.Errorf("failed to create player: %v", err)
		c.JSON(400, gin.H{"error": "failed to create player"})
		return
	}

	c.JSON(201, gin.H{
		"message": "player created",
		"player": gin.H{
			"playerId": player.PlayerID,
			"username": player.Username,
		},
	})
}

func (s *GameServer) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	player, err := s.db.GetPlayerByUsername(req.Username)
	if err != nil || !security.CheckPassword(player.PasswordHash, req.Password) {
		c.JSON(401, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.auth.GenerateToken(player.PlayerID)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(200, gin.H{
		"token": token,
		"user": gin.H{
			"playerId": player.PlayerID,
			"username": player.Username,
		},
	})
}
