package server

import (
	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"

	"github.com/prasheelsuvarna/Crash-game/internal/auth"
	"github.com/prasheelsuvarna/Crash-game/internal/config"
	"github.com/prasheelsuvarna/Crash-game/internal/database"
	"github.com/prasheelsuvarna/Crash-game/internal/engine"
)

type GameServer struct {
	router *gin.Engine
	db     *database.Database
	engine *engine.Engine
	hub    *Hub
	prices engine.PriceSource
	auth   *auth.Manager
	cfg    *config.Config
}

func NewGameServer(cfg *config.Config, db *database.Database, eng *engine.Engine, hub *Hub, prices engine.PriceSource) *GameServer {
	server := &GameServer{
		router: gin.Default(),
		db:     db,
		engine: eng,
		hub:    hub,
		prices: prices,
		auth:   auth.NewManager(cfg.JWTSecret),
		cfg:    cfg,
	}

	server.setupRoutes()
	return server
}

func (s *GameServer) setupRoutes() {
	s.router.Use(s.securityMiddleware())

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	s.router.GET("/ws", s.handleWebSocket)

	api := s.router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.Register)
			authRoutes.POST("/login", s.Login)
		}

		authenticated := api.Group("")
		authenticated.Use(s.AuthMiddleware())
		{
			authenticated.GET("/balance", s.GetBalance)
			authenticated.POST("/deposit", s.Deposit)
			authenticated.POST("/bet", s.PlaceBet)
			authenticated.POST("/cashout", s.Cashout)
			authenticated.GET("/round/current", s.GetCurrentRound)
			authenticated.GET("/round/history", s.GetRoundHistory)
			authenticated.GET("/transactions", s.GetTransactions)
		}
	}
}

// Run starts the game loop and then serves HTTP until the process exits.
func (s *GameServer) Run(addr string) error {
	go s.engine.Run()

	log.Infof("server starting on %s", addr)
	return s.router.Run(addr)
}
