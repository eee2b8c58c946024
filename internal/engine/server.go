// Package engine hosts the HTTP surface of the submission engine: scores,
// leaderboards and the tip ledger.
package engine

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/config"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/coordinator"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/handlers"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/middleware"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

type Server struct {
	router *gin.Engine
	db     *database.Connection
	engine *coordinator.Coordinator
	logger logging.Logger
}

func NewServer(db *database.Connection, engine *coordinator.Coordinator, logger logging.Logger) *Server {
	if !config.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	// Configure CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Content-Length, Accept-Encoding, Origin, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "false")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s := &Server{
		router: router,
		db:     db,
		engine: engine,
		logger: logger,
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	handler := handlers.NewHandler(s.engine, s.db, s.logger)

	api := s.router.Group("/api")

	api.POST("/scores", handler.SubmitScore)
	api.GET("/leaderboard/:game_id", handler.GetLeaderboard)
	api.GET("/leaderboard/:game_id/players/:player_id", handler.GetPlayerRank)

	api.POST("/tips", handler.SubmitTip)
	api.PUT("/tips/:tx_id/status", handler.ConfirmTip)
	api.GET("/posts/:post_id/tips", handler.GetPostTips)

	s.router.GET("/health", handler.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Router exposes the underlying gin engine, used by main to run it inside an
// http.Server with graceful shutdown.
func (s *Server) Router() *gin.Engine {
	return s.router
}
