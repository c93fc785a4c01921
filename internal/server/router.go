package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/domain/chat"
	"github.com/routemethod/routemethod/internal/app/domain/export"
	"github.com/routemethod/routemethod/internal/app/domain/itineraries"
	"github.com/routemethod/routemethod/internal/app/itinerary"
	"github.com/routemethod/routemethod/internal/app/middleware"
	"github.com/routemethod/routemethod/internal/app/session"
	"github.com/routemethod/routemethod/internal/pkg/config"
	"github.com/routemethod/routemethod/internal/routes"
)

// SetupRouter configures the Gin router with all middleware and routes.
func SetupRouter(cfg *config.Config, dbPool *pgxpool.Pool, streamer chat.Streamer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.OTELGinMiddleware("routemethod"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	detector := itinerary.NewDetector(cfg.Chat.ClosingMarkers)
	store := session.NewStore(cfg.Chat.SessionTTL)
	chatService := chat.NewService(streamer, detector, cfg.Chat.MaxRefinements, logger)

	routes.Setup(r, &routes.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		Chat:        chat.NewHandlers(chatService, logger),
		Itineraries: itineraries.NewHandlers(itineraries.NewPostgresRepository(dbPool, logger), logger),
		Export:      export.NewHandlers(logger),
	})

	return r
}
