// Package routes maps the HTTP surface onto the domain handlers.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/domain/chat"
	"github.com/routemethod/routemethod/internal/app/domain/export"
	"github.com/routemethod/routemethod/internal/app/domain/itineraries"
	"github.com/routemethod/routemethod/internal/app/middleware"
	"github.com/routemethod/routemethod/internal/app/session"
	"github.com/routemethod/routemethod/internal/pkg/config"
)

// Dependencies carries everything the route table needs.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       *session.Store
	Chat        *chat.Handlers
	Itineraries *itineraries.Handlers
	Export      *export.Handlers
}

// Setup registers all routes. Everything under /api runs inside a session.
func Setup(r *gin.Engine, d *Dependencies) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware(d.Store, d.Config.Chat.SessionJWTKey, d.Config.Chat.SessionTTL, d.Logger))
	{
		api.POST("/chat/stream", d.Chat.ChatStream)
		api.POST("/render", d.Chat.RenderMessage)
		api.POST("/trip", d.Chat.SubmitTrip)
		api.POST("/places/days", d.Chat.PlacesByDay)

		api.POST("/itinerary/save", d.Itineraries.Save)
		api.GET("/itineraries/recent", d.Itineraries.ListRecent)
		api.GET("/itinerary/export", d.Export.Export)
	}
}
