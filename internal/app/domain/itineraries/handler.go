package itineraries

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/middleware"
	"github.com/routemethod/routemethod/internal/app/models"
)

const recentLimit = 10

type Handlers struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandlers(repo Repository, logger *zap.Logger) *Handlers {
	return &Handlers{repo: repo, logger: logger}
}

// Save handles POST /api/itinerary/save, persisting the session's latest
// itinerary. There is nothing to save before the assistant has delivered one.
func (h *Handlers) Save(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return
	}

	markdown := sess.LastItinerary()
	if markdown == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no itinerary to save yet"})
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	rec := &models.SavedItinerary{
		SessionID: sess.ID,
		Title:     deriveTitle(req.Title, sess.TripData(), markdown),
		Markdown:  markdown,
	}
	if err := h.repo.Save(c.Request.Context(), rec); err != nil {
		h.logger.Error("Failed to save itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save itinerary"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// ListRecent handles GET /api/itineraries/recent for the caller's session.
func (h *Handlers) ListRecent(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return
	}

	recs, err := h.repo.ListRecent(c.Request.Context(), sess.ID, recentLimit)
	if err != nil {
		h.logger.Error("Failed to list itineraries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list itineraries"})
		return
	}
	if recs == nil {
		recs = []models.SavedItinerary{}
	}

	c.JSON(http.StatusOK, gin.H{"itineraries": recs})
}

// deriveTitle picks the best available title: the explicit one, then the
// trip destination, then the itinerary's own top-level heading.
func deriveTitle(explicit string, trip *models.TripDetails, markdown string) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if trip != nil && strings.TrimSpace(trip.Destination) != "" {
		return strings.TrimSpace(trip.Destination) + " Itinerary"
	}
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return "RouteMethod Itinerary"
}
