package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/middleware"
	"github.com/routemethod/routemethod/internal/app/models"
)

// Handlers exposes the chat surface: the SSE stream, per-message rendering,
// the trip-data form, and the place-day side panel.
type Handlers struct {
	service *Service
	logger  *zap.Logger
}

func NewHandlers(service *Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// ChatStream handles POST /api/chat/stream. The reply streams as SSE data
// events carrying the StreamEvent wire format: text chunks while the model
// responds, then a done flag, or an error event on failure.
func (h *Handlers) ChatStream(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.logger.Error("Response writer does not support flushing")
		c.String(http.StatusInternalServerError, "Streaming not supported")
		return
	}

	eventCh := make(chan models.StreamEvent, 200)

	go func() {
		defer close(eventCh)
		h.logger.Info("Processing chat turn",
			zap.String("sessionID", sess.ID.String()),
			zap.Int("phase", sess.Phase()),
			zap.Int("messageLen", len(message)))
		h.service.StreamChat(c.Request.Context(), sess, message, eventCh)
	}()

	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}

			eventData, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to marshal event", zap.Error(err))
				continue
			}

			fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
			flusher.Flush()

			if event.Done || event.Error != "" {
				return
			}

		case <-c.Request.Context().Done():
			h.logger.Info("Client disconnected",
				zap.String("sessionID", sess.ID.String()))
			return
		}
	}
}

// RenderMessage handles POST /api/render: one raw assistant message in, the
// display payload out. The front-end never parses markdown itself.
func (h *Handlers) RenderMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.service.RenderMessage(c.Request.Context(), req.Content))
}

// SubmitTrip handles POST /api/trip, storing the phase-1 structured form on
// the session.
func (h *Handlers) SubmitTrip(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return
	}

	var trip models.TripDetails
	if err := c.ShouldBindJSON(&trip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(trip.Destination) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}

	sess.SetTripData(&trip)
	h.logger.Info("Trip details stored",
		zap.String("sessionID", sess.ID.String()),
		zap.String("destination", trip.Destination))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PlacesByDay handles POST /api/places/days: the side panel sends its place
// names (or nothing, to use the saved trip form) and gets back each place
// with the day label the latest itinerary assigned it.
func (h *Handlers) PlacesByDay(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return
	}

	var req struct {
		Names []string `json:"names"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"places": h.service.PlacesByDay(sess, req.Names)})
}
