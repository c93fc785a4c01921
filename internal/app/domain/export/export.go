// Package export produces the standalone printable itinerary document.
package export

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/markdown"
	"github.com/routemethod/routemethod/internal/app/middleware"
	"github.com/routemethod/routemethod/internal/app/models"
)

//go:embed document.html.tmpl
var documentTmpl string

var document = template.Must(template.New("document").Parse(documentTmpl))

type documentData struct {
	Title string
	// Body is renderer output. The renderer escapes all source text before
	// any transform, so injecting it unescaped here is safe.
	Body template.HTML
}

type Handlers struct {
	logger *zap.Logger
}

func NewHandlers(logger *zap.Logger) *Handlers {
	return &Handlers{logger: logger}
}

// Export handles GET /api/itinerary/export, returning the session's latest
// itinerary as a self-contained printable HTML page.
func (h *Handlers) Export(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return
	}

	source := sess.LastItinerary()
	if source == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no itinerary to export yet"})
		return
	}

	buf, err := RenderDocument(documentTitle(sess.TripData()), source)
	if err != nil {
		h.logger.Error("Failed to render export document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render document"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf)
}

// RenderDocument renders itinerary markdown into the printable page.
func RenderDocument(title, source string) ([]byte, error) {
	var buf bytes.Buffer
	err := document.Execute(&buf, documentData{
		Title: title,
		Body:  template.HTML(markdown.Render(source)),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentTitle(trip *models.TripDetails) string {
	if trip != nil && strings.TrimSpace(trip.Destination) != "" {
		return "RouteMethod Itinerary — " + strings.TrimSpace(trip.Destination)
	}
	return "RouteMethod Itinerary"
}
