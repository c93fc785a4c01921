package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the planning conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a streaming chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// StreamEvent is the SSE payload wire format the front-end consumes: text
// chunks while streaming, a done flag on completion, an error on failure.
type StreamEvent struct {
	Text  string `json:"text,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}

// Conversation phases, in order. The assistant's prompt moves through them;
// the server only tracks enough to gate refinements and pick UI affordances.
const (
	PhaseInput = iota + 1
	PhaseClarifying
	PhaseItinerary
	PhaseRefinement
)

// TripDetails is the structured trip form the user submits in phase 1.
type TripDetails struct {
	Destination  string              `json:"destination"`
	Arrival      string              `json:"arrival"`
	Departure    string              `json:"departure"`
	Hotel        string              `json:"hotel"`
	SavedPlaces  map[string][]string `json:"saved_places,omitempty"`
	Reservations []string            `json:"reservations,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

// PlaceNames flattens the saved-place categories in stable iteration-free
// order per category slice; used by the day side panel lookup.
func (t *TripDetails) PlaceNames() []string {
	if t == nil {
		return nil
	}
	var names []string
	for _, category := range []string{"cafes", "restaurants", "bars", "museums", "landmarks", "events", "other"} {
		names = append(names, t.SavedPlaces[category]...)
	}
	return names
}

// RenderedMessage is the display payload for one assistant message: the three
// rendered regions (empty regions are skipped by the UI, not rendered) plus
// any extracted questions.
type RenderedMessage struct {
	IsItinerary bool     `json:"is_itinerary"`
	Before      string   `json:"before,omitempty"`
	Itinerary   string   `json:"itinerary,omitempty"`
	After       string   `json:"after,omitempty"`
	HTML        string   `json:"html,omitempty"`
	Questions   []string `json:"questions,omitempty"`
}

// PlaceDay is one side-panel row: a user place name and the day label it
// resolved to, empty when unassigned.
type PlaceDay struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Day   string `json:"day,omitempty"`
}

// SavedItinerary is a finalized itinerary persisted for later export.
type SavedItinerary struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	Markdown  string    `json:"markdown"`
	CreatedAt time.Time `json:"created_at"`
}
