// Package session holds the per-conversation aggregate: message history,
// trip data, refinement budget, and the day-assignment lookup rebuilt from
// the latest itinerary. All mutation goes through event methods so lifecycle
// stays explicit instead of being scattered over handler state.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/routemethod/routemethod/internal/app/itinerary"
	"github.com/routemethod/routemethod/internal/app/models"
)

// Session is the conversation aggregate. Created on first contact, mutated
// only by the event methods below, destroyed when its store TTL lapses.
type Session struct {
	ID uuid.UUID

	mu              sync.Mutex
	messages        []models.Message
	tripData        *models.TripDetails
	phase           int
	refinementsUsed int
	dayAssignments  itinerary.DayAssignments
	lastItinerary   string
}

func newSession() *Session {
	return &Session{
		ID:             uuid.New(),
		phase:          models.PhaseInput,
		dayAssignments: itinerary.DayAssignments{},
	}
}

// SetTripData populates the structured trip record from the phase-1 form.
func (s *Session) SetTripData(t *models.TripDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tripData = t
}

// AppendUserMessage records a user turn.
func (s *Session) AppendUserMessage(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: content})
}

// AppendAssistantMessage records an assistant turn and advances the
// conversation phase. When the message carries an itinerary the
// day-assignment map is replaced wholesale — never merged — and the itinerary
// region is kept for export.
func (s *Session) AppendAssistantMessage(content string, det *itinerary.Detector) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, models.Message{Role: models.RoleAssistant, Content: content})

	if det.IsItinerary(content) {
		seg := det.Segment(content)
		s.dayAssignments = itinerary.ExtractDayAssignments(seg.Itinerary)
		s.lastItinerary = seg.Itinerary
		if s.phase < models.PhaseItinerary {
			s.phase = models.PhaseItinerary
		}
		return
	}

	if s.phase < models.PhaseClarifying && looksLikeClarifying(content) {
		s.phase = models.PhaseClarifying
	}
}

// looksLikeClarifying mirrors the front-end's phase-2 cue detection.
func looksLikeClarifying(content string) bool {
	return strings.Contains(content, "clarif") ||
		strings.Contains(content, "question") ||
		(strings.Contains(content, "1.") && strings.Contains(content, "2."))
}

// ConsumeRefinement spends one refinement once an itinerary has been
// delivered. Returns false when the cap is exhausted; the caller then answers
// with the fixed limit message instead of calling the model.
func (s *Session) ConsumeRefinement(maxRefinements int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase < models.PhaseItinerary {
		return true
	}
	s.refinementsUsed++
	s.phase = models.PhaseRefinement
	return s.refinementsUsed <= maxRefinements
}

// Messages returns a copy of the conversation history.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) TripData() *models.TripDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripData
}

func (s *Session) Phase() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) RefinementsUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refinementsUsed
}

// DayAssignments returns the lookup built from the most recent itinerary.
func (s *Session) DayAssignments() itinerary.DayAssignments {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayAssignments
}

// LastItinerary returns the itinerary region of the most recent
// itinerary-bearing message, empty before one has been delivered.
func (s *Session) LastItinerary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastItinerary
}
