package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routemethod/routemethod/internal/app/itinerary"
	"github.com/routemethod/routemethod/internal/app/models"
)

const testItinerary = "Here you go.\n## Day 1\nVisit Chapultepec Castle for views.\nThis is your RouteMethod itinerary."

func TestSessionPhases(t *testing.T) {
	det := itinerary.NewDetector(nil)

	t.Run("starts in input phase", func(t *testing.T) {
		s := newSession()
		assert.Equal(t, models.PhaseInput, s.Phase())
	})

	t.Run("clarifying questions advance to phase two", func(t *testing.T) {
		s := newSession()
		s.AppendAssistantMessage("A few clarifying questions:\n1. Pace?\n2. Meals?", det)
		assert.Equal(t, models.PhaseClarifying, s.Phase())
	})

	t.Run("itinerary delivery advances to phase three", func(t *testing.T) {
		s := newSession()
		s.AppendAssistantMessage(testItinerary, det)
		assert.Equal(t, models.PhaseItinerary, s.Phase())
		assert.NotEmpty(t, s.LastItinerary())
	})

	t.Run("phase never moves backwards", func(t *testing.T) {
		s := newSession()
		s.AppendAssistantMessage(testItinerary, det)
		s.AppendAssistantMessage("Noted, adjusting now.", det)
		assert.Equal(t, models.PhaseItinerary, s.Phase())
	})
}

func TestDayAssignmentsReplacedWholesale(t *testing.T) {
	det := itinerary.NewDetector(nil)
	s := newSession()

	s.AppendAssistantMessage(testItinerary, det)
	_, ok := s.DayAssignments().DayFor("Chapultepec Castle")
	require.True(t, ok)

	// A newer itinerary without the castle must fully replace the map.
	s.AppendAssistantMessage("## Day 1\nGrab coffee at Blue Bottle.\nThis is your RouteMethod itinerary.", det)

	_, ok = s.DayAssignments().DayFor("Chapultepec Castle")
	assert.False(t, ok, "old assignments must not survive a new itinerary")
	day, ok := s.DayAssignments().DayFor("Blue Bottle")
	assert.True(t, ok)
	assert.Equal(t, "Day 1", day)
}

func TestConsumeRefinement(t *testing.T) {
	det := itinerary.NewDetector(nil)

	t.Run("free before an itinerary is delivered", func(t *testing.T) {
		s := newSession()
		for i := 0; i < 20; i++ {
			assert.True(t, s.ConsumeRefinement(3))
		}
		assert.Zero(t, s.RefinementsUsed())
	})

	t.Run("bounded after delivery", func(t *testing.T) {
		s := newSession()
		s.AppendAssistantMessage(testItinerary, det)

		for i := 0; i < 3; i++ {
			assert.True(t, s.ConsumeRefinement(3), "refinement %d should be allowed", i+1)
		}
		assert.False(t, s.ConsumeRefinement(3), "cap must reject the excess refinement")
		assert.Equal(t, models.PhaseRefinement, s.Phase())
	})
}

func TestStore(t *testing.T) {
	st := NewStore(time.Hour)

	t.Run("create and fetch", func(t *testing.T) {
		s := st.Create()
		got, ok := st.Get(s.ID)
		require.True(t, ok)
		assert.Same(t, s, got)
	})

	t.Run("unknown id misses", func(t *testing.T) {
		_, ok := st.Get(uuid.New())
		assert.False(t, ok)
	})
}

func TestTokenRoundtrip(t *testing.T) {
	const secret = "test-secret-test-secret-test-secret"
	id := uuid.New()

	token, err := IssueToken(secret, id, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	t.Run("wrong secret rejected", func(t *testing.T) {
		_, err := ParseToken("another-secret-another-secret!!", token)
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseToken(secret, "not-a-token")
		assert.Error(t, err)
	})
}
