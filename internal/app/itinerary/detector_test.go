package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsItinerary(t *testing.T) {
	d := NewDetector(nil)

	t.Run("day heading marks an itinerary", func(t *testing.T) {
		assert.True(t, d.IsItinerary("Here is your plan.\n## Day 1\n- Coffee"))
	})

	t.Run("morning and evening headings together mark an itinerary", func(t *testing.T) {
		assert.True(t, d.IsItinerary("### Morning\nWalk.\n### Evening\nDinner."))
	})

	t.Run("morning alone is not enough", func(t *testing.T) {
		assert.False(t, d.IsItinerary("### Morning\nJust the one block."))
	})

	t.Run("plain prose is not an itinerary", func(t *testing.T) {
		assert.False(t, d.IsItinerary("I love Mondays and evenings out."))
	})

	t.Run("empty text", func(t *testing.T) {
		assert.False(t, d.IsItinerary(""))
	})
}

func TestSegment(t *testing.T) {
	d := NewDetector(nil)

	t.Run("splits prose around the itinerary body", func(t *testing.T) {
		text := "Sounds great!\n## Day 1\n...content...\nThis is your RouteMethod itinerary. Anything else?"
		s := d.Segment(text)

		assert.Equal(t, "Sounds great!", s.Before)
		assert.True(t, strings.HasPrefix(s.Itinerary, "## Day 1"))
		assert.NotContains(t, s.Itinerary, "This is your RouteMethod itinerary.")
		assert.True(t, strings.HasPrefix(s.After, "This is your RouteMethod itinerary."))
	})

	t.Run("trip title line folds into the itinerary region", func(t *testing.T) {
		text := "Here you go.\n# Lisbon in Three Days\n## Day 1\n- Coffee"
		s := d.Segment(text)

		assert.Equal(t, "Here you go.", s.Before)
		assert.True(t, strings.HasPrefix(s.Itinerary, "# Lisbon in Three Days"))
	})

	t.Run("later closing marker wins when both appear", func(t *testing.T) {
		text := "## Day 1\n- Coffee\nThis is your RouteMethod itinerary.\nMore detail.\n**A few things before we finalize:**\n1. Pace?"
		s := d.Segment(text)

		assert.True(t, strings.HasPrefix(s.After, "**A few things before we finalize:**"))
		assert.Contains(t, s.Itinerary, "This is your RouteMethod itinerary.")
	})

	t.Run("no closing marker runs to end of text with empty After", func(t *testing.T) {
		text := "## Day 1\n- Coffee\n- Walk"
		s := d.Segment(text)

		assert.Empty(t, s.Before)
		assert.Empty(t, s.After)
		assert.Equal(t, strings.TrimSpace(text), s.Itinerary)
	})

	t.Run("itinerary starting at offset zero leaves Before empty", func(t *testing.T) {
		s := d.Segment("## Day 1\n- Coffee")
		assert.Empty(t, s.Before)
	})

	t.Run("custom closing markers", func(t *testing.T) {
		d := NewDetector([]string{"Questions for you:"})
		text := "## Day 1\n- Coffee\nQuestions for you:\n1. Pace?"
		s := d.Segment(text)

		assert.True(t, strings.HasPrefix(s.After, "Questions for you:"))
	})
}

func TestDetectorDefaults(t *testing.T) {
	d := NewDetector(nil)
	assert.Equal(t, DefaultClosingMarkers, d.closingMarkers)
}
