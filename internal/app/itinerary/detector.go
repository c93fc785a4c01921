// Package itinerary classifies assistant messages and extracts structured
// data from the semi-structured itinerary prose. Everything here is
// best-effort heuristics over known literal markers: misses produce empty
// results, never errors.
package itinerary

import (
	"regexp"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Default marker literals matching the current revision of the upstream
// system prompt. The closing markers have changed between prompt revisions,
// so they are detector configuration rather than hard fact.
const (
	DefaultDayMarker     = "## Day"
	DefaultMorningMarker = "### Morning"
	DefaultEveningMarker = "### Evening"
)

// DefaultClosingMarkers bound the itinerary region on the trailing side.
// Either may appear; when both do, the later occurrence is the true end.
var DefaultClosingMarkers = []string{
	"This is your RouteMethod itinerary.",
	"**A few things before we finalize:**",
}

var titleHeadingRe = regexp.MustCompile(`(?m)^# `)

// Segments are the three regions of an itinerary-bearing message. Before and
// After may be empty; callers skip empty regions instead of rendering them.
type Segments struct {
	Before    string
	Itinerary string
	After     string
}

// Detector recognizes itinerary-bearing messages and splits them into
// regions. Marker scanning runs over a single Aho-Corasick pass so adding
// closing-marker variants stays cheap.
type Detector struct {
	dayMarker      string
	morningMarker  string
	eveningMarker  string
	closingMarkers []string

	headings ahocorasick.AhoCorasick
	closings ahocorasick.AhoCorasick
}

// NewDetector builds a detector over the given closing markers, falling back
// to DefaultClosingMarkers when none are configured.
func NewDetector(closingMarkers []string) *Detector {
	if len(closingMarkers) == 0 {
		closingMarkers = DefaultClosingMarkers
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.LeftMostLongestMatch,
		DFA:       true,
	})

	return &Detector{
		dayMarker:      DefaultDayMarker,
		morningMarker:  DefaultMorningMarker,
		eveningMarker:  DefaultEveningMarker,
		closingMarkers: closingMarkers,
		headings:       builder.Build([]string{DefaultDayMarker, DefaultMorningMarker, DefaultEveningMarker}),
		closings:       builder.Build(closingMarkers),
	}
}

// IsItinerary reports whether text contains a full itinerary: a day heading,
// or both a Morning and an Evening heading. This is a coarse containment
// heuristic, not a parser; prose that merely mentions the marker tokens can
// produce a false positive, which is accepted as a known limitation.
func (d *Detector) IsItinerary(text string) bool {
	var day, morning, evening bool
	for _, m := range d.headings.FindAll(text) {
		switch m.Pattern() {
		case 0:
			day = true
		case 1:
			morning = true
		case 2:
			evening = true
		}
		if day || (morning && evening) {
			return true
		}
	}
	return day || (morning && evening)
}

// Segment splits an itinerary-bearing message into leading prose, the
// itinerary body, and trailing prose.
//
// The caller must have established IsItinerary(text) first; Segment on a
// message without a day heading is a precondition violation and degrades to
// treating the whole text as the itinerary region.
func (d *Detector) Segment(text string) Segments {
	start := strings.Index(text, d.dayMarker)
	if start < 0 {
		return Segments{Itinerary: strings.TrimSpace(text)}
	}

	// A top-level "# " trip-title line ahead of the first day heading belongs
	// to the itinerary region, not the leading prose.
	if loc := titleHeadingRe.FindStringIndex(text[:start]); loc != nil {
		start = loc[0]
	}

	// The region ends at the last occurrence of any closing marker; with no
	// marker present the itinerary runs to end of text and After is empty.
	end := len(text)
	if ms := d.closings.FindAll(text); len(ms) > 0 {
		end = ms[len(ms)-1].Start()
	}
	if end < start {
		end = len(text)
	}

	return Segments{
		Before:    strings.TrimSpace(text[:start]),
		Itinerary: strings.TrimSpace(text[start:end]),
		After:     strings.TrimSpace(text[end:]),
	}
}
