package itinerary

import (
	"regexp"
	"strings"
)

var (
	dayHeadingRe = regexp.MustCompile(`## Day (\d+)[^\n]*`)

	// A preposition/verb cue followed by a capitalized phrase, terminated by
	// a qualifier, punctuation, or line break. The cue is case-insensitive so
	// sentence-initial "Visit …" and "Grab …" match; the captured phrase must
	// still start capitalized. Best-effort: prose that skips the cue words
	// simply produces no match.
	placeCueRe = regexp.MustCompile(`(?i:at|visit|head to|grab|stop at|try)\s+([A-Z][^,.\n]+?)(?:\s+for|\s+at|\s+—|,|\.|\n)`)

	questionLineRe   = regexp.MustCompile(`^\d+[.)]\s+.+\?`)
	questionPrefixRe = regexp.MustCompile(`^\d+[.)]\s+`)
)

// DayAssignments maps lowercased place names to the day label they were
// scheduled under ("Day 3"). Rebuilt wholesale from the most recent itinerary
// message; never merged across messages.
type DayAssignments map[string]string

// DayFor resolves a place name to its day label. Matching is deliberately
// loose: the lowercased query may be a substring of a key or vice versa, so
// minor name variations between the user's list and the assistant's prose
// still resolve. A miss returns ("", false) and is a normal outcome.
func (da DayAssignments) DayFor(name string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return "", false
	}
	if day, ok := da[q]; ok {
		return day, true
	}
	for key, day := range da {
		if strings.Contains(key, q) || strings.Contains(q, key) {
			return day, true
		}
	}
	return "", false
}

// ExtractDayAssignments scans itinerary text for day headings and, within
// each day's span, pulls place names via the cue pattern. A name mentioned
// twice keeps its last assignment in source order; captured phrases outside
// 3..49 characters are dropped as noise.
func ExtractDayAssignments(itineraryText string) DayAssignments {
	assignments := DayAssignments{}

	headings := dayHeadingRe.FindAllStringSubmatchIndex(itineraryText, -1)
	for i, h := range headings {
		dayNum := itineraryText[h[2]:h[3]]

		spanEnd := len(itineraryText)
		if i+1 < len(headings) {
			spanEnd = headings[i+1][0]
		}
		span := itineraryText[h[0]:spanEnd]

		for _, m := range placeCueRe.FindAllStringSubmatch(span, -1) {
			place := strings.TrimSpace(m[1])
			if len(place) > 2 && len(place) < 50 {
				assignments[strings.ToLower(place)] = "Day " + dayNum
			}
		}
	}

	return assignments
}

// ExtractQuestions pulls numbered interrogative lines ("1. …?" or "3) …?")
// out of free text, stripping the numeric prefix. Non-interrogative numbered
// lines are skipped; no matches yields an empty slice.
func ExtractQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if questionLineRe.MatchString(trimmed) {
			questions = append(questions, questionPrefixRe.ReplaceAllString(trimmed, ""))
		}
	}
	return questions
}
