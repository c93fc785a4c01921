package chat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeLabel normalizes a user-entered place name for side-panel display.
// A fresh Caser per call: cases.Caser is stateful and not goroutine safe.
func placeLabel(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.English, cases.NoLower).String(name)
}
