// Package markdown converts the constrained markdown dialect produced by the
// RouteMethod assistant into HTML fragments. It is not a general-purpose
// markdown engine: only the tokens the assistant actually emits are handled
// (headers, bold, italic, unordered and ordered lists), everything else
// renders as escaped literal text.
package markdown

import (
	"regexp"
	"strings"
)

// spacer stands in for a blank line during paragraph wrapping so vertical
// rhythm can be normalized in the cleanup pass.
const spacer = `<br class="spacer">`

// mojibake pairs known Latin-1-as-UTF-8 mis-decodings with their intended
// characters. The bare "â€" pair is a prefix of every other sequence and must
// stay last so the longer sequences win.
var mojibake = strings.NewReplacer(
	"â€\"", "—", // em dash
	"â€˜", "‘", // left single quote
	"â€™", "’", // right single quote
	"â€œ", "“", // left double quote
	"â€", "”", // right double quote
)

var (
	h3Re = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Re = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Re = regexp.MustCompile(`(?m)^# (.+)$`)

	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*\n]+)\*`)

	ulItemRe  = regexp.MustCompile(`(?m)^- (.+)$`)
	ulGroupRe = regexp.MustCompile(`(<li>.*</li>\n?)+`)

	// Ordered items get a temporary <oli> tag so a numbered run adjacent to a
	// dashed run is never swallowed into the preceding <ul> group.
	olItemRe  = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
	olGroupRe = regexp.MustCompile(`(<oli>.*</oli>\n?)+`)
	oliTagRe  = regexp.MustCompile(`<oli>(.*?)</oli>`)

	spacerBeforeCloseRe = regexp.MustCompile(spacer + `\s*</p>`)
)

// Normalize repairs known mis-encoded character sequences. It must run before
// EscapeHTML; none of the corrected characters are escaping targets, so the
// ordering alone keeps them intact. No-op on clean text.
func Normalize(text string) string {
	return mojibake.Replace(text)
}

// EscapeHTML entity-escapes the three characters that could become live
// markup. Ampersand goes first so the other entities are not double-escaped.
func EscapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// transformBlocks applies the line-oriented markdown rules in order. Headers
// match longest marker first so "### " is never taken for "# ". Bold runs
// before italic so a ** span is never half-eaten by the single-* rule.
func transformBlocks(html string) string {
	html = h3Re.ReplaceAllString(html, "<h3>$1</h3>")
	html = h2Re.ReplaceAllString(html, "<h2>$1</h2>")
	html = h1Re.ReplaceAllString(html, "<h1>$1</h1>")

	html = boldRe.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicRe.ReplaceAllString(html, "<em>$1</em>")

	// The group match may consume the newline after the last item; the close
	// tag must land before it so the following line keeps its line anchor.
	html = ulItemRe.ReplaceAllString(html, "<li>$1</li>")
	html = ulGroupRe.ReplaceAllStringFunc(html, func(run string) string {
		items := strings.TrimSuffix(run, "\n")
		return "<ul>" + items + "</ul>" + run[len(items):]
	})

	html = olItemRe.ReplaceAllString(html, "<oli>$1</oli>")
	html = olGroupRe.ReplaceAllStringFunc(html, func(run string) string {
		items := strings.TrimSuffix(run, "\n")
		return "<ol>" + oliTagRe.ReplaceAllString(items, "<li>$1</li>") + "</ol>" + run[len(items):]
	})

	return html
}

// wrapParagraphs folds loose text lines into <p> elements in a single pass.
// Block-level lines (headers, lists, blanks) close any open paragraph; loose
// lines open one if needed and are joined with a trailing space so manual
// line breaks do not concatenate words. The terminal flush closes a paragraph
// left open at end of input.
func wrapParagraphs(html string) string {
	lines := strings.Split(html, "\n")
	out := make([]string, 0, len(lines)+2)
	inPara := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		isBlock := strings.HasPrefix(trimmed, "<h") ||
			strings.HasPrefix(trimmed, "<ul") ||
			strings.HasPrefix(trimmed, "<ol") ||
			strings.HasPrefix(trimmed, "<li") ||
			trimmed == ""

		if isBlock {
			if inPara {
				out = append(out, "</p>")
				inPara = false
			}
			if trimmed == "" {
				out = append(out, spacer)
			} else {
				out = append(out, line)
			}
			continue
		}

		if !inPara {
			out = append(out, "<p>")
			inPara = true
		}
		out = append(out, trimmed+" ")
	}
	if inPara {
		out = append(out, "</p>")
	}

	// A spacer directly above a paragraph close would show as stray blank
	// space, so drop it.
	return spacerBeforeCloseRe.ReplaceAllString(strings.Join(out, "\n"), "</p>")
}

// Render converts assistant markdown to an HTML fragment: normalize, escape,
// block/inline transforms, paragraph wrapping. Total on any input; plain text
// comes out as a single paragraph. Not idempotent — rendering already
// rendered output escapes its markup, so callers must render raw text only.
func Render(text string) string {
	html := Normalize(text)
	html = EscapeHTML(html)
	html = transformBlocks(html)
	return wrapParagraphs(html)
}
