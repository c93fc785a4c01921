package markdown

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFragment(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err, "rendered fragment must be parseable HTML")
	return doc
}

func TestNormalize(t *testing.T) {
	t.Run("repairs broken em dash", func(t *testing.T) {
		assert.Equal(t, "Day 1 — Monday", Normalize("Day 1 â€\" Monday"))
	})

	t.Run("repairs smart quotes", func(t *testing.T) {
		assert.Equal(t, "‘quoted’", Normalize("â€˜quotedâ€™"))
		assert.Equal(t, "“quoted”", Normalize("â€œquotedâ€"))
	})

	t.Run("longer sequences win over the bare pair", func(t *testing.T) {
		// "â€™" contains "â€" as a prefix; it must become a right single
		// quote, not a right double quote followed by a stray rune.
		assert.Equal(t, "’", Normalize("â€™"))
	})

	t.Run("no-op on clean text", func(t *testing.T) {
		in := "Visit the Louvre — it opens at 9."
		assert.Equal(t, in, Normalize(in))
	})
}

func TestEscapeHTML(t *testing.T) {
	t.Run("escapes ampersand first", func(t *testing.T) {
		assert.Equal(t, "&amp;lt;", EscapeHTML("&lt;"))
	})

	t.Run("angle brackets never become markup", func(t *testing.T) {
		assert.Equal(t, "&lt;script&gt;", EscapeHTML("<script>"))
	})

	t.Run("roundtrips ordinary text", func(t *testing.T) {
		in := "咖啡 & <tea> at 3pm > 2pm"
		got := EscapeHTML(in)
		got = strings.ReplaceAll(got, "&lt;", "<")
		got = strings.ReplaceAll(got, "&gt;", ">")
		got = strings.ReplaceAll(got, "&amp;", "&")
		assert.Equal(t, in, got)
	})
}

func TestRenderHeaders(t *testing.T) {
	t.Run("day heading renders as h2 without paragraph wrap", func(t *testing.T) {
		html := Render("## Day 1 — Monday, June 1")
		assert.Equal(t, 1, strings.Count(html, "<h2>Day 1 — Monday, June 1</h2>"))
		assert.NotContains(t, html, "<p>")
	})

	t.Run("three-hash heading is not taken for two-hash", func(t *testing.T) {
		doc := parseFragment(t, Render("### Morning"))
		assert.Equal(t, 1, doc.Find("h3").Length())
		assert.Equal(t, 0, doc.Find("h2").Length())
		assert.Equal(t, "Morning", doc.Find("h3").Text())
	})

	t.Run("top-level heading renders as h1", func(t *testing.T) {
		doc := parseFragment(t, Render("# Lisbon, Engineered"))
		assert.Equal(t, "Lisbon, Engineered", doc.Find("h1").Text())
	})
}

func TestRenderInline(t *testing.T) {
	t.Run("bold before italic", func(t *testing.T) {
		doc := parseFragment(t, Render("**Alfama** is *quiet* at dawn."))
		assert.Equal(t, "Alfama", doc.Find("strong").Text())
		assert.Equal(t, "quiet", doc.Find("em").Text())
	})

	t.Run("bold span is not half-eaten by the italic rule", func(t *testing.T) {
		html := Render("**bold**")
		assert.Contains(t, html, "<strong>bold</strong>")
		assert.NotContains(t, html, "<em>")
	})

	t.Run("dangling asterisks render literally", func(t *testing.T) {
		html := Render("an unterminated **bold run")
		assert.Contains(t, html, "**bold run")
		assert.NotContains(t, html, "<strong>")
	})
}

func TestRenderLists(t *testing.T) {
	t.Run("consecutive dashed lines form one ul", func(t *testing.T) {
		doc := parseFragment(t, Render("- Coffee at Fábrica\n- Walk the riverfront\n- Dinner reservation"))
		assert.Equal(t, 1, doc.Find("ul").Length())
		assert.Equal(t, 3, doc.Find("ul li").Length())
	})

	t.Run("numbered lines form one ol", func(t *testing.T) {
		doc := parseFragment(t, Render("1. How fixed are the dinner plans?\n2. Museum or beach first?"))
		assert.Equal(t, 1, doc.Find("ol").Length())
		assert.Equal(t, 2, doc.Find("ol li").Length())
	})

	t.Run("adjacent ordered and unordered runs stay separate", func(t *testing.T) {
		doc := parseFragment(t, Render("- dashed item\n1. numbered item"))
		assert.Equal(t, 1, doc.Find("ul").Length())
		assert.Equal(t, 1, doc.Find("ol").Length())
		assert.Equal(t, 1, doc.Find("ul li").Length())
		assert.Equal(t, 1, doc.Find("ol li").Length())
	})

	t.Run("paragraph after a list is not pulled into it", func(t *testing.T) {
		html := Render("- Coffee\n- Walk\nThen head home.")
		doc := parseFragment(t, html)
		assert.Equal(t, 2, doc.Find("ul li").Length())
		assert.Equal(t, 1, doc.Find("p").Length())
		assert.NotContains(t, html, "</ul>Then")
	})

	t.Run("no temporary oli tag leaks", func(t *testing.T) {
		assert.NotContains(t, Render("1. first\n2. second"), "<oli>")
	})
}

func TestRenderParagraphs(t *testing.T) {
	t.Run("plain text yields exactly one paragraph", func(t *testing.T) {
		html := Render("Sounds great! Let me look at your list.")
		assert.Equal(t, 1, strings.Count(html, "<p>"))
		assert.Equal(t, 1, strings.Count(html, "</p>"))
		assert.Contains(t, html, "Sounds great! Let me look at your list. ")
	})

	t.Run("manually wrapped lines join with a space", func(t *testing.T) {
		doc := parseFragment(t, Render("first half\nsecond half"))
		assert.Equal(t, 1, doc.Find("p").Length())
		assert.Contains(t, doc.Find("p").Text(), "first half \nsecond half")
	})

	t.Run("input ending mid-paragraph still closes the p", func(t *testing.T) {
		for _, in := range []string{
			"trailing text",
			"## Day 1\nloose line after a block",
			"text\n",
			"",
			"\n\n",
		} {
			html := Render(in)
			assert.Equal(t, strings.Count(html, "<p>"), strings.Count(html, "</p>"),
				"unbalanced paragraph tags for input %q", in)
		}
	})

	t.Run("blank line between paragraphs becomes a spacer", func(t *testing.T) {
		html := Render("first paragraph\n\nsecond paragraph")
		assert.Contains(t, html, `<br class="spacer">`)
		assert.Equal(t, 2, strings.Count(html, "<p>"))
	})

	t.Run("spacer directly above a paragraph close is removed", func(t *testing.T) {
		// The trailing blank line would otherwise leave a spacer hanging at
		// the end of the closing paragraph.
		html := Render("only paragraph\n")
		assert.NotContains(t, html, `<br class="spacer">`+"\n</p>")
	})
}

func TestRenderWholeItinerary(t *testing.T) {
	text := "# Lisbon — Three Days\n" +
		"\n" +
		"## Day 1 — Friday\n" +
		"### Morning\n" +
		"- Coffee at **Fábrica**\n" +
		"- Miradouro walk\n" +
		"### Evening\n" +
		"Dinner is open — keep it loose.\n" +
		"\n" +
		"1. Any dietary restrictions?\n"

	html := Render(text)
	doc := parseFragment(t, html)

	assert.Equal(t, 1, doc.Find("h1").Length())
	assert.Equal(t, 1, doc.Find("h2").Length())
	assert.Equal(t, 2, doc.Find("h3").Length())
	assert.Equal(t, 1, doc.Find("ul").Length())
	assert.Equal(t, 1, doc.Find("ol").Length())
	assert.Equal(t, 1, doc.Find("strong").Length())
	assert.Equal(t, strings.Count(html, "<p>"), strings.Count(html, "</p>"))
}

func TestRenderIsTotal(t *testing.T) {
	// Truncated streaming snapshots must never panic or produce dangling
	// paragraph tags.
	inputs := []string{
		"**",
		"*",
		"## ",
		"- ",
		"1. ",
		"â€",
		"&<>",
		strings.Repeat("*", 101),
	}
	for _, in := range inputs {
		html := Render(in)
		assert.Equal(t, strings.Count(html, "<p>"), strings.Count(html, "</p>"),
			"input %q", in)
	}
}
