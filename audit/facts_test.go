package audit

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractMetaFacts(t *testing.T) {
	html := `<html><head>
		<title>First Title</title>
		<title>Second Title</title>
		<meta name="description" content="A fine description">
		<meta name="viewport" content="width=device-width">
		<meta property="og:title" content="x">
		<meta property="og:image" content="y">
		<meta name="twitter:card" content="summary">
	</head><body></body></html>`

	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")

	assert.Equal(t, "First Title", facts.Meta.Title, "only the first title element counts")
	assert.Equal(t, len("First Title"), facts.Meta.TitleLength)
	assert.Equal(t, "A fine description", facts.Meta.Description)
	assert.True(t, facts.Meta.HasViewport)
	assert.Equal(t, 2, facts.Meta.OpenGraphCount)
	assert.Equal(t, 1, facts.Meta.TwitterTagCount)
}

func TestExtractMetaFactsAbsent(t *testing.T) {
	html := `<html><head></head><body></body></html>`
	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")

	assert.Empty(t, facts.Meta.Title)
	assert.Zero(t, facts.Meta.DescriptionLength)
	assert.False(t, facts.Meta.HasViewport)
	assert.Zero(t, facts.Meta.OpenGraphCount)
}

func TestExtractHeadingFacts(t *testing.T) {
	html := `<html><body>
		<h1>Main Heading About Widgets</h1>
		<h1>   </h1>
		<h2>a</h2><h2>b</h2><h2>c</h2>
		<h3>x</h3>
		<h6>deep</h6>
	</body></html>`

	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")

	assert.Equal(t, 2, facts.Headings.H1Count)
	assert.Equal(t, 3, facts.Headings.H2Count)
	assert.Equal(t, 1, facts.Headings.H3Count)
	assert.Equal(t, 1, facts.Headings.H6Count)
	// Whitespace-only H1s are excluded from the text list but not the count.
	assert.Equal(t, []string{"Main Heading About Widgets"}, facts.Headings.H1Texts)
}

func TestImageAltInvariant(t *testing.T) {
	html := `<html><body>
		<img src="a.png" alt="a real description">
		<img src="b.png" alt="   ">
		<img src="c.png">
	</body></html>`

	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")

	assert.Equal(t, 3, facts.Images.Total)
	assert.Equal(t, 1, facts.Images.WithAlt, "whitespace-only alt counts as missing")
	assert.Equal(t, 2, facts.Images.WithoutAlt)
	assert.Equal(t, facts.Images.Total, facts.Images.WithAlt+facts.Images.WithoutAlt)
	require.Len(t, facts.Images.Images, 3)
	assert.True(t, facts.Images.Images[0].HasAlt)
	assert.False(t, facts.Images.Images[1].HasAlt)
}

func TestLinkClassification(t *testing.T) {
	html := `<html><body>
		<a href="/about">internal root-relative</a>
		<a href="https://example.com/pricing">internal same host</a>
		<a href="https://other.org/page">external</a>
		<a href="mailto:hi@gmail.com">neither</a>
		<a href="#section">neither</a>
	</body></html>`

	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com/start")

	assert.Equal(t, 5, facts.Links.Total)
	assert.Equal(t, 2, facts.Links.Internal)
	assert.Equal(t, 1, facts.Links.External)
	assert.LessOrEqual(t, facts.Links.Internal+facts.Links.External, facts.Links.Total)
}

func TestSocialPlatformDetection(t *testing.T) {
	html := `<html><body>
		<a href="https://www.facebook.com/acme">fb</a>
		<a href="https://x.com/acme">x</a>
		<a href="https://twitter.com/acme">twitter, same platform</a>
		<a href="https://www.netflix.com/title">must not match x.com</a>
	</body></html>`

	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")

	assert.Equal(t, []string{"Facebook", "Twitter/X"}, facts.Links.SocialPlatforms)
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"normal text", "<p>one two   three\n\nfour</p>", 4},
		{"empty body", "", 1},
		{"whitespace only", "   \n\t  ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := "<html><body>" + tt.body + "</body></html>"
			facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")
			assert.Equal(t, tt.want, facts.Content.WordCount)
		})
	}
}

func TestRenderingRatio(t *testing.T) {
	html := "<html><body>hello world</body></html>"
	facts := ExtractPageFacts(parseDoc(t, html), html, "https://example.com")
	assert.Greater(t, facts.RenderingRatio, 0)
	assert.LessOrEqual(t, facts.RenderingRatio, 100)

	empty := ExtractPageFacts(parseDoc(t, ""), "", "https://example.com")
	assert.Zero(t, empty.RenderingRatio, "empty HTML must not divide by zero")
}
