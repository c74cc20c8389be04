package audit

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractPageFacts builds the normalized fact record for one rendered page.
// It performs no network access and has no side effects; absent signals are
// represented as empty strings and zero counts, never as errors.
func ExtractPageFacts(doc *goquery.Document, rawHTML, pageURL string) PageFacts {
	facts := PageFacts{
		Meta:     extractMetaFacts(doc),
		Headings: extractHeadingFacts(doc),
		Images:   extractImageFacts(doc),
		Links:    extractLinkFacts(doc, pageURL),
	}

	bodyText := CollapseBodyText(doc)
	facts.Content = ContentFacts{
		WordCount: countWords(bodyText),
		CharCount: len(bodyText),
	}
	facts.RenderingRatio = renderingRatio(bodyText, rawHTML)

	return facts
}

func extractMetaFacts(doc *goquery.Document) MetaFacts {
	meta := MetaFacts{}

	meta.Title = doc.Find("title").First().Text()
	meta.TitleLength = len(meta.Title)

	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.DescriptionLength = len(meta.Description)

	_, meta.HasViewport = doc.Find("meta[name='viewport']").Attr("content")

	meta.OpenGraphCount = doc.Find("meta[property^='og:']").Length()
	meta.TwitterTagCount = doc.Find("meta[name^='twitter:']").Length()

	return meta
}

func extractHeadingFacts(doc *goquery.Document) HeadingFacts {
	headings := HeadingFacts{
		H1Count: doc.Find("h1").Length(),
		H2Count: doc.Find("h2").Length(),
		H3Count: doc.Find("h3").Length(),
		H4Count: doc.Find("h4").Length(),
		H5Count: doc.Find("h5").Length(),
		H6Count: doc.Find("h6").Length(),
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			headings.H1Texts = append(headings.H1Texts, text)
		}
	})

	return headings
}

func extractImageFacts(doc *goquery.Document) ImageFacts {
	images := ImageFacts{}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		hasAlt := strings.TrimSpace(alt) != ""

		images.Total++
		if hasAlt {
			images.WithAlt++
		} else {
			images.WithoutAlt++
		}
		images.Images = append(images.Images, ImageInfo{
			Source: src,
			Alt:    alt,
			HasAlt: hasAlt,
		})
	})

	return images
}

// extractLinkFacts classifies anchors: root-relative hrefs and hrefs that
// contain the page's hostname are internal; other absolute http(s) hrefs are
// external; everything else only contributes to the total.
func extractLinkFacts(doc *goquery.Document, pageURL string) LinkFacts {
	links := LinkFacts{}
	host := hostOf(pageURL)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		links.Total++

		switch {
		case strings.HasPrefix(href, "/"), host != "" && strings.Contains(href, host):
			links.Internal++
		case strings.HasPrefix(href, "http"):
			links.External++
		}
	})

	links.SocialPlatforms = detectSocialPlatforms(doc)

	return links
}

// socialPlatforms maps platform names to the href fragments that identify
// them. Twitter and X are one platform.
var socialPlatforms = []struct {
	name    string
	domains []string
}{
	{"Facebook", []string{"facebook.com"}},
	{"Instagram", []string{"instagram.com"}},
	{"Twitter/X", []string{"twitter.com", "x.com"}},
	{"LinkedIn", []string{"linkedin.com"}},
	{"YouTube", []string{"youtube.com"}},
}

func detectSocialPlatforms(doc *goquery.Document) []string {
	hosts := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if u, err := url.Parse(strings.TrimSpace(href)); err == nil && u.Host != "" {
			hosts[strings.ToLower(u.Hostname())] = true
		}
	})

	var found []string
	for _, platform := range socialPlatforms {
		for _, domain := range platform.domains {
			if hostsMatch(hosts, domain) {
				found = append(found, platform.name)
				break
			}
		}
	}
	return found
}

// hostsMatch reports whether any collected link host is the domain itself
// or a subdomain of it, so "x.com" does not match "netflix.com".
func hostsMatch(hosts map[string]bool, domain string) bool {
	for host := range hosts {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}

// CollapseBodyText returns the page body's visible text with every
// whitespace run collapsed to a single space and the ends trimmed.
func CollapseBodyText(doc *goquery.Document) string {
	text := doc.Find("body").Text()
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// countWords splits collapsed body text on spaces. An empty body yields a
// word count of 1: splitting the empty string produces one empty token, and
// downstream thresholds were calibrated against that behavior.
func countWords(collapsed string) int {
	return len(strings.Split(collapsed, " "))
}

func renderingRatio(bodyText, rawHTML string) int {
	if len(rawHTML) == 0 {
		return 0
	}
	return int(math.Round(float64(len(bodyText)) / float64(len(rawHTML)) * 100))
}
