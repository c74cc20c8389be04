package audit

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Phone pattern families, evaluated in fixed order. The first family that
// yields any match wins, and the first match within that family wins.
// Reordering these changes detection results.
var phonePatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"country-code", regexp.MustCompile(`\+\d{1,3}[\s.-]?\(?\d{2,4}\)?[\s.-]?\d{3,4}[\s.-]?\d{3,4}`)},
	{"grouped", regexp.MustCompile(`\(?\d{3}\)?[\s.-]\d{3}[\s.-]?\d{4}`)},
	{"international", regexp.MustCompile(`\+\d{1,3}[\s.-]?\d{4,14}`)},
	{"separated", regexp.MustCompile(`\b\d{3}[.\s]\d{3}[.\s]\d{4}\b`)},
}

var (
	usStreetPattern = regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[A-Za-z0-9'.-]+\s+){1,5}(?:Street|St|Avenue|Ave|Boulevard|Blvd|Drive|Dr|Lane|Ln|Road|Rd|Court|Ct|Circle|Cir|Way|Place|Pl)\b\.?(?:,\s*[A-Za-z .]+,\s*[A-Z]{2}\s*\d{5}(?:-\d{4})?)?`)
	poBoxPattern    = regexp.MustCompile(`(?i)\bP\.?\s?O\.?\s?Box\s+\d+(?:,\s*[A-Za-z .]+,\s*[A-Z]{2}\s*\d{5}(?:-\d{4})?)?`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// addressSelectors is the fixed fallback selector list for address-bearing
// elements, tried only after every higher-priority source came up empty.
var addressSelectors = []string{
	"address",
	".address",
	".location",
	".contact-address",
	".footer-address",
	".contact-info",
}

// DetectContact finds the canonical phone number and address for the page.
// Phone and address run as independent pipelines; each tries its sources in
// priority order and stops at the first source that yields a candidate.
func DetectContact(doc *goquery.Document, bodyText string, sd StructuredDataSet) ContactFacts {
	contact := ContactFacts{}
	contact.Phone, contact.PhoneSource = detectPhone(doc, bodyText)
	contact.Address, contact.AddressSource = detectAddress(doc, bodyText, sd)
	return contact
}

// detectPhone prefers the display text of a tel: link, then falls back to
// the regex families over the body text.
func detectPhone(doc *goquery.Document, bodyText string) (string, string) {
	phone := ""
	doc.Find(`a[href^="tel:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := strings.TrimSpace(s.Text()); text != "" {
			phone = text
			return false
		}
		return true
	})
	if phone != "" {
		return phone, "tel-link"
	}

	for _, family := range phonePatterns {
		if match := family.re.FindString(bodyText); match != "" {
			return strings.TrimSpace(match), "pattern-" + family.name
		}
	}

	return "", ""
}

// detectAddress tries, in order: structured-data addresses, the US street
// regex, the PO Box regex, Microdata address itemprops, and finally the
// fixed selector list.
func detectAddress(doc *goquery.Document, bodyText string, sd StructuredDataSet) (string, string) {
	if len(sd.Addresses) > 0 {
		return sd.Addresses[0], "structured-data"
	}

	if match := usStreetPattern.FindString(bodyText); match != "" {
		return strings.TrimSpace(match), "street-pattern"
	}

	if match := poBoxPattern.FindString(bodyText); match != "" {
		return strings.TrimSpace(match), "po-box-pattern"
	}

	if addr := firstSelectionText(doc, `[itemprop*="address"]`, false); addr != "" {
		return addr, "microdata"
	}

	for _, selector := range addressSelectors {
		if addr := firstSelectionText(doc, selector, true); addr != "" {
			return addr, "selector"
		}
	}

	return "", ""
}

// firstSelectionText returns the first element text for the selector whose
// trimmed length is in (15,200), optionally requiring at least one digit.
func firstSelectionText(doc *goquery.Document, selector string, requireDigit bool) string {
	found := ""
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(whitespaceRun.ReplaceAllString(s.Text(), " "))
		if len(text) <= 15 || len(text) >= 200 {
			return true
		}
		if requireDigit && !digitPattern.MatchString(text) {
			return true
		}
		found = text
		return false
	})
	return found
}
