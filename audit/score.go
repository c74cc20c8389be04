package audit

import (
	"fmt"
	"math"
)

// Category point budgets.
const (
	maxOnPagePoints    = 45
	maxTechnicalPoints = 30
	maxLocalPoints     = 15
	maxSocialPoints    = 10
)

// CalculateScore converts the combined fact set into the four weighted
// category totals. It is a pure function: rules are evaluated in a fixed
// order, each awards a flat point value keyed to a specific threshold, and
// one detail line per rule is appended for auditability. The total is the
// plain sum of the categories and is never clamped.
func CalculateScore(facts PageFacts, sd StructuredDataSet, contact ContactFacts, tech TechnicalFlags) ScoreBreakdown {
	breakdown := ScoreBreakdown{Details: []string{}}

	breakdown.OnPage = scoreOnPage(facts, &breakdown.Details)
	breakdown.Technical = scoreTechnical(sd, tech, &breakdown.Details)
	breakdown.Local = scoreLocal(sd, contact, &breakdown.Details)
	breakdown.Social = scoreSocial(facts, &breakdown.Details)

	breakdown.Total = breakdown.OnPage + breakdown.Technical + breakdown.Local + breakdown.Social
	breakdown.Grade = gradeFor(breakdown.Total)
	breakdown.OnPagePercent = int(math.Round(float64(breakdown.OnPage) / maxOnPagePoints * 100))

	return breakdown
}

func scoreOnPage(facts PageFacts, details *[]string) int {
	points := 0

	// Title length.
	titleLen := facts.Meta.TitleLength
	awarded := 0
	switch {
	case titleLen >= 50 && titleLen <= 60:
		awarded = 12
	case titleLen >= 30 && titleLen <= 70:
		awarded = 4
	case titleLen > 0:
		awarded = 1
	}
	points += awarded
	addDetail(details, "Title length %d (optimal 50-60)", titleLen, awarded)

	// Meta description length.
	descLen := facts.Meta.DescriptionLength
	awarded = 0
	switch {
	case descLen >= 120 && descLen <= 160:
		awarded = 8
	case descLen >= 50 && descLen <= 200:
		awarded = 2
	case descLen > 0:
		awarded = 1
	}
	points += awarded
	addDetail(details, "Meta description length %d (optimal 120-160)", descLen, awarded)

	// H1 usage.
	awarded = 0
	switch {
	case facts.Headings.H1Count == 1 && len(facts.Headings.H1Texts) > 0 && len(facts.Headings.H1Texts[0]) >= 20:
		awarded = 8
	case facts.Headings.H1Count == 1:
		awarded = 1
	case facts.Headings.H1Count > 1:
		awarded = 1
	}
	points += awarded
	addDetail(details, "H1 count %d (single descriptive H1 expected)", facts.Headings.H1Count, awarded)

	// Heading structure.
	awarded = 0
	switch {
	case facts.Headings.H2Count >= 3 && (facts.Headings.H3Count >= 2 || facts.Headings.H4Count >= 1):
		awarded = 5
	case facts.Headings.H2Count >= 2:
		awarded = 2
	}
	points += awarded
	addDetail(details, "Heading structure with %d H2s", facts.Headings.H2Count, awarded)

	// Image alt coverage.
	awarded = 0
	if facts.Images.Total == 0 {
		awarded = 2
		*details = append(*details, fmt.Sprintf("No images on page: +%d", awarded))
	} else {
		coverage := float64(facts.Images.WithAlt) / float64(facts.Images.Total)
		switch {
		case coverage == 1:
			awarded = 4
		case coverage >= 0.8:
			awarded = 2
		case coverage >= 0.5:
			awarded = 1
		}
		*details = append(*details, fmt.Sprintf("Image alt coverage %d/%d: +%d",
			facts.Images.WithAlt, facts.Images.Total, awarded))
	}
	points += awarded

	// Content depth.
	words := facts.Content.WordCount
	awarded = 0
	switch {
	case words >= 1000:
		awarded = 8
	case words >= 500:
		awarded = 3
	case words >= 300:
		awarded = 1
	case words >= 50:
		awarded = 1
	}
	points += awarded
	addDetail(details, "Word count %d", words, awarded)

	return points
}

func scoreTechnical(sd StructuredDataSet, tech TechnicalFlags, details *[]string) int {
	points := 0

	points += flagPoints(details, "SSL certificate", tech.HasSSL, 5)
	// robots.txt and sitemap.xml each carry a 3+2 split awarded together.
	points += flagPoints(details, "robots.txt present", tech.HasRobotsTxt, 5)
	points += flagPoints(details, "sitemap.xml present", tech.HasSitemap, 5)
	points += flagPoints(details, "Analytics script detected", tech.HasAnalytics, 3)

	awarded := 0
	switch {
	case sd.HasValidJSONLD:
		awarded = 12
	case sd.HasMicrodata || sd.HasRDFa:
		awarded = 4
	}
	points += awarded
	*details = append(*details, fmt.Sprintf("Structured data (JSON-LD valid=%t): +%d", sd.HasValidJSONLD, awarded))

	return points
}

func scoreLocal(sd StructuredDataSet, contact ContactFacts, details *[]string) int {
	points := 0
	points += flagPoints(details, "Phone number found", contact.Phone != "", 3)
	points += flagPoints(details, "Address found", contact.Address != "", 4)
	points += flagPoints(details, "LocalBusiness schema", sd.HasLocalBusiness, 8)
	return points
}

func scoreSocial(facts PageFacts, details *[]string) int {
	count := len(facts.Links.SocialPlatforms)
	awarded := 0
	switch {
	case count >= 2:
		awarded = 10
	case count == 1:
		awarded = 5
	}
	*details = append(*details, fmt.Sprintf("Social profiles linked (%d platforms): +%d", count, awarded))
	return awarded
}

func flagPoints(details *[]string, label string, ok bool, value int) int {
	awarded := 0
	if ok {
		awarded = value
	}
	*details = append(*details, fmt.Sprintf("%s=%t: +%d", label, ok, awarded))
	return awarded
}

func addDetail(details *[]string, format string, measured, awarded int) {
	*details = append(*details, fmt.Sprintf(format+": +%d", measured, awarded))
}

// gradeFor maps the 0-100 total onto the letter ladder, descending from
// A+ at 90 in half-letter steps of 5 points.
func gradeFor(total int) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 85:
		return "A"
	case total >= 80:
		return "A-"
	case total >= 75:
		return "B+"
	case total >= 70:
		return "B"
	case total >= 65:
		return "B-"
	case total >= 60:
		return "C+"
	case total >= 55:
		return "C"
	case total >= 50:
		return "C-"
	case total >= 45:
		return "D+"
	case total >= 40:
		return "D"
	case total >= 35:
		return "D-"
	default:
		return "F"
	}
}
