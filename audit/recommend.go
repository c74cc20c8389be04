package audit

// GenerateRecommendations derives the remediation list from the same facts
// the scoring engine consumes, without sharing any state with it. Each rule
// mirrors one scoring deficiency, carries a priority fixed at design time,
// and either fires or not; the output order is the generation order, high
// priority on-page rules first, then descending through the categories.
func GenerateRecommendations(facts PageFacts, sd StructuredDataSet, contact ContactFacts, tech TechnicalFlags) []Recommendation {
	recs := []Recommendation{}

	add := func(fires bool, title, category, priority string) {
		if fires {
			recs = append(recs, Recommendation{Title: title, Category: category, Priority: priority})
		}
	}

	// On-Page SEO.
	titleLen := facts.Meta.TitleLength
	add(titleLen == 0, "Add a title tag to the page", CategoryOnPage, PriorityHigh)
	add(titleLen > 0 && titleLen < 50, "Title tag is too short (aim for 50-60 characters)", CategoryOnPage, PriorityHigh)
	add(titleLen > 60, "Title tag is too long (aim for 50-60 characters)", CategoryOnPage, PriorityHigh)

	descLen := facts.Meta.DescriptionLength
	add(descLen == 0, "Add a meta description", CategoryOnPage, PriorityHigh)
	add(descLen > 0 && descLen < 120, "Meta description is too short (aim for 120-160 characters)", CategoryOnPage, PriorityMedium)
	add(descLen > 160, "Meta description is too long (aim for 120-160 characters)", CategoryOnPage, PriorityMedium)

	h1 := facts.Headings.H1Count
	add(h1 == 0, "Add an H1 heading", CategoryOnPage, PriorityHigh)
	add(h1 > 1, "Use a single H1 heading", CategoryOnPage, PriorityMedium)
	add(h1 == 1 && (len(facts.Headings.H1Texts) == 0 || len(facts.Headings.H1Texts[0]) < 20),
		"Make the H1 heading more descriptive (20+ characters)", CategoryOnPage, PriorityLow)

	add(facts.Headings.H2Count < 3, "Structure the content with more H2 subheadings", CategoryOnPage, PriorityMedium)

	add(facts.Images.Total > 0 && facts.Images.WithAlt < facts.Images.Total,
		"Add alt text to all images", CategoryOnPage, PriorityMedium)

	words := facts.Content.WordCount
	add(words < 300, "Add more content (aim for at least 300 words)", CategoryOnPage, PriorityMedium)
	add(words >= 300 && words < 1000, "Expand the content depth (1000+ words performs best)", CategoryOnPage, PriorityLow)

	// Technical SEO.
	add(!tech.HasSSL, "Serve the site over HTTPS", CategoryTechnical, PriorityHigh)
	add(!tech.HasRobotsTxt, "Add a robots.txt file", CategoryTechnical, PriorityMedium)
	add(!tech.HasSitemap, "Add an XML sitemap", CategoryTechnical, PriorityMedium)
	add(!tech.HasAnalytics, "Install an analytics or tag manager script", CategoryTechnical, PriorityLow)
	add(!sd.HasValidJSONLD && !sd.HasMicrodata && !sd.HasRDFa,
		"Add JSON-LD structured data", CategoryTechnical, PriorityHigh)
	add(!sd.HasValidJSONLD && (sd.HasMicrodata || sd.HasRDFa),
		"Upgrade Microdata/RDFa markup to JSON-LD", CategoryTechnical, PriorityMedium)

	// Local SEO.
	add(contact.Phone == "", "Add a visible phone number", CategoryLocal, PriorityMedium)
	add(contact.Address == "", "Add a visible street address", CategoryLocal, PriorityMedium)
	add(!sd.HasLocalBusiness, "Add LocalBusiness schema markup", CategoryLocal, PriorityMedium)

	// Social.
	platforms := len(facts.Links.SocialPlatforms)
	add(platforms == 0, "Link your social media profiles", CategorySocial, PriorityLow)
	add(platforms == 1, "Link at least two social media platforms", CategorySocial, PriorityLow)

	return recs
}
