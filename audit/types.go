package audit

// AuditInput is the complete, already-resolved input for one audit. The
// rendered HTML and the technical flags come from the render and probe
// collaborators; the engine itself performs no I/O.
type AuditInput struct {
	URL          string         `json:"url"`
	RenderedHTML string         `json:"renderedHtml"`
	Technical    TechnicalFlags `json:"technical"`
}

// TechnicalFlags are externally resolved boolean signals about the page's
// origin. Failures upstream are represented as false, never as errors.
type TechnicalFlags struct {
	HasSSL       bool `json:"hasSSL"`
	HasRobotsTxt bool `json:"hasRobotsTxt"`
	HasSitemap   bool `json:"hasSitemap"`
	HasAnalytics bool `json:"hasAnalytics"`
}

// AuditResult is the full output of one audit. It is constructed fresh per
// invocation and never partially populated.
type AuditResult struct {
	URL             string            `json:"url"`
	PageFacts       PageFacts         `json:"pageFacts"`
	StructuredData  StructuredDataSet `json:"structuredData"`
	Contact         ContactFacts      `json:"contact"`
	ScoreBreakdown  ScoreBreakdown    `json:"scoreBreakdown"`
	Recommendations []Recommendation  `json:"recommendations"`
}

// PageFacts is the normalized view of one rendered page.
type PageFacts struct {
	Meta           MetaFacts    `json:"meta"`
	Headings       HeadingFacts `json:"headings"`
	Images         ImageFacts   `json:"images"`
	Links          LinkFacts    `json:"links"`
	Content        ContentFacts `json:"content"`
	RenderingRatio int          `json:"renderingRatio"`
}

type MetaFacts struct {
	Title             string `json:"title"`
	TitleLength       int    `json:"titleLength"`
	Description       string `json:"description"`
	DescriptionLength int    `json:"descriptionLength"`
	HasViewport       bool   `json:"hasViewport"`
	OpenGraphCount    int    `json:"openGraphCount"`
	TwitterTagCount   int    `json:"twitterTagCount"`
}

type HeadingFacts struct {
	H1Count int      `json:"h1Count"`
	H2Count int      `json:"h2Count"`
	H3Count int      `json:"h3Count"`
	H4Count int      `json:"h4Count"`
	H5Count int      `json:"h5Count"`
	H6Count int      `json:"h6Count"`
	H1Texts []string `json:"h1Texts"`
}

type ImageFacts struct {
	Total      int         `json:"total"`
	WithAlt    int         `json:"withAlt"`
	WithoutAlt int         `json:"withoutAlt"`
	Images     []ImageInfo `json:"images"`
}

type ImageInfo struct {
	Source string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"hasAlt"`
}

type LinkFacts struct {
	Total    int `json:"total"`
	Internal int `json:"internal"`
	External int `json:"external"`

	// SocialPlatforms lists the known social networks linked from the page,
	// in a fixed platform order. Twitter and X count as one platform.
	SocialPlatforms []string `json:"socialPlatforms"`
}

type ContentFacts struct {
	WordCount int `json:"wordCount"`
	CharCount int `json:"charCount"`
}

// StructuredDataSet summarizes every structured-data encoding found on the
// page. SchemaTypes preserves first-seen order across all JSON-LD scripts.
type StructuredDataSet struct {
	SchemaTypes       []string `json:"schemaTypes"`
	HasIdentitySchema bool     `json:"hasIdentitySchema"`
	IdentityType      string   `json:"identityType"`
	HasLocalBusiness  bool     `json:"hasLocalBusinessSchema"`
	HasValidJSONLD    bool     `json:"hasValidJsonLd"`
	HasMicrodata      bool     `json:"hasMicrodata"`
	HasRDFa           bool     `json:"hasRdfa"`

	// Addresses holds address candidates collected during the JSON-LD walk,
	// in first-seen order. The entity detector consumes these before falling
	// back to pattern matching; they are not part of the wire contract.
	Addresses []string `json:"-"`
}

// ContactFacts holds the single canonical phone number and address detected
// on the page, with the source that produced each one.
type ContactFacts struct {
	Phone         string `json:"phone"`
	PhoneSource   string `json:"phoneSource,omitempty"`
	Address       string `json:"address"`
	AddressSource string `json:"addressSource,omitempty"`
}

// ScoreBreakdown is the weighted category score. Total is the arithmetic
// sum of the four categories and is never clamped.
type ScoreBreakdown struct {
	OnPage        int      `json:"onPage"`
	Technical     int      `json:"technical"`
	Local         int      `json:"local"`
	Social        int      `json:"social"`
	Total         int      `json:"total"`
	Grade         string   `json:"grade"`
	OnPagePercent int      `json:"onPagePercent"`
	Details       []string `json:"details"`
}

// Recommendation categories.
const (
	CategoryOnPage    = "On-Page SEO"
	CategoryTechnical = "Technical SEO"
	CategoryLocal     = "Local SEO"
	CategorySocial    = "Social"
)

// Recommendation priorities, fixed per rule at design time.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Recommendation is one remediation action. The list order is fixed by
// generation order; rules never suppress each other.
type Recommendation struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}
