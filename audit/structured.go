package audit

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

// maxSchemaDepth caps the recursive JSON-LD walk. The payloads are
// attacker-controlled, so unbounded recursion on a self-referential graph is
// a denial-of-service risk.
const maxSchemaDepth = 20

var identityTypes = map[string]bool{
	"Organization":  true,
	"Person":        true,
	"Corporation":   true,
	"LocalBusiness": true,
}

var localBusinessTypes = map[string]bool{
	"Restaurant":          true,
	"Store":               true,
	"MedicalBusiness":     true,
	"ProfessionalService": true,
}

// ExtractStructuredData scans every JSON-LD script on the page and checks
// for Microdata/RDFa attribute presence. Each script is parsed
// independently: a malformed script gets one jsonrepair retry and is then
// skipped without aborting extraction of the remaining scripts.
func ExtractStructuredData(doc *goquery.Document, logger *zap.Logger) StructuredDataSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	ex := &schemaExtractor{
		seen:   make(map[string]bool),
		logger: logger,
	}

	doc.Find("script[type='application/ld+json']").Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var payload interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(raw)
			if repairErr != nil || json.Unmarshal([]byte(repaired), &payload) != nil {
				logger.Debug("skipping malformed JSON-LD script",
					zap.Int("script", i),
					zap.Error(err),
				)
				return
			}
			logger.Debug("recovered malformed JSON-LD script via repair", zap.Int("script", i))
		}

		before := ex.typesYielded
		ex.walk(payload, 0)
		if ex.typesYielded > before {
			ex.set.HasValidJSONLD = true
		}
	})

	ex.set.HasMicrodata = doc.Find("[itemtype], [itemscope]").Length() > 0
	ex.set.HasRDFa = doc.Find("[vocab], [typeof]").Length() > 0

	logger.Debug("structured data extracted",
		zap.Strings("schema_types", ex.set.SchemaTypes),
		zap.Bool("valid_json_ld", ex.set.HasValidJSONLD),
		zap.Bool("microdata", ex.set.HasMicrodata),
		zap.Bool("rdfa", ex.set.HasRDFa),
	)

	return ex.set
}

type schemaExtractor struct {
	set          StructuredDataSet
	seen         map[string]bool
	seenAddr     map[string]bool
	typesYielded int
	logger       *zap.Logger
}

// walk recurses through one decoded JSON-LD payload. An @graph array
// replaces its wrapper node; bare arrays contribute one node per entry;
// every object value and array-of-objects value is descended into so types
// nested under offers, author and the like are discovered.
func (ex *schemaExtractor) walk(node interface{}, depth int) {
	if depth > maxSchemaDepth {
		ex.logger.Debug("schema recursion depth cap hit", zap.Int("depth", depth))
		return
	}

	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			ex.walk(item, depth+1)
		}
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, member := range graph {
				ex.walk(member, depth+1)
			}
			return
		}

		ex.collectTypes(v["@type"])
		if typeString(v["@type"]) == "PostalAddress" {
			ex.addAddress(formatPostalAddress(v))
		}

		// Map iteration order is randomized, so recurse over sorted keys to
		// keep first-seen ordering deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if k == "@type" {
				continue
			}
			if k == "address" {
				ex.collectAddress(v[k])
			}
			switch child := v[k].(type) {
			case map[string]interface{}:
				ex.walk(child, depth+1)
			case []interface{}:
				for _, item := range child {
					if _, isObj := item.(map[string]interface{}); isObj {
						ex.walk(item, depth+1)
					}
				}
			}
		}
	}
}

func (ex *schemaExtractor) collectTypes(raw interface{}) {
	switch t := raw.(type) {
	case string:
		ex.addType(t)
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				ex.addType(s)
			}
		}
	}
}

func (ex *schemaExtractor) addType(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	ex.typesYielded++

	if !ex.seen[t] {
		ex.seen[t] = true
		ex.set.SchemaTypes = append(ex.set.SchemaTypes, t)
	}

	if !ex.set.HasIdentitySchema && identityTypes[t] {
		ex.set.HasIdentitySchema = true
		ex.set.IdentityType = t
	}
	if strings.Contains(t, "LocalBusiness") || localBusinessTypes[t] {
		ex.set.HasLocalBusiness = true
	}
}

// collectAddress records candidates from an "address" value. A string form
// must be longer than 15 characters; an object form is formatted from its
// postal fields.
func (ex *schemaExtractor) collectAddress(raw interface{}) {
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); len(s) > 15 {
			ex.addAddress(s)
		}
	case map[string]interface{}:
		ex.addAddress(formatPostalAddress(v))
	case []interface{}:
		for _, item := range v {
			ex.collectAddress(item)
		}
	}
}

func (ex *schemaExtractor) addAddress(addr string) {
	if addr == "" {
		return
	}
	if ex.seenAddr == nil {
		ex.seenAddr = make(map[string]bool)
	}
	if ex.seenAddr[addr] {
		return
	}
	ex.seenAddr[addr] = true
	ex.set.Addresses = append(ex.set.Addresses, addr)
}

// formatPostalAddress joins the non-empty postal fields of a PostalAddress
// object with ", " separators.
func formatPostalAddress(obj map[string]interface{}) string {
	parts := make([]string, 0, 4)
	for _, field := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode"} {
		if s, ok := obj[field].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, ", ")
}

func typeString(raw interface{}) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return ""
}
