package audit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ldPage(scripts ...string) string {
	var b strings.Builder
	b.WriteString("<html><head>")
	for _, s := range scripts {
		b.WriteString(`<script type="application/ld+json">` + s + `</script>`)
	}
	b.WriteString("</head><body></body></html>")
	return b.String()
}

func TestGraphExpansion(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "Organization", "name": "Acme"},
			{"@type": "WebSite", "url": "https://acme.test"},
			{"@type": "WebPage"}
		]
	}`)), nil)

	assert.Equal(t, []string{"Organization", "WebSite", "WebPage"}, sd.SchemaTypes)
	assert.True(t, sd.HasValidJSONLD)
	assert.True(t, sd.HasIdentitySchema)
	assert.Equal(t, "Organization", sd.IdentityType)
}

func TestBareArrayPayload(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(`[
		{"@type": "Person", "name": "Ada"},
		{"@type": "WebSite"}
	]`)), nil)

	assert.Equal(t, []string{"Person", "WebSite"}, sd.SchemaTypes)
	assert.Equal(t, "Person", sd.IdentityType)
}

func TestNestedTypesDiscovered(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(`{
		"@type": "Product",
		"offers": {"@type": "Offer", "price": "10"},
		"review": [{"@type": "Review", "author": {"@type": "Person", "name": "Bo"}}]
	}`)), nil)

	assert.Contains(t, sd.SchemaTypes, "Product")
	assert.Contains(t, sd.SchemaTypes, "Offer")
	assert.Contains(t, sd.SchemaTypes, "Review")
	assert.Contains(t, sd.SchemaTypes, "Person")
}

func TestMalformedScriptSkipped(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(
		`{{{not json at all`,
		`{"@type": "WebSite"}`,
	)), nil)

	assert.Contains(t, sd.SchemaTypes, "WebSite", "one bad script must not abort the others")
	assert.True(t, sd.HasValidJSONLD)
}

func TestRepairableScriptRecovered(t *testing.T) {
	// Trailing comma: invalid JSON, recoverable by jsonrepair.
	sd := ExtractStructuredData(parseDoc(t, ldPage(`{"@type": "Organization",}`)), nil)

	assert.Equal(t, []string{"Organization"}, sd.SchemaTypes)
	assert.True(t, sd.HasValidJSONLD)
}

func TestValidJSONLDRequiresTypes(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(`{"name": "typeless"}`)), nil)

	assert.Empty(t, sd.SchemaTypes)
	assert.False(t, sd.HasValidJSONLD, "a parsed script without types is not valid structured data")
}

func TestTypeArrayAndDeduplication(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(
		`{"@type": ["Organization", "LocalBusiness"]}`,
		`{"@type": "Organization"}`,
	)), nil)

	assert.Equal(t, []string{"Organization", "LocalBusiness"}, sd.SchemaTypes)
	assert.True(t, sd.HasLocalBusiness)
}

func TestLocalBusinessVariants(t *testing.T) {
	for _, typ := range []string{"LocalBusiness", "AutomotiveLocalBusiness", "Restaurant", "Store", "MedicalBusiness", "ProfessionalService"} {
		sd := ExtractStructuredData(parseDoc(t, ldPage(`{"@type": "`+typ+`"}`)), nil)
		assert.True(t, sd.HasLocalBusiness, "type %s should flag a local business", typ)
	}

	sd := ExtractStructuredData(parseDoc(t, ldPage(`{"@type": "WebSite"}`)), nil)
	assert.False(t, sd.HasLocalBusiness)
}

func TestDepthCapTerminates(t *testing.T) {
	// 40 nested levels, types past the cap are ignored.
	inner := `{"@type": "Thing"}`
	for i := 0; i < 40; i++ {
		inner = fmt.Sprintf(`{"@type": "Level%d", "item": %s}`, i, inner)
	}

	sd := ExtractStructuredData(parseDoc(t, ldPage(inner)), nil)
	require.NotEmpty(t, sd.SchemaTypes)
	assert.NotContains(t, sd.SchemaTypes, "Thing")
}

func TestMicrodataAndRDFaFlags(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, `<html><body>
		<div itemscope itemtype="https://schema.org/Organization"></div>
	</body></html>`), nil)
	assert.True(t, sd.HasMicrodata)
	assert.False(t, sd.HasRDFa)
	assert.False(t, sd.HasValidJSONLD)

	sd = ExtractStructuredData(parseDoc(t, `<html><body vocab="https://schema.org/" typeof="Person"></body></html>`), nil)
	assert.True(t, sd.HasRDFa)
	assert.False(t, sd.HasMicrodata)
}

func TestAddressCollection(t *testing.T) {
	sd := ExtractStructuredData(parseDoc(t, ldPage(`{
		"@type": "LocalBusiness",
		"address": {
			"@type": "PostalAddress",
			"streetAddress": "12 Main Street",
			"addressLocality": "Springfield",
			"addressRegion": "IL",
			"postalCode": "62704"
		}
	}`)), nil)

	require.NotEmpty(t, sd.Addresses)
	assert.Equal(t, "12 Main Street, Springfield, IL, 62704", sd.Addresses[0])
}

func TestAddressStringFormLengthGate(t *testing.T) {
	short := ExtractStructuredData(parseDoc(t, ldPage(`{"@type": "Organization", "address": "12 Main St"}`)), nil)
	assert.Empty(t, short.Addresses, "string addresses of 15 chars or fewer are rejected")

	long := ExtractStructuredData(parseDoc(t, ldPage(`{"@type": "Organization", "address": "12 Main Street, Springfield IL"}`)), nil)
	require.NotEmpty(t, long.Addresses)
	assert.Equal(t, "12 Main Street, Springfield IL", long.Addresses[0])
}
