package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func detect(t *testing.T, html string, sd StructuredDataSet) ContactFacts {
	t.Helper()
	doc := parseDoc(t, html)
	return DetectContact(doc, CollapseBodyText(doc), sd)
}

func TestPhoneTelLinkPreferred(t *testing.T) {
	contact := detect(t, `<html><body>
		<p>Call us at (555) 987-6543</p>
		<a href="tel:+15551234567">(555) 123-4567</a>
	</body></html>`, StructuredDataSet{})

	assert.Equal(t, "(555) 123-4567", contact.Phone, "tel: link display text outranks body-text matches")
	assert.Equal(t, "tel-link", contact.PhoneSource)
}

func TestPhoneEmptyTelLinkFallsThrough(t *testing.T) {
	contact := detect(t, `<html><body>
		<a href="tel:+15551234567"><img src="phone.png"></a>
		<p>Reach us: (555) 987-6543</p>
	</body></html>`, StructuredDataSet{})

	assert.Equal(t, "(555) 987-6543", contact.Phone)
}

func TestPhonePatternFamilyOrder(t *testing.T) {
	// Both a country-code number and a grouped number appear; the
	// country-code family is tried first, so its match wins even though the
	// grouped number comes earlier in the text.
	contact := detect(t, `<html><body>
		<p>Office: (555) 111-2222. Intl: +44 20 7946 0958.</p>
	</body></html>`, StructuredDataSet{})

	assert.Equal(t, "pattern-country-code", contact.PhoneSource)
	assert.Equal(t, "+44 20 7946 0958", contact.Phone)
}

func TestPhoneGroupedFamily(t *testing.T) {
	contact := detect(t, `<html><body><p>Call (555) 111-2222 today</p></body></html>`, StructuredDataSet{})

	assert.Equal(t, "(555) 111-2222", contact.Phone)
	assert.Equal(t, "pattern-grouped", contact.PhoneSource)
}

func TestNoPhone(t *testing.T) {
	contact := detect(t, `<html><body><p>No numbers here</p></body></html>`, StructuredDataSet{})
	assert.Empty(t, contact.Phone)
	assert.Empty(t, contact.PhoneSource)
}

func TestAddressStructuredDataWinsOverRegex(t *testing.T) {
	contact := detect(t, `<html><body>
		<p>Visit us at 999 Decoy Avenue, Faketown, TX 75001</p>
	</body></html>`, StructuredDataSet{Addresses: []string{"12 Main Street, Springfield, IL, 62704"}})

	assert.Equal(t, "12 Main Street, Springfield, IL, 62704", contact.Address)
	assert.Equal(t, "structured-data", contact.AddressSource)
}

func TestAddressStreetRegex(t *testing.T) {
	contact := detect(t, `<html><body>
		<p>Our office sits at 450 Harrison Avenue, Boston, MA 02118 near the park.</p>
	</body></html>`, StructuredDataSet{})

	assert.Equal(t, "450 Harrison Avenue, Boston, MA 02118", contact.Address)
	assert.Equal(t, "street-pattern", contact.AddressSource)
}

func TestAddressPOBox(t *testing.T) {
	contact := detect(t, `<html><body><p>Mail: P.O. Box 1234, Portland, OR 97201</p></body></html>`, StructuredDataSet{})

	assert.Equal(t, "po-box-pattern", contact.AddressSource)
	assert.Contains(t, contact.Address, "Box 1234")
}

func TestAddressMicrodataFallback(t *testing.T) {
	// A non-US address shape that neither body-text regex matches.
	contact := detect(t, `<html><body>
		<span itemprop="address">Obere Str. 57, 10117 Berlin</span>
	</body></html>`, StructuredDataSet{})

	assert.Equal(t, "Obere Str. 57, 10117 Berlin", contact.Address)
	assert.Equal(t, "microdata", contact.AddressSource)
}

func TestAddressSelectorFallbackRequiresDigit(t *testing.T) {
	contact := detect(t, `<html><body>
		<div class="address">The big building by the old mill</div>
	</body></html>`, StructuredDataSet{})
	assert.Empty(t, contact.Address, "selector candidates without a digit are rejected")

	contact = detect(t, `<html><body>
		<div class="address">Suite 4, Riverside Business Park</div>
	</body></html>`, StructuredDataSet{})
	assert.Equal(t, "Suite 4, Riverside Business Park", contact.Address)
	assert.Equal(t, "selector", contact.AddressSource)
}

func TestAddressLengthBounds(t *testing.T) {
	contact := detect(t, `<html><body><address>Unit 7 Docks</address></body></html>`, StructuredDataSet{})
	assert.Empty(t, contact.Address, "candidates of 15 chars or fewer are rejected")
}
