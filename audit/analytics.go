package audit

import "strings"

// DefaultAnalyticsSignatures is the built-in snapshot of known tracking
// script URLs. Vendors move these around, so deployments can override the
// table through configuration instead of a code change.
var DefaultAnalyticsSignatures = []string{
	"googletagmanager.com/gtag/js",
	"googletagmanager.com/gtm.js",
	"google-analytics.com/analytics.js",
	"google-analytics.com/ga.js",
	"connect.facebook.net/en_US/fbevents.js",
	"static.hotjar.com",
	"cdn.segment.com/analytics.js",
	"plausible.io/js/script.js",
	"cdn.matomo.cloud",
	"clarity.ms/tag",
	"snap.licdn.com/li.lms-analytics",
	"analytics.tiktok.com",
}

// DetectAnalytics reports whether any known tracking-script signature
// appears in the raw HTML. A plain substring scan is enough here; the
// script tags never need DOM parsing for this signal.
func DetectAnalytics(rawHTML string, signatures []string) bool {
	if len(signatures) == 0 {
		signatures = DefaultAnalyticsSignatures
	}
	for _, sig := range signatures {
		if strings.Contains(rawHTML, sig) {
			return true
		}
	}
	return false
}
