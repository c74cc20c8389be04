package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectAnalytics(t *testing.T) {
	html := `<html><head>
		<script async src="https://www.googletagmanager.com/gtag/js?id=G-XXXX"></script>
	</head><body></body></html>`

	assert.True(t, DetectAnalytics(html, nil), "nil signature list falls back to the default table")
	assert.False(t, DetectAnalytics("<html><body>plain page</body></html>", nil))
}

func TestDetectAnalyticsCustomSignatures(t *testing.T) {
	html := `<script src="https://tracker.internal.example/t.js"></script>`

	assert.True(t, DetectAnalytics(html, []string{"tracker.internal.example"}))
	assert.False(t, DetectAnalytics(html, []string{"some-other-vendor.example"}),
		"a custom table replaces the default snapshot instead of extending it")
}
