package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ANALYTICS_SIGNATURES_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.NotEmpty(t, cfg.AnalyticsSignatures, "default signature snapshot applies")
}

func TestLoadSignatureOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signatures:\n  - vendor-a.example/t.js\n  - vendor-b.example/px\n"), 0644))
	t.Setenv("ANALYTICS_SIGNATURES_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor-a.example/t.js", "vendor-b.example/px"}, cfg.AnalyticsSignatures)
}

func TestLoadEmptySignatureFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signatures: []\n"), 0644))
	t.Setenv("ANALYTICS_SIGNATURES_FILE", path)

	_, err := Load()
	assert.Error(t, err, "an empty table would silently disable analytics detection")
}

func TestDurationOverride(t *testing.T) {
	t.Setenv("ANALYTICS_SIGNATURES_FILE", "")
	t.Setenv("RENDER_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "45s", cfg.RenderTimeout.String())
}
