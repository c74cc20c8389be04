// Package probe resolves the technical boolean facts the scoring engine
// consumes. Probe failures are never errors: an unreachable robots.txt is
// the same fact as a missing one.
package probe

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageaudit/backend/audit"
)

// Prober issues HEAD requests against a page's origin.
type Prober struct {
	client *http.Client
	logger *zap.Logger
}

// New creates a Prober with connection pooling tuned for short HEAD checks.
func New(timeout time.Duration, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: logger,
	}
}

// TechnicalFlags resolves SSL, robots.txt and sitemap.xml for the page's
// origin, and scans the rendered HTML for analytics signatures. finalURL is
// the URL the renderer actually landed on, after redirects.
func (p *Prober) TechnicalFlags(ctx context.Context, finalURL, renderedHTML string, signatures []string) audit.TechnicalFlags {
	flags := audit.TechnicalFlags{
		HasSSL:       strings.HasPrefix(finalURL, "https://"),
		HasAnalytics: audit.DetectAnalytics(renderedHTML, signatures),
	}

	origin := originOf(finalURL)
	if origin == "" {
		return flags
	}

	flags.HasRobotsTxt = p.exists(ctx, origin+"/robots.txt")
	flags.HasSitemap = p.exists(ctx, origin+"/sitemap.xml")

	return flags
}

// exists reports whether a HEAD request for the URL succeeds with a 2xx-3xx
// status. Any transport error counts as absent.
func (p *Prober) exists(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "PageAudit/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe failed", zap.String("url", target), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func originOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
