// Package audit turns one rendered page into a deterministic, explainable
// quality score and a prioritized remediation list. The engine is a pure,
// synchronous transformation: all inputs arrive already resolved, no I/O
// happens inside, and independent audits can run concurrently with no
// coordination.
package audit

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Engine runs structured audits. The zero value is not usable; construct
// with New. An Engine is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// New creates an audit engine. A nil logger disables engine logging.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run executes one complete audit over the supplied input. The result is
// all-or-nothing: the only failure mode is HTML that cannot be parsed at
// all, in which case no partial result is returned. Feeding the same input
// twice yields an identical result.
func (e *Engine) Run(input AuditInput) (*AuditResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input.RenderedHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	facts := ExtractPageFacts(doc, input.RenderedHTML, input.URL)
	structured := ExtractStructuredData(doc, e.logger)

	// The entity detector runs after structured-data extraction because it
	// prefers schema addresses over pattern-matched ones.
	contact := DetectContact(doc, CollapseBodyText(doc), structured)

	breakdown := CalculateScore(facts, structured, contact, input.Technical)
	recommendations := GenerateRecommendations(facts, structured, contact, input.Technical)

	e.logger.Info("audit complete",
		zap.String("url", input.URL),
		zap.Int("score", breakdown.Total),
		zap.String("grade", breakdown.Grade),
		zap.Int("recommendations", len(recommendations)),
	)

	return &AuditResult{
		URL:             input.URL,
		PageFacts:       facts,
		StructuredData:  structured,
		Contact:         contact,
		ScoreBreakdown:  breakdown,
		Recommendations: recommendations,
	}, nil
}
