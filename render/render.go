// Package render drives a headless browser to produce the rendered HTML the
// audit engine consumes. The engine never touches the browser itself; every
// browser resource is acquired and released here, on success and failure
// paths alike.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Failure classes surfaced to callers when a page cannot be rendered.
const (
	ClassNotFound    = "not found"
	ClassTimedOut    = "timed out"
	ClassForbidden   = "forbidden"
	ClassServerError = "server error"
)

// Error is an audit-level rendering failure with a caller-facing class.
type Error struct {
	Class string
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.URL, e.Class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RenderedPage is the outcome of one successful render.
type RenderedPage struct {
	FinalURL   string
	HTML       string
	Screenshot []byte
}

// Renderer owns one shared headless browser. Pages are created per render
// and always closed.
type Renderer struct {
	browser *rod.Browser
	cleanup func()
	timeout time.Duration
	logger  *zap.Logger
}

// New launches a headless browser. Call Close when done.
func New(timeout time.Duration, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Renderer{
		browser: browser,
		cleanup: l.Kill,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() error {
	err := r.browser.Close()
	if r.cleanup != nil {
		r.cleanup()
	}
	return err
}

// NormalizeURL assumes https:// for scheme-less URLs.
func NormalizeURL(pageURL string) string {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL != "" && !strings.Contains(pageURL, "://") {
		return "https://" + pageURL
	}
	return pageURL
}

// Render navigates to the URL, waits for load plus network idle, and
// returns the rendered HTML. The screenshot is captured only on request.
func (r *Renderer) Render(ctx context.Context, pageURL string, withScreenshot bool) (*RenderedPage, error) {
	target := NormalizeURL(pageURL)
	start := time.Now()

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &Error{Class: ClassServerError, URL: target, Err: err}
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(r.timeout)

	// Capture the first document response so HTTP-level failures can be
	// classified for the caller.
	var response proto.NetworkResponseReceived
	waitResponse := page.WaitEvent(&response)

	if err := page.Navigate(target); err != nil {
		return nil, classify(target, err, 0)
	}
	waitResponse()

	if status := int(response.Response.Status); status >= 400 {
		return nil, classify(target, fmt.Errorf("HTTP %d", status), status)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, classify(target, err, 0)
	}

	// Give late XHR-driven pages a chance to settle before reading the DOM.
	waitIdle := page.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)
	waitIdle()

	html, err := page.HTML()
	if err != nil {
		return nil, classify(target, err, 0)
	}

	rendered := &RenderedPage{
		FinalURL: page.MustInfo().URL,
		HTML:     html,
	}

	if withScreenshot {
		shot, err := page.Screenshot(true, nil)
		if err != nil {
			r.logger.Warn("screenshot failed", zap.String("url", target), zap.Error(err))
		} else {
			rendered.Screenshot = shot
		}
	}

	r.logger.Info("page rendered",
		zap.String("url", target),
		zap.Int("html_bytes", len(html)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return rendered, nil
}

// classify maps a render failure onto one of the caller-facing classes.
func classify(target string, err error, status int) *Error {
	switch {
	case status == 403 || status == 401:
		return &Error{Class: ClassForbidden, URL: target, Err: err}
	case status == 404 || status == 410:
		return &Error{Class: ClassNotFound, URL: target, Err: err}
	case status >= 400:
		return &Error{Class: ClassServerError, URL: target, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Class: ClassTimedOut, URL: target, Err: err}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return &Error{Class: ClassTimedOut, URL: target, Err: err}
	case strings.Contains(msg, "ERR_NAME_NOT_RESOLVED") || strings.Contains(msg, "no such host"):
		return &Error{Class: ClassNotFound, URL: target, Err: err}
	case strings.Contains(msg, "ERR_BLOCKED") || strings.Contains(msg, "ERR_ACCESS_DENIED"):
		return &Error{Class: ClassForbidden, URL: target, Err: err}
	default:
		return &Error{Class: ClassServerError, URL: target, Err: err}
	}
}
