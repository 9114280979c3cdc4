// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Browser abstracts the page-rendering engine.
// Each capture task opens its own Session and releases it when done;
// sessions are never shared between tasks.
type Browser interface {
	// NewSession launches a rendering session bound to ctx.
	// Cancelling ctx tears the session down.
	NewSession(ctx context.Context) (Session, error)
}

// Session is a single live page inside the rendering engine.
type Session interface {
	// Navigate loads the specified URL and waits for the load event.
	Navigate(url string) error

	// SetViewport sets the page viewport in CSS pixels.
	SetViewport(width, height int) error

	// Evaluate runs a JavaScript expression in the page.
	// When res is non-nil the JSON result is decoded into it.
	Evaluate(script string, res interface{}) error

	// Screenshot captures the page as PNG data.
	// With fullPage the capture covers the whole scrollable document.
	Screenshot(fullPage bool) ([]byte, error)

	// Close releases the session.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Headless          bool
	ChromePath        string
	UserAgent         string
	Headers           map[string]string
	IgnoreHTTPSErrors bool   // Ignore HTTPS certificate errors
	ProxyServer       string // HTTP proxy server (e.g., "http://proxy:8080")
	Incognito         bool
}
