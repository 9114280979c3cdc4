// Package pwbrowser provides a browser implementation using playwright-go.
package pwbrowser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/user/shots/pkg/ports"
)

// Browser implements ports.Browser by driving Chromium through Playwright.
type Browser struct {
	opts        ports.BrowserOptions
	autoInstall bool

	installOnce sync.Once
	installErr  error
}

// New creates a new Browser. With autoInstall the Playwright driver and
// Chromium are downloaded on first use.
func New(opts ports.BrowserOptions, autoInstall bool) *Browser {
	return &Browser{opts: opts, autoInstall: autoInstall}
}

// NewSession starts Playwright, launches Chromium and opens a page.
// The session closes itself when ctx is done.
func (b *Browser) NewSession(ctx context.Context) (ports.Session, error) {
	if err := b.install(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	s := &Session{pw: pw}

	s.browser, err = pw.Chromium.Launch(b.launchOptions())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	bctx, err := s.browser.NewContext(b.contextOptions())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	s.page, err = bctx.NewPage()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	s.stopWatch = context.AfterFunc(ctx, func() { s.Close() })
	return s, nil
}

func (b *Browser) install() error {
	if !b.autoInstall {
		return nil
	}
	b.installOnce.Do(func() {
		err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
		if err != nil {
			b.installErr = fmt.Errorf("install playwright: %w", err)
		}
	})
	return b.installErr
}

func (b *Browser) launchOptions() playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.opts.Headless),
		Args:     []string{"--hide-scrollbars", "--font-render-hinting=none", "--force-color-profile=srgb"},
	}
	if b.opts.ChromePath != "" {
		opts.ExecutablePath = playwright.String(b.opts.ChromePath)
	}
	if b.opts.ProxyServer != "" {
		opts.Proxy = &playwright.Proxy{Server: b.opts.ProxyServer}
	}
	return opts
}

func (b *Browser) contextOptions() playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(b.opts.IgnoreHTTPSErrors),
	}
	if b.opts.UserAgent != "" {
		opts.UserAgent = playwright.String(b.opts.UserAgent)
	}
	if len(b.opts.Headers) > 0 {
		opts.ExtraHttpHeaders = b.opts.Headers
	}
	return opts
}

// Session is one Playwright page with its own browser and driver.
type Session struct {
	pw        *playwright.Playwright
	browser   playwright.Browser
	page      playwright.Page
	stopWatch func() bool

	closeOnce sync.Once
	closeErr  error
}

// Navigate loads the specified URL and waits for the load event.
func (s *Session) Navigate(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// SetViewport resizes the page viewport.
func (s *Session) SetViewport(width, height int) error {
	return s.page.SetViewportSize(width, height)
}

// Evaluate runs script in the page. Playwright awaits returned promises.
func (s *Session) Evaluate(script string, res interface{}) error {
	v, err := s.page.Evaluate(script)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if res == nil {
		return nil
	}
	// Round-trip through JSON to decode into the caller's type
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode evaluate result: %w", err)
	}
	return json.Unmarshal(data, res)
}

// Screenshot captures the page as PNG.
func (s *Session) Screenshot(fullPage bool) ([]byte, error) {
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// Close closes the browser and stops the Playwright driver. Safe to call twice.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.stopWatch != nil {
			s.stopWatch()
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				s.closeErr = err
			}
		}
		if err := s.pw.Stop(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}

var (
	_ ports.Browser = (*Browser)(nil)
	_ ports.Session = (*Session)(nil)
)
