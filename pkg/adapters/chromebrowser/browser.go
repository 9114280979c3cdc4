// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/user/shots/pkg/ports"
)

// Browser implements ports.Browser using chromedp.
// Every session runs in its own Chrome process.
type Browser struct {
	opts ports.BrowserOptions
}

// New creates a new Browser.
func New(opts ports.BrowserOptions) *Browser {
	return &Browser{opts: opts}
}

// NewSession launches Chrome and opens a tab.
func (b *Browser) NewSession(ctx context.Context) (ports.Session, error) {
	chromePath := ResolveChromePath(b.opts.ChromePath)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.allocatorOptions(chromePath)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
	}

	// Run an empty action to start the browser now rather than on first use.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	if len(b.opts.Headers) > 0 {
		headers := make(network.Headers, len(b.opts.Headers))
		for k, v := range b.opts.Headers {
			headers[k] = v
		}
		if err := chromedp.Run(tabCtx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
			s.Close()
			return nil, fmt.Errorf("set headers: %w", err)
		}
	}

	return s, nil
}

func (b *Browser) allocatorOptions(chromePath string) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
		// Stable font rendering across runs
		chromedp.Flag("font-render-hinting", "none"),
		chromedp.Flag("force-color-profile", "srgb"),
	}

	if b.opts.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	if b.opts.Incognito {
		opts = append(opts, chromedp.Flag("incognito", true))
	}
	if b.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.opts.UserAgent))
	}
	if b.opts.IgnoreHTTPSErrors {
		opts = append(opts,
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("allow-insecure-localhost", true))
	}
	if b.opts.ProxyServer != "" {
		opts = append(opts, chromedp.ProxyServer(b.opts.ProxyServer))
	}

	return opts
}

// Session is one Chrome tab.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// Navigate loads the specified URL.
func (s *Session) Navigate(url string) error {
	return chromedp.Run(s.ctx, chromedp.Navigate(url))
}

// SetViewport overrides the device metrics to width x height CSS pixels at scale 1.
func (s *Session) SetViewport(width, height int) error {
	if err := chromedp.Run(s.ctx,
		emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false),
	); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	return nil
}

// Evaluate runs script in the page, awaiting a returned promise.
func (s *Session) Evaluate(script string, res interface{}) error {
	return chromedp.Run(s.ctx, chromedp.Evaluate(script, res, awaitPromise))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// Screenshot captures the page as PNG.
func (s *Session) Screenshot(fullPage bool) ([]byte, error) {
	var buf []byte
	action := chromedp.CaptureScreenshot(&buf)
	if fullPage {
		// Quality 100 selects PNG output
		action = chromedp.FullScreenshot(&buf, 100)
	}
	if err := chromedp.Run(s.ctx, action); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts the tab and its Chrome process down.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

var (
	_ ports.Browser = (*Browser)(nil)
	_ ports.Session = (*Session)(nil)
)
