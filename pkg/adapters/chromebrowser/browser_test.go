package chromebrowser

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/user/shots/pkg/ports"
)

func newTestSession(t *testing.T) ports.Session {
	t.Helper()
	if ResolveChromePath("") == "" {
		t.Skip("Chrome not installed, skipping browser test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	session, err := New(ports.BrowserOptions{Headless: true}).NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestSession_Screenshot(t *testing.T) {
	session := newTestSession(t)

	if err := session.Navigate("data:text/html,<body style='margin:0;background:red'></body>"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if err := session.SetViewport(320, 240); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}

	data, err := session.Screenshot(false)
	if err != nil {
		t.Fatalf("Screenshot failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("screenshot is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("expected 320x240, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSession_Evaluate(t *testing.T) {
	session := newTestSession(t)

	if err := session.Navigate("data:text/html,<p>hello</p>"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	var count int
	if err := session.Evaluate(`document.querySelectorAll('p').length`, &count); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 paragraph, got %d", count)
	}

	// Promises are awaited
	var v string
	if err := session.Evaluate(`new Promise(r => setTimeout(() => r("done"), 10))`, &v); err != nil {
		t.Fatalf("Evaluate promise failed: %v", err)
	}
	if v != "done" {
		t.Errorf("expected done, got %q", v)
	}
}
