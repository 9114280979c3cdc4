// Package mocks provides mock implementations for testing.
package mocks

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/user/shots/pkg/ports"
)

// Browser is a mock implementation of ports.Browser.
// Without NewSessionFunc it hands out Session values that render a solid
// color chosen by ColorFunc (or a hash of the URL) at the current viewport.
// ScriptFunc models DOM mutations: a non-nil color it returns for an
// evaluated script repaints the page for the rest of the session.
type Browser struct {
	NewSessionFunc func(ctx context.Context) (ports.Session, error)
	ColorFunc      func(url string) color.Color
	ScriptFunc     func(url, script string) color.Color

	mu       sync.Mutex
	sessions []*Session
}

func (m *Browser) NewSession(ctx context.Context) (ports.Session, error) {
	if m.NewSessionFunc != nil {
		return m.NewSessionFunc(ctx)
	}
	s := &Session{ColorFunc: m.ColorFunc, ScriptFunc: m.ScriptFunc}
	m.mu.Lock()
	m.sessions = append(m.sessions, s)
	m.mu.Unlock()
	return s, nil
}

// Sessions returns the sessions handed out so far.
func (m *Browser) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Session(nil), m.sessions...)
}

// Session is a mock implementation of ports.Session.
type Session struct {
	NavigateFunc    func(url string) error
	SetViewportFunc func(width, height int) error
	EvaluateFunc    func(script string, res interface{}) error
	ScreenshotFunc  func(fullPage bool) ([]byte, error)
	CloseFunc       func() error
	ColorFunc       func(url string) color.Color
	ScriptFunc      func(url, script string) color.Color

	mu     sync.Mutex
	url    string
	width  int
	height int
	paint  color.Color
	calls  []string
	closed bool
}

func (m *Session) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *Session) Navigate(url string) error {
	m.record("navigate " + url)
	if m.NavigateFunc != nil {
		return m.NavigateFunc(url)
	}
	m.mu.Lock()
	m.url = url
	m.paint = nil
	m.mu.Unlock()
	return nil
}

func (m *Session) SetViewport(width, height int) error {
	m.record(fmt.Sprintf("viewport %dx%d", width, height))
	if m.SetViewportFunc != nil {
		return m.SetViewportFunc(width, height)
	}
	m.mu.Lock()
	m.width, m.height = width, height
	m.mu.Unlock()
	return nil
}

func (m *Session) Evaluate(script string, res interface{}) error {
	m.record("evaluate " + script)
	if m.EvaluateFunc != nil {
		if err := m.EvaluateFunc(script, res); err != nil {
			return err
		}
	}
	if m.ScriptFunc != nil {
		m.mu.Lock()
		if c := m.ScriptFunc(m.url, script); c != nil {
			m.paint = c
		}
		m.mu.Unlock()
	}
	return nil
}

func (m *Session) Screenshot(fullPage bool) ([]byte, error) {
	m.record("screenshot")
	if m.ScreenshotFunc != nil {
		return m.ScreenshotFunc(fullPage)
	}

	m.mu.Lock()
	url, w, h, paint := m.url, m.width, m.height, m.paint
	m.mu.Unlock()
	if w <= 0 || h <= 0 {
		w, h = 100, 100
	}

	c := URLColor(url)
	if m.ColorFunc != nil {
		c = m.ColorFunc(url)
	}
	if paint != nil {
		c = paint
	}
	return SolidPNG(w, h, c)
}

func (m *Session) Close() error {
	m.record("close")
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns the recorded method calls in order.
func (m *Session) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Closed reports whether Close was called.
func (m *Session) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// URLColor derives a stable opaque color from url.
func URLColor(url string) color.Color {
	h := fnv.New32a()
	h.Write([]byte(url))
	sum := h.Sum32()
	return color.NRGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 0xFF}
}

// SolidPNG encodes a w x h image filled with c.
func SolidPNG(w, h int, c color.Color) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	_ ports.Browser = (*Browser)(nil)
	_ ports.Session = (*Session)(nil)
)
