package mocks

import (
	"sync"

	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

// StaticServer is a mock implementation of ports.StaticServer.
type StaticServer struct {
	StartFunc func(opts ports.ServerOptions) (string, error)
	StopFunc  func() error

	// URL is returned by Start when StartFunc is nil.
	URL string

	mu      sync.Mutex
	running bool
	starts  int
	stops   int
	opts    ports.ServerOptions
}

func (m *StaticServer) Start(opts ports.ServerOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return "", pipeline.ErrServerRunning
	}
	m.starts++
	m.opts = opts
	if m.StartFunc != nil {
		url, err := m.StartFunc(opts)
		if err != nil {
			return "", err
		}
		m.running = true
		return url, nil
	}
	m.running = true
	if m.URL != "" {
		return m.URL, nil
	}
	return "http://127.0.0.1:4000", nil
}

func (m *StaticServer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	m.running = false
	m.stops++
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

// Running reports whether the server is started.
func (m *StaticServer) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Counts returns how many times the server was started and stopped.
func (m *StaticServer) Counts() (starts, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

// Options returns the options of the last Start.
func (m *StaticServer) Options() ports.ServerOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

var _ ports.StaticServer = (*StaticServer)(nil)
