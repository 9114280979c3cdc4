package mocks

import (
	"sync"

	"github.com/user/shots/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	ConfigJSON []byte
	Results    map[string][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Results: make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveConfigJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfigJSON = data
	return nil
}

func (m *DebugSink) SaveResultJSON(task string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[task] = data
	return nil
}

// Result returns the saved result JSON of task (for test verification).
func (m *DebugSink) Result(task string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.Results[task]
	return data, ok
}

var _ ports.DebugSink = (*DebugSink)(nil)
