// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"path/filepath"

	"github.com/user/shots/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveConfigJSON saves the resolved configuration as config.json.
func (s *Sink) SaveConfigJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "config.json")
	return s.fs.WriteFile(path, data)
}

// SaveResultJSON saves the result of task as <task>-result.json.
func (s *Sink) SaveResultJSON(task string, data []byte) error {
	path := filepath.Join(s.baseDir, task+"-result.json")
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
