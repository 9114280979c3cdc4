package filesink

import (
	"path/filepath"
	"testing"

	"github.com/user/shots/pkg/mocks"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join(".shots", "debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem())

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveConfigJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte(`{"url": "http://localhost:4000"}`)
	if err := sink.SaveConfigJSON(data); err != nil {
		t.Fatalf("SaveConfigJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "config.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveResultJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	for _, task := range []string{"baseline", "test", "approve"} {
		if err := sink.SaveResultJSON(task, []byte(task)); err != nil {
			t.Fatalf("SaveResultJSON(%s) failed: %v", task, err)
		}
	}

	for _, task := range []string{"baseline", "test", "approve"} {
		path := filepath.Join(testBaseDir, task+"-result.json")
		saved, ok := fs.GetFile(path)
		if !ok {
			t.Errorf("expected file to be saved at %s", path)
			continue
		}
		if string(saved) != task {
			t.Errorf("%s: expected %q, got %q", path, task, saved)
		}
	}
}
