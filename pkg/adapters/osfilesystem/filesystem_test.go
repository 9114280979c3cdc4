package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	path := filepath.Join(dir, ".shots", "current", "home-320x640.png")
	if err := fs.WriteFile(path, []byte("png")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("expected %q, got %q", "png", data)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	path := filepath.Join(dir, "shot.png")
	os.WriteFile(path, []byte("x"), 0644)

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}

	exists, err = fs.Exists(filepath.Join(dir, "missing.png"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "shot.png")
	os.WriteFile(path, []byte("x"), 0644)

	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(path); exists {
		t.Error("expected file to be removed")
	}
}

func TestFileSystem_Copy(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	src := filepath.Join(dir, "current", "home-320x640.png")
	dst := filepath.Join(dir, "base", "nested", "home-320x640.png")
	if err := fs.WriteFile(src, []byte("current shot")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := fs.Copy(src, dst); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if string(data) != "current shot" {
		t.Errorf("unexpected copy contents %q", data)
	}

	// Overwrite an existing destination
	fs.WriteFile(src, []byte("newer shot"))
	if err := fs.Copy(src, dst); err != nil {
		t.Fatalf("second Copy failed: %v", err)
	}
	data, _ = os.ReadFile(dst)
	if string(data) != "newer shot" {
		t.Errorf("expected overwritten contents, got %q", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestFileSystem_CopyMissingSource(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	err := fs.Copy(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestFileSystem_ListFiles(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	for _, name := range []string{"b.png", "a.png", "sub/c.png"} {
		fs.WriteFile(filepath.Join(dir, name), []byte("x"))
	}

	files, err := fs.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "sub", "c.png"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], files[i])
		}
	}
}

func TestFileSystem_ListFilesMissingDir(t *testing.T) {
	fs := New()

	files, err := fs.ListFiles(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}
