// Package pipeline defines the domain types shared by every stage.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Task labels.
const (
	TaskBaseline = "baseline"
	TaskTest     = "test"
	TaskApprove  = "approve"
)

// DiffSuffix is inserted before the extension of a shot to name its diff artifact.
const DiffSuffix = "--diff"

// ShotExt is the extension of every captured shot.
const ShotExt = ".png"

// =============================================================================
// Configuration Types
// =============================================================================

// Case is a logical page under test.
type Case struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"` // Resolved against the base URL
}

// Viewport is a width x height pixel pair.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// String renders the viewport as WxH.
func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// =============================================================================
// Shot Types
// =============================================================================

// ShotTask is one unit of work: one Case at one Viewport.
type ShotTask struct {
	ID       string   `json:"id"`
	Case     Case     `json:"case"`
	Viewport Viewport `json:"viewport"`
	URL      string   `json:"url"`
	Result   string   `json:"result"` // Path of the captured image
	Success  bool     `json:"success"`

	// Set by comparison
	Baseline  string `json:"baseline,omitempty"`
	Diff      string `json:"diff,omitempty"` // Empty when no diff artifact was written
	BadPixels int    `json:"badPixels"`
}

// ShotID returns "<name>-<width>x<height>".
// Capture and compare derive file names from it, so it must stay a pure
// function of the case name and viewport.
func ShotID(name string, vp Viewport) string {
	return name + "-" + vp.String()
}

// NewShotTask builds the task for c at vp writing into dir.
func NewShotTask(dir, baseURL string, c Case, vp Viewport) ShotTask {
	id := ShotID(c.Name, vp)
	return ShotTask{
		ID:       id,
		Case:     c,
		Viewport: vp,
		URL:      TaskURL(baseURL, c.Path),
		Result:   ShotPath(dir, id),
	}
}

// ShotPath returns <dir>/<id>.png.
func ShotPath(dir, id string) string {
	return filepath.Join(dir, id+ShotExt)
}

// TaskURL joins the base URL and a case path with exactly one slash.
func TaskURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// DiffPath names the diff artifact of source by inserting DiffSuffix before its extension.
func DiffPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + DiffSuffix + ext
}

// IsDiffPath reports whether path names a diff artifact.
func IsDiffPath(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasSuffix(strings.TrimSuffix(path, ext), DiffSuffix)
}

// CounterpartPath maps path under fromDir to the same relative path under toDir.
// Paths outside fromDir fall back to replacing the first occurrence of fromDir.
func CounterpartPath(path, fromDir, toDir string) string {
	rel, err := filepath.Rel(fromDir, path)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(toDir, rel)
	}
	return strings.Replace(path, fromDir, toDir, 1)
}

// Comparison is the outcome of comparing one shot against its baseline.
type Comparison struct {
	Success   bool   `json:"success"`
	Baseline  string `json:"baseline"`
	Result    string `json:"result"`
	Diff      string `json:"diff,omitempty"`
	BadPixels int    `json:"badPixels"`
}

// Apply records a comparison on the task.
func (t *ShotTask) Apply(c Comparison) {
	t.Success = c.Success
	t.Baseline = c.Baseline
	t.Result = c.Result
	t.Diff = c.Diff
	t.BadPixels = c.BadPixels
}

// =============================================================================
// Result Types
// =============================================================================

// Result folds the tasks of one operation.
type Result struct {
	Task    string     `json:"task"`
	Success bool       `json:"success"` // AND of every task's Success
	Fails   []ShotTask `json:"fails"`
	Tests   []ShotTask `json:"tests"`
}

// Passes returns the number of successful tasks.
func (r *Result) Passes() int {
	return len(r.Tests) - len(r.Fails)
}

// Approval is the result of promoting current shots to the baseline.
type Approval struct {
	Success   bool     `json:"success"`
	Filepaths []string `json:"filepaths"`        // Current shots that were copied
	Failed    []string `json:"failed,omitempty"` // Current shots whose copy failed
}

// Outcome is what every top-level operation returns.
//
// OK outcomes carry Result (baseline, test) or Approval (approve).
// Failed outcomes carry Kind and Err, plus Result when tasks ran far enough
// to produce one, so a visual mismatch and a broken setup travel the same way.
type Outcome struct {
	OK       bool
	Task     string
	Result   *Result
	Approval *Approval
	Kind     ErrorKind
	Err      error
}

// Succeeded builds an OK outcome for a capture operation.
func Succeeded(task string, result *Result) Outcome {
	return Outcome{OK: true, Task: task, Result: result}
}

// Failed builds a failed outcome, classifying err.
func Failed(task string, err error, result *Result) Outcome {
	return Outcome{Task: task, Result: result, Kind: KindOf(err), Err: err}
}
