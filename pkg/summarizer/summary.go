package summarizer

import (
	"time"

	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/pipeline"
)

// Summary contains everything reported about one operation.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	Task    string
	Success bool
	Shots   []Shot

	// Configuration the run used
	Settings Settings
}

// Shot is one line of the report.
type Shot struct {
	ID        string
	Case      string
	Viewport  string
	Success   bool
	Baseline  string
	Current   string
	Diff      string
	BadPixels int
}

// Settings contains the configuration relevant to a report.
type Settings struct {
	URL       string
	Threshold float64
	Engine    string
	BaseDir   string
	Current   string
	Viewports []string
}

// Total returns the number of shots.
func (s *Summary) Total() int {
	return len(s.Shots)
}

// Fails returns the number of failed shots.
func (s *Summary) Fails() int {
	n := 0
	for _, shot := range s.Shots {
		if !shot.Success {
			n++
		}
	}
	return n
}

// Passes returns the number of successful shots.
func (s *Summary) Passes() int {
	return s.Total() - s.Fails()
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithResult sets the task, success flag and shots from result.
func (b *Builder) WithResult(result *pipeline.Result) *Builder {
	b.summary.Task = result.Task
	b.summary.Success = result.Success
	b.summary.Shots = make([]Shot, 0, len(result.Tests))
	for _, t := range result.Tests {
		b.summary.Shots = append(b.summary.Shots, Shot{
			ID:        t.ID,
			Case:      t.Case.Name,
			Viewport:  t.Viewport.String(),
			Success:   t.Success,
			Baseline:  t.Baseline,
			Current:   t.Result,
			Diff:      t.Diff,
			BadPixels: t.BadPixels,
		})
	}
	return b
}

// WithConfig sets the reported settings from cfg.
func (b *Builder) WithConfig(cfg config.Config) *Builder {
	settings := Settings{
		URL:       cfg.URL,
		Threshold: cfg.Threshold,
		Engine:    cfg.Engine,
		BaseDir:   cfg.BaseDir,
		Current:   cfg.CurrentDir,
	}
	for _, vp := range cfg.Viewports {
		settings.Viewports = append(settings.Viewports, vp.String())
	}
	b.summary.Settings = settings
	return b
}

// WithTime overrides the generation timestamp.
func (b *Builder) WithTime(t time.Time) *Builder {
	b.summary.GeneratedAt = t
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
