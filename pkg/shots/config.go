package shots

import (
	"path/filepath"

	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/pipeline"
)

// ConfigBuilder provides a fluent interface for building the inline
// configuration layer. Only the fields that are set override the config
// file and the defaults.
type ConfigBuilder struct {
	partial config.Partial
}

// NewConfigBuilder creates an empty ConfigBuilder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// Build returns the inline layer.
func (b *ConfigBuilder) Build() config.Partial {
	return b.partial
}

// WithURL sets the base URL the case paths are resolved against.
func (b *ConfigBuilder) WithURL(url string) *ConfigBuilder {
	b.partial.URL = config.Ptr(url)
	return b
}

// WithCase adds a test case.
func (b *ConfigBuilder) WithCase(name, path string) *ConfigBuilder {
	b.partial.Cases = append(b.partial.Cases, pipeline.Case{Name: name, Path: path})
	return b
}

// WithViewport adds a viewport.
func (b *ConfigBuilder) WithViewport(width, height int) *ConfigBuilder {
	b.partial.Viewports = append(b.partial.Viewports, pipeline.Viewport{Width: width, Height: height})
	return b
}

// WithThreshold sets the per-pixel color distance tolerance (0-1).
func (b *ConfigBuilder) WithThreshold(threshold float64) *ConfigBuilder {
	b.partial.Threshold = config.Ptr(threshold)
	return b
}

// WithBaseDir sets the baseline directory.
func (b *ConfigBuilder) WithBaseDir(dir string) *ConfigBuilder {
	b.partial.BaseDir = config.Ptr(dir)
	return b
}

// WithCurrentDir sets the directory of the shots under test.
func (b *ConfigBuilder) WithCurrentDir(dir string) *ConfigBuilder {
	b.partial.CurrentDir = config.Ptr(dir)
	return b
}

// WithShotsDir sets both directories to <dir>/base and <dir>/current.
func (b *ConfigBuilder) WithShotsDir(dir string) *ConfigBuilder {
	b.partial.BaseDir = config.Ptr(filepath.Join(dir, "base"))
	b.partial.CurrentDir = config.Ptr(filepath.Join(dir, "current"))
	return b
}

// WithNames restricts approval to the named cases.
func (b *ConfigBuilder) WithNames(names ...string) *ConfigBuilder {
	b.partial.Names = append(config.NameList{}, names...)
	return b
}

// WithServer serves root locally during capture.
func (b *ConfigBuilder) WithServer(root string, port int, single bool) *ConfigBuilder {
	b.partial.Server = &config.ServerPartial{
		Root:   config.Ptr(root),
		Port:   config.Ptr(port),
		Single: config.Ptr(single),
	}
	return b
}

// WithEngine selects the rendering engine (chrome or playwright).
func (b *ConfigBuilder) WithEngine(engine string) *ConfigBuilder {
	b.partial.Engine = config.Ptr(engine)
	return b
}

// WithChromePath sets the Chrome executable.
func (b *ConfigBuilder) WithChromePath(path string) *ConfigBuilder {
	b.partial.ChromePath = config.Ptr(path)
	return b
}

// WithFullPage captures the whole document instead of the viewport.
func (b *ConfigBuilder) WithFullPage(fullPage bool) *ConfigBuilder {
	b.partial.FullPage = config.Ptr(fullPage)
	return b
}

// WithBeforeShot sets the hook run right before each capture.
func (b *ConfigBuilder) WithBeforeShot(hook config.Hook) *ConfigBuilder {
	b.partial.BeforeShot = hook
	return b
}

// WithAfterShot sets the hook run once each shot is written.
func (b *ConfigBuilder) WithAfterShot(hook config.Hook) *ConfigBuilder {
	b.partial.AfterShot = hook
	return b
}

// WithLogLevel sets the log level (trace, debug, info, warn, error, silent).
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.partial.LogLevel = config.Ptr(level)
	return b
}

// WithExit makes failures terminate the CLI with a nonzero status.
func (b *ConfigBuilder) WithExit(exit bool) *ConfigBuilder {
	b.partial.Exit = config.Ptr(exit)
	return b
}

// WithDebug enables debug output under dir. An empty dir keeps the default.
func (b *ConfigBuilder) WithDebug(debug bool, dir string) *ConfigBuilder {
	b.partial.Debug = config.Ptr(debug)
	if dir != "" {
		b.partial.DebugDir = config.Ptr(dir)
	}
	return b
}

// WithReport writes a Markdown report to path.
func (b *ConfigBuilder) WithReport(path string) *ConfigBuilder {
	b.partial.Report = config.Ptr(path)
	return b
}
