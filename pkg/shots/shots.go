// Package shots provides a high-level API for visual regression testing of
// web pages: capture baselines, test against them and approve changes.
package shots

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/user/shots/pkg/adapters/chromebrowser"
	"github.com/user/shots/pkg/adapters/filesink"
	"github.com/user/shots/pkg/adapters/ggrenderer"
	"github.com/user/shots/pkg/adapters/logger"
	"github.com/user/shots/pkg/adapters/nullsink"
	"github.com/user/shots/pkg/adapters/osfilesystem"
	"github.com/user/shots/pkg/adapters/pwbrowser"
	"github.com/user/shots/pkg/adapters/staticserver"
	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/orchestrator"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
	"github.com/user/shots/pkg/stages/approve"
	"github.com/user/shots/pkg/stages/capture"
	"github.com/user/shots/pkg/stages/compare"
	"github.com/user/shots/pkg/summarizer"
)

// Runner resolves configuration and runs operations with real adapters
// unless overridden by options.
type Runner struct {
	configFile  string
	logger      ports.Logger
	console     io.Writer
	color       bool
	fs          ports.FileSystem
	browser     ports.Browser
	server      ports.StaticServer
	browserOpts ports.BrowserOptions
	install     bool
	translate   summarizer.Translator
	version     string
}

// Option configures a Runner.
type Option func(*Runner)

// WithConfigFile sets the YAML config file. A missing file is ignored;
// an empty path disables the file layer.
func WithConfigFile(path string) Option {
	return func(r *Runner) { r.configFile = path }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithConsole sets where the result summary is printed.
func WithConsole(w io.Writer, color bool) Option {
	return func(r *Runner) {
		r.console = w
		r.color = color
	}
}

// WithFileSystem replaces the OS file system.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(r *Runner) { r.fs = fs }
}

// WithBrowser replaces the engine selected by the configuration.
func WithBrowser(b ports.Browser) Option {
	return func(r *Runner) { r.browser = b }
}

// WithServer replaces the local static server.
func WithServer(s ports.StaticServer) Option {
	return func(r *Runner) { r.server = s }
}

// WithBrowserOptions sets the launch options of the rendering engine.
// ChromePath is taken from the configuration when set there.
func WithBrowserOptions(opts ports.BrowserOptions) Option {
	return func(r *Runner) { r.browserOpts = opts }
}

// WithPlaywrightInstall downloads the Playwright driver and Chromium on
// first use of the playwright engine.
func WithPlaywrightInstall(install bool) Option {
	return func(r *Runner) { r.install = install }
}

// WithTranslator translates summaries and reports.
func WithTranslator(t summarizer.Translator) Option {
	return func(r *Runner) { r.translate = t }
}

// WithVersion sets the version shown in reports.
func WithVersion(version string) Option {
	return func(r *Runner) { r.version = version }
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		configFile:  config.DefaultFile,
		console:     os.Stdout,
		color:       logger.IsTerminal(),
		fs:          osfilesystem.New(),
		browserOpts: ports.BrowserOptions{Headless: true, Incognito: true},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.NewConsole(ports.LevelInfo)
	}
	return r
}

// Baseline captures baseline shots.
func (r *Runner) Baseline(ctx context.Context, inline config.Partial) pipeline.Outcome {
	return r.resolveAndRun(ctx, pipeline.TaskBaseline, inline)
}

// Test captures current shots and compares them with the baselines.
func (r *Runner) Test(ctx context.Context, inline config.Partial) pipeline.Outcome {
	return r.resolveAndRun(ctx, pipeline.TaskTest, inline)
}

// Approve promotes current shots to the baseline.
func (r *Runner) Approve(ctx context.Context, inline config.Partial) pipeline.Outcome {
	return r.resolveAndRun(ctx, pipeline.TaskApprove, inline)
}

// Resolve merges the defaults, the config file and inline.
// Validation is left to the operation.
func (r *Runner) Resolve(inline config.Partial) (config.Config, error) {
	return config.Resolve(inline, r.configFile, false)
}

// Run executes task ("baseline", "test" or "approve") with a resolved config.
func (r *Runner) Run(ctx context.Context, task string, cfg config.Config) pipeline.Outcome {
	orch, err := r.orchestrator(cfg)
	if err != nil {
		cfg.ApplyLogLevel(r.logger)
		r.logger.Error("%s", err)
		return pipeline.Failed(task, err, nil)
	}

	switch task {
	case pipeline.TaskBaseline:
		return orch.Baseline(ctx, cfg)
	case pipeline.TaskTest:
		return orch.Test(ctx, cfg)
	case pipeline.TaskApprove:
		return orch.Approve(ctx, cfg)
	default:
		err := &pipeline.ConfigurationError{Field: "task", Msg: fmt.Sprintf("unknown task %q", task)}
		r.logger.Error("%s", err)
		return pipeline.Failed(task, err, nil)
	}
}

func (r *Runner) resolveAndRun(ctx context.Context, task string, inline config.Partial) pipeline.Outcome {
	cfg, err := r.Resolve(inline)
	if err != nil {
		r.logger.Error("%s", err)
		return pipeline.Failed(task, err, nil)
	}
	return r.Run(ctx, task, cfg)
}

func (r *Runner) orchestrator(cfg config.Config) (*orchestrator.Orchestrator, error) {
	browser := r.browser
	if browser == nil {
		opts := r.browserOpts
		if cfg.ChromePath != "" {
			opts.ChromePath = cfg.ChromePath
		}
		var err error
		browser, err = NewBrowser(cfg.Engine, opts, r.install)
		if err != nil {
			return nil, err
		}
	}

	server := r.server
	if server == nil {
		server = staticserver.New(r.logger)
	}

	var sink ports.DebugSink = nullsink.New()
	if cfg.Debug {
		sink = filesink.New(cfg.DebugDir, r.fs)
	}

	return orchestrator.New(orchestrator.Deps{
		Capture:   capture.New(browser, r.fs, r.logger),
		Compare:   compare.New(r.fs, ggrenderer.New(), r.logger),
		Approve:   approve.New(r.fs, r.logger),
		Server:    server,
		FS:        r.fs,
		Sink:      sink,
		Logger:    r.logger,
		Console:   r.console,
		Color:     r.color,
		Translate: r.translate,
		Version:   r.version,
	}), nil
}

// NewBrowser creates the rendering engine named by engine.
func NewBrowser(engine string, opts ports.BrowserOptions, install bool) (ports.Browser, error) {
	switch engine {
	case "", config.EngineChrome:
		return chromebrowser.New(opts), nil
	case config.EnginePlaywright:
		return pwbrowser.New(opts, install), nil
	default:
		return nil, &pipeline.ConfigurationError{Field: "engine", Msg: fmt.Sprintf("unknown engine %q", engine)}
	}
}

// Baseline captures baseline shots with a default Runner.
func Baseline(ctx context.Context, inline config.Partial) pipeline.Outcome {
	return New().Baseline(ctx, inline)
}

// Test runs the regression tests with a default Runner.
func Test(ctx context.Context, inline config.Partial) pipeline.Outcome {
	return New().Test(ctx, inline)
}

// Approve approves current shots with a default Runner.
func Approve(ctx context.Context, inline config.Partial) pipeline.Outcome {
	return New().Approve(ctx, inline)
}
