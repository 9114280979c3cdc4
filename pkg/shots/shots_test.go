package shots

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/shots/pkg/adapters/chromebrowser"
	"github.com/user/shots/pkg/adapters/logger"
	"github.com/user/shots/pkg/adapters/pwbrowser"
	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/mocks"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

func newTestRunner(t *testing.T, browser ports.Browser, opts ...Option) (*Runner, *bytes.Buffer) {
	t.Helper()
	console := &bytes.Buffer{}
	base := []Option{
		WithConfigFile(""),
		WithLogger(logger.NewNoop()),
		WithConsole(console, false),
		WithBrowser(browser),
		WithServer(&mocks.StaticServer{}),
	}
	return New(append(base, opts...)...), console
}

func testConfig(dir string) *ConfigBuilder {
	return NewConfigBuilder().
		WithURL("http://site.test").
		WithCase("home", "/").
		WithCase("about", "/about.html").
		WithViewport(24, 16).
		WithShotsDir(dir)
}

func TestConfigBuilder(t *testing.T) {
	p := NewConfigBuilder().
		WithURL("http://example.com").
		WithCase("home", "/").
		WithViewport(320, 640).
		WithThreshold(0.2).
		WithShotsDir("out").
		WithNames("home").
		WithServer("public", 4100, false).
		WithEngine("playwright").
		WithFullPage(false).
		WithLogLevel("debug").
		WithExit(true).
		WithDebug(true, "dbg").
		WithReport("report.md").
		Build()

	cfg := config.Merge(config.Defaults(), p)

	if cfg.URL != "http://example.com" {
		t.Errorf("unexpected URL %s", cfg.URL)
	}
	if len(cfg.Cases) != 1 || cfg.Cases[0].Path != "/" {
		t.Errorf("unexpected cases %+v", cfg.Cases)
	}
	if len(cfg.Viewports) != 1 || cfg.Viewports[0] != (pipeline.Viewport{Width: 320, Height: 640}) {
		t.Errorf("unexpected viewports %+v", cfg.Viewports)
	}
	if cfg.Threshold != 0.2 {
		t.Errorf("unexpected threshold %v", cfg.Threshold)
	}
	if cfg.BaseDir != filepath.Join("out", "base") || cfg.CurrentDir != filepath.Join("out", "current") {
		t.Errorf("unexpected dirs %s, %s", cfg.BaseDir, cfg.CurrentDir)
	}
	if len(cfg.Names) != 1 || cfg.Names[0] != "home" {
		t.Errorf("unexpected names %v", cfg.Names)
	}
	if cfg.Server != (config.ServerConfig{Root: "public", Port: 4100, Single: false}) {
		t.Errorf("unexpected server %+v", cfg.Server)
	}
	if cfg.Engine != "playwright" || cfg.FullPage {
		t.Errorf("unexpected rendering options %s, %v", cfg.Engine, cfg.FullPage)
	}
	if cfg.LogLevel != "debug" || !cfg.Exit || !cfg.Debug || cfg.DebugDir != "dbg" {
		t.Errorf("unexpected behaviour options %+v", cfg)
	}
	if cfg.Report != "report.md" {
		t.Errorf("unexpected report %s", cfg.Report)
	}
}

func TestConfigBuilder_UnsetFieldsKeepDefaults(t *testing.T) {
	cfg := config.Merge(config.Defaults(), NewConfigBuilder().WithDebug(true, "").Build())

	if cfg.DebugDir != config.Defaults().DebugDir {
		t.Errorf("empty debug dir should keep the default, got %s", cfg.DebugDir)
	}
	if cfg.URL != config.DefaultURL || len(cfg.Viewports) != 4 {
		t.Errorf("unset fields should keep defaults, got %+v", cfg)
	}
}

func TestRunner_BaselineTestApprove(t *testing.T) {
	dir := t.TempDir()
	changed := false
	browser := &mocks.Browser{ColorFunc: func(url string) color.Color {
		if changed && strings.HasSuffix(url, "/about.html") {
			return color.NRGBA{A: 0xFF}
		}
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}}
	r, console := newTestRunner(t, browser)
	ctx := context.Background()
	inline := testConfig(dir).Build()

	if out := r.Baseline(ctx, inline); !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}
	if _, err := os.Stat(filepath.Join(dir, "base", "about-24x16.png")); err != nil {
		t.Fatalf("baseline shot missing: %v", err)
	}

	if out := r.Test(ctx, inline); !out.OK {
		t.Fatalf("unchanged site should pass: %v", out.Err)
	}

	changed = true
	out := r.Test(ctx, inline)
	if out.OK {
		t.Fatal("changed site should fail")
	}
	if out.Kind != pipeline.KindComparison {
		t.Errorf("expected comparison failure, got %s", out.Kind)
	}
	if !strings.Contains(console.String(), "FAILS: 1") {
		t.Errorf("summary should report one failure:\n%s", console.String())
	}

	approved := r.Approve(ctx, inline)
	if !approved.OK {
		t.Fatalf("approve failed: %v", approved.Err)
	}
	if len(approved.Approval.Filepaths) != 2 {
		t.Errorf("expected 2 approved shots, got %v", approved.Approval.Filepaths)
	}

	if out := r.Test(ctx, inline); !out.OK {
		t.Fatalf("approved changes should pass: %v", out.Err)
	}
}

func TestRunner_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".shotsrc.yml")
	content := "url: http://file.test\ncases:\n  - name: home\n    path: /\nviewports:\n  - width: 10\n    height: 10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	r, _ := newTestRunner(t, &mocks.Browser{}, WithConfigFile(path))

	cfg, err := r.Resolve(NewConfigBuilder().WithShotsDir(dir).Build())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.URL != "http://file.test" || len(cfg.Cases) != 1 {
		t.Errorf("file layer not applied: %+v", cfg)
	}
	if cfg.BaseDir != filepath.Join(dir, "base") {
		t.Errorf("inline layer not applied: %s", cfg.BaseDir)
	}

	out := r.Run(context.Background(), pipeline.TaskBaseline, cfg)
	if !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}
	if len(out.Result.Tests) != 1 {
		t.Errorf("expected 1 shot, got %d", len(out.Result.Tests))
	}
}

func TestRunner_InvalidConfig(t *testing.T) {
	browser := &mocks.Browser{}
	r, _ := newTestRunner(t, browser)

	out := r.Test(context.Background(), NewConfigBuilder().WithShotsDir(t.TempDir()).Build())

	if out.OK || out.Kind != pipeline.KindConfiguration {
		t.Fatalf("expected configuration error, got %+v", out)
	}
	if len(browser.Sessions()) != 0 {
		t.Error("no browser session should be opened")
	}
}

func TestRunner_UnknownTask(t *testing.T) {
	r, _ := newTestRunner(t, &mocks.Browser{})

	out := r.Run(context.Background(), "deploy", config.Defaults())

	var cfgErr *pipeline.ConfigurationError
	if out.OK || !errors.As(out.Err, &cfgErr) || cfgErr.Field != "task" {
		t.Fatalf("expected task configuration error, got %v", out.Err)
	}
}

func TestRunner_DebugOutput(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRunner(t, &mocks.Browser{})

	inline := testConfig(dir).WithDebug(true, filepath.Join(dir, "debug")).Build()
	if out := r.Baseline(context.Background(), inline); !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}

	for _, name := range []string{"config.json", "baseline-result.json"} {
		if _, err := os.Stat(filepath.Join(dir, "debug", name)); err != nil {
			t.Errorf("expected debug file %s: %v", name, err)
		}
	}
}

func TestNewBrowser(t *testing.T) {
	opts := ports.BrowserOptions{Headless: true}

	b, err := NewBrowser("", opts, false)
	if err != nil {
		t.Fatalf("NewBrowser failed: %v", err)
	}
	if _, ok := b.(*chromebrowser.Browser); !ok {
		t.Errorf("expected chrome by default, got %T", b)
	}

	b, err = NewBrowser(config.EnginePlaywright, opts, false)
	if err != nil {
		t.Fatalf("NewBrowser failed: %v", err)
	}
	if _, ok := b.(*pwbrowser.Browser); !ok {
		t.Errorf("expected playwright, got %T", b)
	}

	_, err = NewBrowser("lynx", opts, false)
	if pipeline.KindOf(err) != pipeline.KindConfiguration {
		t.Errorf("expected configuration error, got %v", err)
	}
}
