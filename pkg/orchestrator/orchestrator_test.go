package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/shots/pkg/adapters/ggrenderer"
	"github.com/user/shots/pkg/adapters/logger"
	"github.com/user/shots/pkg/adapters/osfilesystem"
	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/mocks"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
	"github.com/user/shots/pkg/stages/approve"
	"github.com/user/shots/pkg/stages/capture"
	"github.com/user/shots/pkg/stages/compare"
)

var (
	gray  = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	black = color.NRGBA{A: 0xFF}
	white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

const hideParagraphs = `document.querySelectorAll('p').forEach((el) => (el.style.display = 'none'))`

// site renders every page gray except the ones marked changed.
type site struct {
	changed map[string]bool
}

func (s *site) color(url string) color.Color {
	for suffix := range s.changed {
		if strings.HasSuffix(url, suffix) {
			return black
		}
	}
	return gray
}

// script repaints the page when its paragraphs get hidden.
func (s *site) script(url, script string) color.Color {
	if script == hideParagraphs {
		return white
	}
	return nil
}

// hideParagraphsHook mutates the live page right before each capture.
func hideParagraphsHook(ctx context.Context, task *pipeline.ShotTask, hc config.HookContext) error {
	return hc.Session.Evaluate(hideParagraphs, nil)
}

type harness struct {
	orch    *Orchestrator
	cfg     config.Config
	site    *site
	server  *mocks.StaticServer
	sink    *mocks.DebugSink
	console *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	h := &harness{
		site:    &site{changed: map[string]bool{}},
		server:  &mocks.StaticServer{URL: "http://127.0.0.1:4555"},
		sink:    mocks.NewDebugSink(true),
		console: &bytes.Buffer{},
	}

	fs := osfilesystem.New()
	log := logger.NewNoop()
	browser := &mocks.Browser{ColorFunc: h.site.color, ScriptFunc: h.site.script}

	h.orch = New(Deps{
		Capture: capture.New(browser, fs, log),
		Compare: compare.New(fs, ggrenderer.New(), log),
		Approve: approve.New(fs, log),
		Server:  h.server,
		FS:      fs,
		Sink:    h.sink,
		Logger:  log,
		Console: h.console,
	})

	cfg := config.Defaults()
	cfg.URL = "http://site.test"
	cfg.BaseDir = filepath.Join(dir, "base")
	cfg.CurrentDir = filepath.Join(dir, "current")
	cfg.Cases = []pipeline.Case{
		{Name: "home", Path: "/index.html"},
		{Name: "about", Path: "/about.html"},
		{Name: "contact", Path: "/contact.html"},
	}
	cfg.Viewports = []pipeline.Viewport{{Width: 32, Height: 24}, {Width: 16, Height: 40}}
	h.cfg = cfg
	return h
}

func TestOrchestrator_ScenarioA_NoChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	base := h.orch.Baseline(ctx, h.cfg)
	if !base.OK {
		t.Fatalf("baseline failed: %v", base.Err)
	}
	if base.Result == nil || len(base.Result.Tests) != 6 {
		t.Fatalf("expected 6 baseline shots, got %+v", base.Result)
	}
	for _, task := range base.Result.Tests {
		if filepath.Dir(task.Result) != h.cfg.BaseDir {
			t.Errorf("baseline shot written outside the base dir: %s", task.Result)
		}
	}

	// Idempotent: repeated test runs keep passing without diffs
	for run := 0; run < 2; run++ {
		out := h.orch.Test(ctx, h.cfg)
		if !out.OK {
			t.Fatalf("run %d: expected test to pass, got %v", run, out.Err)
		}
		for _, task := range out.Result.Tests {
			if task.BadPixels != 0 || task.Diff != "" {
				t.Errorf("run %d: %s should have no diff", run, task.ID)
			}
			if _, err := os.Stat(pipeline.DiffPath(task.Result)); !os.IsNotExist(err) {
				t.Errorf("run %d: unexpected diff artifact for %s", run, task.ID)
			}
		}
	}

	if !strings.Contains(h.console.String(), "[ok] Test cases passed! :)") {
		t.Errorf("expected pass summary, got\n%s", h.console.String())
	}
}

func TestOrchestrator_ScenarioB_Regression(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if out := h.orch.Baseline(ctx, h.cfg); !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}

	h.site.changed["/about.html"] = true
	out := h.orch.Test(ctx, h.cfg)

	if out.OK {
		t.Fatal("expected test to fail")
	}
	if out.Kind != pipeline.KindComparison {
		t.Errorf("expected comparison kind, got %s", out.Kind)
	}
	if out.Result == nil || len(out.Result.Fails) != 2 {
		t.Fatalf("expected about to fail at both viewports, got %+v", out.Result)
	}
	for _, fail := range out.Result.Fails {
		if fail.Case.Name != "about" {
			t.Errorf("unexpected failure %s", fail.ID)
		}
		if _, err := os.Stat(fail.Diff); err != nil {
			t.Errorf("expected diff artifact for %s: %v", fail.ID, err)
		}
	}

	summary := h.console.String()
	for _, check := range []string{"[!!] Test cases failed... :(", "TOTAL: 6", "PASSES: 4", "FAILS: 2"} {
		if !strings.Contains(summary, check) {
			t.Errorf("expected summary to contain %q\n%s", check, summary)
		}
	}
}

func TestOrchestrator_ScenarioC_Approve(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.orch.Baseline(ctx, h.cfg)
	h.site.changed["/about.html"] = true
	h.site.changed["/contact.html"] = true
	if out := h.orch.Test(ctx, h.cfg); out.OK {
		t.Fatal("expected test to fail before approval")
	}

	// Approve only about; contact keeps failing
	approveCfg := h.cfg
	approveCfg.Names = []string{"about"}
	out := h.orch.Approve(ctx, approveCfg)
	if !out.OK {
		t.Fatalf("approve failed: %v", out.Err)
	}
	if out.Approval == nil || len(out.Approval.Filepaths) != 2 {
		t.Fatalf("expected 2 approved shots, got %+v", out.Approval)
	}

	out = h.orch.Test(ctx, h.cfg)
	if out.OK {
		t.Fatal("contact should still fail")
	}
	for _, fail := range out.Result.Fails {
		if fail.Case.Name != "contact" {
			t.Errorf("unexpected failure after approval: %s", fail.ID)
		}
	}

	// Approving everything makes the suite pass
	if out := h.orch.Approve(ctx, h.cfg); !out.OK {
		t.Fatalf("approve all failed: %v", out.Err)
	}
	if out := h.orch.Test(ctx, h.cfg); !out.OK {
		t.Fatalf("expected test to pass after approving all, got %v", out.Err)
	}
}

func TestOrchestrator_BeforeShotMutationWorkflow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.cfg.Cases = []pipeline.Case{
		{Name: "home", Path: "/index.html"},
		{Name: "feature", Path: "/feature.html"},
	}

	if out := h.orch.Baseline(ctx, h.cfg); !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}

	out := h.orch.Test(ctx, h.cfg)
	if !out.OK || len(out.Result.Tests) != 4 || len(out.Result.Fails) != 0 {
		t.Fatalf("expected 4 passing shots, got %+v (%v)", out.Result, out.Err)
	}

	// The hook only runs during this test, so every shot differs from its baseline
	mutated := h.cfg
	mutated.BeforeShot = hideParagraphsHook
	out = h.orch.Test(ctx, mutated)
	if out.OK || out.Kind != pipeline.KindComparison {
		t.Fatalf("expected comparison failure, got %+v", out)
	}
	if len(out.Result.Tests) != 4 || len(out.Result.Fails) != 4 {
		t.Fatalf("expected all 4 shots to fail, got %d of %d", len(out.Result.Fails), len(out.Result.Tests))
	}
	for _, fail := range out.Result.Fails {
		if fail.Diff == "" {
			t.Errorf("%s: expected a diff path", fail.ID)
			continue
		}
		if _, err := os.Stat(fail.Diff); err != nil {
			t.Errorf("%s: diff artifact missing: %v", fail.ID, err)
		}
	}

	// Approving one shot makes exactly that shot pass
	approveCfg := h.cfg
	approveCfg.Names = []string{"home-16x40"}
	approved := h.orch.Approve(ctx, approveCfg)
	if !approved.OK || len(approved.Approval.Filepaths) != 1 {
		t.Fatalf("expected one approved shot, got %+v", approved.Approval)
	}

	out = h.orch.Test(ctx, mutated)
	if out.OK {
		t.Fatal("unapproved shots should still fail")
	}
	passes := 0
	for _, task := range out.Result.Tests {
		if task.Success {
			passes++
			if task.ID != "home-16x40" {
				t.Errorf("unexpected pass %s", task.ID)
			}
		}
	}
	if passes != 1 {
		t.Errorf("expected exactly 1 passing shot, got %d", passes)
	}

	if out := h.orch.Approve(ctx, h.cfg); !out.OK {
		t.Fatalf("approve all failed: %v", out.Err)
	}
	out = h.orch.Test(ctx, mutated)
	if !out.OK || out.Result.Passes() != 4 {
		t.Fatalf("expected all 4 shots to pass after approving all, got %+v", out.Result)
	}
}

func TestOrchestrator_ApproveOneOfTwoCases(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.cfg.Cases = []pipeline.Case{
		{Name: "home", Path: "/index.html"},
		{Name: "feature", Path: "/feature.html"},
	}
	h.cfg.Viewports = []pipeline.Viewport{{Width: 32, Height: 24}}

	if out := h.orch.Baseline(ctx, h.cfg); !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}

	mutated := h.cfg
	mutated.BeforeShot = hideParagraphsHook
	if out := h.orch.Test(ctx, mutated); out.OK || len(out.Result.Fails) != 2 {
		t.Fatalf("expected both shots to fail, got %+v", out.Result)
	}

	approveCfg := h.cfg
	approveCfg.Names = []string{"home"}
	if out := h.orch.Approve(ctx, approveCfg); !out.OK {
		t.Fatalf("approve failed: %v", out.Err)
	}

	out := h.orch.Test(ctx, mutated)
	if out.OK {
		t.Fatal("feature should still fail")
	}
	if len(out.Result.Tests) != 2 || out.Result.Passes() != 1 {
		t.Fatalf("expected exactly 1 of 2 shots to pass, got %d of %d", out.Result.Passes(), len(out.Result.Tests))
	}
	if len(out.Result.Fails) != 1 || out.Result.Fails[0].Case.Name != "feature" {
		t.Errorf("expected feature to fail, got %+v", out.Result.Fails)
	}
}

func TestOrchestrator_MissingBaseline(t *testing.T) {
	h := newHarness(t)

	out := h.orch.Test(context.Background(), h.cfg)

	if out.OK || out.Kind != pipeline.KindMissingImage {
		t.Fatalf("expected missing-image failure, got %+v", out)
	}
	var missErr *pipeline.MissingImageError
	if !errors.As(out.Err, &missErr) || missErr.Role != pipeline.RoleBaseline {
		t.Errorf("expected missing baseline, got %v", out.Err)
	}
	if out.Result != nil {
		t.Error("a setup failure carries no result")
	}
}

func TestOrchestrator_InvalidConfig(t *testing.T) {
	captured := false
	orch := New(Deps{
		Capture: pipeline.StageFunc[capture.Input, []pipeline.ShotTask](
			func(ctx context.Context, in capture.Input) ([]pipeline.ShotTask, error) {
				captured = true
				return nil, nil
			}),
		Logger: logger.NewNoop(),
	})

	cfg := config.Defaults()
	out := orch.Baseline(context.Background(), cfg)

	if out.OK || out.Kind != pipeline.KindConfiguration {
		t.Errorf("expected configuration failure, got %+v", out)
	}
	if captured {
		t.Error("capture must not run with an invalid config")
	}
}

func TestOrchestrator_Server(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantURL string
	}{
		{"default url is replaced", config.DefaultURL, "http://127.0.0.1:4555"},
		{"explicit url is kept", "http://site.test", "http://site.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &mocks.StaticServer{URL: "http://127.0.0.1:4555"}
			var gotURL string
			orch := New(Deps{
				Capture: pipeline.StageFunc[capture.Input, []pipeline.ShotTask](
					func(ctx context.Context, in capture.Input) ([]pipeline.ShotTask, error) {
						gotURL = in.Config.URL
						if !server.Running() {
							t.Error("server must run during capture")
						}
						return []pipeline.ShotTask{{ID: "home-1x1", Success: true}}, nil
					}),
				Server: server,
				Logger: logger.NewNoop(),
			})

			cfg := config.Defaults()
			cfg.URL = tt.url
			cfg.Cases = []pipeline.Case{{Name: "home"}}
			cfg.Server.Root = "public"

			out := orch.Baseline(context.Background(), cfg)
			if !out.OK {
				t.Fatalf("baseline failed: %v", out.Err)
			}
			if gotURL != tt.wantURL {
				t.Errorf("expected capture URL %s, got %s", tt.wantURL, gotURL)
			}
			if server.Running() {
				t.Error("server must be stopped after the run")
			}
			if opts := server.Options(); opts.Root != "public" || opts.Port != 4000 || !opts.Single {
				t.Errorf("unexpected server options %+v", opts)
			}
		})
	}
}

func TestOrchestrator_ServerStoppedOnFailure(t *testing.T) {
	server := &mocks.StaticServer{}
	orch := New(Deps{
		Capture: pipeline.StageFunc[capture.Input, []pipeline.ShotTask](
			func(ctx context.Context, in capture.Input) ([]pipeline.ShotTask, error) {
				return nil, &pipeline.CaptureError{TaskID: "home-1x1", Err: errors.New("crash")}
			}),
		Server: server,
		Logger: logger.NewNoop(),
	})

	cfg := config.Defaults()
	cfg.Cases = []pipeline.Case{{Name: "home"}}
	cfg.Server.Root = "public"

	out := orch.Test(context.Background(), cfg)
	if out.Kind != pipeline.KindCapture {
		t.Errorf("expected capture failure, got %s", out.Kind)
	}
	if starts, stops := server.Counts(); starts != 1 || stops != 1 {
		t.Errorf("expected one start and one stop, got %d/%d", starts, stops)
	}
}

func TestOrchestrator_ServerStartFailure(t *testing.T) {
	server := &mocks.StaticServer{
		StartFunc: func(opts ports.ServerOptions) (string, error) {
			return "", errors.New("address in use")
		},
	}
	orch := New(Deps{Server: server, Logger: logger.NewNoop()})

	cfg := config.Defaults()
	cfg.Cases = []pipeline.Case{{Name: "home"}}
	cfg.Server.Root = "public"

	out := orch.Baseline(context.Background(), cfg)
	if out.OK || out.Kind != pipeline.KindServer {
		t.Errorf("expected server failure, got %+v", out)
	}
}

func TestOrchestrator_DebugOutputAndReport(t *testing.T) {
	h := newHarness(t)
	h.cfg.Report = filepath.Join(t.TempDir(), "reports", "shots.md")

	out := h.orch.Baseline(context.Background(), h.cfg)
	if !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}

	if len(h.sink.ConfigJSON) == 0 {
		t.Error("expected resolved config to be saved")
	}
	data, ok := h.sink.Result(pipeline.TaskBaseline)
	if !ok {
		t.Fatal("expected baseline result to be saved")
	}
	var doc struct {
		Task   string          `json:"task"`
		OK     bool            `json:"ok"`
		Result pipeline.Result `json:"result"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("result JSON is invalid: %v", err)
	}
	if !doc.OK || len(doc.Result.Tests) != 6 {
		t.Errorf("unexpected debug result %+v", doc)
	}

	report, err := os.ReadFile(h.cfg.Report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "# Visual Regression Report") {
		t.Error("unexpected report contents")
	}
}

func TestOrchestrator_QuietSuppressesSummary(t *testing.T) {
	h := newHarness(t)
	h.cfg.LogLevel = "silent"

	if out := h.orch.Baseline(context.Background(), h.cfg); !out.OK {
		t.Fatalf("baseline failed: %v", out.Err)
	}
	if h.console.Len() != 0 {
		t.Errorf("expected no summary in quiet mode, got %q", h.console.String())
	}
}

func TestOrchestrator_ApproveFailure(t *testing.T) {
	failed := []string{"current/home-1x1.png"}
	orch := New(Deps{
		Approve: pipeline.StageFunc[approve.Input, pipeline.Approval](
			func(ctx context.Context, in approve.Input) (pipeline.Approval, error) {
				return pipeline.Approval{Filepaths: []string{}, Failed: failed}, &pipeline.ApprovalError{Failed: failed}
			}),
		Logger: logger.NewNoop(),
	})

	out := orch.Approve(context.Background(), config.Defaults())

	if out.OK || out.Kind != pipeline.KindApproval {
		t.Fatalf("expected approval failure, got %+v", out)
	}
	if out.Approval == nil || len(out.Approval.Failed) != 1 {
		t.Errorf("expected failed copies on the outcome, got %+v", out.Approval)
	}
}
