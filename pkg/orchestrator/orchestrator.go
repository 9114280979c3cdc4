// Package orchestrator coordinates the stages of each operation.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
	"github.com/user/shots/pkg/stages/aggregate"
	"github.com/user/shots/pkg/stages/approve"
	"github.com/user/shots/pkg/stages/capture"
	"github.com/user/shots/pkg/stages/compare"
	"github.com/user/shots/pkg/summarizer"
)

// Deps holds the collaborators of an Orchestrator.
type Deps struct {
	Capture pipeline.Stage[capture.Input, []pipeline.ShotTask]
	Compare pipeline.Stage[compare.Input, []pipeline.ShotTask]
	Approve pipeline.Stage[approve.Input, pipeline.Approval]

	Server ports.StaticServer // Optional; required only when the config enables the server
	FS     ports.FileSystem
	Sink   ports.DebugSink
	Logger ports.Logger

	// Console summary
	Console   io.Writer // nil discards the summary
	Color     bool
	Translate summarizer.Translator
	Version   string
}

// Orchestrator runs the baseline, test and approve operations.
type Orchestrator struct {
	deps   Deps
	logger ports.Logger
}

// New creates a new Orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Translate == nil {
		deps.Translate = func(key string) string { return key }
	}
	if deps.Console == nil {
		deps.Console = io.Discard
	}
	return &Orchestrator{deps: deps, logger: deps.Logger}
}

// Baseline captures every shot into cfg.BaseDir.
func (o *Orchestrator) Baseline(ctx context.Context, cfg config.Config) pipeline.Outcome {
	return o.run(ctx, pipeline.TaskBaseline, "Taking baseline shots...", cfg)
}

// Test captures every shot into cfg.CurrentDir and compares it with its baseline.
func (o *Orchestrator) Test(ctx context.Context, cfg config.Config) pipeline.Outcome {
	return o.run(ctx, pipeline.TaskTest, "Running regression tests...", cfg)
}

// Approve promotes current shots matching cfg.Names to the baseline.
func (o *Orchestrator) Approve(ctx context.Context, cfg config.Config) pipeline.Outcome {
	cfg.ApplyLogLevel(o.logger)
	o.saveConfig(cfg)
	o.logger.Info("Approving shots...")

	approval, err := o.deps.Approve.Execute(ctx, approve.Input{
		CurrentDir: cfg.CurrentDir,
		BaseDir:    cfg.BaseDir,
		Names:      cfg.Names,
	})
	if err != nil {
		out := pipeline.Failed(pipeline.TaskApprove, err, nil)
		if approval.Filepaths != nil || approval.Failed != nil {
			out.Approval = &approval
		}
		return o.finish(cfg, out)
	}

	o.logger.Warn("[ok] All shots approved!")
	return o.finish(cfg, pipeline.Outcome{OK: true, Task: pipeline.TaskApprove, Approval: &approval})
}

func (o *Orchestrator) run(ctx context.Context, task, banner string, cfg config.Config) pipeline.Outcome {
	cfg.ApplyLogLevel(o.logger)
	o.logger.Info(banner)
	if err := cfg.Validate(); err != nil {
		return o.finish(cfg, pipeline.Failed(task, err, nil))
	}
	o.saveConfig(cfg)

	cfg, err := o.startServer(cfg)
	if err != nil {
		return o.finish(cfg, pipeline.Failed(task, err, nil))
	}
	defer o.stopServer()

	dir := cfg.CurrentDir
	if task == pipeline.TaskBaseline {
		dir = cfg.BaseDir
	}

	tasks, err := o.deps.Capture.Execute(ctx, capture.Input{Dir: dir, Config: cfg})
	if err != nil {
		return o.finish(cfg, pipeline.Failed(task, err, nil))
	}

	if task == pipeline.TaskTest {
		tasks, err = o.deps.Compare.Execute(ctx, compare.Input{Tasks: tasks, Config: cfg})
		if err != nil {
			return o.finish(cfg, pipeline.Failed(task, err, nil))
		}
	}

	return o.finish(cfg, aggregate.Aggregate(task, tasks))
}

// startServer starts the static server when configured. The server URL
// replaces cfg.URL only when the URL was left at its default.
func (o *Orchestrator) startServer(cfg config.Config) (config.Config, error) {
	if !cfg.Server.Enabled() {
		return cfg, nil
	}
	if o.deps.Server == nil {
		return cfg, &pipeline.ServerError{Err: fmt.Errorf("no static server available to serve %s", cfg.Server.Root)}
	}

	url, err := o.deps.Server.Start(cfg.Server.Options())
	if err != nil {
		return cfg, &pipeline.ServerError{Err: err}
	}
	if cfg.URL == config.DefaultURL {
		cfg.URL = url
	}
	return cfg, nil
}

func (o *Orchestrator) stopServer() {
	if o.deps.Server == nil {
		return
	}
	if err := o.deps.Server.Stop(); err != nil {
		o.logger.Warn("Failed to stop static server: %s", err)
	}
}

// finish releases the server, reports the outcome and returns it.
func (o *Orchestrator) finish(cfg config.Config, out pipeline.Outcome) pipeline.Outcome {
	o.stopServer()

	if out.Result != nil {
		o.printSummary(cfg, out.Result)
		o.writeReport(cfg, out.Result)
	}

	if !out.OK && out.Err != nil {
		if cfg.Debug {
			o.logger.Error("%s error: %+v", out.Kind, out.Err)
		} else {
			o.logger.Error("%s", out.Err)
		}
	}

	o.saveOutcome(out)
	return out
}

func (o *Orchestrator) printSummary(cfg config.Config, result *pipeline.Result) {
	level := o.logger.Level()
	if level >= ports.LevelQuiet {
		return
	}

	summary := summarizer.NewBuilder().WithResult(result).WithConfig(cfg).Build()
	text := summarizer.NewTextFormatter(
		summarizer.WithColor(o.deps.Color),
		summarizer.WithDetails(level <= ports.LevelWarn),
		summarizer.WithTextTranslator(o.deps.Translate),
	).Format(summary)
	if text != "" {
		fmt.Fprintln(o.deps.Console, text)
	}
}

func (o *Orchestrator) writeReport(cfg config.Config, result *pipeline.Result) {
	if cfg.Report == "" || o.deps.FS == nil {
		return
	}

	summary := summarizer.NewBuilder().WithResult(result).WithConfig(cfg).Build()
	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(o.deps.Translate),
		summarizer.WithVersion(o.deps.Version),
	)
	if err := summarizer.NewWriter(formatter, o.deps.FS).Write(cfg.Report, summary); err != nil {
		o.logger.Warn("Failed to write report: %s", err)
		return
	}
	o.logger.Info("Report saved to %s", cfg.Report)
}

// outcomeJSON is the debug form of an Outcome.
type outcomeJSON struct {
	Task     string             `json:"task"`
	OK       bool               `json:"ok"`
	Kind     string             `json:"kind,omitempty"`
	Error    string             `json:"error,omitempty"`
	Result   *pipeline.Result   `json:"result,omitempty"`
	Approval *pipeline.Approval `json:"approval,omitempty"`
}

func (o *Orchestrator) saveConfig(cfg config.Config) {
	if o.deps.Sink == nil || !o.deps.Sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err == nil {
		err = o.deps.Sink.SaveConfigJSON(data)
	}
	if err != nil {
		o.logger.Warn("Failed to write debug output: %s", err)
	}
}

func (o *Orchestrator) saveOutcome(out pipeline.Outcome) {
	if o.deps.Sink == nil || !o.deps.Sink.Enabled() {
		return
	}
	doc := outcomeJSON{
		Task:     out.Task,
		OK:       out.OK,
		Result:   out.Result,
		Approval: out.Approval,
	}
	if out.Err != nil {
		doc.Kind = out.Kind.String()
		doc.Error = out.Err.Error()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err == nil {
		err = o.deps.Sink.SaveResultJSON(out.Task, data)
	}
	if err != nil {
		o.logger.Warn("Failed to write debug output: %s", err)
	}
}
