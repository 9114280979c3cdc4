// Package capture implements the screenshot capture stage.
package capture

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

// Input is the input of the capture stage.
type Input struct {
	Dir    string // Destination directory of the shots
	Config config.Config
}

// Stage captures one shot per (viewport, case) pair.
type Stage struct {
	browser ports.Browser
	fs      ports.FileSystem
	logger  ports.Logger
}

// New creates a new capture stage.
func New(browser ports.Browser, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		browser: browser,
		fs:      fs,
		logger:  logger.WithComponent("capture"),
	}
}

// Plan builds the tasks of a capture run in viewport-major order.
func Plan(dir string, cfg config.Config) []pipeline.ShotTask {
	tasks := make([]pipeline.ShotTask, 0, len(cfg.Viewports)*len(cfg.Cases))
	for _, vp := range cfg.Viewports {
		for _, c := range cfg.Cases {
			tasks = append(tasks, pipeline.NewShotTask(dir, cfg.URL, c, vp))
		}
	}
	return tasks
}

// Execute captures every task concurrently and returns them in plan order.
// The first failure cancels the remaining tasks and is returned as a
// *pipeline.CaptureError. Shots already written stay on disk.
func (s *Stage) Execute(ctx context.Context, input Input) ([]pipeline.ShotTask, error) {
	cfg := input.Config

	if err := s.fs.MkdirAll(input.Dir); err != nil {
		return nil, fmt.Errorf("create shots directory: %w", err)
	}

	tasks := Plan(input.Dir, cfg)
	s.logger.Info("Capturing %d shots (%d cases x %d viewports)",
		len(tasks), len(cfg.Cases), len(cfg.Viewports))

	g, gctx := errgroup.WithContext(ctx)
	for i := range tasks {
		task := &tasks[i]
		g.Go(func() error {
			if err := s.shoot(gctx, task, cfg); err != nil {
				return &pipeline.CaptureError{TaskID: task.ID, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// shoot renders one task in its own session.
func (s *Stage) shoot(ctx context.Context, task *pipeline.ShotTask, cfg config.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Debug("Opening session for %s", task.ID)
	session, err := s.browser.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		session.Close()
		s.logger.Debug("Session closed for %s", task.ID)
	}()

	if err := session.Navigate(task.URL); err != nil {
		return fmt.Errorf("navigate to %s: %w", task.URL, err)
	}
	if err := session.SetViewport(task.Viewport.Width, task.Viewport.Height); err != nil {
		return fmt.Errorf("set viewport %s: %w", task.Viewport, err)
	}

	hc := config.HookContext{Session: session, Config: cfg}

	if cfg.BeforeScript != "" {
		if err := session.Evaluate(cfg.BeforeScript, nil); err != nil {
			return fmt.Errorf("before script: %w", err)
		}
	}
	if cfg.BeforeShot != nil {
		if err := cfg.BeforeShot(ctx, task, hc); err != nil {
			return fmt.Errorf("before shot hook: %w", err)
		}
	}

	data, err := session.Screenshot(cfg.FullPage)
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(task.Result, data); err != nil {
		return fmt.Errorf("write shot: %w", err)
	}
	task.Success = true
	s.logger.Debug("Saved shot to %s", task.Result)

	if cfg.AfterScript != "" {
		if err := session.Evaluate(cfg.AfterScript, nil); err != nil {
			return fmt.Errorf("after script: %w", err)
		}
	}
	if cfg.AfterShot != nil {
		if err := cfg.AfterShot(ctx, task, hc); err != nil {
			return fmt.Errorf("after shot hook: %w", err)
		}
	}
	return nil
}
