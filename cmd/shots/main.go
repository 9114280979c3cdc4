// Package main provides the CLI entry point for shots.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/shots/pkg/adapters/logger"
	"github.com/user/shots/pkg/config"
	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
	"github.com/user/shots/pkg/shots"
)

var version = "dev"

// runFunc executes task with the inline configuration built from the flags.
type runFunc func(c *cli.Context, task string, inline config.Partial) error

func main() {
	app := newApp(run)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(run runFunc) *cli.App {
	action := func(task string) cli.ActionFunc {
		return func(c *cli.Context) error {
			inline, err := inlineConfig(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			return run(c, task, inline)
		}
	}

	return &cli.App{
		Name:    "shots",
		Usage:   l10n.T("Visual regression testing for web pages"),
		Version: version,
		Description: l10n.T("shots captures screenshots of web pages across viewports, " +
			"compares them with approved baselines and reports the differences."),
		Flags:  flags(),
		Action: action(pipeline.TaskTest),
		Commands: []*cli.Command{
			{
				Name:        "baseline",
				Usage:       l10n.T("Take baseline shots"),
				Description: l10n.T("Capture every case at every viewport into the baseline directory."),
				Flags:       flags(),
				Action:      action(pipeline.TaskBaseline),
			},
			{
				Name:        "test",
				Usage:       l10n.T("Run regression tests against the baseline"),
				Description: l10n.T("Capture current shots and compare them with the baseline shots."),
				Flags:       flags(),
				Action:      action(pipeline.TaskTest),
			},
			{
				Name:        "approve",
				Usage:       l10n.T("Approve current shots as the new baseline"),
				Description: l10n.T("Copy current shots over the baseline. Use --name to approve selected cases only."),
				Flags:       flags(),
				Action:      action(pipeline.TaskApprove),
			},
		},
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		// Target
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: l10n.T("Base URL the case paths are resolved against"), Category: l10n.T("Target")},
		&cli.StringSliceFlag{Name: "case", Usage: l10n.T("Test case as name=path (repeatable)"), Category: l10n.T("Target")},
		&cli.StringFlag{Name: "viewports", Aliases: []string{"V"}, Usage: l10n.T("Viewports as WxH[,WxH...]"), Category: l10n.T("Target")},
		&cli.StringFlag{Name: "serve", Usage: l10n.T("Serve this directory locally while capturing"), Category: l10n.T("Target")},
		&cli.IntFlag{Name: "port", Usage: l10n.T("Port of the local server"), Category: l10n.T("Target")},

		// Comparison
		&cli.Float64Flag{Name: "threshold", Aliases: []string{"T"}, Usage: l10n.T("Per-pixel color distance tolerance (0-1)"), Category: l10n.T("Comparison")},
		&cli.StringSliceFlag{Name: "name", Aliases: []string{"N"}, Usage: l10n.T("Approve only shots of this case (repeatable)"), Category: l10n.T("Comparison")},

		// Output
		&cli.StringFlag{Name: "shots-dir", Aliases: []string{"S"}, Usage: l10n.T("Directory holding base/ and current/ shots"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "base-dir", Usage: l10n.T("Baseline shots directory"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "current-dir", Usage: l10n.T("Current shots directory"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "report", Usage: l10n.T("Write a Markdown report to this path"), Category: l10n.T("Output")},

		// Browser
		&cli.StringFlag{Name: "engine", Usage: l10n.T("Rendering engine (chrome, playwright)"), Category: l10n.T("Browser")},
		&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable"), EnvVars: []string{"CHROME_PATH"}, Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "viewport-only", Usage: l10n.T("Capture the viewport instead of the full page"), Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "no-headless", Usage: l10n.T("Run browser in non-headless mode"), Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "no-incognito", Usage: l10n.T("Disable incognito mode"), Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "ignore-https-errors", Usage: l10n.T("Ignore HTTPS certificate errors"), Category: l10n.T("Browser")},
		&cli.StringFlag{Name: "proxy-server", Usage: l10n.T("HTTP proxy server (e.g., http://proxy:8080)"), Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "install-browsers", Usage: l10n.T("Download Playwright browsers on first use"), Category: l10n.T("Browser")},

		// Behaviour
		&cli.StringFlag{Name: "config", Aliases: []string{"C"}, Value: config.DefaultFile, Usage: l10n.T("Config file path"), Category: l10n.T("Behaviour")},
		&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Usage: l10n.T("Log level (trace, debug, info, warn, error, silent)"), Category: l10n.T("Behaviour")},
		&cli.BoolFlag{Name: "exit", Usage: l10n.T("Exit with status 1 when shots fail"), Category: l10n.T("Behaviour")},
		&cli.BoolFlag{Name: "debug", Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
	}
}

// flagSet reads flags across the context lineage. Every command defines
// the same flags, so a flag given before the subcommand lives in a parent
// context; the innermost occurrence wins.
type flagSet struct {
	c *cli.Context
}

func flagsOf(c *cli.Context) flagSet {
	return flagSet{c: c}
}

// lookup returns the context in which name was set, or c when it was not set.
func (f flagSet) lookup(name string) (*cli.Context, bool) {
	for _, ctx := range f.c.Lineage() {
		if ctx.IsSet(name) {
			return ctx, true
		}
	}
	return f.c, false
}

func (f flagSet) IsSet(name string) bool {
	_, ok := f.lookup(name)
	return ok
}

func (f flagSet) String(name string) string {
	ctx, _ := f.lookup(name)
	return ctx.String(name)
}

func (f flagSet) StringSlice(name string) []string {
	ctx, _ := f.lookup(name)
	return ctx.StringSlice(name)
}

func (f flagSet) Bool(name string) bool {
	ctx, _ := f.lookup(name)
	return ctx.Bool(name)
}

func (f flagSet) Int(name string) int {
	ctx, _ := f.lookup(name)
	return ctx.Int(name)
}

func (f flagSet) Float64(name string) float64 {
	ctx, _ := f.lookup(name)
	return ctx.Float64(name)
}

// inlineConfig builds the inline configuration layer from the flags the
// user actually set, before or after the subcommand.
func inlineConfig(ctx *cli.Context) (config.Partial, error) {
	c := flagsOf(ctx)
	b := shots.NewConfigBuilder()

	if c.IsSet("url") {
		b.WithURL(c.String("url"))
	}
	for _, raw := range c.StringSlice("case") {
		name, path, found := strings.Cut(raw, "=")
		if !found || name == "" {
			return config.Partial{}, &pipeline.ConfigurationError{Field: "cases", Msg: fmt.Sprintf("%q is not name=path", raw)}
		}
		b.WithCase(name, path)
	}
	if c.IsSet("viewports") {
		vps, err := config.ParseViewports(c.String("viewports"))
		if err != nil {
			return config.Partial{}, err
		}
		for _, vp := range vps {
			b.WithViewport(vp.Width, vp.Height)
		}
	}
	if c.IsSet("threshold") {
		b.WithThreshold(c.Float64("threshold"))
	}
	if c.IsSet("name") {
		b.WithNames(c.StringSlice("name")...)
	}
	if c.IsSet("shots-dir") {
		b.WithShotsDir(c.String("shots-dir"))
	}
	if c.IsSet("base-dir") {
		b.WithBaseDir(c.String("base-dir"))
	}
	if c.IsSet("current-dir") {
		b.WithCurrentDir(c.String("current-dir"))
	}
	if c.IsSet("report") {
		b.WithReport(c.String("report"))
	}
	if c.IsSet("engine") {
		b.WithEngine(c.String("engine"))
	}
	if c.IsSet("chrome-path") {
		b.WithChromePath(c.String("chrome-path"))
	}
	if c.IsSet("viewport-only") {
		b.WithFullPage(!c.Bool("viewport-only"))
	}
	if c.IsSet("log") {
		b.WithLogLevel(c.String("log"))
	}
	if c.IsSet("exit") {
		b.WithExit(c.Bool("exit"))
	}
	if c.IsSet("debug") || c.IsSet("debug-dir") {
		b.WithDebug(c.Bool("debug") || c.IsSet("debug-dir"), c.String("debug-dir"))
	}

	p := b.Build()
	if c.IsSet("serve") || c.IsSet("port") {
		p.Server = &config.ServerPartial{}
		if c.IsSet("serve") {
			p.Server.Root = config.Ptr(c.String("serve"))
		}
		if c.IsSet("port") {
			p.Server.Port = config.Ptr(c.Int("port"))
		}
	}
	return p, nil
}

func run(cliCtx *cli.Context, task string, inline config.Partial) error {
	c := flagsOf(cliCtx)
	level := ports.LevelInfo
	if c.IsSet("log") {
		level = ports.ParseLogLevel(c.String("log"))
	}
	log := logger.NewConsole(level)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(cliCtx.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := shots.New(
		shots.WithConfigFile(c.String("config")),
		shots.WithLogger(log),
		shots.WithConsole(os.Stdout, log.Color()),
		shots.WithBrowserOptions(ports.BrowserOptions{
			Headless:          !c.Bool("no-headless"),
			Incognito:         !c.Bool("no-incognito"),
			IgnoreHTTPSErrors: c.Bool("ignore-https-errors"),
			ProxyServer:       c.String("proxy-server"),
		}),
		shots.WithPlaywrightInstall(c.Bool("install-browsers")),
		shots.WithTranslator(l10n.T),
		shots.WithVersion(version),
	)

	cfg, err := runner.Resolve(inline)
	if err != nil {
		log.Error("%s", err)
		if inline.Exit != nil && *inline.Exit {
			return cli.Exit("", 1)
		}
		return nil
	}

	out := runner.Run(ctx, task, cfg)
	if cfg.Exit && !out.OK {
		return cli.Exit("", 1)
	}
	return nil
}
