// Package config provides configuration loading and management.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = ".shotsrc.yml"

// DefaultURL is the base URL used when none is configured.
// It matches the default port of the static server.
const DefaultURL = "http://localhost:4000"

// Engines.
const (
	EngineChrome     = "chrome"
	EnginePlaywright = "playwright"
)

// Hook runs against the live session of a capture task.
// BeforeShot hooks run after navigation and viewport setup, right before
// the capture; AfterShot hooks run once the image is on disk.
type Hook func(ctx context.Context, task *pipeline.ShotTask, hc HookContext) error

// HookContext is handed to hooks.
type HookContext struct {
	Session ports.Session
	Config  Config
}

// Config is a fully resolved configuration. It is built once per
// invocation and passed by value; stages never modify it.
type Config struct {
	URL       string              `json:"url"`
	Cases     []pipeline.Case     `json:"cases"`
	Viewports []pipeline.Viewport `json:"viewports"`
	Threshold float64             `json:"threshold"` // Per-pixel color distance tolerance (0-1)

	BaseDir    string `json:"baseDir"`
	CurrentDir string `json:"currentDir"`

	// Approval filter; empty approves every shot
	Names []string `json:"names,omitempty"`

	Server ServerConfig `json:"server"`

	// Rendering
	Engine       string `json:"engine"`
	ChromePath   string `json:"chromePath,omitempty"`
	FullPage     bool   `json:"fullPage"`
	BeforeScript string `json:"beforeScript,omitempty"`
	AfterScript  string `json:"afterScript,omitempty"`
	BeforeShot   Hook   `json:"-"`
	AfterShot    Hook   `json:"-"`

	// Behaviour
	LogLevel string `json:"log,omitempty"`
	Exit     bool   `json:"exit"`
	Debug    bool   `json:"debug"`
	DebugDir string `json:"debugDir"`
	Report   string `json:"report,omitempty"` // Markdown report path; empty disables it
}

// ServerConfig configures the optional local static server.
// The server runs only when Root is set.
type ServerConfig struct {
	Root   string `yaml:"root" json:"root,omitempty"`
	Port   int    `yaml:"port" json:"port"`
	Single bool   `yaml:"single" json:"single"`
}

// Enabled reports whether the static server should run.
func (s ServerConfig) Enabled() bool {
	return s.Root != ""
}

// Options converts to the server port options.
func (s ServerConfig) Options() ports.ServerOptions {
	return ports.ServerOptions{Root: s.Root, Port: s.Port, Single: s.Single}
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		URL: DefaultURL,
		Viewports: []pipeline.Viewport{
			{Width: 1400, Height: 1024}, // Wide screen
			{Width: 1024, Height: 768},  // Desktop / landscape tablet
			{Width: 768, Height: 1024},  // Portrait tablet
			{Width: 320, Height: 640},   // Mobile
		},
		Threshold:  0.05,
		BaseDir:    ".shots/base",
		CurrentDir: ".shots/current",
		Server: ServerConfig{
			Port:   4000,
			Single: true,
		},
		Engine:   EngineChrome,
		FullPage: true,
		DebugDir: ".shots/debug",
	}
}

// Validate checks the invariants required by capture operations.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return &pipeline.ConfigurationError{Field: "url", Msg: "server path required"}
	}
	if len(c.Cases) == 0 {
		return &pipeline.ConfigurationError{Field: "cases", Msg: "no test cases have been configured"}
	}
	seen := make(map[string]bool, len(c.Cases))
	for i, tc := range c.Cases {
		if tc.Name == "" {
			return &pipeline.ConfigurationError{Field: "cases", Msg: fmt.Sprintf("case %d has no name", i)}
		}
		if seen[tc.Name] {
			return &pipeline.ConfigurationError{Field: "cases", Msg: fmt.Sprintf("duplicate case name %q", tc.Name)}
		}
		seen[tc.Name] = true
	}
	if len(c.Viewports) == 0 {
		return &pipeline.ConfigurationError{Field: "viewports", Msg: "no viewports have been configured"}
	}
	for _, vp := range c.Viewports {
		if vp.Width <= 0 || vp.Height <= 0 {
			return &pipeline.ConfigurationError{Field: "viewports", Msg: fmt.Sprintf("invalid viewport %s", vp)}
		}
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return &pipeline.ConfigurationError{Field: "threshold", Msg: fmt.Sprintf("%g is outside 0-1", c.Threshold)}
	}
	switch c.Engine {
	case "", EngineChrome, EnginePlaywright:
	default:
		return &pipeline.ConfigurationError{Field: "engine", Msg: fmt.Sprintf("unknown engine %q", c.Engine)}
	}
	return nil
}

// ApplyLogLevel sets the verbosity of log from the configuration, if any.
func (c Config) ApplyLogLevel(log ports.Logger) {
	if c.LogLevel != "" {
		log.SetLevel(ports.ParseLogLevel(c.LogLevel))
	}
}

// Resolve merges Defaults, the config file at path (when it exists) and
// inline, in that order. With validate the result must satisfy Validate.
func Resolve(inline Partial, path string, validate bool) (Config, error) {
	var layers []Partial
	if path != "" {
		file, ok, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		if ok {
			layers = append(layers, file)
		}
	}
	layers = append(layers, inline)

	cfg := Merge(Defaults(), layers...)
	if validate {
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// LoadFile reads a YAML config file. ok is false when the file does not exist.
func LoadFile(path string) (p Partial, ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Partial{}, false, nil
	}
	if err != nil {
		return Partial{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Partial{}, false, &pipeline.ConfigurationError{Field: "file", Msg: fmt.Sprintf("%s: %v", path, err)}
	}
	return p, true, nil
}

// ParseViewports parses "WxH[,WxH...]".
func ParseViewports(s string) ([]pipeline.Viewport, error) {
	var viewports []pipeline.Viewport
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, h, found := strings.Cut(strings.ToLower(part), "x")
		if !found {
			return nil, &pipeline.ConfigurationError{Field: "viewports", Msg: fmt.Sprintf("%q is not WxH", part)}
		}
		width, err := strconv.Atoi(strings.TrimSpace(w))
		if err != nil || width <= 0 {
			return nil, &pipeline.ConfigurationError{Field: "viewports", Msg: fmt.Sprintf("invalid width in %q", part)}
		}
		height, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil || height <= 0 {
			return nil, &pipeline.ConfigurationError{Field: "viewports", Msg: fmt.Sprintf("invalid height in %q", part)}
		}
		viewports = append(viewports, pipeline.Viewport{Width: width, Height: height})
	}
	if len(viewports) == 0 {
		return nil, &pipeline.ConfigurationError{Field: "viewports", Msg: "empty viewport list"}
	}
	return viewports, nil
}
