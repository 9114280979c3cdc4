package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/user/shots/pkg/pipeline"
)

// Partial is one configuration layer: a config file or inline overrides.
// Nil pointers and nil slices mean "not set" and leave the lower layer alone.
type Partial struct {
	URL        *string             `yaml:"url"`
	Cases      []pipeline.Case     `yaml:"cases"`
	Viewports  []pipeline.Viewport `yaml:"viewports"`
	Threshold  *float64            `yaml:"threshold"`
	BaseDir    *string             `yaml:"base_dir"`
	CurrentDir *string             `yaml:"current_dir"`
	Names      NameList            `yaml:"name"`
	Server     *ServerPartial      `yaml:"server"`

	Engine       *string `yaml:"engine"`
	ChromePath   *string `yaml:"chrome_path"`
	FullPage     *bool   `yaml:"full_page"`
	BeforeScript *string `yaml:"before_script"`
	AfterScript  *string `yaml:"after_script"`
	BeforeShot   Hook    `yaml:"-"`
	AfterShot    Hook    `yaml:"-"`

	LogLevel *string `yaml:"log"`
	Exit     *bool   `yaml:"exit"`
	Debug    *bool   `yaml:"debug"`
	DebugDir *string `yaml:"debug_dir"`
	Report   *string `yaml:"report"`
}

// ServerPartial is the server block of a Partial.
type ServerPartial struct {
	Root   *string `yaml:"root"`
	Port   *int    `yaml:"port"`
	Single *bool   `yaml:"single"`
}

// NameList accepts either a single name or a list of names.
type NameList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NameList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = NameList{value.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*n = names
		return nil
	default:
		return fmt.Errorf("line %d: name must be a string or a list of strings", value.Line)
	}
}

// Merge applies layers over base, later layers winning, and returns the
// result without modifying base or any layer.
//
// Field by field: scalars are replaced when the layer pointer is non-nil;
// Cases, Viewports and Names are replaced wholesale when the layer slice is
// non-nil (an explicitly empty list replaces too); the server block merges
// per field; hooks are replaced when non-nil.
func Merge(base Config, layers ...Partial) Config {
	cfg := base
	cfg.Cases = cloneSlice(base.Cases)
	cfg.Viewports = cloneSlice(base.Viewports)
	cfg.Names = cloneSlice(base.Names)

	for _, l := range layers {
		setString(&cfg.URL, l.URL)
		if l.Cases != nil {
			cfg.Cases = cloneSlice(l.Cases)
		}
		if l.Viewports != nil {
			cfg.Viewports = cloneSlice(l.Viewports)
		}
		if l.Threshold != nil {
			cfg.Threshold = *l.Threshold
		}
		setString(&cfg.BaseDir, l.BaseDir)
		setString(&cfg.CurrentDir, l.CurrentDir)
		if l.Names != nil {
			cfg.Names = cloneSlice([]string(l.Names))
		}
		if l.Server != nil {
			setString(&cfg.Server.Root, l.Server.Root)
			if l.Server.Port != nil {
				cfg.Server.Port = *l.Server.Port
			}
			setBool(&cfg.Server.Single, l.Server.Single)
		}

		setString(&cfg.Engine, l.Engine)
		setString(&cfg.ChromePath, l.ChromePath)
		setBool(&cfg.FullPage, l.FullPage)
		setString(&cfg.BeforeScript, l.BeforeScript)
		setString(&cfg.AfterScript, l.AfterScript)
		if l.BeforeShot != nil {
			cfg.BeforeShot = l.BeforeShot
		}
		if l.AfterShot != nil {
			cfg.AfterShot = l.AfterShot
		}

		setString(&cfg.LogLevel, l.LogLevel)
		setBool(&cfg.Exit, l.Exit)
		setBool(&cfg.Debug, l.Debug)
		setString(&cfg.DebugDir, l.DebugDir)
		setString(&cfg.Report, l.Report)
	}
	return cfg
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Ptr returns a pointer to v, for filling Partial fields.
func Ptr[T any](v T) *T {
	return &v
}
