package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/shots/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewConsoleWriter(ports.LevelInfo, &stdout, &stderr, false)

	log.Debug("hidden")
	log.Info("shown %d", 1)
	log.Warn("warned")
	log.Error("failed")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(stdout.String(), "shown 1") {
		t.Errorf("expected info on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "warned") || !strings.Contains(stderr.String(), "failed") {
		t.Errorf("expected warn and error on stderr, got %q", stderr.String())
	}
}

func TestConsoleLogger_ComponentSharesLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewConsoleWriter(ports.LevelInfo, &stdout, &stderr, false)
	component := log.WithComponent("capture")

	log.SetLevel(ports.LevelDebug)
	component.Debug("saved")

	if got := stdout.String(); got != "[capture] saved\n" {
		t.Errorf("unexpected output %q", got)
	}
	if component.Level() != ports.LevelDebug {
		t.Errorf("component level should follow parent, got %s", component.Level())
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewConsoleWriter(ports.ParseLogLevel("silent"), &stdout, &stderr, false)

	log.Error("nothing")

	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Error("quiet logger should not write anything")
	}
}

func TestConsoleLogger_Color(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &stdout, &stderr, true)

	log.Error("boom")

	if !strings.HasPrefix(stderr.String(), colorRed) {
		t.Errorf("expected red error output, got %q", stderr.String())
	}
}
