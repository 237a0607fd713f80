package clog

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/hashicorp/logutils"
)

// withCapturedOutput installs a fresh filtered logger writing to buf instead
// of os.Stderr, mirroring Init's wiring but redirecting the sink for
// assertions.
func withCapturedOutput(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	minLevel := logutils.LogLevel("WARN")
	if verbose {
		minLevel = logutils.LogLevel("DEBUG")
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN"},
		MinLevel: minLevel,
		Writer:   &buf,
	}
	old := logger
	logger = log.New(filter, "", 0)
	t.Cleanup(func() { logger = old })
	return &buf
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	buf := withCapturedOutput(t, false)
	Debug("tokenized %d tokens", 5)
	if buf.Len() != 0 {
		t.Errorf("expected DEBUG to be suppressed, got %q", buf.String())
	}
}

func TestDebugShownWhenVerbose(t *testing.T) {
	buf := withCapturedOutput(t, true)
	Debug("tokenized %d tokens", 5)
	if !strings.Contains(buf.String(), "tokenized 5 tokens") {
		t.Errorf("expected DEBUG output, got %q", buf.String())
	}
}

func TestWarnAlwaysShown(t *testing.T) {
	buf := withCapturedOutput(t, false)
	Warn("falling back to default")
	if !strings.Contains(buf.String(), "falling back to default") {
		t.Errorf("expected WARN to pass the filter even when not verbose, got %q", buf.String())
	}
}
