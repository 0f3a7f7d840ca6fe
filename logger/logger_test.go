package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "reactivity", buf)
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").WithComponent("discovery")

	l.Info("domains loaded", Fields("count", 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "domains loaded" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
	if entry[FieldComponent] != "discovery" {
		t.Errorf("expected component=discovery, got %v", entry[FieldComponent])
	}
	if entry["service"] != "reactivity" {
		t.Errorf("expected service=reactivity, got %v", entry["service"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("expected count=3, got %v", entry["count"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "not-a-level")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info level, got %q", buf.String())
	}
}

func TestConsoleFormatNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "reactivity", &buf)
	l.Warn("careful")
	if !strings.Contains(buf.String(), "[WRN]") {
		t.Errorf("expected [WRN] tag, got %q", buf.String())
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected stderr default, got %q", cfg.Output)
	}

	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("odd trailing key should be dropped, got %v", f)
	}
	ef := ErrorFields("fetch", errors.New("x"))
	if ef[FieldOperation] != "fetch" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields: %v", ef)
	}
	df := DurationFields("fetch", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration: %v", df[FieldDuration])
	}
}

func TestRegistryGet(t *testing.T) {
	var buf bytes.Buffer
	named := newJSONLogger(&buf, "info")
	Register("named-test", named)
	if Get("named-test") != named {
		t.Error("expected registered logger")
	}
	if Get("unregistered-test") == nil {
		t.Error("expected fallback logger")
	}
}

func TestRegisterLevels(t *testing.T) {
	var buf bytes.Buffer
	base := newJSONLogger(&buf, "warn")
	registerLevels(base, map[string]string{"discovery": "debug", "api": "bogus"})
	t.Cleanup(func() { registerLevels(nil, nil) })

	Get("discovery").Debug("fetching")
	if !strings.Contains(buf.String(), `"component":"discovery"`) {
		t.Errorf("expected discovery debug line, got %q", buf.String())
	}

	buf.Reset()
	components.RLock()
	_, ok := components.loggers["api"]
	components.RUnlock()
	if ok {
		t.Error("invalid level should not register a logger")
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}
