package internal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR": LogLevelError,
		"warn":  LogLevelWarn,
		" Info": LogLevelInfo,
		"DEBUG": LogLevelDebug,
		"":      LogLevelInfo,
		"TRACE": LogLevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestLoggerFiltersAndTags(t *testing.T) {
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	log.SetOutput(&buf)

	l := NewLogger(LogLevelWarn).For("Reflow")
	l.Info("hidden %d", 1)
	l.Warn("rebuild took %s", "2s")
	l.Error("boom")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info should be filtered at WARN level: %q", out)
	}
	if !strings.Contains(out, "[WARN] [Reflow] rebuild took 2s") {
		t.Errorf("Missing tagged warning: %q", out)
	}
	if !strings.Contains(out, "[ERROR] [Reflow] boom") {
		t.Errorf("Missing tagged error: %q", out)
	}
}
