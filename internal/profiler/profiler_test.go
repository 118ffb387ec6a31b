package profiler

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestScopeLogsElapsedOnCall(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New(log)

	end := p.Scope("frame")
	time.Sleep(time.Millisecond)
	if buf.Len() != 0 {
		t.Fatal("Scope should not log before the returned closure is called")
	}

	end()
	out := buf.String()
	if !strings.Contains(out, "name=frame") {
		t.Errorf("log output = %q, missing name=frame", out)
	}
	if !strings.Contains(out, "elapsed=") {
		t.Errorf("log output = %q, missing elapsed=", out)
	}
}

func TestNewFallsBackToDefaultLogger(t *testing.T) {
	p := New(nil)
	if p.log == nil {
		t.Fatal("New(nil) should fall back to a non-nil logger")
	}
}
