package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	Get().Info(context.Background(), "test message", String("k", "v"))
}

func TestLoggerNamedAndWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug).Named("ingest").With(String("run_id", "r-1"))

	l.Warn(context.Background(), "skipping file", String("file", "bad.csv"), Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"level=WARN", "logger=ingest", "run_id=r-1", "file=bad.csv", "error=boom", "source="} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	var lv slog.LevelVar
	lv.Set(slog.LevelWarn)
	l := New(&buf, &lv)

	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Error(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatal("error should pass the warn level")
	}
}

func TestSetLevelString(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) = %v", level, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}
