package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
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
}

func TestLoggerTextOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, "text"); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	_ = SetLevelString("info")

	ctx := context.Background()
	Get().Info(ctx, "recompute finished",
		String("run", "r-1"),
		Int("updated", 3),
		Bool("success", true),
		Duration("took", 2*time.Millisecond),
	)

	line := buf.String()
	for _, want := range []string{"recompute finished", "run=r-1", "updated=3", "success=true", "source=logger_test.go"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, "json"); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	_ = SetLevelString("info")

	Named("driver").Error(context.Background(), "write failed", Error(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["component"] != "driver" {
		t.Errorf("expected component=driver, got %v", rec["component"])
	}
	if rec["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", rec["error"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, "text"); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	Get().Debug(context.Background(), "hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	Get().Warn(context.Background(), "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestSetLevelStringRejectsUnknown(t *testing.T) {
	if err := SetLevelString("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestInitWithRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := InitWith(nil, "text"); err == nil {
		t.Fatal("expected error for nil writer")
	}
}
