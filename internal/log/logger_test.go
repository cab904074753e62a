package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestComponentStamping(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: ComponentWorker,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("Pending sweep complete", "count", 3)

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentWorker) {
		t.Errorf("missing component field: %s", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("missing attribute: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.WithComponent(ComponentExport).Info("Ledger row appended")

	if !strings.Contains(buf.String(), ComponentExport) {
		t.Errorf("missing rescoped component: %s", buf.String())
	}
}

func TestDebugBelowLevelSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	})

	logger.Debug("noise")
	if buf.Len() != 0 {
		t.Errorf("debug line emitted at info level: %s", buf.String())
	}
}
