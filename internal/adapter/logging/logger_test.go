package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLoggerFromCore(core)

	child := logger.With("session", "abc")
	child.Info("Connection established", "remote", "127.0.0.1:5000")
	logger.Warn("Plain entry")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session"] != "abc" || fields["remote"] != "127.0.0.1:5000" {
		t.Fatalf("fields = %v", fields)
	}
	if _, ok := entries[1].ContextMap()["session"]; ok {
		t.Fatal("With must not change the parent logger")
	}
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewZapLoggerFromCore(core)

	logger.Debug("hidden")
	logger.Info("shown")
	logger.Error("failed", "error", "boom")

	if logs.Len() != 2 {
		t.Fatalf("got %d entries, want 2", logs.Len())
	}
	if logs.FilterMessage("failed").All()[0].Level != zap.ErrorLevel {
		t.Fatal("Error must log at error level")
	}
}

func TestNewZapLogger(t *testing.T) {
	// A bad level falls back to the default; a bad output path gives a
	// logger that still accepts calls.
	for _, opts := range []Options{{}, {Level: "debug"}, {Level: "loud"}, {Output: "/nonexistent/dir/log"}} {
		logger := NewZapLogger(opts)
		logger.Info("started", "opts", opts)
		logger.Sync()
	}
	NewNopLogger().Error("ignored")
}
