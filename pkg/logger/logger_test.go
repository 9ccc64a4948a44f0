package logger

import (
	"codeshift/pkg/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"verbose": zapcore.InfoLevel,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "codeshift.log")
	cfg := &types.Config{
		Server: types.ServerConfig{LogLevel: "info"},
		Log:    types.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("translation finished")
	logger.Debug("filtered out")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "translation finished") {
		t.Errorf("expected info line in log file, got %q", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Error("debug line must be filtered at info level")
	}
	if !strings.Contains(out, `"time"`) {
		t.Error("expected time key in file output")
	}
}
