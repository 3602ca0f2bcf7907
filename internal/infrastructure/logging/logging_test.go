package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure_LevelAndFormat(t *testing.T) {
	logger := logrus.New()
	var out bytes.Buffer

	closer, err := configure(logger, Config{Level: "warn", Format: "json"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.WithField("url", "https://example.com").Warn("shown")

	got := out.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("expected info to be filtered, got %q", got)
	}
	if !strings.Contains(got, `"msg":"shown"`) || !strings.Contains(got, `"url":"https://example.com"`) {
		t.Errorf("expected json entry, got %q", got)
	}
}

func TestConfigure_Invalid(t *testing.T) {
	tests := []Config{
		{Level: "loud"},
		{Format: "xml"},
	}

	for _, cfg := range tests {
		if _, err := configure(logrus.New(), cfg, &bytes.Buffer{}); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestConfigure_File(t *testing.T) {
	logger := logrus.New()
	path := filepath.Join(t.TempDir(), "logs", "pagesummarizer.log")
	var out bytes.Buffer

	closer, err := configure(logger, Config{File: path}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("to both")
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") || !strings.Contains(out.String(), "to both") {
		t.Errorf("expected entry in file and console, file=%q console=%q", data, out.String())
	}
}
